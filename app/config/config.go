package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config represents the application configuration.
type Config struct {
	AppName    string
	Server     *Server
	Store      *Store
	Logger     *Logger
	Validation *Validation
	Viper      *viper.Viper
}

// Server holds HTTP server settings.
type Server struct {
	Host            string
	Port            int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

// Addr returns the listen address.
func (s *Server) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// Store selects and configures the post store.
type Store struct {
	Driver       string
	Path         string
	InMemory     bool
	DSN          string
	MaxOpenConns int
	MaxIdleConns int
}

// Logger holds logging settings.
type Logger struct {
	Level      string
	Format     string
	Output     string
	OutputFile string
}

// Validation holds the write-side request rules.
type Validation struct {
	DenyWords       []string
	ContentRequired bool
}

// SetDefaults registers the default value of every key on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("app_name", "hodolog")

	v.SetDefault("server.host", "")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 15*time.Second)
	v.SetDefault("server.write_timeout", 15*time.Second)
	v.SetDefault("server.shutdown_timeout", 30*time.Second)

	v.SetDefault("store.driver", "badger")
	v.SetDefault("store.path", "data/badger")
	v.SetDefault("store.in_memory", false)
	v.SetDefault("store.dsn", "")
	v.SetDefault("store.max_open_conns", 10)
	v.SetDefault("store.max_idle_conns", 5)

	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "text")
	v.SetDefault("logger.output", "stdout")
	v.SetDefault("logger.output_file", "")

	v.SetDefault("validation.deny_words", []string{"바보"})
	v.SetDefault("validation.content_required", false)
}

// LoadConfig loads the configuration. An empty configPath searches the usual
// locations and tolerates a missing file; an explicit path must exist.
func LoadConfig(configPath string) (*Config, error) {
	v := viper.New()
	SetDefaults(v)

	v.SetEnvPrefix("hodolog")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.hodolog")
		v.AddConfigPath("/etc/hodolog")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
		}
	}

	cfg := FromViper(v)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// FromViper builds a Config from the values held by v.
func FromViper(v *viper.Viper) *Config {
	return &Config{
		AppName: v.GetString("app_name"),
		Server: &Server{
			Host:            v.GetString("server.host"),
			Port:            v.GetInt("server.port"),
			ReadTimeout:     v.GetDuration("server.read_timeout"),
			WriteTimeout:    v.GetDuration("server.write_timeout"),
			ShutdownTimeout: v.GetDuration("server.shutdown_timeout"),
		},
		Store: &Store{
			Driver:       strings.ToLower(v.GetString("store.driver")),
			Path:         v.GetString("store.path"),
			InMemory:     v.GetBool("store.in_memory"),
			DSN:          v.GetString("store.dsn"),
			MaxOpenConns: v.GetInt("store.max_open_conns"),
			MaxIdleConns: v.GetInt("store.max_idle_conns"),
		},
		Logger: &Logger{
			Level:      v.GetString("logger.level"),
			Format:     v.GetString("logger.format"),
			Output:     v.GetString("logger.output"),
			OutputFile: v.GetString("logger.output_file"),
		},
		Validation: &Validation{
			DenyWords:       stringList(v, "validation.deny_words"),
			ContentRequired: v.GetBool("validation.content_required"),
		},
		Viper: v,
	}
}

// stringList reads a list setting. Values coming from the environment are
// plain strings and are split on commas so that entries may contain spaces.
func stringList(v *viper.Viper, key string) []string {
	raw, ok := v.Get(key).(string)
	if !ok {
		return v.GetStringSlice(key)
	}
	var out []string
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

// Validate checks the values that cannot be defaulted.
func (c *Config) Validate() error {
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server.port %d", c.Server.Port)
	}
	switch c.Store.Driver {
	case "badger":
		if c.Store.Path == "" && !c.Store.InMemory {
			return errors.New("store.path is required for the badger store")
		}
	case "postgres", "sqlite", "mysql":
		if c.Store.DSN == "" {
			return fmt.Errorf("store.dsn is required for the %s store", c.Store.Driver)
		}
	case "memory":
	default:
		return fmt.Errorf("unknown store.driver %q", c.Store.Driver)
	}
	return nil
}
