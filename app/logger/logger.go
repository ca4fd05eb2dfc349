package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"hodolog/app/config"

	"github.com/sirupsen/logrus"
)

// New builds a logrus logger from the logger configuration. The returned
// cleanup closes the log file, if any.
func New(c *config.Logger) (*logrus.Logger, func(), error) {
	l := logrus.New()
	cleanup := func() {}

	level, err := logrus.ParseLevel(c.Level)
	if err != nil {
		return nil, cleanup, fmt.Errorf("invalid logger.level: %w", err)
	}
	l.SetLevel(level)

	switch strings.ToLower(c.Format) {
	case "json":
		l.SetFormatter(&logrus.JSONFormatter{})
	case "", "text":
		l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	default:
		return nil, cleanup, fmt.Errorf("invalid logger.format %q", c.Format)
	}

	switch strings.ToLower(c.Output) {
	case "", "stdout":
		l.SetOutput(os.Stdout)
	case "stderr":
		l.SetOutput(os.Stderr)
	case "file":
		f, err := openLogFile(c.OutputFile)
		if err != nil {
			return nil, cleanup, err
		}
		l.SetOutput(f)
		cleanup = func() { _ = f.Close() }
	default:
		return nil, cleanup, fmt.Errorf("invalid logger.output %q", c.Output)
	}

	return l, cleanup, nil
}

func openLogFile(path string) (io.WriteCloser, error) {
	if path == "" {
		return nil, fmt.Errorf("logger.output_file is required when logger.output is file")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY|os.O_CREATE, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	return f, nil
}
