package service

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"hodolog/app/config"
	"hodolog/app/logger"
	"hodolog/app/models"
	"hodolog/app/repositories"
	"hodolog/app/routes"
	"hodolog/app/server"
	"hodolog/app/services"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// App holds the components built from a configuration
type App struct {
	Config  *config.Config
	Log     *logrus.Logger
	Store   repositories.Store
	Service *services.PostService

	closeLog func()
}

// NewApp opens the logger and the post store described by cfg
func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	log, closeLog, err := logger.New(cfg.Logger)
	if err != nil {
		return nil, err
	}

	v, err := models.NewValidator(models.ValidatorOptions{
		DenyWords:       cfg.Validation.DenyWords,
		ContentRequired: cfg.Validation.ContentRequired,
	})
	if err != nil {
		closeLog()
		return nil, err
	}

	store, err := repositories.Open(ctx, cfg.Store, log)
	if err != nil {
		closeLog()
		return nil, fmt.Errorf("failed to open store: %w", err)
	}

	return &App{
		Config:   cfg,
		Log:      log,
		Store:    store,
		Service:  services.NewPostService(store, v, log),
		closeLog: closeLog,
	}, nil
}

// Handler returns the HTTP API
func (a *App) Handler() http.Handler {
	return routes.SetupRoutes(a.Service, a.Log)
}

// Close closes the store and the log output
func (a *App) Close() error {
	err := a.Store.Close()
	a.closeLog()
	return err
}

func newServeCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the blog API server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			app, err := NewApp(ctx, cfg)
			if err != nil {
				return err
			}
			defer app.Close()

			app.Log.WithFields(logrus.Fields{
				"app":    cfg.AppName,
				"driver": cfg.Store.Driver,
			}).Info("starting blog service")
			return server.New(cfg.Server, app.Handler(), app.Log).Run(ctx)
		},
	}
}
