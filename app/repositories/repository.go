package repositories

import (
	"context"
	"errors"
	"fmt"

	"hodolog/app/config"

	"github.com/sirupsen/logrus"
)

var (
	ErrNotFound = errors.New("record not found")
)

// Open opens the post store selected by cfg.Driver.
func Open(ctx context.Context, cfg *config.Store, log logrus.FieldLogger) (Store, error) {
	log = log.WithField("driver", cfg.Driver)

	var (
		store Store
		err   error
	)
	switch cfg.Driver {
	case "badger":
		store, err = OpenBadgerPostRepository(cfg, log)
	case "postgres", "sqlite", "mysql":
		store, err = OpenSQLPostRepository(ctx, cfg)
	case "memory":
		store = NewMemoryPostRepository()
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Driver)
	}
	if err != nil {
		return nil, err
	}

	log.Info("post store opened")
	return store, nil
}
