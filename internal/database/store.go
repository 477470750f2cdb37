package database

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/stemsi/lexis/internal/config"
	"github.com/stemsi/lexis/internal/repository"
	"github.com/stemsi/lexis/internal/repository/csvstore"
	"github.com/stemsi/lexis/internal/repository/pgstore"
	"github.com/stemsi/lexis/migrations"
)

// OpenStore builds the backend cfg selects. For PostgreSQL it migrates the
// schema once the database answers, when AutoMigrate is set.
func OpenStore(ctx context.Context, cfg *config.Config, log zerolog.Logger) (repository.Store, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	switch cfg.Backend {
	case config.BackendPostgres:
		pool, err := NewPostgresPool(ctx, cfg, log)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", repository.ErrUnavailable, err)
		}
		if cfg.AutoMigrate {
			if err := Migrate(migrations.FS, cfg.DatabaseURL, log); err != nil {
				pool.Close()
				return nil, err
			}
		}
		return pgstore.New(pool, log), nil
	default:
		return csvstore.New(cfg.DataDir, log)
	}
}
