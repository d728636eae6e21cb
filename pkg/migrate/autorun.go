package migrate

import (
	"context"
	"fmt"
	"time"

	"github.com/pressly/goose/v3"

	"github.com/angelmondragon/farmfresh-backend/pkg/config"
	"github.com/angelmondragon/farmfresh-backend/pkg/db"
	"github.com/angelmondragon/farmfresh-backend/pkg/logger"
)

// autoRunEnabled gates the embedded "up" run at api startup. Any non-dev
// environment is migrated by cmd/migrate instead.
func autoRunEnabled(cfg *config.Config) bool {
	return cfg != nil && cfg.App.IsDev() && cfg.FeatureFlags.AutoMigrate
}

// MaybeRunDev applies the embedded migrations when FARMFRESH_AUTO_MIGRATE is
// set in a dev environment, and is a no-op otherwise.
func MaybeRunDev(ctx context.Context, cfg *config.Config, logg *logger.Logger, client *db.Client) error {
	if !autoRunEnabled(cfg) {
		return nil
	}
	sqlDB, err := client.DB().DB()
	if err != nil {
		return fmt.Errorf("extracting sql.DB: %w", err)
	}

	ctx = logg.WithFields(ctx, map[string]any{"env": cfg.App.Env, "dir": EmbeddedDir})
	started := time.Now()
	if err := Run(ctx, sqlDB, EmbeddedDir, "up"); err != nil {
		return fmt.Errorf("auto-migrate: %w", err)
	}

	version, err := goose.GetDBVersionContext(ctx, sqlDB)
	if err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	logg.Info(logg.WithFields(ctx, map[string]any{
		"schema_version": version,
		"duration_ms":    time.Since(started).Milliseconds(),
	}), "migrations.auto_applied")
	return nil
}
