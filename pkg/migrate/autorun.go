package migrate

import (
	"context"
	"fmt"

	"github.com/arshoplabs/arshop-backend/pkg/config"
	"github.com/arshoplabs/arshop-backend/pkg/db"
	"github.com/arshoplabs/arshop-backend/pkg/db/models"
	"github.com/arshoplabs/arshop-backend/pkg/logger"
)

// MaybeRunDev executes migrations automatically when the app is running in dev mode and
// the feature flag is enabled. SQLite environments skip goose entirely and rely on
// GORM auto-migration instead.
func MaybeRunDev(ctx context.Context, cfg *config.Config, logg *logger.Logger, client *db.Client) error {
	if !cfg.App.IsDev() || !cfg.FeatureFlags.AutoMigrate {
		return nil
	}
	if cfg.DB.IsSQLite() {
		logg.Info(ctx, "sqlite detected, using gorm auto-migration instead of goose")
		if err := client.DB().WithContext(ctx).AutoMigrate(
			&models.User{},
			&models.Product{},
			&models.ProductImage{},
			&models.CartItem{},
			&models.Order{},
			&models.OrderItem{},
		); err != nil {
			return fmt.Errorf("sqlite auto-migration: %w", err)
		}
		return nil
	}

	sqlDB, err := client.DB().DB()
	if err != nil {
		return fmt.Errorf("extracting sql.DB: %w", err)
	}

	meta := map[string]any{"env": cfg.App.Env, "dir": DefaultDir}
	ctx = logg.WithFields(ctx, meta)
	logg.Info(ctx, "running Goose migrations (dev auto-run)")

	if err := Run(ctx, sqlDB, DefaultDir, "up"); err != nil {
		return fmt.Errorf("running goose up: %w", err)
	}

	logg.Info(ctx, "Goose migrations completed")
	return nil
}
