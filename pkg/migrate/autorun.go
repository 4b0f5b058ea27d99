package migrate

import (
	"context"
	"fmt"
	"time"

	"github.com/angelmondragon/atelier-backend/pkg/config"
	"github.com/angelmondragon/atelier-backend/pkg/db"
	"github.com/angelmondragon/atelier-backend/pkg/logger"
)

// MaybeRunDev brings a local database up to date, sample prints and
// workshops included, when ATELIER_APP_ENV is dev and ATELIER_AUTO_MIGRATE
// is set. Other environments run cmd/migrate explicitly.
func MaybeRunDev(ctx context.Context, cfg *config.Config, logg *logger.Logger, client *db.Client) error {
	ctx = logg.WithFields(ctx, map[string]any{"env": cfg.App.Env, "dir": DefaultDir})
	if !cfg.App.IsDev() || !cfg.FeatureFlags.AutoMigrate {
		logg.Debug(ctx, "migrate.autorun.skipped")
		return nil
	}

	conn, err := client.SQL()
	if err != nil {
		return err
	}

	started := time.Now()
	if err := Up(ctx, conn, DefaultDir); err != nil {
		return fmt.Errorf("dev auto-migrate: %w", err)
	}
	logg.Info(logg.WithField(ctx, "duration_ms", time.Since(started).Milliseconds()), "migrate.autorun.done")
	return nil
}
