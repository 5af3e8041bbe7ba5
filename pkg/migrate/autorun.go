package migrate

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/aisynapse/synapse-backend/pkg/config"
	"github.com/aisynapse/synapse-backend/pkg/db"
	"github.com/aisynapse/synapse-backend/pkg/logger"
	"github.com/pressly/goose/v3"
)

// MaybeRunDev applies the embedded migrations on boot. It only acts in dev
// with SYNAPSE_AUTO_MIGRATE enabled; prod schemas move through cmd/migrate.
func MaybeRunDev(ctx context.Context, cfg *config.Config, logg *logger.Logger, client *db.Client) error {
	if !cfg.App.IsDev() || !cfg.FeatureFlags.AutoMigrate {
		return nil
	}

	sqlDB, err := client.DB().DB()
	if err != nil {
		return fmt.Errorf("extracting sql.DB: %w", err)
	}

	from := currentVersion(ctx, sqlDB)
	logg.Info(logg.WithField(ctx, "from_version", from), "migrate.autorun.start")

	if err := Run(ctx, sqlDB, "up"); err != nil {
		return fmt.Errorf("auto-migrate from version %d: %w", from, err)
	}

	logg.Info(logg.WithFields(ctx, map[string]any{
		"from_version": from,
		"to_version":   currentVersion(ctx, sqlDB),
	}), "migrate.autorun.done")
	return nil
}

// currentVersion reports -1 when the version table cannot be read yet.
func currentVersion(ctx context.Context, sqlDB *sql.DB) int64 {
	if err := prepare(Embedded); err != nil {
		return -1
	}
	v, err := goose.GetDBVersionContext(ctx, sqlDB)
	if err != nil {
		return -1
	}
	return v
}
