package migrate

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"
	"time"

	"github.com/aisynapse/synapse-backend/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbeddedMigrationsValidate(t *testing.T) {
	require.NoError(t, Validate())
}

func TestSubscriptionsMigrationEnforcesOneRowPerUser(t *testing.T) {
	matches, err := fs.Glob(Embedded, DefaultDir+"/*_create_subscriptions.sql")
	require.NoError(t, err)
	require.Len(t, matches, 1)

	data, err := fs.ReadFile(Embedded, matches[0])
	require.NoError(t, err)
	content := string(data)

	for _, sub := range []string{
		"CREATE TYPE subscription_status AS ENUM ('active', 'canceled', 'past_due')",
		"CONSTRAINT subscriptions_user_id_key UNIQUE (user_id)",
		"status subscription_status NOT NULL DEFAULT 'active'",
		"DROP TABLE IF EXISTS subscriptions",
	} {
		assert.Contains(t, content, sub)
	}
}

func TestUsageLogsMigrationIndexesMonthlyWindow(t *testing.T) {
	matches, err := fs.Glob(Embedded, DefaultDir+"/*_create_usage_logs.sql")
	require.NoError(t, err)
	require.Len(t, matches, 1)

	data, err := fs.ReadFile(Embedded, matches[0])
	require.NoError(t, err)
	assert.Contains(t, string(data), "ON usage_logs (user_id, feature_name, created_at)")
}

func TestProfilesMigrationKeysOnUserID(t *testing.T) {
	matches, err := fs.Glob(Embedded, DefaultDir+"/*_create_profiles.sql")
	require.NoError(t, err)
	require.Len(t, matches, 1)

	data, err := fs.ReadFile(Embedded, matches[0])
	require.NoError(t, err)
	content := string(data)
	assert.Contains(t, content, "CREATE TYPE subscription_tier AS ENUM ('free', 'basic', 'professional', 'enterprise')")
	assert.Contains(t, content, "id uuid PRIMARY KEY,")
	assert.Contains(t, content, "DROP TYPE IF EXISTS subscription_tier")
}

func TestValidateFSRejectsBadFiles(t *testing.T) {
	cases := map[string]fstest.MapFS{
		"bad name": {
			"m/create_things.sql": {Data: []byte("-- +goose Up\n-- +goose Down\n")},
		},
		"duplicate version": {
			"m/20260101000000_a.sql": {Data: []byte("-- +goose Up\n-- +goose Down\n")},
			"m/20260101000000_b.sql": {Data: []byte("-- +goose Up\n-- +goose Down\n")},
		},
		"missing down": {
			"m/20260101000000_a.sql": {Data: []byte("-- +goose Up\n")},
		},
		"empty": {
			"m/README.md": {Data: []byte("nothing")},
		},
	}
	for name, fsys := range cases {
		assert.Error(t, ValidateFS(fsys, "m"), name)
	}
}

func TestCreateSQLMigration(t *testing.T) {
	dir := t.TempDir()

	path, err := CreateSQLMigration(dir, "Add Workflow Runs!")
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(path, "_add_workflow_runs.sql"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "-- +goose Up")
	require.NoError(t, ValidateFS(os.DirFS(dir), "."))

	_, err = CreateSQLMigration(dir, "!!!")
	assert.Error(t, err)
	_, err = CreateSQLMigration(filepath.Join(dir, "x"), "")
	assert.Error(t, err)
}

func TestCreateSQLMigrationStaysAheadOfExistingVersions(t *testing.T) {
	dir := t.TempDir()
	future := filepath.Join(dir, "29991231235959_later.sql")
	require.NoError(t, os.WriteFile(future, []byte("-- +goose Up\n-- +goose Down\n"), 0o644))

	path, err := CreateSQLMigration(dir, "next")
	require.NoError(t, err)
	assert.Equal(t, "30000101000000_next.sql", filepath.Base(path))
}

func TestNextVersionUsesClockWhenAhead(t *testing.T) {
	now := time.Date(2026, 10, 16, 9, 30, 0, 0, time.UTC)
	assert.Equal(t, int64(20261016093000), nextVersion(now, 20260101000300))
}

func TestMaybeRunDevSkipsOutsideDev(t *testing.T) {
	cfg := &config.Config{}
	cfg.App.Env = config.AppEnvProd
	cfg.FeatureFlags.AutoMigrate = true
	require.NoError(t, MaybeRunDev(context.Background(), cfg, nil, nil))

	cfg.App.Env = config.AppEnvDev
	cfg.FeatureFlags.AutoMigrate = false
	require.NoError(t, MaybeRunDev(context.Background(), cfg, nil, nil))
}
