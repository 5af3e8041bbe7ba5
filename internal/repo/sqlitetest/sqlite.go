// Package sqlitetest opens an isolated in-memory database carrying the
// application schema, for repository and service tests.
package sqlitetest

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// The goose migrations target Postgres (enum types, jsonb, gen_random_uuid),
// so tests carry an equivalent SQLite schema.
var schema = []string{
	`CREATE TABLE subscriptions (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		plan_id TEXT NOT NULL,
		status TEXT NOT NULL DEFAULT 'active',
		current_period_start TIMESTAMP NOT NULL,
		current_period_end TIMESTAMP NOT NULL,
		created_at TIMESTAMP,
		updated_at TIMESTAMP,
		CONSTRAINT subscriptions_user_id_key UNIQUE (user_id)
	)`,
	`CREATE TABLE usage_logs (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		feature_name TEXT NOT NULL,
		usage_count INTEGER NOT NULL DEFAULT 1,
		created_at TIMESTAMP NOT NULL
	)`,
	`CREATE TABLE projects (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		description TEXT,
		user_id TEXT NOT NULL,
		created_at TIMESTAMP,
		updated_at TIMESTAMP
	)`,
	`CREATE TABLE workflows (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		description TEXT,
		project_id TEXT NOT NULL REFERENCES projects(id),
		workflow_config TEXT NOT NULL,
		is_active BOOLEAN NOT NULL DEFAULT 0,
		created_at TIMESTAMP,
		updated_at TIMESTAMP
	)`,
	`CREATE TABLE analytics_data (
		id TEXT PRIMARY KEY,
		project_id TEXT NOT NULL REFERENCES projects(id),
		metric_name TEXT NOT NULL,
		metric_value TEXT NOT NULL,
		timestamp TIMESTAMP NOT NULL
	)`,
	`CREATE TABLE profiles (
		id TEXT PRIMARY KEY,
		full_name TEXT,
		company_name TEXT,
		subscription_tier TEXT DEFAULT 'free',
		created_at TIMESTAMP,
		updated_at TIMESTAMP
	)`,
}

// Open returns a fresh database with the schema applied. Each call gets its
// own named in-memory database.
func Open(t testing.TB) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	sqlDB, err := conn.DB()
	if err != nil {
		t.Fatalf("failed to access sql db: %v", err)
	}
	// keep the in-memory database alive and serialize writers
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	for _, stmt := range schema {
		if err := conn.Exec(stmt).Error; err != nil {
			t.Fatalf("failed to apply schema: %v", err)
		}
	}
	return conn
}
