// cmd/tools/schema-migrate/main.go
//
// Applies the asset pipeline schema. Statements are idempotent so the
// tool can run on every deploy.
package main

import (
	"context"
	"time"

	"go.uber.org/zap"

	"rwa-workers/internal/common/config"
	"rwa-workers/internal/common/database"
	"rwa-workers/internal/common/logger"
)

var statements = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id             TEXT PRIMARY KEY,
		wallet_address TEXT NOT NULL DEFAULT '',
		email          TEXT NOT NULL DEFAULT '',
		jurisdiction   TEXT NOT NULL DEFAULT '',
		created_at     TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS assets (
		id                  TEXT PRIMARY KEY,
		user_id             TEXT NOT NULL REFERENCES users(id),
		asset_type          TEXT NOT NULL,
		description         TEXT NOT NULL DEFAULT '',
		estimated_value     NUMERIC,
		location            TEXT,
		verification_status TEXT NOT NULL DEFAULT 'pending',
		token_id            TEXT,
		requirements        JSONB,
		created_at          TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at          TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS asset_transactions (
		id               TEXT PRIMARY KEY,
		asset_id         TEXT NOT NULL REFERENCES assets(id),
		transaction_type TEXT NOT NULL,
		transaction_hash TEXT NOT NULL DEFAULT '',
		status           TEXT NOT NULL,
		details          JSONB,
		created_at       TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_assets_user_id ON assets (user_id)`,
	`CREATE INDEX IF NOT EXISTS idx_assets_verification_status ON assets (verification_status)`,
	`CREATE INDEX IF NOT EXISTS idx_asset_transactions_asset_id ON asset_transactions (asset_id)`,
}

func main() {
	zapLog := logger.New("info", "console")
	defer zapLog.Sync()

	cfg, err := config.Load()
	if err != nil {
		zapLog.Fatal("config load failed", zap.Error(err))
	}

	pg, err := database.NewPostgres(cfg.Database.Postgres)
	if err != nil {
		zapLog.Fatal("postgres open failed", zap.Error(err))
	}
	defer pg.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	if err := pg.Ping(ctx); err != nil {
		zapLog.Fatal("postgres ping failed", zap.Error(err))
	}

	for i, stmt := range statements {
		if _, err := pg.Exec(ctx, stmt); err != nil {
			zapLog.Fatal("migration statement failed",
				zap.Int("statement", i),
				zap.Error(err),
			)
		}
	}

	zapLog.Info("schema migration complete",
		zap.Int("statements", len(statements)),
	)
}
