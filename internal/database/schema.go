package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// schemaStatements crée les tables du moteur d'activité. Les tables
// verified_links et bot_accounts appartiennent à d'autres sous-systèmes
// (lecture seule ici) mais sont créées pour les environnements de dev.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS message_counters_discord (
		bucket_ts BIGINT NOT NULL,
		identity TEXT NOT NULL,
		count INTEGER NOT NULL DEFAULT 1,
		PRIMARY KEY (bucket_ts, identity)
	)`,
	`CREATE TABLE IF NOT EXISTS message_counters_minecraft (
		bucket_ts BIGINT NOT NULL,
		identity TEXT NOT NULL,
		count INTEGER NOT NULL DEFAULT 1,
		PRIMARY KEY (bucket_ts, identity)
	)`,
	`CREATE TABLE IF NOT EXISTS command_counters_discord (
		bucket_ts BIGINT NOT NULL,
		identity TEXT NOT NULL,
		count INTEGER NOT NULL DEFAULT 1,
		PRIMARY KEY (bucket_ts, identity)
	)`,
	`CREATE TABLE IF NOT EXISTS command_counters_minecraft (
		bucket_ts BIGINT NOT NULL,
		identity TEXT NOT NULL,
		count INTEGER NOT NULL DEFAULT 1,
		PRIMARY KEY (bucket_ts, identity)
	)`,
	`CREATE TABLE IF NOT EXISTS all_members (
		id BIGSERIAL PRIMARY KEY,
		identity TEXT NOT NULL,
		from_ts BIGINT NOT NULL,
		to_ts BIGINT NOT NULL,
		CHECK (from_ts <= to_ts)
	)`,
	`CREATE TABLE IF NOT EXISTS online_members (
		id BIGSERIAL PRIMARY KEY,
		identity TEXT NOT NULL,
		from_ts BIGINT NOT NULL,
		to_ts BIGINT NOT NULL,
		CHECK (from_ts <= to_ts)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_all_members_identity ON all_members (identity, to_ts)`,
	`CREATE INDEX IF NOT EXISTS idx_online_members_identity ON online_members (identity, to_ts)`,
	`CREATE TABLE IF NOT EXISTS verified_links (
		minecraft_id TEXT NOT NULL UNIQUE,
		discord_id TEXT NOT NULL UNIQUE
	)`,
	`CREATE TABLE IF NOT EXISTS bot_accounts (
		identity TEXT PRIMARY KEY
	)`,
}

// InitSchema applique le schéma (idempotent)
func InitSchema(ctx context.Context, pool *pgxpool.Pool) error {
	for _, stmt := range schemaStatements {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("could not apply schema: %w", err)
		}
	}
	return nil
}
