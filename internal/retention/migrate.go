package retention

import (
	"context"
	"fmt"
	"time"

	"github.com/beenycool/hypixel-guild-discord-bridge-sub000/internal/logger"
	model "github.com/beenycool/hypixel-guild-discord-bridge-sub000/internal/models"
	"github.com/beenycool/hypixel-guild-discord-bridge-sub000/internal/store"
)

// Migrator réécrit les anciens identifiants lisibles (pseudos) vers leurs
// identifiants canoniques stables une fois résolus. Borné par un cutoff:
// les buckets ≤ cutoff ne sont jamais touchés, car le pseudo a pu être
// réutilisé par quelqu'un d'autre avant cette date.
type Migrator struct {
	db       store.DB
	counters *store.CounterStore
}

func NewMigrator(db store.DB, counters *store.CounterStore) *Migrator {
	return &Migrator{db: db, counters: counters}
}

// Migrate applique chaque paire (ancien, nouveau) à toutes les tables de
// compteurs en une transaction, en préservant les totaux. Retourne le
// nombre de lignes réécrites.
func (m *Migrator) Migrate(ctx context.Context, cutoffTimestamp int64, pairs []model.MigrationPair) (int64, error) {
	if len(pairs) == 0 {
		return 0, nil
	}

	for _, pair := range pairs {
		if pair.OldIdentifier == "" || pair.NewIdentifier == "" || pair.OldIdentifier == pair.NewIdentifier {
			return 0, fmt.Errorf("invalid migration pair %q -> %q", pair.OldIdentifier, pair.NewIdentifier)
		}
	}

	start := time.Now()

	tx, err := m.db.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("could not begin migration transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var changed int64

	for _, pair := range pairs {
		for _, table := range store.AllCounterTables {
			rows, err := m.counters.RewriteIdentity(ctx, tx, table, pair.OldIdentifier, pair.NewIdentifier, cutoffTimestamp)
			if err != nil {
				return 0, fmt.Errorf("migration on %s: %w", table, err)
			}
			changed += rows
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("could not commit migration: %w", err)
	}

	logger.Job("migration", changed, time.Since(start))

	return changed, nil
}
