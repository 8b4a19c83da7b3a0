package retention

import (
	"context"
	"fmt"
	"time"

	"github.com/beenycool/hypixel-guild-discord-bridge-sub000/internal/logger"
	"github.com/beenycool/hypixel-guild-discord-bridge-sub000/internal/store"
)

const (
	// MessageRetentionSeconds: les compteurs sont gardés 3 ans
	MessageRetentionSeconds int64 = 3 * 365 * 24 * 60 * 60

	// MemberRetentionSeconds: les intervalles sont gardés 3 ans
	MemberRetentionSeconds int64 = 3 * 365 * 24 * 60 * 60
)

// Cleaner supprime les lignes au-delà de l'horizon de rétention. Déclenché
// par un planificateur externe; idempotent, et sûr face aux écritures
// concurrentes puisqu'il ne touche que des lignes strictement hors horizon.
type Cleaner struct {
	db         store.DB
	counters   *store.CounterStore
	timeframes *store.TimeframeStore
	now        func() time.Time
}

func NewCleaner(db store.DB, counters *store.CounterStore, timeframes *store.TimeframeStore) *Cleaner {
	return &Cleaner{
		db:         db,
		counters:   counters,
		timeframes: timeframes,
		now:        time.Now,
	}
}

// Clean supprime en une transaction les compteurs dont le bucket a dépassé
// l'horizon et les intervalles terminés au-delà de l'horizon, sur toutes
// les tables. Retourne le nombre de lignes supprimées. Une ligne
// exactement à now − rétention est supprimée; une seconde plus récente
// est conservée.
func (c *Cleaner) Clean(ctx context.Context) (int64, error) {
	start := c.now()
	nowTs := start.Unix()

	tx, err := c.db.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("could not begin retention transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var total int64

	for _, table := range store.AllCounterTables {
		removed, err := c.counters.DeleteBucketsThrough(ctx, tx, table, nowTs-MessageRetentionSeconds)
		if err != nil {
			return 0, fmt.Errorf("retention on %s: %w", table, err)
		}
		total += removed
	}

	for _, table := range store.AllTimeframeTables {
		removed, err := c.timeframes.DeleteEndedThrough(ctx, tx, table, nowTs-MemberRetentionSeconds)
		if err != nil {
			return 0, fmt.Errorf("retention on %s: %w", table, err)
		}
		total += removed
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("could not commit retention: %w", err)
	}

	logger.Job("retention", total, time.Since(start))

	return total, nil
}
