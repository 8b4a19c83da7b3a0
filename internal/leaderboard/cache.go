package leaderboard

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	model "github.com/beenycool/hypixel-guild-discord-bridge-sub000/internal/models"
	"github.com/beenycool/hypixel-guild-discord-bridge-sub000/internal/utils"
)

const (
	Window30Days  = "30days"
	WindowAllTime = "alltime"

	// CacheTTL borne l'âge d'un snapshot servi sans recalcul
	CacheTTL = time.Minute

	thirtyDaysSeconds int64 = 30 * 24 * 60 * 60
)

// snapshotCache tient un snapshot immuable par fenêtre, remplacé en bloc
// (copy-on-write): les lecteurs ne voient jamais d'état partiel et aucun
// verrou n'est nécessaire
type snapshotCache struct {
	last30Days atomic.Pointer[model.Leaderboard]
	allTime    atomic.Pointer[model.Leaderboard]
}

func newSnapshotCache() *snapshotCache {
	return &snapshotCache{}
}

func (c *snapshotCache) slot(window string) *atomic.Pointer[model.Leaderboard] {
	switch window {
	case Window30Days:
		return &c.last30Days
	case WindowAllTime:
		return &c.allTime
	}
	return nil
}

// GetWindowedLeaderboard sert le snapshot en cache s'il a moins de CacheTTL,
// sinon recalcule de manière synchrone et remplace l'entrée avant de la
// retourner. Un recalcul raté ne touche pas l'entrée existante: le snapshot
// périmé reste servi jusqu'à un recalcul réussi. Sans entrée existante,
// l'échec remonte au caller.
func (a *Aggregator) GetWindowedLeaderboard(ctx context.Context, window string) (*model.Leaderboard, error) {
	slot := a.cache.slot(window)
	if slot == nil {
		return nil, fmt.Errorf("unknown leaderboard window %q", window)
	}

	now := a.now()
	if snapshot := slot.Load(); snapshot != nil {
		if now.Unix()-snapshot.ComputedAt < int64(CacheTTL.Seconds()) {
			return snapshot, nil
		}
	}

	to := now.Unix()
	from := int64(0)
	if window == Window30Days {
		from = to - thirtyDaysSeconds
	}

	points, err := a.GetPoints(ctx, from, to)
	if err != nil {
		if stale := slot.Load(); stale != nil {
			utils.LogError("leaderboard recompute failed, serving stale snapshot: %v", err)
			return stale, nil
		}
		return nil, fmt.Errorf("leaderboard temporarily unavailable: %w", err)
	}

	snapshot := &model.Leaderboard{
		Window:     window,
		ComputedAt: now.Unix(),
		Entries:    rankedEntries(points),
	}
	slot.Store(snapshot)

	return snapshot, nil
}
