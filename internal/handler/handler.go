package handler

import (
	"net/http"

	"github.com/beenycool/hypixel-guild-discord-bridge-sub000/internal/leaderboard"
	"github.com/beenycool/hypixel-guild-discord-bridge-sub000/internal/retention"
	"github.com/beenycool/hypixel-guild-discord-bridge-sub000/internal/store"
	"github.com/beenycool/hypixel-guild-discord-bridge-sub000/internal/utils"
)

// Handler regroupe les dépendances injectées des handlers HTTP
type Handler struct {
	Counters   *store.CounterStore
	Timeframes *store.TimeframeStore
	Board      *leaderboard.Aggregator
	Cleaner    *retention.Cleaner
	Migrator   *retention.Migrator
}

func New(counters *store.CounterStore, timeframes *store.TimeframeStore, board *leaderboard.Aggregator, cleaner *retention.Cleaner, migrator *retention.Migrator) *Handler {
	return &Handler{
		Counters:   counters,
		Timeframes: timeframes,
		Board:      board,
		Cleaner:    cleaner,
		Migrator:   migrator,
	}
}

func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	utils.Message(w, "ok")
}
