package handler

import (
	"net/http"

	"github.com/beenycool/hypixel-guild-discord-bridge-sub000/internal/utils"
)

// RootHandler affiche toutes les routes disponibles de l'API
func (h *Handler) RootHandler(w http.ResponseWriter, r *http.Request) {
	routes := map[string]interface{}{
		"activity": map[string]string{
			"POST /activity/messages":   "record a chat message event {platform, identity, timestamp}",
			"POST /activity/commands":   "record a command invocation {platform, identity, timestamp}",
			"POST /activity/presence":   "record an online timeframe {identity, from, to, leniency}",
			"POST /activity/membership": "record a membership timeframe {identity, from, to, leniency}",
		},
		"leaderboard": map[string]string{
			"GET /leaderboard":      "ranked points (window=30days|alltime)",
			"GET /duration/{table}": "ranked cumulative seconds (table=online|members)",
		},
		"admin": map[string]string{
			"POST /admin/retention/clean":    "delete rows past the retention horizon",
			"POST /admin/identities/migrate": "rewrite legacy identifiers {cutoff, pairs}",
		},
		"health": "GET /health",
	}

	utils.Success(w, routes)
}
