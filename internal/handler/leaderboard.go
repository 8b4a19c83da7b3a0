package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/beenycool/hypixel-guild-discord-bridge-sub000/internal/leaderboard"
	"github.com/beenycool/hypixel-guild-discord-bridge-sub000/internal/store"
	"github.com/beenycool/hypixel-guild-discord-bridge-sub000/internal/utils"
	"github.com/gorilla/mux"
)

// GetLeaderboard récupère le classement de la fenêtre demandée
func (h *Handler) GetLeaderboard(w http.ResponseWriter, r *http.Request) {
	window := r.URL.Query().Get("window")
	if window == "" {
		window = leaderboard.Window30Days
	}

	board, err := h.Board.GetWindowedLeaderboard(r.Context(), window)
	if err != nil {
		utils.Error(w, http.StatusServiceUnavailable, "could not compute leaderboard", err)
		return
	}

	utils.Success(w, board)
}

// GetDuration récupère le classement par durée cumulée (online ou members)
func (h *Handler) GetDuration(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	var table store.TimeframeTable
	switch vars["table"] {
	case "online":
		table = store.OnlineMembers
	case "members":
		table = store.AllMembers
	default:
		utils.ErrorSimple(w, http.StatusBadRequest, "unknown duration table")
		return
	}

	query := r.URL.Query()

	from := int64(0)
	if fromStr := query.Get("from"); fromStr != "" {
		if parsed, err := strconv.ParseInt(fromStr, 10, 64); err == nil {
			from = parsed
		}
	}

	to := time.Now().Unix()
	if toStr := query.Get("to"); toStr != "" {
		if parsed, err := strconv.ParseInt(toStr, 10, 64); err == nil {
			to = parsed
		}
	}

	if from > to {
		utils.ErrorSimple(w, http.StatusBadRequest, "from must not be after to")
		return
	}

	entries, err := h.Board.GetDuration(r.Context(), table, from, to)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "could not compute durations", err)
		return
	}

	utils.Success(w, entries)
}
