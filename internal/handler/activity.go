package handler

import (
	"net/http"
	"time"

	"github.com/beenycool/hypixel-guild-discord-bridge-sub000/internal/store"
	"github.com/beenycool/hypixel-guild-discord-bridge-sub000/internal/utils"
)

type counterEventRequest struct {
	Platform  string `json:"platform"`
	Identity  string `json:"identity"`
	Timestamp int64  `json:"timestamp,omitempty"`
}

type timeframeRequest struct {
	Identity string `json:"identity"`
	From     int64  `json:"from"`
	To       int64  `json:"to"`
	Leniency int64  `json:"leniency,omitempty"`
}

// RecordMessage incrémente le compteur de messages de la plateforme.
// L'événement est supposé déjà authentifié par le producteur; un échec du
// store remonte en 500 et c'est au producteur de renvoyer.
func (h *Handler) RecordMessage(w http.ResponseWriter, r *http.Request) {
	var req counterEventRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.Error(w, http.StatusBadRequest, "invalid request body", err)
		return
	}
	if req.Identity == "" {
		utils.ErrorSimple(w, http.StatusBadRequest, "missing identity")
		return
	}

	table, err := store.MessageTableFor(req.Platform)
	if err != nil {
		utils.Error(w, http.StatusBadRequest, "unknown platform", err)
		return
	}

	if req.Timestamp == 0 {
		req.Timestamp = time.Now().Unix()
	}

	if err := h.Counters.Increment(r.Context(), table, req.Identity, req.Timestamp); err != nil {
		utils.Error(w, http.StatusInternalServerError, "could not record message", err)
		return
	}

	utils.Message(w, "recorded")
}

// RecordCommand incrémente le compteur de commandes de la plateforme
func (h *Handler) RecordCommand(w http.ResponseWriter, r *http.Request) {
	var req counterEventRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.Error(w, http.StatusBadRequest, "invalid request body", err)
		return
	}
	if req.Identity == "" {
		utils.ErrorSimple(w, http.StatusBadRequest, "missing identity")
		return
	}

	table, err := store.CommandTableFor(req.Platform)
	if err != nil {
		utils.Error(w, http.StatusBadRequest, "unknown platform", err)
		return
	}

	if req.Timestamp == 0 {
		req.Timestamp = time.Now().Unix()
	}

	if err := h.Counters.Increment(r.Context(), table, req.Identity, req.Timestamp); err != nil {
		utils.Error(w, http.StatusInternalServerError, "could not record command", err)
		return
	}

	utils.Message(w, "recorded")
}

// RecordPresence consolide un intervalle "en ligne" observé par polling
func (h *Handler) RecordPresence(w http.ResponseWriter, r *http.Request) {
	h.recordTimeframe(w, r, store.OnlineMembers)
}

// RecordMembership consolide un intervalle "membre reconnu"
func (h *Handler) RecordMembership(w http.ResponseWriter, r *http.Request) {
	h.recordTimeframe(w, r, store.AllMembers)
}

func (h *Handler) recordTimeframe(w http.ResponseWriter, r *http.Request, table store.TimeframeTable) {
	var req timeframeRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.Error(w, http.StatusBadRequest, "invalid request body", err)
		return
	}
	if req.Identity == "" {
		utils.ErrorSimple(w, http.StatusBadRequest, "missing identity")
		return
	}
	if req.From > req.To {
		utils.ErrorSimple(w, http.StatusBadRequest, "from must not be after to")
		return
	}
	if req.Leniency < 0 {
		utils.ErrorSimple(w, http.StatusBadRequest, "leniency must not be negative")
		return
	}

	if err := h.Timeframes.ConsolidateAppend(r.Context(), table, req.Identity, req.From, req.To, req.Leniency); err != nil {
		utils.Error(w, http.StatusInternalServerError, "could not record timeframe", err)
		return
	}

	utils.Message(w, "recorded")
}
