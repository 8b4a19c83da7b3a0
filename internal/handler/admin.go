package handler

import (
	"net/http"

	"github.com/beenycool/hypixel-guild-discord-bridge-sub000/internal/middleware"
	model "github.com/beenycool/hypixel-guild-discord-bridge-sub000/internal/models"
	"github.com/beenycool/hypixel-guild-discord-bridge-sub000/internal/utils"
)

type migrateRequest struct {
	Cutoff int64                 `json:"cutoff"`
	Pairs  []model.MigrationPair `json:"pairs"`
}

// RunRetentionClean déclenche une passe de rétention. Appelé par le
// planificateur externe; un échec partiel est simplement retenté à la
// prochaine invocation.
func (h *Handler) RunRetentionClean(w http.ResponseWriter, r *http.Request) {
	removed, err := h.Cleaner.Clean(r.Context())
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "retention clean failed", err)
		return
	}

	utils.LogInfo("retention clean removed %d rows - Request: %s", removed, middleware.RequestID(r.Context()))
	utils.Success(w, map[string]int64{"rowsRemoved": removed})
}

// MigrateIdentities réécrit les anciens identifiants vers leurs
// identifiants canoniques pour les buckets plus récents que le cutoff
func (h *Handler) MigrateIdentities(w http.ResponseWriter, r *http.Request) {
	var req migrateRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.Error(w, http.StatusBadRequest, "invalid request body", err)
		return
	}
	if len(req.Pairs) == 0 {
		utils.ErrorSimple(w, http.StatusBadRequest, "no migration pairs provided")
		return
	}

	changed, err := h.Migrator.Migrate(r.Context(), req.Cutoff, req.Pairs)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "identity migration failed", err)
		return
	}

	utils.LogInfo("migrated %d rows across %d pairs - Request: %s", changed, len(req.Pairs), middleware.RequestID(r.Context()))
	utils.Success(w, map[string]int64{"rowsChanged": changed})
}
