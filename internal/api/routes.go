package api

import (
	"net/http"

	"github.com/beenycool/hypixel-guild-discord-bridge-sub000/internal/handler"
	"github.com/beenycool/hypixel-guild-discord-bridge-sub000/internal/middleware"
	"github.com/beenycool/hypixel-guild-discord-bridge-sub000/internal/utils"
	"github.com/fatih/color"
	"github.com/gorilla/mux"
)

func SetupRouter(h *handler.Handler, adminAPIKey string) http.Handler {
	r := mux.NewRouter()
	r.Use(middleware.LoggerMiddleware)

	// Root - API documentation
	r.HandleFunc("/", h.RootHandler).Methods(http.MethodGet)

	// Activity events (écritures des producteurs)
	r.HandleFunc("/activity/messages", h.RecordMessage).Methods(http.MethodPost)
	r.HandleFunc("/activity/commands", h.RecordCommand).Methods(http.MethodPost)
	r.HandleFunc("/activity/presence", h.RecordPresence).Methods(http.MethodPost)
	r.HandleFunc("/activity/membership", h.RecordMembership).Methods(http.MethodPost)

	// Leaderboard
	r.HandleFunc("/leaderboard", h.GetLeaderboard).Methods(http.MethodGet)
	r.HandleFunc("/duration/{table}", h.GetDuration).Methods(http.MethodGet)

	// Admin (rétention, migration d'identités)
	adminRoutes := r.PathPrefix("/admin").Subrouter()
	adminRoutes.Use(middleware.AdminKeyMiddleware(adminAPIKey))
	adminRoutes.HandleFunc("/retention/clean", h.RunRetentionClean).Methods(http.MethodPost)
	adminRoutes.HandleFunc("/identities/migrate", h.MigrateIdentities).Methods(http.MethodPost)

	// Health check
	r.HandleFunc("/health", h.HealthCheck).Methods(http.MethodGet)

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		utils.LogError("404 Not Found: %s %s", r.Method, r.URL.Path)
		color.Yellow("[404] %s %s (route non trouvée)", r.Method, r.URL.Path)
		http.Error(w, "Route not found", http.StatusNotFound)
	})

	return r
}
