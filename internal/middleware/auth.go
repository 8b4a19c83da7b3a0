package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/beenycool/hypixel-guild-discord-bridge-sub000/internal/utils"
)

// AdminKeyMiddleware protège les routes d'administration (rétention,
// migration) par une clé d'API. Sans clé configurée, tout accès est refusé.
func AdminKeyMiddleware(apiKey string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if apiKey == "" {
				utils.ErrorSimple(w, http.StatusForbidden, "admin API disabled")
				return
			}

			provided := r.Header.Get("X-Api-Key")
			if provided == "" {
				utils.ErrorSimple(w, http.StatusUnauthorized, "missing API key")
				return
			}

			if subtle.ConstantTimeCompare([]byte(provided), []byte(apiKey)) != 1 {
				utils.ErrorSimple(w, http.StatusUnauthorized, "invalid API key")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
