package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/beenycool/hypixel-guild-discord-bridge-sub000/internal/utils"
	"github.com/google/uuid"
)

// Context keys
type contextKey string

const requestIDContextKey = contextKey("requestID")

// RequestID retourne l'identifiant de la requête courante (vide hors middleware)
func RequestID(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDContextKey).(string); ok {
		return id
	}
	return ""
}

// LoggerMiddleware log toutes les requêtes HTTP avec un identifiant unique
func LoggerMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		requestID := uuid.NewString()

		utils.LogRequest(r.Method, r.URL.Path, r.RemoteAddr)

		// Wrapper pour capturer le status code
		wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		ctx := context.WithValue(r.Context(), requestIDContextKey, requestID)
		next.ServeHTTP(wrapped, r.WithContext(ctx))

		duration := time.Since(start)
		utils.LogInfo("%s %s - Status: %d - Duration: %v - Request: %s", r.Method, r.URL.Path, wrapped.statusCode, duration, requestID)
	})
}

// responseWriter wrapper pour capturer le status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}
