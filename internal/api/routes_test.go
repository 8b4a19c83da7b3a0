package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/beenycool/hypixel-guild-discord-bridge-sub000/internal/handler"
	"github.com/stretchr/testify/assert"
)

func serve(t *testing.T, router http.Handler, method, path string, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	for key, value := range headers {
		req.Header.Set(key, value)
	}
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)
	return recorder
}

func TestHealthRoute(t *testing.T) {
	router := SetupRouter(handler.New(nil, nil, nil, nil, nil), "")

	recorder := serve(t, router, http.MethodGet, "/health", nil)

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "ok")
}

func TestRootListsRoutes(t *testing.T) {
	router := SetupRouter(handler.New(nil, nil, nil, nil, nil), "")

	recorder := serve(t, router, http.MethodGet, "/", nil)

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "/leaderboard")
}

func TestUnknownRouteReturns404(t *testing.T) {
	router := SetupRouter(handler.New(nil, nil, nil, nil, nil), "")

	recorder := serve(t, router, http.MethodGet, "/nope", nil)

	assert.Equal(t, http.StatusNotFound, recorder.Code)
}

func TestDurationRejectsUnknownTable(t *testing.T) {
	router := SetupRouter(handler.New(nil, nil, nil, nil, nil), "")

	recorder := serve(t, router, http.MethodGet, "/duration/weekly", nil)

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestAdminRoutesRequireAPIKey(t *testing.T) {
	// Sans clé configurée, l'API admin est désactivée
	disabled := SetupRouter(handler.New(nil, nil, nil, nil, nil), "")
	recorder := serve(t, disabled, http.MethodPost, "/admin/retention/clean", nil)
	assert.Equal(t, http.StatusForbidden, recorder.Code)

	router := SetupRouter(handler.New(nil, nil, nil, nil, nil), "sekrit")

	recorder = serve(t, router, http.MethodPost, "/admin/retention/clean", nil)
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)

	recorder = serve(t, router, http.MethodPost, "/admin/retention/clean",
		map[string]string{"X-Api-Key": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
}
