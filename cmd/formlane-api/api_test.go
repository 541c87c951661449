package main

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/formlane/formlane/pkg/auth"
	"github.com/formlane/formlane/pkg/channels/gochannel"
	"github.com/formlane/formlane/pkg/eventbus"
	"github.com/formlane/formlane/pkg/persistence/file"
)

func setupTestApp(t *testing.T) *fiber.App {
	t.Helper()

	persistence := file.NewPersistence(t.TempDir())

	pub, sub, err := gochannel.CreateTestChannel(watermill.NopLogger{})
	require.NoError(t, err)

	bus := eventbus.NewWatermillEventBus(pub, sub)

	t.Cleanup(func() {
		_ = bus.Close()
	})

	tokens := auth.NewTokenManager("test-secret", time.Hour)
	authService := auth.NewService(persistence.UserRepository(), auth.NewMemoryOTPStore(), tokens, bus, slog.Default())

	api := NewAPI(
		slog.Default(),
		persistence,
		bus,
		authService,
		noop.NewTracerProvider().Tracer("test"),
	)

	return api.App()
}

func TestAPI_RootEndpoint(t *testing.T) {
	app := setupTestApp(t)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)

	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "Formlane API", string(body))
}

func TestAPI_Liveness(t *testing.T) {
	app := setupTestApp(t)

	req := httptest.NewRequest(http.MethodGet, "/livez", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)

	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestAPI_HealthCheck(t *testing.T) {
	app := setupTestApp(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)

	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var health struct {
		Status string `json:"status"`
	}

	err = json.NewDecoder(resp.Body).Decode(&health)
	require.NoError(t, err)
	assert.Equal(t, "healthy", health.Status)
}

func TestAPI_SharedFormLookupIsPublic(t *testing.T) {
	app := setupTestApp(t)

	req := httptest.NewRequest(http.MethodGet, "/form/share/unknown", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)

	defer func() { _ = resp.Body.Close() }()

	// Not a 401: the route is reachable without a session.
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestAPI_FillStartIsPublic(t *testing.T) {
	app := setupTestApp(t)

	req := httptest.NewRequest(http.MethodPost, "/fill/start/unknown", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)

	defer func() { _ = resp.Body.Close() }()

	// Not a 401: respondents fill forms without an account.
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestAPI_FormRoutesRequireAuth(t *testing.T) {
	app := setupTestApp(t)

	for _, target := range []struct {
		method string
		path   string
	}{
		{http.MethodPost, "/form/create"},
		{http.MethodGet, "/form/some-id"},
		{http.MethodDelete, "/form/some-id"},
		{http.MethodGet, "/formres/list"},
		{http.MethodPost, "/builder/session"},
		{http.MethodGet, "/builder/templates"},
		{http.MethodPost, "/auth/send-otp"},
	} {
		req := httptest.NewRequest(target.method, target.path, nil)
		resp, err := app.Test(req)
		require.NoError(t, err)

		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, "%s %s", target.method, target.path)

		_ = resp.Body.Close()
	}
}

func TestAPI_CORS_Headers(t *testing.T) {
	app := setupTestApp(t)

	req := httptest.NewRequest(http.MethodOptions, "/form/create", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", "POST")
	resp, err := app.Test(req)
	require.NoError(t, err)

	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Equal(t, "http://localhost:5173", resp.Header.Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", resp.Header.Get("Access-Control-Allow-Credentials"))
}
