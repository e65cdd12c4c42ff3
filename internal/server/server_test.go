package server_test

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"menucart/internal/models"
	"menucart/internal/repositories"
	"menucart/internal/server"
	"menucart/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newApp(t *testing.T) *fiber.App {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	menuRepo := repositories.NewMockMenuRepository()
	require.NoError(t, menuRepo.CreateCategory(&models.Category{
		ID: "mains", Name: "Mains",
		Items: []models.MenuItem{{ID: "burger", Name: "Burger", Price: 10, AvailableQty: 5, IsAvailable: true}},
	}))
	svc := server.Services{
		Menu:   services.NewMenuService(menuRepo, "Bistro", logger),
		Orders: services.NewOrderService(repositories.NewMockOrderRepository(), menuRepo, nil, logger),
		Auth:   services.NewAuthService(repositories.NewMockStaffRepository(), "secret", logger),
	}
	return server.New(svc, server.Options{Logger: logger, AccessLog: io.Discard})
}

func TestHealth(t *testing.T) {
	app := newApp(t)
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/health", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, "disabled", body["events"])
}

func TestMetricsEndpoint(t *testing.T) {
	app := newApp(t)

	// Generate one request so the latency histogram has a sample.
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/menu", nil), -1)
	require.NoError(t, err)
	resp.Body.Close()

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/metrics", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	raw, _ := io.ReadAll(resp.Body)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, string(raw), "menucart_http_request_duration_seconds")
}

func TestLoginIsPublicButBoardIsNot(t *testing.T) {
	app := newApp(t)

	body, _ := json.Marshal(map[string]string{"email": "nobody@example.com", "password": "secret123"})
	req := httptest.NewRequest(http.MethodPost, "/api/staff/login", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	var loginBody map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&loginBody))
	// Reaches the handler: credentials are wrong rather than the header missing.
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "Authentication failed", loginBody["message"])

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/api/staff/orders", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestUnknownRoute(t *testing.T) {
	app := newApp(t)
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/nothing-here", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.NotEmpty(t, body["message"])
}
