package middleware_test

import (
	"errors"
	"io"
	"log/slog"
	"net/http/httptest"
	"testing"

	"menucart/internal/middleware"

	"github.com/dgrijalva/jwt-go"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubValidator struct{}

func (stubValidator) ValidateToken(tokenString string) (jwt.MapClaims, error) {
	if tokenString != "good" {
		return nil, errors.New("invalid token")
	}
	return jwt.MapClaims{"staff_id": "s-1", "email": "chef@example.com", "role": "staff"}, nil
}

func newApp() *fiber.App {
	app := fiber.New()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	app.Get("/private", middleware.AuthRequired(stubValidator{}, logger), func(c *fiber.Ctx) error {
		return c.SendString(c.Locals("staff_id").(string) + "|" + c.Locals("role").(string))
	})
	return app
}

func TestAuthRequired(t *testing.T) {
	tests := []struct {
		name       string
		header     string
		wantStatus int
		wantBody   string
	}{
		{name: "missing header", wantStatus: fiber.StatusUnauthorized},
		{name: "wrong scheme", header: "Basic abc", wantStatus: fiber.StatusUnauthorized},
		{name: "bad token", header: "Bearer bad", wantStatus: fiber.StatusUnauthorized},
		{name: "valid token", header: "Bearer good", wantStatus: fiber.StatusOK, wantBody: "s-1|staff"},
	}

	app := newApp()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/private", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			resp, err := app.Test(req, -1)
			require.NoError(t, err)
			defer resp.Body.Close()

			assert.Equal(t, tt.wantStatus, resp.StatusCode)
			if tt.wantBody != "" {
				body, _ := io.ReadAll(resp.Body)
				assert.Equal(t, tt.wantBody, string(body))
			}
		})
	}
}
