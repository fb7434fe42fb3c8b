package middleware

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newProtectedApp(key string) *fiber.App {
	app := fiber.New()
	app.Get("/secure", APIKeyAuthMiddleware(key), func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})
	return app
}

func TestAPIKeyAuthMiddleware(t *testing.T) {
	tests := []struct {
		name    string
		headers map[string]string
		want    int
	}{
		{name: "missing", want: fiber.StatusUnauthorized},
		{name: "wrong key", headers: map[string]string{"X-API-Key": "nope"}, want: fiber.StatusUnauthorized},
		{name: "header key", headers: map[string]string{"X-API-Key": "s3cret"}, want: fiber.StatusOK},
		{name: "bearer", headers: map[string]string{"Authorization": "Bearer s3cret"}, want: fiber.StatusOK},
		{name: "lowercase bearer", headers: map[string]string{"Authorization": "bearer s3cret"}, want: fiber.StatusOK},
		{name: "basic is ignored", headers: map[string]string{"Authorization": "Basic s3cret"}, want: fiber.StatusUnauthorized},
	}

	app := newProtectedApp("s3cret")
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/secure", nil)
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tt.want, resp.StatusCode)
		})
	}
}

func TestAPIKeyAuthMiddleware_Disabled(t *testing.T) {
	app := newProtectedApp("")

	resp, err := app.Test(httptest.NewRequest("GET", "/secure", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}
