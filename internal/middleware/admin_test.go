package middleware

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ahmetcoskunkizilkaya/complaint-intake/internal/config"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAdminApp(cfg *config.Config) *fiber.App {
	app := fiber.New()
	app.Put("/change_status", JWTProtected(cfg), AdminRequired(cfg), func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})
	return app
}

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func status(t *testing.T, app *fiber.App, headers map[string]string) int {
	t.Helper()
	req := httptest.NewRequest("PUT", "/change_status", nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp.StatusCode
}

func TestAdminRequired_OpenWithoutCredentials(t *testing.T) {
	app := newAdminApp(config.Default())
	assert.Equal(t, fiber.StatusOK, status(t, app, nil))
}

func TestAdminRequired_Token(t *testing.T) {
	cfg := config.Default()
	cfg.Admin.Token = "s3cret"
	app := newAdminApp(cfg)

	assert.Equal(t, fiber.StatusOK, status(t, app, map[string]string{"X-Admin-Token": "s3cret"}))
	assert.Equal(t, fiber.StatusUnauthorized, status(t, app, map[string]string{"X-Admin-Token": "wrong"}))
	assert.Equal(t, fiber.StatusUnauthorized, status(t, app, nil))
}

func TestAdminRequired_JWT(t *testing.T) {
	cfg := config.Default()
	cfg.Admin.JWTSecret = "jwt-secret"
	cfg.Admin.Subjects = "ops-bot, alice"
	app := newAdminApp(cfg)

	exp := time.Now().Add(time.Hour).Unix()
	admin := signToken(t, "jwt-secret", jwt.MapClaims{"role": "admin", "exp": exp})
	listed := signToken(t, "jwt-secret", jwt.MapClaims{"sub": "ops-bot", "exp": exp})
	user := signToken(t, "jwt-secret", jwt.MapClaims{"sub": "bob", "exp": exp})
	forged := signToken(t, "other-secret", jwt.MapClaims{"role": "admin", "exp": exp})
	expired := signToken(t, "jwt-secret", jwt.MapClaims{"role": "admin", "exp": time.Now().Add(-time.Hour).Unix()})

	assert.Equal(t, fiber.StatusOK, status(t, app, map[string]string{"Authorization": "Bearer " + admin}))
	assert.Equal(t, fiber.StatusOK, status(t, app, map[string]string{"Authorization": "Bearer " + listed}))
	assert.Equal(t, fiber.StatusForbidden, status(t, app, map[string]string{"Authorization": "Bearer " + user}))
	assert.Equal(t, fiber.StatusUnauthorized, status(t, app, map[string]string{"Authorization": "Bearer " + forged}))
	assert.Equal(t, fiber.StatusUnauthorized, status(t, app, map[string]string{"Authorization": "Bearer " + expired}))
	assert.Equal(t, fiber.StatusUnauthorized, status(t, app, nil))
}

func TestAdminRequired_TokenOrJWT(t *testing.T) {
	cfg := config.Default()
	cfg.Admin.Token = "s3cret"
	cfg.Admin.JWTSecret = "jwt-secret"
	app := newAdminApp(cfg)

	admin := signToken(t, "jwt-secret", jwt.MapClaims{"role": "admin", "exp": time.Now().Add(time.Hour).Unix()})

	assert.Equal(t, fiber.StatusOK, status(t, app, map[string]string{"X-Admin-Token": "s3cret"}),
		"a matching admin token skips bearer verification")
	assert.Equal(t, fiber.StatusOK, status(t, app, map[string]string{"Authorization": "Bearer " + admin}))
	assert.Equal(t, fiber.StatusUnauthorized, status(t, app, map[string]string{
		"X-Admin-Token": "wrong",
		"Authorization": "Bearer not-a-jwt",
	}))
}
