package middleware

import (
	"crypto/subtle"

	"github.com/ahmetcoskunkizilkaya/complaint-intake/internal/config"
	"github.com/ahmetcoskunkizilkaya/complaint-intake/internal/dto"
	jwtware "github.com/gofiber/contrib/jwt"
	"github.com/gofiber/fiber/v2"
)

// JWTProtected verifies an HS256 bearer token signed with admin.jwt_secret and
// stores it in c.Locals("user"). Requests carrying a valid X-Admin-Token skip
// verification; without a secret the middleware is a pass-through.
func JWTProtected(cfg *config.Config) fiber.Handler {
	if cfg.Admin.JWTSecret == "" {
		return func(c *fiber.Ctx) error { return c.Next() }
	}

	return jwtware.New(jwtware.Config{
		SigningKey: jwtware.SigningKey{
			JWTAlg: jwtware.HS256,
			Key:    []byte(cfg.Admin.JWTSecret),
		},
		Filter: func(c *fiber.Ctx) bool {
			return adminTokenMatches(c, cfg.Admin.Token)
		},
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error:   true,
				Message: "Unauthorized: invalid or expired token",
			})
		},
	})
}

func adminTokenMatches(c *fiber.Ctx, adminToken string) bool {
	if adminToken == "" {
		return false
	}
	got := c.Get("X-Admin-Token")
	return got != "" && subtle.ConstantTimeCompare([]byte(got), []byte(adminToken)) == 1
}
