package middleware

import (
	"strings"

	"github.com/ahmetcoskunkizilkaya/complaint-intake/internal/config"
	"github.com/ahmetcoskunkizilkaya/complaint-intake/internal/dto"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

// AdminRequired guards status changes and dispatch. It runs after
// JWTProtected and accepts either:
// 1. X-Admin-Token matching admin.token
// 2. A verified token whose role claim is "admin" or whose sub is listed
//    in admin.subjects
//
// With neither a token nor a secret configured the routes stay open.
func AdminRequired(cfg *config.Config) fiber.Handler {
	subjects := parseCSV(cfg.Admin.Subjects)

	if cfg.Admin.Token == "" && cfg.Admin.JWTSecret == "" {
		return func(c *fiber.Ctx) error { return c.Next() }
	}

	return func(c *fiber.Ctx) error {
		if adminTokenMatches(c, cfg.Admin.Token) {
			return c.Next()
		}

		token, ok := c.Locals("user").(*jwt.Token)
		if !ok || token == nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error: true, Message: "Unauthorized",
			})
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error: true, Message: "Invalid claims",
			})
		}

		role, _ := claims["role"].(string)
		sub, _ := claims["sub"].(string)
		if role == "admin" || contains(subjects, sub) {
			return c.Next()
		}

		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
			Error: true, Message: "Admin access required",
		})
	}
}

func parseCSV(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		trimmed := strings.TrimSpace(p)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

func contains(list []string, val string) bool {
	if val == "" {
		return false
	}
	for _, item := range list {
		if item == val {
			return true
		}
	}
	return false
}
