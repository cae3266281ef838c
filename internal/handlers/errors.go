package handlers

import (
	"errors"
	"log/slog"

	"github.com/ahmetcoskunkizilkaya/complaint-intake/internal/dto"
	"github.com/ahmetcoskunkizilkaya/complaint-intake/internal/services"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = validator.New()

func badRequest(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
		Error: true, Message: message, Kind: "invalid_input",
	})
}

// bindBody decodes and validates a JSON body into req. The returned error
// text is safe to show to the client.
func bindBody(c *fiber.Ctx, req interface{}) error {
	if err := c.BodyParser(req); err != nil {
		return errors.New("Invalid request body")
	}
	if err := validate.Struct(req); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return errors.New("Invalid field: " + verrs[0].Field())
		}
		return errors.New("Invalid request body")
	}
	return nil
}

// serviceError answers a failed service call. Unknown ids are reported as 500
// like any other failure; the kind field tells them apart.
func serviceError(c *fiber.Ctx, action string, err error) error {
	kind := services.Kind(err)
	if errors.Is(err, services.ErrInvalidInput) {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: err.Error(), Kind: kind,
		})
	}

	level := slog.LevelError
	if errors.Is(err, services.ErrReportNotFound) {
		level = slog.LevelWarn
	}
	slog.Log(c.UserContext(), level, "request failed",
		"action", action,
		"trace_id", c.GetRespHeader(fiber.HeaderXRequestID),
		"error", err.Error(),
	)

	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
		Error: true, Message: err.Error(), Kind: kind,
	})
}
