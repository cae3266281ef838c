package handlers

import (
	"github.com/ahmetcoskunkizilkaya/complaint-intake/internal/dto"
	"github.com/ahmetcoskunkizilkaya/complaint-intake/internal/services"
	"github.com/gofiber/fiber/v2"
)

type NotifyHandler struct {
	dispatcher *services.Dispatcher
}

func NewNotifyHandler(dispatcher *services.Dispatcher) *NotifyHandler {
	return &NotifyHandler{dispatcher: dispatcher}
}

// Notify dispatches the given reports. Sink failures do not fail the
// request; they show up in the per-report results.
func (h *NotifyHandler) Notify(c *fiber.Ctx) error {
	var req dto.NotifyRequest
	if err := bindBody(c, &req); err != nil {
		return badRequest(c, err.Error())
	}

	results, err := h.dispatcher.Dispatch(c.UserContext(), req.ReportIDs)
	if err != nil {
		return serviceError(c, "notify", err)
	}

	return c.JSON(dto.NotifyResponse{
		Message: services.DispatchAck,
		Results: results,
	})
}
