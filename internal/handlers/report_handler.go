package handlers

import (
	"strconv"

	"github.com/ahmetcoskunkizilkaya/complaint-intake/internal/dto"
	"github.com/ahmetcoskunkizilkaya/complaint-intake/internal/models"
	"github.com/ahmetcoskunkizilkaya/complaint-intake/internal/services"
	"github.com/gofiber/fiber/v2"
)

type ReportHandler struct {
	reportService *services.ReportService
}

func NewReportHandler(reportService *services.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

func (h *ReportHandler) CreateReport(c *fiber.Ctx) error {
	var req dto.CreateReportRequest
	if err := bindBody(c, &req); err != nil {
		return badRequest(c, err.Error())
	}

	report, err := h.reportService.SubmitReport(c.UserContext(), req.Text, models.Status(req.Status))
	if err != nil {
		return serviceError(c, "create_report", err)
	}

	return c.JSON(dto.CreateReportResponse{
		ID:        report.ID,
		Status:    report.Status,
		Sentiment: report.Sentiment,
		Category:  report.Category,
	})
}

func (h *ReportHandler) ChangeStatus(c *fiber.Ctx) error {
	var req dto.ChangeStatusRequest
	if err := bindBody(c, &req); err != nil {
		return badRequest(c, err.Error())
	}

	status := models.Status(req.Status)
	id, err := h.reportService.ChangeStatus(c.UserContext(), req.ReportID, status)
	if err != nil {
		return serviceError(c, "change_status", err)
	}

	return c.JSON(dto.ChangeStatusResponse{ID: id, NewStatus: status})
}

// ListRecent returns reports from the recent window. Without ?status= it
// does not filter by status.
func (h *ReportHandler) ListRecent(c *fiber.Ctx) error {
	var status *models.Status
	if raw := c.Query("status"); raw != "" {
		s := models.Status(raw)
		if !s.Valid() {
			return badRequest(c, "Invalid status filter")
		}
		status = &s
	}

	reports, err := h.reportService.RecentReports(c.UserContext(), status)
	if err != nil {
		return serviceError(c, "list_reports", err)
	}

	resp := make([]dto.ReportResponse, 0, len(reports))
	for i := range reports {
		resp = append(resp, dto.NewReportResponse(&reports[i]))
	}
	return c.JSON(resp)
}

func (h *ReportHandler) GetReport(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil || id == 0 {
		return badRequest(c, "Invalid report ID")
	}

	report, err := h.reportService.GetReport(c.UserContext(), uint(id))
	if err != nil {
		return serviceError(c, "get_report", err)
	}

	return c.JSON(dto.NewReportResponse(report))
}
