package dto

import (
	"time"

	"github.com/ahmetcoskunkizilkaya/complaint-intake/internal/models"
	"github.com/ahmetcoskunkizilkaya/complaint-intake/internal/services"
)

type CreateReportRequest struct {
	Text   string `json:"text" validate:"required,max=10000"`
	Status string `json:"status" validate:"omitempty,oneof=open closed"`
}

type CreateReportResponse struct {
	ID        uint             `json:"id"`
	Status    models.Status    `json:"status"`
	Sentiment models.Sentiment `json:"sentiment"`
	Category  models.Category  `json:"category"`
}

type ChangeStatusRequest struct {
	ReportID uint   `json:"report_id" validate:"required,gt=0"`
	Status   string `json:"status" validate:"required,oneof=open closed"`
}

type ChangeStatusResponse struct {
	ID        uint          `json:"id"`
	NewStatus models.Status `json:"new_status"`
}

type ReportResponse struct {
	ID        uint             `json:"id"`
	Text      string           `json:"text"`
	Status    models.Status    `json:"status"`
	Sentiment models.Sentiment `json:"sentiment"`
	Category  models.Category  `json:"category"`
	Timestamp time.Time        `json:"timestamp"`
}

func NewReportResponse(r *models.Report) ReportResponse {
	return ReportResponse{
		ID:        r.ID,
		Text:      r.Text,
		Status:    r.Status,
		Sentiment: r.Sentiment,
		Category:  r.Category,
		Timestamp: r.Timestamp,
	}
}

type NotifyRequest struct {
	ReportIDs []uint `json:"report_ids" validate:"required,dive,gt=0"`
}

type NotifyResponse struct {
	Message string                    `json:"message"`
	Results []services.DispatchResult `json:"results"`
}
