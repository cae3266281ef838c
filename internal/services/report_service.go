package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ahmetcoskunkizilkaya/complaint-intake/internal/metrics"
	"github.com/ahmetcoskunkizilkaya/complaint-intake/internal/models"
)

// ReportClassifier labels report text. Sentiment is advisory and cannot fail;
// category drives routing and can.
type ReportClassifier interface {
	ClassifySentiment(ctx context.Context, text string) models.Sentiment
	ClassifyCategory(ctx context.Context, text string) (models.Category, error)
}

// ReportRepository is the persistence contract used by the service and the dispatcher.
type ReportRepository interface {
	Save(ctx context.Context, in NewReport) (*models.Report, error)
	Update(ctx context.Context, id uint, upd ReportUpdate) (uint, error)
	GetByID(ctx context.Context, id uint) (*models.Report, error)
	ListRecent(ctx context.Context, window time.Duration, status *models.Status) ([]models.Report, error)
}

type ReportService struct {
	store        ReportRepository
	classifier   ReportClassifier
	recentWindow time.Duration
}

func NewReportService(store ReportRepository, classifier ReportClassifier, recentWindow time.Duration) *ReportService {
	if recentWindow <= 0 {
		recentWindow = time.Hour
	}
	return &ReportService{store: store, classifier: classifier, recentWindow: recentWindow}
}

// SubmitReport classifies sentiment, then category, then stores the report.
// Nothing is written when category classification fails.
func (s *ReportService) SubmitReport(ctx context.Context, text string, status models.Status) (*models.Report, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("%w: text is required", ErrInvalidInput)
	}
	if status == "" {
		status = models.StatusOpen
	}
	if !status.Valid() {
		return nil, fmt.Errorf("%w: invalid status %q", ErrInvalidInput, status)
	}

	sentiment := s.classifier.ClassifySentiment(ctx, text)

	category, err := s.classifier.ClassifyCategory(ctx, text)
	if err != nil {
		return nil, err
	}

	report, err := s.store.Save(ctx, NewReport{
		Text:      text,
		Status:    status,
		Sentiment: sentiment,
		Category:  category,
	})
	if err != nil {
		return nil, err
	}

	metrics.ReportsSubmitted.WithLabelValues(string(report.Category), string(report.Sentiment)).Inc()
	return report, nil
}

func (s *ReportService) ChangeStatus(ctx context.Context, id uint, status models.Status) (uint, error) {
	if !status.Valid() {
		return 0, fmt.Errorf("%w: invalid status %q", ErrInvalidInput, status)
	}
	return s.store.Update(ctx, id, ReportUpdate{Status: &status})
}

// RecentReports lists reports from the recent window. A nil status does not
// filter by status.
func (s *ReportService) RecentReports(ctx context.Context, status *models.Status) ([]models.Report, error) {
	return s.store.ListRecent(ctx, s.recentWindow, status)
}

func (s *ReportService) GetReport(ctx context.Context, id uint) (*models.Report, error) {
	return s.store.GetByID(ctx, id)
}
