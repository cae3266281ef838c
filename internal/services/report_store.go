package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ahmetcoskunkizilkaya/complaint-intake/internal/models"
	"gorm.io/gorm"
)

// NewReport carries the fields of a report about to be stored. Empty enum
// fields take the column defaults (open, unknown, other).
type NewReport struct {
	Text      string
	Status    models.Status
	Sentiment models.Sentiment
	Category  models.Category
}

// ReportUpdate applies only its non-nil fields.
type ReportUpdate struct {
	Status    *models.Status
	Sentiment *models.Sentiment
	Category  *models.Category
}

type ReportStore struct {
	db  *gorm.DB
	now func() time.Time
}

func NewReportStore(db *gorm.DB) *ReportStore {
	return &ReportStore{
		db:  db,
		now: func() time.Time { return time.Now().UTC() },
	}
}

func (s *ReportStore) Save(ctx context.Context, in NewReport) (*models.Report, error) {
	report := models.Report{
		Text:      in.Text,
		Status:    in.Status,
		Sentiment: in.Sentiment,
		Category:  in.Category,
		Timestamp: s.now().Truncate(time.Microsecond),
	}
	if report.Status == "" {
		report.Status = models.StatusOpen
	}
	if report.Sentiment == "" {
		report.Sentiment = models.SentimentUnknown
	}
	if report.Category == "" {
		report.Category = models.CategoryOther
	}

	if err := s.db.WithContext(ctx).Create(&report).Error; err != nil {
		return nil, fmt.Errorf("%w: failed to create report: %w", ErrStorage, err)
	}
	return &report, nil
}

func (s *ReportStore) Update(ctx context.Context, id uint, upd ReportUpdate) (uint, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var report models.Report
		if err := tx.First(&report, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: id %d", ErrReportNotFound, id)
			}
			return fmt.Errorf("%w: failed to load report %d: %w", ErrStorage, id, err)
		}

		fields := make(map[string]interface{}, 3)
		if upd.Status != nil {
			fields["status"] = *upd.Status
		}
		if upd.Sentiment != nil {
			fields["sentiment"] = *upd.Sentiment
		}
		if upd.Category != nil {
			fields["category"] = *upd.Category
		}
		if len(fields) == 0 {
			return nil
		}

		if err := tx.Model(&report).Updates(fields).Error; err != nil {
			return fmt.Errorf("%w: failed to update report %d: %w", ErrStorage, id, err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return id, nil
}

func (s *ReportStore) GetByID(ctx context.Context, id uint) (*models.Report, error) {
	var report models.Report
	if err := s.db.WithContext(ctx).First(&report, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: id %d", ErrReportNotFound, id)
		}
		return nil, fmt.Errorf("%w: failed to load report %d: %w", ErrStorage, id, err)
	}
	return &report, nil
}

// ListRecent returns reports created within window of now, in no particular
// order. A nil status returns reports of every status.
func (s *ReportStore) ListRecent(ctx context.Context, window time.Duration, status *models.Status) ([]models.Report, error) {
	since := s.now().Add(-window)

	query := s.db.WithContext(ctx).Where("timestamp >= ?", since)
	if status != nil {
		query = query.Where("status = ?", *status)
	}

	reports := make([]models.Report, 0)
	if err := query.Find(&reports).Error; err != nil {
		return nil, fmt.Errorf("%w: failed to list reports: %w", ErrStorage, err)
	}
	return reports, nil
}
