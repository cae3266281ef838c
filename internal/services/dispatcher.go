package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/ahmetcoskunkizilkaya/complaint-intake/internal/metrics"
	"github.com/ahmetcoskunkizilkaya/complaint-intake/internal/models"
)

// DispatchAck is the fixed acknowledgement returned after a dispatch run.
const DispatchAck = "All reports was closed!"

const rowTimeLayout = "2006-01-02 15:04:05"

// MessageSink delivers a text message to the admin channel.
type MessageSink interface {
	Name() string
	Send(ctx context.Context, text string) error
}

// RowSink appends one row to a spreadsheet.
type RowSink interface {
	Name() string
	AppendRow(ctx context.Context, row []string) error
}

// DispatchResult is the per-report outcome of a dispatch run.
type DispatchResult struct {
	ReportID  uint            `json:"report_id"`
	Category  models.Category `json:"category"`
	Sink      string          `json:"sink,omitempty"`
	Delivered bool            `json:"delivered"`
	Closed    bool            `json:"closed"`
	Error     string          `json:"error,omitempty"`
}

type Dispatcher struct {
	store       ReportRepository
	messages    MessageSink
	rows        RowSink
	sinkTimeout time.Duration
}

func NewDispatcher(store ReportRepository, messages MessageSink, rows RowSink, sinkTimeout time.Duration) *Dispatcher {
	return &Dispatcher{store: store, messages: messages, rows: rows, sinkTimeout: sinkTimeout}
}

// Dispatch processes ids in order, one at a time. An id that cannot be
// fetched aborts the run; sink and close failures are logged and recorded
// in the per-id result but never abort it.
func (d *Dispatcher) Dispatch(ctx context.Context, ids []uint) ([]DispatchResult, error) {
	results := make([]DispatchResult, 0, len(ids))

	for _, id := range ids {
		report, err := d.store.GetByID(ctx, id)
		if err != nil {
			metrics.DispatchOutcomes.WithLabelValues("", "fetch_failed").Inc()
			return results, fmt.Errorf("dispatch report %d: %w", id, err)
		}

		results = append(results, d.dispatchOne(ctx, report))
	}

	return results, nil
}

func (d *Dispatcher) dispatchOne(ctx context.Context, report *models.Report) DispatchResult {
	result := DispatchResult{ReportID: report.ID, Category: report.Category}

	var sinkErr error
	switch report.Category {
	case models.CategoryTechnical:
		result.Sink = d.messages.Name()
		sinkErr = d.withTimeout(ctx, result.Sink, func(ctx context.Context) error {
			return d.messages.Send(ctx, FormatMessage(report))
		})
	case models.CategoryPayment:
		result.Sink = d.rows.Name()
		sinkErr = d.withTimeout(ctx, result.Sink, func(ctx context.Context) error {
			return d.rows.AppendRow(ctx, FormatRow(report))
		})
	default:
		slog.Info("report has no notification route", "report_id", report.ID, "category", report.Category)
		metrics.DispatchOutcomes.WithLabelValues(string(report.Category), "skipped").Inc()
		return result
	}

	if sinkErr != nil {
		slog.Error("notification failed",
			"report_id", report.ID,
			"action", "dispatch_"+string(report.Category),
			"sink", result.Sink,
			"error", sinkErr.Error(),
		)
		result.Error = sinkErr.Error()
	} else {
		result.Delivered = true
	}

	if _, err := d.store.Update(ctx, report.ID, ReportUpdate{Status: ptr(models.StatusClosed)}); err != nil {
		slog.Error("failed to close report",
			"report_id", report.ID,
			"action", "close_report",
			"error", err.Error(),
		)
		if result.Error == "" {
			result.Error = err.Error()
		}
	} else {
		result.Closed = true
	}

	metrics.DispatchOutcomes.WithLabelValues(string(report.Category), outcome(result)).Inc()
	return result
}

func (d *Dispatcher) withTimeout(ctx context.Context, sink string, fn func(context.Context) error) error {
	if d.sinkTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.sinkTimeout)
		defer cancel()
	}

	start := time.Now()
	err := fn(ctx)
	metrics.SinkDuration.WithLabelValues(sink).Observe(time.Since(start).Seconds())
	return err
}

// FormatMessage renders the admin chat message for a technical report.
func FormatMessage(report *models.Report) string {
	return fmt.Sprintf("Новая заявка #%d\nТональность: %s\nТекст: %s",
		report.ID, report.Sentiment.Label(), report.Text)
}

// FormatRow renders the spreadsheet row for a payment report.
func FormatRow(report *models.Report) []string {
	return []string{
		report.Timestamp.UTC().Format(rowTimeLayout),
		string(report.Sentiment),
		report.Text,
	}
}

func outcome(r DispatchResult) string {
	switch {
	case r.Delivered && r.Closed:
		return "closed"
	case r.Closed:
		return "closed_undelivered"
	case r.Delivered:
		return "delivered_not_closed"
	}
	return "failed"
}

func ptr[T any](v T) *T { return &v }
