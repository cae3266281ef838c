package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/ahmetcoskunkizilkaya/complaint-intake/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedReport(t *testing.T, store *ReportStore, text string, sentiment models.Sentiment, category models.Category) *models.Report {
	t.Helper()
	report, err := store.Save(context.Background(), NewReport{Text: text, Sentiment: sentiment, Category: category})
	require.NoError(t, err)
	return report
}

func TestDispatch_TechnicalSendsMessageAndCloses(t *testing.T) {
	store := NewReportStore(newTestDB(t))
	messages, rows := &fakeMessages{}, &fakeRows{}
	d := NewDispatcher(store, messages, rows, time.Second)

	report := seedReport(t, store, "приложение падает", models.SentimentNegative, models.CategoryTechnical)

	results, err := d.Dispatch(context.Background(), []uint{report.ID})
	require.NoError(t, err)

	require.Len(t, messages.sent, 1)
	assert.Contains(t, messages.sent[0], "приложение падает")
	assert.Contains(t, messages.sent[0], "негативная")
	assert.Empty(t, rows.rows)

	require.Len(t, results, 1)
	assert.True(t, results[0].Delivered)
	assert.True(t, results[0].Closed)

	got, err := store.GetByID(context.Background(), report.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusClosed, got.Status)
}

func TestDispatch_TechnicalClosesEvenWhenSendFails(t *testing.T) {
	store := NewReportStore(newTestDB(t))
	messages := &fakeMessages{err: ErrTransport}
	d := NewDispatcher(store, messages, &fakeRows{}, time.Second)

	report := seedReport(t, store, "ошибка 500", models.SentimentNeutral, models.CategoryTechnical)

	results, err := d.Dispatch(context.Background(), []uint{report.ID})
	require.NoError(t, err)

	assert.Len(t, messages.sent, 1)
	require.Len(t, results, 1)
	assert.False(t, results[0].Delivered)
	assert.True(t, results[0].Closed)
	assert.NotEmpty(t, results[0].Error)

	got, err := store.GetByID(context.Background(), report.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusClosed, got.Status)
}

func TestDispatch_PaymentAppendsRow(t *testing.T) {
	store := NewReportStore(newTestDB(t))
	classifier := &fakeClassifier{sentiment: models.SentimentNegative, category: models.CategoryPayment}
	svc := NewReportService(store, classifier, 0)
	messages, rows := &fakeMessages{}, &fakeRows{}
	d := NewDispatcher(store, messages, rows, time.Second)

	report, err := svc.SubmitReport(context.Background(), "оплата не прошла", "")
	require.NoError(t, err)
	assert.Equal(t, models.StatusOpen, report.Status)

	_, err = d.Dispatch(context.Background(), []uint{report.ID})
	require.NoError(t, err)

	require.Len(t, rows.rows, 1)
	assert.Equal(t, []string{
		report.Timestamp.UTC().Format("2006-01-02 15:04:05"),
		"negative",
		"оплата не прошла",
	}, rows.rows[0])
	assert.Empty(t, messages.sent)

	got, err := store.GetByID(context.Background(), report.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusClosed, got.Status)
}

func TestDispatch_OtherIsLeftUntouched(t *testing.T) {
	store := NewReportStore(newTestDB(t))
	messages, rows := &fakeMessages{}, &fakeRows{}
	d := NewDispatcher(store, messages, rows, time.Second)

	report := seedReport(t, store, "просто отзыв", models.SentimentPositive, models.CategoryOther)

	results, err := d.Dispatch(context.Background(), []uint{report.ID})
	require.NoError(t, err)

	assert.Empty(t, messages.sent)
	assert.Empty(t, rows.rows)
	require.Len(t, results, 1)
	assert.False(t, results[0].Closed)

	got, err := store.GetByID(context.Background(), report.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusOpen, got.Status)
}

func TestDispatch_UnknownIDFailsBatch(t *testing.T) {
	store := NewReportStore(newTestDB(t))
	messages := &fakeMessages{}
	d := NewDispatcher(store, messages, &fakeRows{}, time.Second)

	first := seedReport(t, store, "first", models.SentimentUnknown, models.CategoryTechnical)
	last := seedReport(t, store, "last", models.SentimentUnknown, models.CategoryTechnical)

	results, err := d.Dispatch(context.Background(), []uint{first.ID, 999, last.ID})
	assert.ErrorIs(t, err, ErrReportNotFound)
	assert.Len(t, results, 1, "ids before the missing one are processed")
	assert.Len(t, messages.sent, 1)

	got, err := store.GetByID(context.Background(), last.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusOpen, got.Status)
}

func TestDispatch_RepeatedRunIsAcceptedByStore(t *testing.T) {
	store := NewReportStore(newTestDB(t))
	rows := &fakeRows{}
	d := NewDispatcher(store, &fakeMessages{}, rows, time.Second)

	report := seedReport(t, store, "двойное списание", models.SentimentNegative, models.CategoryPayment)

	for i := 0; i < 2; i++ {
		results, err := d.Dispatch(context.Background(), []uint{report.ID})
		require.NoError(t, err)
		assert.True(t, results[0].Closed)
	}
	assert.Len(t, rows.rows, 2)
}

func TestFormatMessage(t *testing.T) {
	msg := FormatMessage(&models.Report{ID: 7, Text: "не грузится", Sentiment: models.SentimentUnknown})
	assert.Equal(t, "Новая заявка #7\nТональность: не определена\nТекст: не грузится", msg)
}

// closeFailingStore fails status updates for a single report id.
type closeFailingStore struct {
	*ReportStore
	failID uint
}

func (s *closeFailingStore) Update(ctx context.Context, id uint, upd ReportUpdate) (uint, error) {
	if id == s.failID {
		return 0, fmt.Errorf("%w: disk full", ErrStorage)
	}
	return s.ReportStore.Update(ctx, id, upd)
}

func TestDispatch_CloseFailureContinuesToNextID(t *testing.T) {
	base := NewReportStore(newTestDB(t))
	messages, rows := &fakeMessages{}, &fakeRows{}

	technical := seedReport(t, base, "не приходит смс", models.SentimentNegative, models.CategoryTechnical)
	payment := seedReport(t, base, "не вернули деньги", models.SentimentNegative, models.CategoryPayment)

	store := &closeFailingStore{ReportStore: base, failID: technical.ID}
	d := NewDispatcher(store, messages, rows, time.Second)

	results, err := d.Dispatch(context.Background(), []uint{technical.ID, payment.ID})
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.True(t, results[0].Delivered)
	assert.False(t, results[0].Closed)
	assert.Contains(t, results[0].Error, "disk full")

	assert.True(t, results[1].Delivered)
	assert.True(t, results[1].Closed)
	assert.Len(t, messages.sent, 1)
	assert.Len(t, rows.rows, 1)

	got, err := base.GetByID(context.Background(), technical.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusOpen, got.Status)

	got, err = base.GetByID(context.Background(), payment.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusClosed, got.Status)
}
