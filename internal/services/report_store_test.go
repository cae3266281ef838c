package services

import (
	"context"
	"testing"
	"time"

	"github.com/ahmetcoskunkizilkaya/complaint-intake/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReportStore_SaveAppliesDefaults(t *testing.T) {
	store := NewReportStore(newTestDB(t))
	ctx := context.Background()

	report, err := store.Save(ctx, NewReport{Text: "не работает вход"})
	require.NoError(t, err)

	assert.NotZero(t, report.ID)
	assert.Equal(t, models.StatusOpen, report.Status)
	assert.Equal(t, models.SentimentUnknown, report.Sentiment)
	assert.Equal(t, models.CategoryOther, report.Category)
	assert.WithinDuration(t, time.Now(), report.Timestamp, time.Minute)
}

func TestReportStore_IDsAreUnique(t *testing.T) {
	store := NewReportStore(newTestDB(t))
	ctx := context.Background()

	seen := make(map[uint]bool)
	for i := 0; i < 10; i++ {
		report, err := store.Save(ctx, NewReport{Text: "report"})
		require.NoError(t, err)
		assert.False(t, seen[report.ID], "id %d returned twice", report.ID)
		seen[report.ID] = true
	}
}

func TestReportStore_UpdateOnlyGivenFields(t *testing.T) {
	store := NewReportStore(newTestDB(t))
	ctx := context.Background()

	saved, err := store.Save(ctx, NewReport{
		Text:      "деньги списались дважды",
		Sentiment: models.SentimentNegative,
		Category:  models.CategoryPayment,
	})
	require.NoError(t, err)

	id, err := store.Update(ctx, saved.ID, ReportUpdate{Status: ptr(models.StatusClosed)})
	require.NoError(t, err)
	assert.Equal(t, saved.ID, id)

	got, err := store.GetByID(ctx, saved.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusClosed, got.Status)
	assert.Equal(t, models.SentimentNegative, got.Sentiment)
	assert.Equal(t, models.CategoryPayment, got.Category)
	assert.Equal(t, saved.Text, got.Text)
	assert.True(t, saved.Timestamp.Equal(got.Timestamp))
}

func TestReportStore_UpdateUnknownID(t *testing.T) {
	store := NewReportStore(newTestDB(t))

	_, err := store.Update(context.Background(), 999, ReportUpdate{Status: ptr(models.StatusClosed)})
	assert.ErrorIs(t, err, ErrReportNotFound)
	assert.Equal(t, "not_found", Kind(err))
}

func TestReportStore_GetUnknownID(t *testing.T) {
	store := NewReportStore(newTestDB(t))

	report, err := store.GetByID(context.Background(), 999)
	assert.ErrorIs(t, err, ErrReportNotFound)
	assert.Nil(t, report)
}

func TestReportStore_ListRecent(t *testing.T) {
	store := NewReportStore(newTestDB(t))
	ctx := context.Background()

	now := time.Now().UTC()
	store.now = func() time.Time { return now.Add(-2 * time.Hour) }
	_, err := store.Save(ctx, NewReport{Text: "old"})
	require.NoError(t, err)

	store.now = func() time.Time { return now }
	open, err := store.Save(ctx, NewReport{Text: "fresh open"})
	require.NoError(t, err)
	closed, err := store.Save(ctx, NewReport{Text: "fresh closed", Status: models.StatusClosed})
	require.NoError(t, err)

	all, err := store.ListRecent(ctx, time.Hour, nil)
	require.NoError(t, err)
	assert.ElementsMatch(t, []uint{open.ID, closed.ID}, reportIDs(all))

	onlyOpen, err := store.ListRecent(ctx, time.Hour, ptr(models.StatusOpen))
	require.NoError(t, err)
	assert.Equal(t, []uint{open.ID}, reportIDs(onlyOpen))
}

func TestReportStore_StorageErrorWhenTableMissing(t *testing.T) {
	db := newTestDB(t)
	require.NoError(t, db.Migrator().DropTable(&models.Report{}))
	store := NewReportStore(db)

	_, err := store.Save(context.Background(), NewReport{Text: "x"})
	assert.ErrorIs(t, err, ErrStorage)
}

func reportIDs(reports []models.Report) []uint {
	ids := make([]uint, 0, len(reports))
	for _, r := range reports {
		ids = append(ids, r.ID)
	}
	return ids
}
