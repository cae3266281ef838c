package services

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/ahmetcoskunkizilkaya/complaint-intake/internal/models"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "reports.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(&models.Report{}))
	return db
}

type fakeClassifier struct {
	sentiment   models.Sentiment
	category    models.Category
	categoryErr error
	calls       []string
}

func (f *fakeClassifier) ClassifySentiment(_ context.Context, _ string) models.Sentiment {
	f.calls = append(f.calls, "sentiment")
	return f.sentiment
}

func (f *fakeClassifier) ClassifyCategory(_ context.Context, _ string) (models.Category, error) {
	f.calls = append(f.calls, "category")
	if f.categoryErr != nil {
		return "", f.categoryErr
	}
	return f.category, nil
}

type fakeMessages struct {
	sent []string
	err  error
}

func (f *fakeMessages) Name() string { return "fake_messages" }

func (f *fakeMessages) Send(_ context.Context, text string) error {
	f.sent = append(f.sent, text)
	return f.err
}

type fakeRows struct {
	rows [][]string
	err  error
}

func (f *fakeRows) Name() string { return "fake_rows" }

func (f *fakeRows) AppendRow(_ context.Context, row []string) error {
	f.rows = append(f.rows, row)
	return f.err
}

type fakeGenerator struct {
	answer string
	err    error
	prompt string
}

func (f *fakeGenerator) Generate(_ context.Context, prompt string) (string, error) {
	f.prompt = prompt
	return f.answer, f.err
}

var errBoom = errors.New("boom")
