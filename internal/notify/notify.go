// Package notify holds the notification sinks used by the report dispatcher:
// a Telegram chat for technical reports and a spreadsheet for payment reports.
package notify

import (
	"context"
	"fmt"

	"github.com/ahmetcoskunkizilkaya/complaint-intake/internal/config"
	"github.com/ahmetcoskunkizilkaya/complaint-intake/internal/services"
	"google.golang.org/api/option"
)

// NewMessageSink builds the sink selected by telegram.driver.
func NewMessageSink(cfg *config.Config) (services.MessageSink, error) {
	switch cfg.Telegram.Driver {
	case "telegram":
		return NewTelegram(cfg.Telegram.BaseURL, cfg.Telegram.Token, cfg.Telegram.AdminID, cfg.SinkTimeout()), nil
	case "none", "":
		return NewLogSink("telegram"), nil
	}
	return nil, fmt.Errorf("unknown telegram driver %q", cfg.Telegram.Driver)
}

// NewRowSink builds the sink selected by sheets.driver.
func NewRowSink(ctx context.Context, cfg *config.Config) (services.RowSink, error) {
	switch cfg.Sheets.Driver {
	case "google":
		return NewGoogleSheets(ctx, cfg.Sheets.SpreadsheetID, cfg.Sheets.Range,
			option.WithCredentialsFile(cfg.Sheets.CredentialsFile))
	case "xlsx":
		return NewWorkbook(cfg.Sheets.WorkbookPath, cfg.Sheets.WorkbookSheet), nil
	case "none", "":
		return NewLogSink("sheets"), nil
	}
	return nil, fmt.Errorf("unknown sheets driver %q", cfg.Sheets.Driver)
}
