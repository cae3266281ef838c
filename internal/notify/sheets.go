package notify

import (
	"context"
	"fmt"

	"github.com/ahmetcoskunkizilkaya/complaint-intake/internal/services"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// GoogleSheets appends rows to a range of a Google spreadsheet.
type GoogleSheets struct {
	svc           *sheets.Service
	spreadsheetID string
	writeRange    string
}

func NewGoogleSheets(ctx context.Context, spreadsheetID, writeRange string, opts ...option.ClientOption) (*GoogleSheets, error) {
	svc, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets client: %w", err)
	}
	return &GoogleSheets{svc: svc, spreadsheetID: spreadsheetID, writeRange: writeRange}, nil
}

func (g *GoogleSheets) Name() string { return "google_sheets" }

func (g *GoogleSheets) AppendRow(ctx context.Context, row []string) error {
	values := make([]interface{}, len(row))
	for i, v := range row {
		values[i] = v
	}

	_, err := g.svc.Spreadsheets.Values.
		Append(g.spreadsheetID, g.writeRange, &sheets.ValueRange{Values: [][]interface{}{values}}).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("%w: sheets append: %w", services.ErrTransport, err)
	}
	return nil
}
