package notify

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/ahmetcoskunkizilkaya/complaint-intake/internal/services"
	"github.com/xuri/excelize/v2"
)

// Workbook appends rows to a local .xlsx file, creating the file and sheet
// when they do not exist yet.
type Workbook struct {
	mu    sync.Mutex
	path  string
	sheet string
}

func NewWorkbook(path, sheet string) *Workbook {
	if sheet == "" {
		sheet = "Sheet1"
	}
	return &Workbook{path: path, sheet: sheet}
}

func (w *Workbook) Name() string { return "xlsx" }

func (w *Workbook) AppendRow(_ context.Context, row []string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	f, err := w.open()
	if err != nil {
		return fmt.Errorf("%w: open workbook: %w", services.ErrTransport, err)
	}
	defer f.Close()

	rows, err := f.GetRows(w.sheet)
	if err != nil {
		return fmt.Errorf("%w: read workbook: %w", services.ErrTransport, err)
	}

	cell, err := excelize.CoordinatesToCellName(1, len(rows)+1)
	if err != nil {
		return fmt.Errorf("%w: %w", services.ErrTransport, err)
	}

	values := make([]interface{}, len(row))
	for i, v := range row {
		values[i] = v
	}
	if err := f.SetSheetRow(w.sheet, cell, &values); err != nil {
		return fmt.Errorf("%w: write row: %w", services.ErrTransport, err)
	}

	if err := f.SaveAs(w.path); err != nil {
		return fmt.Errorf("%w: save workbook: %w", services.ErrTransport, err)
	}
	return nil
}

func (w *Workbook) open() (*excelize.File, error) {
	f, err := excelize.OpenFile(w.path)
	if errors.Is(err, os.ErrNotExist) {
		f = excelize.NewFile()
	} else if err != nil {
		return nil, err
	}

	idx, err := f.GetSheetIndex(w.sheet)
	if err != nil {
		f.Close()
		return nil, err
	}
	if idx == -1 {
		idx, err = f.NewSheet(w.sheet)
		if err != nil {
			f.Close()
			return nil, err
		}
		f.SetActiveSheet(idx)
	}
	return f, nil
}
