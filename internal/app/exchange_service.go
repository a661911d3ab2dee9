package app

import (
	"context"
	"fmt"
	"io"

	"github.com/example/maintlog/internal/core/failure"
	"github.com/example/maintlog/internal/ports/primary"
	"github.com/example/maintlog/internal/ports/secondary"
)

// ExchangeServiceImpl implements the ExchangeService interface.
type ExchangeServiceImpl struct {
	store       primary.RecordStore
	spreadsheet secondary.Spreadsheet
}

// NewExchangeService creates a new ExchangeService with injected dependencies.
func NewExchangeService(store primary.RecordStore, spreadsheet secondary.Spreadsheet) *ExchangeServiceImpl {
	return &ExchangeServiceImpl{
		store:       store,
		spreadsheet: spreadsheet,
	}
}

// Export writes the current table as a workbook with one sheet named after
// the dataset. A load warning is passed on in the result; a dataset whose
// file could not be read is not exported at all.
func (s *ExchangeServiceImpl) Export(ctx context.Context, w io.Writer) (*primary.ExportResult, error) {
	loaded := s.store.Load(ctx)
	if loaded.Unreadable() {
		return nil, &failure.StorageError{
			Op:  "export",
			Err: fmt.Errorf("%w: %v", primary.ErrUnreadableDataset, loaded.Warning),
		}
	}

	t := loaded.Table
	if err := s.spreadsheet.Export(ctx, t, s.store.Dataset(), w); err != nil {
		return nil, fmt.Errorf("failed to export %s: %w", s.store.Dataset(), err)
	}
	return &primary.ExportResult{Rows: t.Len(), Source: loaded.Source, Warning: loaded.Warning}, nil
}

// Import replaces the dataset with the rows of a workbook sheet.
func (s *ExchangeServiceImpl) Import(ctx context.Context, r io.Reader, sheet string) (*primary.ImportResult, error) {
	t, err := s.spreadsheet.Import(ctx, r, sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to import workbook: %w", err)
	}
	if len(t.Columns) == 0 {
		return nil, fmt.Errorf("failed to import workbook: sheet has no header row")
	}

	out := s.store.Schema().Reconcile(t)
	save, err := s.store.Save(ctx, out)
	if err != nil {
		return nil, err
	}
	return &primary.ImportResult{Rows: out.Len(), Columns: out.Columns, Save: save}, nil
}

// Ensure ExchangeServiceImpl implements the interface
var _ primary.ExchangeService = (*ExchangeServiceImpl)(nil)
