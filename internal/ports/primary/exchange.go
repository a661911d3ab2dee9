package primary

import (
	"context"
	"io"
)

// ExchangeService defines the primary port for spreadsheet exchange of a
// dataset.
type ExchangeService interface {
	// Export writes the current table as a workbook. It fails with
	// ErrUnreadableDataset when the dataset file cannot be read.
	Export(ctx context.Context, w io.Writer) (*ExportResult, error)

	// Import replaces the dataset with the rows of a workbook sheet and
	// saves it through the record store.
	Import(ctx context.Context, r io.Reader, sheet string) (*ImportResult, error)
}

// ExportResult is the outcome of ExchangeService.Export.
type ExportResult struct {
	Rows    int
	Source  LoadSource
	Warning error // load problem the export recovered from, such as a backup restore
}

// ImportResult is the outcome of ExchangeService.Import.
type ImportResult struct {
	Rows    int
	Columns []string
	Save    *SaveResult
}
