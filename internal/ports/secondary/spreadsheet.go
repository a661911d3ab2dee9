package secondary

import (
	"context"
	"io"

	"github.com/example/maintlog/internal/core/table"
)

// Spreadsheet defines the secondary port for workbook exchange.
type Spreadsheet interface {
	// Export writes t as a single-sheet workbook.
	Export(ctx context.Context, t *table.Table, sheet string, w io.Writer) error

	// Import reads the named sheet (or the first sheet when empty). The
	// first row is the header.
	Import(ctx context.Context, r io.Reader, sheet string) (*table.Table, error)
}
