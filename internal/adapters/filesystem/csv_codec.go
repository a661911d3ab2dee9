package filesystem

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"

	"github.com/example/maintlog/internal/core/table"
)

// utf8BOM is stripped from the start of the input if present.
const utf8BOM = "\uFEFF"

// CSVCodec implements secondary.TableCodec for comma-separated files with a
// header row.
type CSVCodec struct {
	charset encoding.Encoding // nil means UTF-8
}

// NewCSVCodec creates a codec for the named character encoding. Empty and
// "utf-8" select UTF-8; "windows-1252" (alias "cp1252") selects the legacy
// encoding spreadsheet tools write on Windows.
func NewCSVCodec(name string) (*CSVCodec, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "utf-8", "utf8":
		return &CSVCodec{}, nil
	case "windows-1252", "cp1252":
		return &CSVCodec{charset: charmap.Windows1252}, nil
	default:
		return nil, fmt.Errorf("unsupported encoding %q (valid: utf-8, windows-1252)", name)
	}
}

// Encode renders the table, header row first.
func (c *CSVCodec) Encode(t *table.Table) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if len(t.Columns) > 0 {
		if err := w.Write(t.Columns); err != nil {
			return nil, fmt.Errorf("failed to encode csv: %w", err)
		}
	}
	if err := w.WriteAll(t.Records()); err != nil {
		return nil, fmt.Errorf("failed to encode csv: %w", err)
	}
	if c.charset == nil {
		return buf.Bytes(), nil
	}
	out, err := c.charset.NewEncoder().Bytes(buf.Bytes())
	if err != nil {
		return nil, fmt.Errorf("failed to encode csv: %w", err)
	}
	return out, nil
}

// Decode parses a rendered table. Empty input yields a table with no
// columns.
func (c *CSVCodec) Decode(data []byte) (*table.Table, error) {
	data = bytes.TrimPrefix(data, []byte(utf8BOM))
	if c.charset != nil {
		decoded, err := c.charset.NewDecoder().Bytes(data)
		if err != nil {
			return nil, fmt.Errorf("failed to decode csv: %w", err)
		}
		data = decoded
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return table.New(), nil
	}

	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse csv: %w", err)
	}
	header := records[0]
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}
	return table.FromRecords(header, records[1:]), nil
}
