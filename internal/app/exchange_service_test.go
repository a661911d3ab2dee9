package app

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"github.com/example/maintlog/internal/core/equipment"
	"github.com/example/maintlog/internal/core/failure"
	"github.com/example/maintlog/internal/core/table"
	"github.com/example/maintlog/internal/ports/primary"
	"github.com/example/maintlog/internal/ports/secondary"
)

var _ secondary.Spreadsheet = (*mockSpreadsheet)(nil)

// mockSpreadsheet hands back a canned table on import and keeps the last
// exported one.
type mockSpreadsheet struct {
	imported  *table.Table
	importErr error
	exported  *table.Table
	sheet     string
}

func (m *mockSpreadsheet) Export(ctx context.Context, t *table.Table, sheet string, w io.Writer) error {
	m.exported = t.Clone()
	m.sheet = sheet
	_, err := w.Write([]byte("xlsx"))
	return err
}

func (m *mockSpreadsheet) Import(ctx context.Context, r io.Reader, sheet string) (*table.Table, error) {
	if m.importErr != nil {
		return nil, m.importErr
	}
	m.sheet = sheet
	return m.imported.Clone(), nil
}

func TestExport_UsesDatasetSheet(t *testing.T) {
	s := newTestStack(equipment.Schema, 10, nil)
	s.file.table = equipment.Schema.Reconcile(table.FromRecords(
		[]string{"TAG", "Local", "Setor"},
		[][]string{{"1", "Loja", "Vendas"}, {"2", "Loja", "Estoque"}},
	))
	sheet := &mockSpreadsheet{}
	service := NewExchangeService(s.store, sheet)

	var buf bytes.Buffer
	res, err := service.Export(context.Background(), &buf)

	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if res.Rows != 2 || sheet.sheet != "equipment" || buf.String() != "xlsx" {
		t.Errorf("unexpected export: rows=%d sheet=%q", res.Rows, sheet.sheet)
	}
	if res.Warning != nil {
		t.Errorf("expected no warning, got %v", res.Warning)
	}
}

func TestExport_UnreadableFileIsRefused(t *testing.T) {
	s := newTestStack(equipment.Schema, 10, nil)
	s.file.readErr = errors.New("record on line 4: wrong number of fields")
	sheet := &mockSpreadsheet{}
	service := NewExchangeService(s.store, sheet)

	var buf bytes.Buffer
	_, err := service.Export(context.Background(), &buf)

	if !failure.IsStorage(err) || !errors.Is(err, primary.ErrUnreadableDataset) {
		t.Fatalf("expected unreadable dataset storage error, got %v", err)
	}
	if sheet.exported != nil || buf.Len() != 0 {
		t.Error("expected no workbook written")
	}
}

func TestExport_BackupRestoreIsReported(t *testing.T) {
	s := newTestStack(equipment.Schema, 10, nil)
	ctx := context.Background()
	units := equipment.Schema.Reconcile(table.FromRecords(
		[]string{"TAG", "Local"},
		[][]string{{"1", "Loja"}},
	))
	if _, err := s.store.Save(ctx, units); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	s.file.readErr = errors.New("unexpected EOF")
	service := NewExchangeService(s.store, &mockSpreadsheet{})

	var buf bytes.Buffer
	res, err := service.Export(ctx, &buf)

	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if res.Source != primary.LoadSourceBackup || !failure.IsStorage(res.Warning) {
		t.Errorf("expected backup source with storage warning, got %s %v", res.Source, res.Warning)
	}
	if res.Rows != 1 {
		t.Errorf("expected 1 row, got %d", res.Rows)
	}
}

func TestImport_ReplacesDataset(t *testing.T) {
	s := newTestStack(equipment.Schema, 10, nil)
	sheet := &mockSpreadsheet{imported: table.FromRecords(
		[]string{"TAG", "Local", "Setor", "Patrimônio"},
		[][]string{{"3", "Depósito", "Estoque", "P-77"}},
	)}
	service := NewExchangeService(s.store, sheet)

	res, err := service.Import(context.Background(), bytes.NewReader(nil), "PMOC")

	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if res.Rows != 1 || res.Columns[len(res.Columns)-1] != "Patrimônio" {
		t.Errorf("unexpected result %+v", res)
	}
	if sheet.sheet != "PMOC" {
		t.Errorf("expected sheet PMOC passed through, got %q", sheet.sheet)
	}
	if s.file.table.Value(0, equipment.ColSite) != "Depósito" || res.Save.BackupPath == "" {
		t.Error("expected the imported table saved and backed up")
	}
}

func TestImport_InvalidTagsRejected(t *testing.T) {
	s := newTestStack(equipment.Schema, 10, nil)
	sheet := &mockSpreadsheet{imported: table.FromRecords(
		[]string{"TAG", "Local"},
		[][]string{{"x", "Loja"}},
	)}
	service := NewExchangeService(s.store, sheet)

	_, err := service.Import(context.Background(), bytes.NewReader(nil), "")

	if !failure.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if s.file.table != nil {
		t.Error("expected nothing written")
	}
}

func TestImport_ReadFailure(t *testing.T) {
	s := newTestStack(equipment.Schema, 10, nil)
	service := NewExchangeService(s.store, &mockSpreadsheet{importErr: errors.New("zip: not a valid zip file")})

	if _, err := service.Import(context.Background(), bytes.NewReader(nil), ""); err == nil {
		t.Error("expected error")
	}
}
