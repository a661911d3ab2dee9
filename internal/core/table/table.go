// Package table holds the in-memory form of a dataset file: ordered column
// names plus rows of text values. Typed decoding lives in the domain packages.
package table

// Row maps a column name to its text value. A missing key reads as "".
type Row map[string]string

// Table is an ordered set of columns and the rows under them.
type Table struct {
	Columns []string
	Rows    []Row
}

// New creates an empty table with the given columns.
func New(columns ...string) *Table {
	cols := make([]string, len(columns))
	copy(cols, columns)
	return &Table{Columns: cols}
}

// FromRecords builds a table from a header and positional records, as read
// from a CSV or spreadsheet. Short records are padded with "".
func FromRecords(header []string, records [][]string) *Table {
	t := New(header...)
	for _, rec := range records {
		row := make(Row, len(header))
		for i, col := range header {
			if i < len(rec) {
				row[col] = rec[i]
			} else {
				row[col] = ""
			}
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}

// Len returns the number of rows.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// Has reports whether the table has the column.
func (t *Table) Has(col string) bool {
	for _, c := range t.Columns {
		if c == col {
			return true
		}
	}
	return false
}

// Value returns the value of col in row i.
func (t *Table) Value(i int, col string) string {
	return t.Rows[i][col]
}

// Append adds a row. Columns the table does not know are ignored on write.
func (t *Table) Append(r Row) {
	t.Rows = append(t.Rows, r)
}

// Remove deletes row i, keeping the order of the rest.
func (t *Table) Remove(i int) {
	t.Rows = append(t.Rows[:i], t.Rows[i+1:]...)
}

// IndexOf returns the first row whose col equals value, or -1.
func (t *Table) IndexOf(col, value string) int {
	for i, r := range t.Rows {
		if r[col] == value {
			return i
		}
	}
	return -1
}

// Records returns the rows as positional records in column order.
func (t *Table) Records() [][]string {
	out := make([][]string, len(t.Rows))
	for i, r := range t.Rows {
		rec := make([]string, len(t.Columns))
		for j, col := range t.Columns {
			rec[j] = r[col]
		}
		out[i] = rec
	}
	return out
}

// Clone returns a deep copy.
func (t *Table) Clone() *Table {
	c := New(t.Columns...)
	c.Rows = make([]Row, len(t.Rows))
	for i, r := range t.Rows {
		nr := make(Row, len(r))
		for k, v := range r {
			nr[k] = v
		}
		c.Rows[i] = nr
	}
	return c
}

// Equal reports whether both tables have the same columns in the same order
// and the same values row by row.
func (t *Table) Equal(o *Table) bool {
	if t == nil || o == nil {
		return t == o
	}
	if len(t.Columns) != len(o.Columns) || len(t.Rows) != len(o.Rows) {
		return false
	}
	for i := range t.Columns {
		if t.Columns[i] != o.Columns[i] {
			return false
		}
	}
	for i := range t.Rows {
		for _, col := range t.Columns {
			if t.Rows[i][col] != o.Rows[i][col] {
				return false
			}
		}
	}
	return true
}
