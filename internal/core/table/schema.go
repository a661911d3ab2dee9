package table

import (
	"math"
	"strconv"
	"strings"

	"github.com/example/maintlog/internal/core/failure"
)

// Match selects how FindBy compares a column.
type Match int

const (
	// MatchText is a case-insensitive substring match.
	MatchText Match = iota
	// MatchExact is an exact value match (identifiers, enumerations).
	MatchExact
)

// Column is one canonical column.
type Column struct {
	Name    string
	Default string
	Match   Match
	// Text marks columns coerced to text on load: spreadsheet placeholders
	// such as "nan" are scrubbed to "".
	Text bool
}

// Rename moves a legacy column into its replacement columns. Values go to the
// first target; the other targets start at their defaults.
type Rename struct {
	From string
	To   []string
}

// Schema is the canonical shape of a dataset.
type Schema struct {
	Name     string
	IDColumn string
	Columns  []Column
	Renames  []Rename
}

var placeholders = map[string]bool{
	"nan":  true,
	"NaN":  true,
	"None": true,
	"NaT":  true,
}

// ColumnNames returns the canonical column names in order.
func (s *Schema) ColumnNames() []string {
	names := make([]string, len(s.Columns))
	for i, c := range s.Columns {
		names[i] = c.Name
	}
	return names
}

// Column looks up a canonical column by name.
func (s *Schema) Column(name string) (Column, bool) {
	for _, c := range s.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return Column{}, false
}

// Empty returns a table with the canonical columns and no rows.
func (s *Schema) Empty() *Table {
	return New(s.ColumnNames()...)
}

// Reconcile returns a copy of t in canonical shape: legacy renames applied,
// missing columns backfilled with defaults, placeholders scrubbed, canonical
// columns first and unknown columns kept after them.
func (s *Schema) Reconcile(t *Table) *Table {
	if t == nil {
		return s.Empty()
	}
	out := t.Clone()

	for _, rn := range s.Renames {
		if !out.Has(rn.From) || len(rn.To) == 0 || out.Has(rn.To[0]) {
			continue
		}
		for _, r := range out.Rows {
			r[rn.To[0]] = r[rn.From]
			for _, extra := range rn.To[1:] {
				if _, ok := r[extra]; !ok {
					r[extra] = s.defaultFor(extra)
				}
			}
			delete(r, rn.From)
		}
		out.Columns = without(out.Columns, rn.From)
		for _, target := range rn.To {
			if !out.Has(target) {
				out.Columns = append(out.Columns, target)
			}
		}
	}

	canonical := s.ColumnNames()
	known := make(map[string]bool, len(canonical))
	for _, c := range canonical {
		known[c] = true
	}
	cols := append([]string{}, canonical...)
	for _, c := range out.Columns {
		if !known[c] {
			cols = append(cols, c)
			known[c] = true
		}
	}

	for _, r := range out.Rows {
		for _, c := range s.Columns {
			v, ok := r[c.Name]
			if !ok {
				r[c.Name] = c.Default
				continue
			}
			if c.Text && placeholders[strings.TrimSpace(v)] {
				r[c.Name] = ""
			}
		}
	}
	out.Columns = cols
	return out
}

func (s *Schema) defaultFor(name string) string {
	if c, ok := s.Column(name); ok {
		return c.Default
	}
	return ""
}

// Validate checks that every identifier is a positive integer and unique.
func (s *Schema) Validate(t *Table) error {
	seen := make(map[int]bool, t.Len())
	for i, r := range t.Rows {
		id, ok := ParseID(r[s.IDColumn])
		if !ok || id <= 0 {
			return failure.Invalid(s.IDColumn, "row %d has invalid identifier %q", i+1, r[s.IDColumn])
		}
		if seen[id] {
			return failure.Invalid(s.IDColumn, "duplicate identifier %d", id)
		}
		seen[id] = true
	}
	return nil
}

// NextIdentifier returns 1 for an empty table, otherwise the highest
// identifier plus one. Deleted identifiers are never reused while a higher
// one exists.
func (s *Schema) NextIdentifier(t *Table) int {
	highest := 0
	for _, r := range t.Rows {
		if id, ok := ParseID(r[s.IDColumn]); ok && id > highest {
			highest = id
		}
	}
	return highest + 1
}

// IndexOfID returns the row holding identifier id, or -1.
func (s *Schema) IndexOfID(t *Table, id int) int {
	for i, r := range t.Rows {
		if got, ok := ParseID(r[s.IDColumn]); ok && got == id {
			return i
		}
	}
	return -1
}

// FindBy returns the rows of t matching query on field. Text columns match
// case-insensitively by substring; exact columns by equality; the identifier
// column by numeric value.
func (s *Schema) FindBy(t *Table, field, query string) (*Table, error) {
	col, ok := s.Column(field)
	if !ok {
		if !t.Has(field) {
			return nil, failure.Invalid(field, "unknown field (valid: %s)", strings.Join(s.ColumnNames(), ", "))
		}
		col = Column{Name: field, Match: MatchText}
	}

	out := New(t.Columns...)
	switch {
	case field == s.IDColumn:
		want, ok := ParseID(query)
		if !ok {
			return nil, failure.Invalid(field, "%q is not an identifier", query)
		}
		for _, r := range t.Rows {
			if id, ok := ParseID(r[field]); ok && id == want {
				out.Append(r)
			}
		}
	case col.Match == MatchExact:
		for _, r := range t.Rows {
			if r[field] == query {
				out.Append(r)
			}
		}
	default:
		needle := Fold(query)
		for _, r := range t.Rows {
			if strings.Contains(Fold(r[field]), needle) {
				out.Append(r)
			}
		}
	}
	return out, nil
}

// ParseID parses an identifier cell. Spreadsheet tools sometimes write
// integers as "3.0", which is accepted.
func ParseID(v string) (int, bool) {
	v = strings.TrimSpace(v)
	if v == "" {
		return 0, false
	}
	if n, err := strconv.Atoi(v); err == nil {
		return n, true
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || f != math.Trunc(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return int(f), true
}

func without(cols []string, drop string) []string {
	out := cols[:0:0]
	for _, c := range cols {
		if c != drop {
			out = append(out, c)
		}
	}
	return out
}
