package table

import (
	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// Fold normalizes s for case-insensitive comparison. Composed and decomposed
// accents ("é" typed either way) fold to the same string.
func Fold(s string) string {
	return cases.Fold().String(norm.NFC.String(s))
}
