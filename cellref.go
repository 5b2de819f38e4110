package xls

import (
	"fmt"
	"strconv"
	"strings"
)

// cellRef is a parsed A1-notation reference: zero-based row/col plus
// relativity flags (true = relative, the Excel default when no `$` is
// present).
type cellRef struct {
	Row, Col       int
	RowRel, ColRel bool
}

// parseCellRef parses references like "$A$1", "B12", "AB$3". Leading `$`
// marks the column absolute; a second `$` (after the letters) marks the row
// absolute. Columns decode base-26 (A=0, Z=25, AA=26, AB=27, ...). The row
// number is parsed as decimal and decremented by one (1-based in A1
// notation, 0-based internally).
func parseCellRef(s string) (cellRef, error) {
	var ref cellRef
	ref.RowRel = true
	ref.ColRel = true

	i := 0
	if i < len(s) && s[i] == '$' {
		ref.ColRel = false
		i++
	}

	letterStart := i
	for i < len(s) && s[i] >= 'A' && s[i] <= 'Z' {
		i++
	}
	if i == letterStart {
		return cellRef{}, fmt.Errorf("xls: %q has no column letters", s)
	}
	col, err := decodeColumn(s[letterStart:i])
	if err != nil {
		return cellRef{}, err
	}
	ref.Col = col

	if i < len(s) && s[i] == '$' {
		ref.RowRel = false
		i++
	}

	digitStart := i
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	if digitStart == i || i != len(s) {
		return cellRef{}, fmt.Errorf("xls: %q has no trailing row number", s)
	}
	row, err := strconv.Atoi(s[digitStart:i])
	if err != nil || row < 1 {
		return cellRef{}, fmt.Errorf("xls: %q has an invalid row number", s)
	}
	ref.Row = row - 1

	return ref, nil
}

// decodeColumn converts a base-26 column letter run (A, B, ..., Z, AA, AB,
// ...) into a zero-based column index.
func decodeColumn(letters string) (int, error) {
	col := 0
	for _, c := range letters {
		if c < 'A' || c > 'Z' {
			return 0, fmt.Errorf("xls: invalid column letter %q", c)
		}
		col = col*26 + int(c-'A'+1)
	}
	return col - 1, nil
}

// formatCellRef is the inverse of parseCellRef, used by tests to assert the
// A1 round-trip property (spec.md §8 property 5).
func formatCellRef(ref cellRef) string {
	var b strings.Builder
	if !ref.ColRel {
		b.WriteByte('$')
	}
	b.WriteString(encodeColumn(ref.Col))
	if !ref.RowRel {
		b.WriteByte('$')
	}
	b.WriteString(strconv.Itoa(ref.Row + 1))
	return b.String()
}

func encodeColumn(col int) string {
	col++ // back to 1-based for the base-26 digit extraction below
	var letters []byte
	for col > 0 {
		col--
		letters = append([]byte{byte('A' + col%26)}, letters...)
		col /= 26
	}
	return string(letters)
}
