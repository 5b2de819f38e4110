package xls

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseCellRefBasic(t *testing.T) {
	ref, err := parseCellRef("A1")
	require.NoError(t, err)
	require.Equal(t, cellRef{Row: 0, Col: 0, RowRel: true, ColRel: true}, ref)
}

func TestParseCellRefAbsolute(t *testing.T) {
	ref, err := parseCellRef("$B$12")
	require.NoError(t, err)
	require.Equal(t, cellRef{Row: 11, Col: 1, RowRel: false, ColRel: false}, ref)
}

func TestParseCellRefMultiLetterColumn(t *testing.T) {
	ref, err := parseCellRef("AA1")
	require.NoError(t, err)
	require.Equal(t, 26, ref.Col)
}

func TestParseCellRefRejectsMalformed(t *testing.T) {
	_, err := parseCellRef("1A")
	require.Error(t, err)
}

// A1RoundTrip is spec.md §8 property 5: parse then format must return the
// original text for every reference this module can produce.
func TestCellRefA1RoundTrip(t *testing.T) {
	cases := []string{"A1", "$A1", "A$1", "$A$1", "Z99", "AA100", "AZ1"}
	for _, c := range cases {
		ref, err := parseCellRef(c)
		require.NoError(t, err, c)
		require.Equal(t, c, formatCellRef(ref), c)
	}
}
