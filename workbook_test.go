package xls

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewAssignsURLFormatFirstCellXF(t *testing.T) {
	wb := New()
	require.Equal(t, firstCellXF, wb.urlFormat.xfIndex)
}

func TestAddFormatAssignsIncreasingXFIndex(t *testing.T) {
	wb := New()
	f1 := wb.AddFormat()
	f2 := wb.AddFormat()
	require.Equal(t, f1.xfIndex+1, f2.xfIndex)
}

func TestAddSheetAutoNames(t *testing.T) {
	wb := New()
	s1 := wb.AddSheet("")
	s2 := wb.AddSheet("")
	require.Equal(t, "Sheet1", s1.name)
	require.Equal(t, "Sheet2", s2.name)
}

func TestAddSheetTruncatesLongName(t *testing.T) {
	wb := New()
	long := "ThisSheetNameIsDefinitelyWayTooLongForBIFF8"
	s := wb.AddSheet(long)
	require.Len(t, s.name, maxSheetNameLen)
}

// Sheet BOF offsets (spec.md §8 property 7): this checks that Close assigns
// offsets that increase in sheet order and writes a non-empty file; it does
// not locate each BOF record in the output.
func TestCloseAssignsIncreasingSheetOffsets(t *testing.T) {
	wb := New()
	s1 := wb.AddSheet("One")
	s2 := wb.AddSheet("Two")
	require.NoError(t, s1.WriteString(0, 0, "hello", nil))
	require.NoError(t, s2.WriteNumber(0, 0, 1.0, nil))

	dir := t.TempDir()
	path := filepath.Join(dir, "offsets.xls")
	sink, err := CreateFile(path)
	require.NoError(t, err)
	require.NoError(t, wb.Close(sink))

	require.Greater(t, s2.offset, s1.offset)

	info, err := os.Stat(path)
	require.NoError(t, err)
	require.Greater(t, info.Size(), int64(0))
}

// Close must be idempotent (spec.md §8 property 9).
func TestCloseIsIdempotent(t *testing.T) {
	wb := New()
	wb.AddSheet("Only")

	dir := t.TempDir()
	sink1, err := CreateFile(filepath.Join(dir, "a.xls"))
	require.NoError(t, err)
	require.NoError(t, wb.Close(sink1))

	sink2, err := CreateFile(filepath.Join(dir, "b.xls"))
	require.NoError(t, err)
	require.NoError(t, wb.Close(sink2))

	info, err := os.Stat(filepath.Join(dir, "b.xls"))
	require.NoError(t, err)
	require.Equal(t, int64(0), info.Size(), "second Close must be a no-op and never touch the new sink")
}

func TestWorkbookWithScratchDirSpillsWorksheetBody(t *testing.T) {
	dir := t.TempDir()
	wb := New(WithScratchDir(dir))
	s := wb.AddSheet("Sheet1")
	require.NoError(t, s.WriteString(0, 0, "hello", nil))

	_, ok := s.acc.body.(*scratchBody)
	require.True(t, ok)
}
