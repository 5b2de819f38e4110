package xls

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewFormatDefaults(t *testing.T) {
	f := newFormat(16)
	require.Equal(t, "Arial", f.fontName)
	require.Equal(t, 10, f.size)
	require.Equal(t, uint16(boldNormal), f.bold)
	require.Equal(t, colorDefault, f.color)
}

func TestSetBoldToggle(t *testing.T) {
	f := newFormat(16)
	f.SetBold(true)
	require.Equal(t, uint16(boldBold), f.bold)
	f.SetBold(false)
	require.Equal(t, uint16(boldNormal), f.bold)
}

// SetColorIndex is a regression test for the corrected fmt_set_colori: an
// out-of-range index must stick at the sentinel instead of being
// overwritten by the caller's raw value (DESIGN.md documents the original
// bug this replaces).
func TestSetColorIndexOutOfRangeSticksAtDefault(t *testing.T) {
	f := newFormat(16)
	f.SetColorIndex(200)
	require.Equal(t, colorDefault, f.color)
}

func TestSetColorIndexInRange(t *testing.T) {
	f := newFormat(16)
	f.SetColorIndex(12)
	require.Equal(t, 12, f.color)
}

func TestFontKeyDedupsStructurallyEqualFonts(t *testing.T) {
	a := newFormat(16)
	b := newFormat(17)
	require.Equal(t, a.fontKey(), b.fontKey())

	b.SetBold(true)
	require.NotEqual(t, a.fontKey(), b.fontKey())
}

func TestBuildXFRecordLength(t *testing.T) {
	f := newFormat(16)
	rec := f.buildXFRecord(0x0001)
	require.Len(t, rec, 16)
}

func TestBuildFontRecordEncodesName(t *testing.T) {
	f := newFormat(16)
	f.SetFontName("Calibri")
	rec := f.buildFontRecord()
	require.Equal(t, byte(len("Calibri")), rec[len(rec)-len("Calibri")-1])
	require.Equal(t, []byte("Calibri"), rec[len(rec)-len("Calibri"):])
}
