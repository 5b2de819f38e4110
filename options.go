package xls

import "github.com/sirupsen/logrus"

// Option configures a Workbook at construction time.
type Option func(*Workbook)

// WithLogger routes the workbook's diagnostics (rejected writes, string
// truncation, size-limit refusals) through l instead of discarding them.
func WithLogger(l *logrus.Logger) Option {
	return func(w *Workbook) {
		w.log = l
	}
}

// WithScratchDir makes worksheet bodies spill to temp files under dir once
// appended, instead of staying fully in memory. Prepend-only header
// records (BOF, DIMENSIONS, COLINFO, DEFCOLWIDTH) are unaffected: they
// always live in memory regardless of this option.
func WithScratchDir(dir string) Option {
	return func(w *Workbook) {
		w.scratchDir = dir
		w.useScratch = true
	}
}

// With1904DateSystem switches the workbook's epoch to 1904 instead of the
// default 1900 system.
func With1904DateSystem() Option {
	return func(w *Workbook) {
		w.epoch1904 = true
	}
}

// WithCodepage overrides the default codepage (1252 / 0x04E4).
func WithCodepage(codepage uint16) Option {
	return func(w *Workbook) {
		w.codepage = codepage
	}
}

// WithSheetNamePrefix overrides the "Sheet" prefix used to auto-name
// worksheets added without an explicit name.
func WithSheetNamePrefix(prefix string) Option {
	return func(w *Workbook) {
		w.sheetNamePrefix = prefix
	}
}
