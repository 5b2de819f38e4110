package xls

import (
	"io"

	"github.com/sirupsen/logrus"
)

// newSilentLogger returns a logrus logger that discards output by default,
// so importing this library never prints anything unless a caller opts in
// via WithLogger.
func newSilentLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}
