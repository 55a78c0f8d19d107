// Package logwriter provides an io.Writer that duplicates writes to a
// testing.T logger.
package logwriter

import (
	"io"
	"strings"
	"testing"
)

type Logger struct {
	t *testing.T
	w io.Writer
}

// New returns a writer that forwards writes to w and additionally logs them
// via t.Log.
func New(t *testing.T, w io.Writer) *Logger {
	return &Logger{t: t, w: w}
}

func (l *Logger) Write(p []byte) (int, error) {
	l.t.Log(strings.TrimSuffix(string(p), "\n"))
	return l.w.Write(p)
}
