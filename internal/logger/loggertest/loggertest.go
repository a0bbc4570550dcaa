// Package loggertest provides a Logger that writes through testing.TB.
package loggertest

import (
	"testing"

	"go.uber.org/zap/zaptest"

	"github.com/carcare/carcarebot/internal/logger"
)

// New returns a debug-level Logger whose output is attached to t.
func New(t testing.TB) logger.Logger {
	return logger.NewZapAdapter(zaptest.NewLogger(t))
}
