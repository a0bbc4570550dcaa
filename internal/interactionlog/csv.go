package interactionlog

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sync"
	"time"

	"github.com/carcare/carcarebot/internal"
	apperrors "github.com/carcare/carcarebot/internal/errors"
	"github.com/carcare/carcarebot/internal/metrics"
)

// TimeLayout is the timestamp format of the CSV log.
const TimeLayout = "2006-01-02 15:04:05"

// Header is written once, when the file is created.
var Header = []string{"timestamp", "user_input", "ai_response"}

// CSVLogger appends interactions to a CSV file.
type CSVLogger struct {
	Path string
	now  func() time.Time

	mu sync.Mutex
}

func NewCSVLogger(path string) *CSVLogger {
	return &CSVLogger{Path: path, now: time.Now}
}

func (l *CSVLogger) Log(ctx context.Context, query, response string) error {
	return l.Write(ctx, internal.LogEntry{Timestamp: l.now(), UserInput: query, AIResponse: response})
}

// Write appends one entry. The header is written only when this call
// creates the file.
func (l *CSVLogger) Write(_ context.Context, e internal.LogEntry) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.append(e); err != nil {
		metrics.InteractionsLogged.WithLabelValues("csv", "error").Inc()
		return apperrors.New(apperrors.KindLog, "interactionlog.csv", err)
	}
	metrics.InteractionsLogged.WithLabelValues("csv", "ok").Inc()
	return nil
}

func (l *CSVLogger) append(e internal.LogEntry) error {
	created := false
	f, err := os.OpenFile(l.Path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	switch {
	case err == nil:
		created = true
	case errors.Is(err, fs.ErrExist):
		f, err = os.OpenFile(l.Path, os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("open %s: %w", l.Path, err)
		}
	default:
		return fmt.Errorf("create %s: %w", l.Path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if created {
		if err := w.Write(Header); err != nil {
			return fmt.Errorf("write header: %w", err)
		}
	}
	if err := w.Write([]string{e.Timestamp.Format(TimeLayout), e.UserInput, e.AIResponse}); err != nil {
		return fmt.Errorf("write row: %w", err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush: %w", err)
	}
	return nil
}
