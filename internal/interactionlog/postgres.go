package interactionlog

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "github.com/lib/pq"

	"github.com/carcare/carcarebot/internal"
	apperrors "github.com/carcare/carcarebot/internal/errors"
	"github.com/carcare/carcarebot/internal/metrics"
)

const createTableSQL = `
CREATE TABLE IF NOT EXISTS interaction_logs (
    id SERIAL PRIMARY KEY,
    logged_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
    user_input TEXT NOT NULL,
    ai_response TEXT NOT NULL
);`

const insertSQL = `INSERT INTO interaction_logs (logged_at, user_input, ai_response) VALUES ($1, $2, $3)`

// PostgresLogger stores interactions in the interaction_logs table.
type PostgresLogger struct {
	db  *sql.DB
	now func() time.Time

	mu     sync.Mutex
	closed bool
}

// OpenPostgres connects with lib/pq and creates the table if needed.
func OpenPostgres(ctx context.Context, dsn string) (*PostgresLogger, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres: %w", err)
	}
	db.SetMaxOpenConns(5)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("postgres ping failed: %w", err)
	}
	l, err := NewPostgresLogger(ctx, db)
	if err != nil {
		db.Close()
		return nil, err
	}
	return l, nil
}

// NewPostgresLogger wraps an open database and ensures the table exists.
func NewPostgresLogger(ctx context.Context, db *sql.DB) (*PostgresLogger, error) {
	if _, err := db.ExecContext(ctx, createTableSQL); err != nil {
		return nil, fmt.Errorf("create interaction_logs table: %w", err)
	}
	return &PostgresLogger{db: db, now: time.Now}, nil
}

func (l *PostgresLogger) Log(ctx context.Context, query, response string) error {
	return l.Write(ctx, internal.LogEntry{Timestamp: l.now(), UserInput: query, AIResponse: response})
}

// Write inserts one entry.
func (l *PostgresLogger) Write(ctx context.Context, e internal.LogEntry) error {
	l.mu.Lock()
	closed := l.closed
	l.mu.Unlock()
	if closed {
		return apperrors.New(apperrors.KindLog, "interactionlog.postgres", errClosed)
	}

	if _, err := l.db.ExecContext(ctx, insertSQL, e.Timestamp, e.UserInput, e.AIResponse); err != nil {
		metrics.InteractionsLogged.WithLabelValues("postgres", "error").Inc()
		return apperrors.New(apperrors.KindLog, "interactionlog.postgres", err)
	}
	metrics.InteractionsLogged.WithLabelValues("postgres", "ok").Inc()
	return nil
}

func (l *PostgresLogger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return nil
	}
	l.closed = true
	return l.db.Close()
}
