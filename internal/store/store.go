// Package store persists chat sessions by ID.
package store

import (
	"context"

	"github.com/carcare/carcarebot/internal"
)

// SessionStore loads and saves sessions. Load of an unknown ID returns a
// fresh idle session.
type SessionStore interface {
	Load(ctx context.Context, id string) (internal.Session, error)
	Save(ctx context.Context, sess internal.Session) error
	Delete(ctx context.Context, id string) error
}

func cloneSession(s internal.Session) internal.Session {
	msgs := make([]internal.Message, len(s.Messages))
	copy(msgs, s.Messages)
	s.Messages = msgs
	return s
}
