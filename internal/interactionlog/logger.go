// Package interactionlog records every user query and reply.
package interactionlog

import (
	"context"
	"errors"
)

// Logger persists one interaction.
type Logger interface {
	Log(ctx context.Context, query, response string) error
}

// Multi writes to every logger in order. All loggers are attempted; the
// first error is returned.
type Multi []Logger

func (m Multi) Log(ctx context.Context, query, response string) error {
	var first error
	for _, l := range m {
		if err := l.Log(ctx, query, response); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// Discard drops every interaction.
type Discard struct{}

func (Discard) Log(context.Context, string, string) error { return nil }

var errClosed = errors.New("logger closed")
