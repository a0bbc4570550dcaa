// Package chat drives one submission through the reply pipeline and keeps
// the session transcript and state consistent.
package chat

import (
	"context"
	"fmt"
	"runtime/debug"
	"strings"
	"time"

	"github.com/carcare/carcarebot/internal"
	apperrors "github.com/carcare/carcarebot/internal/errors"
	"github.com/carcare/carcarebot/internal/interactionlog"
	"github.com/carcare/carcarebot/internal/logger"
	"github.com/carcare/carcarebot/internal/metrics"
	"github.com/carcare/carcarebot/internal/provider"
)

const (
	// ApologyMessage replaces a reply that could not be composed.
	ApologyMessage = "Sorry, I couldn’t find information on that. Please try asking differently."
	// UnexpectedMessage replaces a reply whose composition panicked.
	UnexpectedMessage = "An unexpected error occurred. Please try again."
)

type Service struct {
	provider provider.ChatProvider
	log      interactionlog.Logger
	logger   logger.Logger
	now      func() time.Time
}

func NewService(p provider.ChatProvider, log interactionlog.Logger, lg logger.Logger) *Service {
	if log == nil {
		log = interactionlog.Discard{}
	}
	return &Service{
		provider: p,
		log:      log,
		logger:   lg.With(map[string]interface{}{"component": "chat"}),
		now:      time.Now,
	}
}

func (s *Service) Model() string { return s.provider.Model() }

// Submit answers query and appends the user and assistant messages to the
// session. A blank query leaves the session untouched. When the interaction
// log fails the updated session is still returned alongside the error.
func (s *Service) Submit(ctx context.Context, sess internal.Session, query string) (internal.Session, error) {
	if strings.TrimSpace(query) == "" {
		return sess, apperrors.New(apperrors.KindEmptyQuery, "chat.submit", nil)
	}

	sess.State = internal.StateProcessing
	reply := s.reply(ctx, sess.Messages, query)

	sent := s.now()
	msgs := make([]internal.Message, 0, len(sess.Messages)+2)
	msgs = append(msgs, sess.Messages...)
	msgs = append(msgs,
		internal.Message{Role: internal.RoleUser, Content: query, CreatedAt: sent},
		internal.Message{Role: internal.RoleAssistant, Content: reply, CreatedAt: s.now()},
	)
	sess.Messages = msgs

	logErr := s.log.Log(ctx, query, reply)
	if logErr != nil {
		s.logger.WithError(logErr).Warn("interaction not logged", map[string]interface{}{
			"session_id": sess.ID,
		})
	}

	sess.State = internal.StateIdle
	sess.UpdatedAt = s.now()
	return sess, logErr
}

// reply never fails: errors become the apology and panics the generic text.
func (s *Service) reply(ctx context.Context, history []internal.Message, query string) (reply string) {
	start := time.Now()
	defer func() {
		metrics.QueryDuration.Observe(time.Since(start).Seconds())
		if r := recover(); r != nil {
			s.logger.Error("reply composition panicked", map[string]interface{}{
				"panic": fmt.Sprint(r),
				"stack": string(debug.Stack()),
			})
			metrics.QueriesTotal.WithLabelValues(metrics.OutcomePanic).Inc()
			reply = UnexpectedMessage
		}
	}()

	out, err := s.provider.Reply(ctx, history, query)
	if err != nil {
		kind := apperrors.KindOf(err)
		s.logger.WithError(err).Warn("reply composition failed", map[string]interface{}{
			"error_kind": string(kind),
		})
		metrics.QueryFailures.WithLabelValues(string(kind)).Inc()
		metrics.QueriesTotal.WithLabelValues(metrics.OutcomeApology).Inc()
		return ApologyMessage
	}
	if strings.TrimSpace(out) == "" {
		metrics.QueriesTotal.WithLabelValues(metrics.OutcomeApology).Inc()
		return ApologyMessage
	}
	metrics.QueriesTotal.WithLabelValues(metrics.OutcomeAnswered).Inc()
	return out
}

// Clear empties the transcript and returns the session to idle.
func (s *Service) Clear(sess internal.Session) internal.Session {
	sess.Messages = make([]internal.Message, 0, 16)
	sess.State = internal.StateIdle
	sess.UpdatedAt = s.now()
	return sess
}
