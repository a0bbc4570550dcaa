package chat

import (
	"context"
	"encoding/csv"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/carcare/carcarebot/internal"
	"github.com/carcare/carcarebot/internal/classifier"
	"github.com/carcare/carcarebot/internal/dataset"
	apperrors "github.com/carcare/carcarebot/internal/errors"
	"github.com/carcare/carcarebot/internal/interactionlog"
	"github.com/carcare/carcarebot/internal/logger"
	"github.com/carcare/carcarebot/internal/logger/loggertest"
	"github.com/carcare/carcarebot/internal/metrics"
	"github.com/carcare/carcarebot/internal/provider"
)

type stubProvider struct {
	reply  string
	err    error
	panics bool
}

func (s *stubProvider) Model() string { return "stub" }

func (s *stubProvider) Reply(_ context.Context, _ []internal.Message, _ string) (string, error) {
	if s.panics {
		panic("index out of range")
	}
	return s.reply, s.err
}

type memLog struct {
	entries [][2]string
	err     error
}

func (m *memLog) Log(_ context.Context, q, r string) error {
	m.entries = append(m.entries, [2]string{q, r})
	return m.err
}

func TestSubmit_AppendsUserThenAssistant(t *testing.T) {
	log := &memLog{}
	svc := NewService(&stubProvider{reply: "Predicted Diagnosis: towing"}, log, loggertest.New(t))

	sess, err := svc.Submit(context.Background(), internal.NewSession("s1"), "towing needed")
	require.NoError(t, err)

	require.Len(t, sess.Messages, 2)
	assert.Equal(t, internal.RoleUser, sess.Messages[0].Role)
	assert.Equal(t, "towing needed", sess.Messages[0].Content)
	assert.Equal(t, internal.RoleAssistant, sess.Messages[1].Role)
	assert.Equal(t, "Predicted Diagnosis: towing", sess.Messages[1].Content)
	assert.Equal(t, internal.StateIdle, sess.State)
	assert.False(t, sess.UpdatedAt.IsZero())
	assert.Equal(t, [][2]string{{"towing needed", "Predicted Diagnosis: towing"}}, log.entries)
}

func TestSubmit_BlankQueryLeavesSessionUnchanged(t *testing.T) {
	log := &memLog{}
	svc := NewService(&stubProvider{reply: "x"}, log, logger.NewNoOpLogger())

	in := internal.NewSession("s1")
	in.Messages = append(in.Messages, internal.Message{Role: internal.RoleUser, Content: "earlier"})

	for _, q := range []string{"", "   ", "\n\t"} {
		out, err := svc.Submit(context.Background(), in, q)
		require.Error(t, err)
		assert.True(t, apperrors.Is(err, apperrors.KindEmptyQuery))
		assert.Equal(t, in, out)
	}
	assert.Empty(t, log.entries)
}

func TestSubmit_ComposerErrorBecomesApology(t *testing.T) {
	failures := metrics.QueryFailures.WithLabelValues(string(apperrors.KindDataset))
	before := testutil.ToFloat64(failures)

	log := &memLog{}
	p := &stubProvider{err: apperrors.Errorf(apperrors.KindDataset, "compose", "read rows: bare quote")}
	svc := NewService(p, log, logger.NewNoOpLogger())

	sess, err := svc.Submit(context.Background(), internal.NewSession("s1"), "engine")
	require.NoError(t, err)
	require.Len(t, sess.Messages, 2)
	assert.Equal(t, ApologyMessage, sess.Messages[1].Content)
	assert.Equal(t, ApologyMessage, log.entries[0][1])
	assert.Equal(t, before+1, testutil.ToFloat64(failures))
}

func TestSubmit_EmptyReplyBecomesApology(t *testing.T) {
	svc := NewService(&stubProvider{reply: "  "}, nil, logger.NewNoOpLogger())

	sess, err := svc.Submit(context.Background(), internal.NewSession("s1"), "engine")
	require.NoError(t, err)
	assert.Equal(t, ApologyMessage, sess.Messages[1].Content)
}

func TestSubmit_PanicIsRecoveredAndLogged(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	svc := NewService(&stubProvider{panics: true}, &memLog{}, logger.NewZapAdapter(zap.New(core)))

	sess, err := svc.Submit(context.Background(), internal.NewSession("s1"), "engine")
	require.NoError(t, err)
	require.Len(t, sess.Messages, 2)
	assert.Equal(t, UnexpectedMessage, sess.Messages[1].Content)
	assert.Equal(t, internal.StateIdle, sess.State)

	entries := logs.FilterMessage("reply composition panicked").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "index out of range", fields["panic"])
	assert.NotEmpty(t, fields["stack"])
}

func TestSubmit_LogFailureStillReturnsSession(t *testing.T) {
	log := &memLog{err: apperrors.New(apperrors.KindLog, "interactionlog.csv", errors.New("disk full"))}
	svc := NewService(&stubProvider{reply: "ok"}, log, logger.NewNoOpLogger())

	sess, err := svc.Submit(context.Background(), internal.NewSession("s1"), "engine")
	require.Error(t, err)
	assert.Equal(t, apperrors.KindLog, apperrors.KindOf(err))
	assert.Len(t, sess.Messages, 2)
	assert.Equal(t, internal.StateIdle, sess.State)
}

func TestSubmit_DoesNotAliasInputTranscript(t *testing.T) {
	svc := NewService(&stubProvider{reply: "ok"}, nil, logger.NewNoOpLogger())

	in := internal.NewSession("s1")
	out, err := svc.Submit(context.Background(), in, "engine")
	require.NoError(t, err)
	assert.Empty(t, in.Messages)
	assert.Len(t, out.Messages, 2)
}

func TestClear(t *testing.T) {
	svc := NewService(&stubProvider{reply: "ok"}, nil, logger.NewNoOpLogger())

	sess, err := svc.Submit(context.Background(), internal.NewSession("s1"), "engine")
	require.NoError(t, err)

	sess = svc.Clear(sess)
	assert.Empty(t, sess.Messages)
	assert.Equal(t, internal.StateIdle, sess.State)
	assert.Equal(t, "s1", sess.ID)
}

func TestEndToEnd_FallbackDataset(t *testing.T) {
	dir := t.TempDir()
	loader := dataset.NewLoader(filepath.Join(dir, "missing.csv"), logger.NewNoOpLogger())
	store, err := classifier.OpenBoltStore(filepath.Join(dir, "model.db"))
	require.NoError(t, err)
	defer store.Close()
	clf := classifier.New(store, loader, logger.NewNoOpLogger())
	require.NoError(t, clf.Ensure(context.Background()))

	logPath := filepath.Join(dir, "log.csv")
	svc := NewService(
		provider.NewComposer(loader, clf, dataset.DefaultLimit),
		interactionlog.NewCSVLogger(logPath),
		loggertest.New(t),
	)

	sess, err := svc.Submit(context.Background(), internal.NewSession("s1"), "battery")
	require.NoError(t, err)
	require.Len(t, sess.Messages, 2)
	reply := sess.Messages[1].Content
	assert.Contains(t, reply, "service_description: battery dead")
	assert.Contains(t, reply, "Predicted Diagnosis: battery replacement")
	assert.Contains(t, reply, "Maintenance Guide:\n")

	f, err := os.Open(logPath)
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "battery", rows[1][1])
	assert.Equal(t, reply, rows[1][2])

	sess = svc.Clear(sess)
	assert.Empty(t, sess.Messages)
}
