package bot

import (
	"context"
	"errors"
	"slices"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/inference/internal/catalog"
	"github.com/abhisek/inference/internal/chanlock"
	"github.com/abhisek/inference/internal/metrics"
	"github.com/abhisek/inference/internal/progression"
	"github.com/abhisek/inference/internal/store"
)

var errDelivery = errors.New("delivery failed")

type fakeSession struct {
	user       string
	channel    string
	privileged bool
	failOn     int // 1-based send that fails; 0 = never

	mu   sync.Mutex
	sent []string
}

func newSession() *fakeSession {
	return &fakeSession{user: "ada", channel: "general"}
}

func (s *fakeSession) UserID() string    { return s.user }
func (s *fakeSession) UserName() string  { return s.user }
func (s *fakeSession) ChannelID() string { return s.channel }
func (s *fakeSession) Privileged() bool  { return s.privileged }

func (s *fakeSession) Send(_ context.Context, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failOn > 0 && len(s.sent)+1 == s.failOn {
		return errDelivery
	}
	s.sent = append(s.sent, text)
	return nil
}

func (s *fakeSession) last() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.sent) == 0 {
		return ""
	}
	return s.sent[len(s.sent)-1]
}

type memUsers struct {
	mu    sync.Mutex
	recs  map[string]store.UserRecord
	saves int
}

func newMemUsers() *memUsers {
	return &memUsers{recs: make(map[string]store.UserRecord)}
}

func (m *memUsers) Load(_ context.Context, userID string) (*store.UserRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.load(userID), nil
}

func (m *memUsers) load(userID string) *store.UserRecord {
	rec, ok := m.recs[userID]
	if !ok {
		return &store.UserRecord{UserID: userID}
	}
	rec.Inferences = slices.Clone(rec.Inferences)
	return &rec
}

func (m *memUsers) Save(_ context.Context, rec *store.UserRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.save(rec)
	return nil
}

func (m *memUsers) save(rec *store.UserRecord) {
	cp := *rec
	cp.Inferences = slices.Clone(rec.Inferences)
	m.recs[rec.UserID] = cp
	m.saves++
}

func (m *memUsers) Update(_ context.Context, userID string, fn func(*store.UserRecord) (bool, error)) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec := m.load(userID)
	changed, err := fn(rec)
	if err != nil || !changed {
		return err
	}
	m.save(rec)
	return nil
}

func (m *memUsers) Delete(_ context.Context, userID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.recs[userID]
	delete(m.recs, userID)
	return ok, nil
}

func (m *memUsers) set(userID string, ids ...string) {
	m.recs[userID] = store.UserRecord{UserID: userID, Inferences: ids}
}

type memEvents struct {
	events []store.AnswerEvent
}

func (m *memEvents) AppendAnswer(_ context.Context, ev *store.AnswerEvent) error {
	ev.Sequence = int64(len(m.events) + 1)
	m.events = append(m.events, *ev)
	return nil
}

func (m *memEvents) QueryAnswers(context.Context, store.QueryOpts) ([]store.AnswerEvent, error) {
	return m.events, nil
}

func (m *memEvents) AnswerStats(context.Context, string) (*store.AnswerStats, error) {
	return &store.AnswerStats{Total: len(m.events)}, nil
}

type fixture struct {
	h       *Handler
	users   *memUsers
	events  *memEvents
	locks   *chanlock.Memory
	metrics *metrics.Metrics
}

func newFixture(t *testing.T, opts ...Option) *fixture {
	t.Helper()
	cat, err := catalog.Sample()
	require.NoError(t, err)

	f := &fixture{
		users:   newMemUsers(),
		events:  &memEvents{},
		locks:   chanlock.NewMemory(),
		metrics: metrics.New(prometheus.NewRegistry()),
	}
	opts = append([]Option{WithEventRepo(f.events), WithMetrics(f.metrics)}, opts...)
	f.h = NewHandler(progression.NewEngine(cat), f.users, f.locks, opts...)
	return f
}

// run parses line and handles it for sess.
func (f *fixture) run(t *testing.T, sess *fakeSession, line string) {
	t.Helper()
	req, err := ParseLine(line)
	require.NoError(t, err)
	require.NoError(t, f.h.Handle(context.Background(), sess, req))
}

func (f *fixture) record(userID string) []string {
	return f.users.recs[userID].Inferences
}
