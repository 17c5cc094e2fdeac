package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestPragmasApplied(t *testing.T) {
	s := openTestStore(t)
	db := s.DB()

	tests := []struct {
		pragma string
		want   string
	}{
		{"journal_mode", "wal"},
		{"foreign_keys", "1"},
		{"synchronous", "1"}, // NORMAL = 1
	}

	for _, tt := range tests {
		var got string
		err := db.QueryRow("PRAGMA " + tt.pragma).Scan(&got)
		if err != nil {
			t.Errorf("PRAGMA %s: %v", tt.pragma, err)
			continue
		}
		if got != tt.want {
			t.Errorf("PRAGMA %s = %q, want %q", tt.pragma, got, tt.want)
		}
	}
}

func TestPragmasOnEveryConnection(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	// Hold two connections at once so the pool has to open a second one.
	var conns []*sql.Conn
	for i := 0; i < 2; i++ {
		conn, err := s.DB().Conn(ctx)
		require.NoError(t, err)
		conns = append(conns, conn)

		var timeout int
		require.NoError(t, conn.QueryRowContext(ctx, "PRAGMA busy_timeout").Scan(&timeout))
		assert.Equal(t, 5000, timeout, "connection %d", i)
	}
	for _, c := range conns {
		c.Close()
	}
}

func TestMigrationCreatesTables(t *testing.T) {
	s := openTestStore(t)
	for _, table := range []string{"user_records", "answer_events", "global_sequence"} {
		var name string
		err := s.DB().QueryRow(
			"SELECT name FROM sqlite_master WHERE type='table' AND name=?", table,
		).Scan(&name)
		if err != nil {
			t.Errorf("table %s: %v", table, err)
		}
	}
}

func TestReopenKeepsData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reopen.db")
	ctx := context.Background()

	s, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s.UserRepo().Save(ctx, &UserRecord{UserID: "u1", Inferences: []string{"1-1"}}))
	require.NoError(t, s.Close())

	s, err = Open(path)
	require.NoError(t, err)
	defer s.Close()
	rec, err := s.UserRepo().Load(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, []string{"1-1"}, rec.Inferences)
}

func TestUserRepo_LoadMissing(t *testing.T) {
	s := openTestStore(t)
	rec, err := s.UserRepo().Load(context.Background(), "nobody")
	require.NoError(t, err)
	assert.Equal(t, "nobody", rec.UserID)
	assert.Empty(t, rec.Inferences)
}

func TestUserRepo_SaveKeepsOrder(t *testing.T) {
	s := openTestStore(t)
	repo := s.UserRepo()
	ctx := context.Background()

	// Stored order is preserved exactly, even when it is not sorted.
	ids := []string{"3-1", "1-2", "1.5-1", "1-10"}
	require.NoError(t, repo.Save(ctx, &UserRecord{UserID: "u1", UserName: "Ada", Inferences: ids}))

	rec, err := repo.Load(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, ids, rec.Inferences)
	assert.Equal(t, "Ada", rec.UserName)
	assert.False(t, rec.UpdatedAt.IsZero())

	require.NoError(t, repo.Save(ctx, &UserRecord{UserID: "u1", UserName: "Ada L", Inferences: []string{"1-1"}}))
	rec, err = repo.Load(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, []string{"1-1"}, rec.Inferences)
	assert.Equal(t, "Ada L", rec.UserName)
}

func TestUserRepo_SaveEmptyID(t *testing.T) {
	s := openTestStore(t)
	err := s.UserRepo().Save(context.Background(), &UserRecord{})
	assert.Error(t, err)
}

func TestUserRepo_Delete(t *testing.T) {
	s := openTestStore(t)
	repo := s.UserRepo()
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, &UserRecord{UserID: "u1", Inferences: []string{"1-1"}}))

	existed, err := repo.Delete(ctx, "u1")
	require.NoError(t, err)
	assert.True(t, existed)

	existed, err = repo.Delete(ctx, "u1")
	require.NoError(t, err)
	assert.False(t, existed)

	rec, err := repo.Load(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, rec.Inferences)
}

func TestUserRepo_Update(t *testing.T) {
	s := openTestStore(t)
	repo := s.UserRepo()
	ctx := context.Background()

	err := repo.Update(ctx, "u1", func(rec *UserRecord) (bool, error) {
		assert.Empty(t, rec.Inferences)
		rec.UserName = "Ada"
		rec.Inferences = append(rec.Inferences, "1-1")
		return true, nil
	})
	require.NoError(t, err)

	rec, err := repo.Load(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, []string{"1-1"}, rec.Inferences)
	assert.Equal(t, "Ada", rec.UserName)
}

func TestUserRepo_UpdateWithoutChangeOrOnError(t *testing.T) {
	s := openTestStore(t)
	repo := s.UserRepo()
	ctx := context.Background()
	require.NoError(t, repo.Save(ctx, &UserRecord{UserID: "u1", Inferences: []string{"1-1"}}))

	err := repo.Update(ctx, "u1", func(rec *UserRecord) (bool, error) {
		rec.Inferences = nil
		return false, nil
	})
	require.NoError(t, err)

	boom := errors.New("refused")
	err = repo.Update(ctx, "u1", func(rec *UserRecord) (bool, error) {
		rec.Inferences = nil
		return true, boom
	})
	assert.ErrorIs(t, err, boom)

	rec, err := repo.Load(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, []string{"1-1"}, rec.Inferences)
}

func TestUserRepo_ConcurrentUpdatesKeepEveryEntry(t *testing.T) {
	s := openTestStore(t)
	repo := s.UserRepo()
	ctx := context.Background()

	const n = 16
	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs <- repo.Update(ctx, "u1", func(rec *UserRecord) (bool, error) {
				// Widen the read-modify-write window.
				time.Sleep(time.Millisecond)
				rec.Inferences = append(rec.Inferences, fmt.Sprintf("1-%d", i+1))
				return true, nil
			})
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	rec, err := repo.Load(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, rec.Inferences, n)
}

func TestSequenceCounter(t *testing.T) {
	s := openTestStore(t)
	db := s.DB()
	ctx := context.Background()

	sc, err := newSequenceCounter(db)
	if err != nil {
		t.Fatalf("new sequence counter: %v", err)
	}

	var seqs []int64
	for i := 0; i < 5; i++ {
		seq, err := sc.Next(ctx)
		if err != nil {
			t.Fatalf("next %d: %v", i, err)
		}
		seqs = append(seqs, seq)
	}

	for i, seq := range seqs {
		expected := int64(i + 1)
		if seq != expected {
			t.Errorf("seq[%d] = %d, want %d", i, seq, expected)
		}
	}
}

func TestEventRepo_AppendAndQuery(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	events := []*AnswerEvent{
		{UserID: "u1", QuestionID: "1-1", Outcome: "correct", Timestamp: base},
		{UserID: "u2", QuestionID: "1-1", Outcome: "incorrect", Timestamp: base.Add(time.Minute)},
		{UserID: "u1", QuestionID: "1-5", Outcome: "correct", UnlockKind: "mainline", UnlockChapter: 2, Progress: 2, Timestamp: base.Add(2 * time.Minute)},
	}
	for _, ev := range events {
		require.NoError(t, repo.AppendAnswer(ctx, ev))
		assert.NotEmpty(t, ev.ID)
	}
	assert.Equal(t, int64(1), events[0].Sequence)
	assert.Equal(t, int64(3), events[2].Sequence)

	got, err := repo.QueryAnswers(ctx, QueryOpts{UserID: "u1"})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "1-5", got[0].QuestionID, "newest first")
	assert.Equal(t, "mainline", got[0].UnlockKind)
	assert.Equal(t, 2.0, got[0].UnlockChapter)
	assert.Equal(t, 2, got[0].Progress)
	assert.True(t, got[0].Timestamp.Equal(base.Add(2*time.Minute)))

	got, err = repo.QueryAnswers(ctx, QueryOpts{After: 1, Limit: 1})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, int64(3), got[0].Sequence)

	got, err = repo.QueryAnswers(ctx, QueryOpts{To: base.Add(time.Minute)})
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestEventRepo_Stats(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	for _, ev := range []*AnswerEvent{
		{UserID: "u1", QuestionID: "1-1", Outcome: "correct"},
		{UserID: "u1", QuestionID: "1-2", Outcome: "incorrect"},
		{UserID: "u1", QuestionID: "1-2", Outcome: "incorrect"},
		{UserID: "u1", QuestionID: "1-5", Outcome: "correct", UnlockKind: "mainline", UnlockChapter: 2},
		{UserID: "u2", QuestionID: "1-1", Outcome: "already-answered"},
	} {
		require.NoError(t, repo.AppendAnswer(ctx, ev))
	}

	stats, err := repo.AnswerStats(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 4, stats.Total)
	assert.Equal(t, map[string]int{"correct": 2, "incorrect": 2}, stats.ByOutcome)
	assert.Equal(t, map[string]int{"mainline": 1}, stats.Unlocks)
	assert.False(t, stats.Last.IsZero())

	all, err := repo.AnswerStats(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, 5, all.Total)

	none, err := repo.AnswerStats(ctx, "ghost")
	require.NoError(t, err)
	assert.Equal(t, 0, none.Total)
	assert.True(t, none.Last.IsZero())
}

func TestDefaultDBPath_Env(t *testing.T) {
	p := filepath.Join(t.TempDir(), "nested", "x.db")
	t.Setenv("INFERENCE_DB", p)
	got, err := DefaultDBPath()
	require.NoError(t, err)
	assert.Equal(t, p, got)
	assert.DirExists(t, filepath.Dir(p))
}

func TestDefaultDBPath_XDG(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("INFERENCE_DB", "")
	t.Setenv("XDG_DATA_HOME", dir)
	got, err := DefaultDBPath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "inference", "inference.db"), got)
}
