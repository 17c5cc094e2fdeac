package store

import (
	"context"
	"time"
)

// UserRecord is a player's stored inference list.
type UserRecord struct {
	UserID     string
	UserName   string
	Inferences []string // canonical question ids in stored order
	UpdatedAt  time.Time
}

// UserRepo persists per-player inference records.
type UserRepo interface {
	// Load returns the player's record. A player with no row gets an empty
	// record, not an error.
	Load(ctx context.Context, userID string) (*UserRecord, error)

	// Save replaces the player's inference list.
	Save(ctx context.Context, rec *UserRecord) error

	// Update reads the player's record and passes it to fn inside one write
	// transaction, so updates for a player never interleave. The record is
	// written only when fn reports a change; an error from fn is returned
	// unchanged and nothing is written.
	Update(ctx context.Context, userID string, fn func(rec *UserRecord) (changed bool, err error)) error

	// Delete removes the player's record. Reports whether a row existed.
	Delete(ctx context.Context, userID string) (bool, error)
}

// QueryOpts configures event queries with filtering and pagination.
type QueryOpts struct {
	UserID string    // empty = every player
	Limit  int       // max results (0 = unlimited)
	After  int64     // sequence > After
	Before int64     // sequence < Before
	From   time.Time // timestamp >= From
	To     time.Time // timestamp <= To
}

// AnswerEvent records one answer submission.
type AnswerEvent struct {
	ID            string
	Sequence      int64
	UserID        string
	ChannelID     string
	QuestionID    string
	Outcome       string
	UnlockKind    string // empty when nothing unlocked
	UnlockChapter float64
	Progress      int
	Timestamp     time.Time
}

// AnswerStats aggregates a player's answer events.
type AnswerStats struct {
	Total     int
	ByOutcome map[string]int
	Unlocks   map[string]int
	Last      time.Time
}

// EventRepo provides append and query access to answer events.
type EventRepo interface {
	// AppendAnswer records a submission. ID, Sequence and Timestamp are
	// filled in when empty.
	AppendAnswer(ctx context.Context, ev *AnswerEvent) error

	// QueryAnswers returns events newest first.
	QueryAnswers(ctx context.Context, opts QueryOpts) ([]AnswerEvent, error)

	// AnswerStats summarizes a player's events. Empty userID covers everyone.
	AnswerStats(ctx context.Context, userID string) (*AnswerStats, error)
}
