package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// eventRepo implements EventRepo on the answer_events table.
type eventRepo struct {
	db  *sql.DB
	seq *sequenceCounter
}

func (r *eventRepo) AppendAnswer(ctx context.Context, ev *AnswerEvent) error {
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}
	ev.Sequence = seqNum
	if ev.ID == "" {
		ev.ID = uuid.NewString()
	}
	if ev.Timestamp.IsZero() {
		ev.Timestamp = time.Now().UTC()
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO answer_events
			(id, sequence, user_id, channel_id, question_id, outcome, unlock_kind, unlock_chapter, progress, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		ev.ID, ev.Sequence, ev.UserID, ev.ChannelID, ev.QuestionID, ev.Outcome,
		ev.UnlockKind, ev.UnlockChapter, ev.Progress, ev.Timestamp.UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("save answer event: %w", err)
	}
	return nil
}

func (r *eventRepo) QueryAnswers(ctx context.Context, opts QueryOpts) ([]AnswerEvent, error) {
	var (
		where []string
		args  []any
	)
	if opts.UserID != "" {
		where = append(where, "user_id = ?")
		args = append(args, opts.UserID)
	}
	if opts.After > 0 {
		where = append(where, "sequence > ?")
		args = append(args, opts.After)
	}
	if opts.Before > 0 {
		where = append(where, "sequence < ?")
		args = append(args, opts.Before)
	}
	if !opts.From.IsZero() {
		where = append(where, "created_at >= ?")
		args = append(args, opts.From.UnixMilli())
	}
	if !opts.To.IsZero() {
		where = append(where, "created_at <= ?")
		args = append(args, opts.To.UnixMilli())
	}

	q := `SELECT id, sequence, user_id, channel_id, question_id, outcome,
		unlock_kind, unlock_chapter, progress, created_at FROM answer_events`
	if len(where) > 0 {
		q += " WHERE " + strings.Join(where, " AND ")
	}
	q += " ORDER BY sequence DESC"
	if opts.Limit > 0 {
		q += " LIMIT ?"
		args = append(args, opts.Limit)
	}

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query answer events: %w", err)
	}
	defer rows.Close()

	var out []AnswerEvent
	for rows.Next() {
		var (
			ev      AnswerEvent
			created int64
		)
		if err := rows.Scan(&ev.ID, &ev.Sequence, &ev.UserID, &ev.ChannelID, &ev.QuestionID,
			&ev.Outcome, &ev.UnlockKind, &ev.UnlockChapter, &ev.Progress, &created); err != nil {
			return nil, fmt.Errorf("scan answer event: %w", err)
		}
		ev.Timestamp = time.UnixMilli(created).UTC()
		out = append(out, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("query answer events: %w", err)
	}
	return out, nil
}

func (r *eventRepo) AnswerStats(ctx context.Context, userID string) (*AnswerStats, error) {
	stats := &AnswerStats{
		ByOutcome: make(map[string]int),
		Unlocks:   make(map[string]int),
	}

	filter, args := "", []any{}
	if userID != "" {
		filter = " WHERE user_id = ?"
		args = append(args, userID)
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT outcome, unlock_kind, COUNT(*), MAX(created_at) FROM answer_events`+filter+
			` GROUP BY outcome, unlock_kind`,
		args...,
	)
	if err != nil {
		return nil, fmt.Errorf("query answer stats: %w", err)
	}
	defer rows.Close()

	var last int64
	for rows.Next() {
		var (
			outcome, kind string
			n             int
			maxCreated    int64
		)
		if err := rows.Scan(&outcome, &kind, &n, &maxCreated); err != nil {
			return nil, fmt.Errorf("scan answer stats: %w", err)
		}
		stats.Total += n
		stats.ByOutcome[outcome] += n
		if kind != "" {
			stats.Unlocks[kind] += n
		}
		if maxCreated > last {
			last = maxCreated
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("query answer stats: %w", err)
	}
	if last > 0 {
		stats.Last = time.UnixMilli(last).UTC()
	}
	return stats, nil
}
