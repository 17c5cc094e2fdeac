package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// userRepo implements UserRepo on the user_records table. The inference
// list is kept as a JSON array so stored order survives untouched.
type userRepo struct {
	db *sql.DB
}

// execQuerier is satisfied by *sql.DB and *sql.Tx.
type execQuerier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (r *userRepo) Load(ctx context.Context, userID string) (*UserRecord, error) {
	return loadUserRecord(ctx, r.db, userID)
}

func (r *userRepo) Save(ctx context.Context, rec *UserRecord) error {
	return saveUserRecord(ctx, r.db, rec)
}

func (r *userRepo) Update(ctx context.Context, userID string, fn func(*UserRecord) (bool, error)) error {
	// The store opens transactions with BEGIN IMMEDIATE, so the write lock
	// is taken before the read below.
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin user update: %w", err)
	}
	defer tx.Rollback()

	rec, err := loadUserRecord(ctx, tx, userID)
	if err != nil {
		return err
	}
	changed, err := fn(rec)
	if err != nil {
		return err
	}
	if !changed {
		return nil
	}
	rec.UserID = userID
	if err := saveUserRecord(ctx, tx, rec); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit user update: %w", err)
	}
	return nil
}

func (r *userRepo) Delete(ctx context.Context, userID string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM user_records WHERE user_id = ?`, userID)
	if err != nil {
		return false, fmt.Errorf("delete user record: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete user record: %w", err)
	}
	return n > 0, nil
}

func loadUserRecord(ctx context.Context, q execQuerier, userID string) (*UserRecord, error) {
	var (
		name      string
		raw       string
		updatedAt int64
	)
	err := q.QueryRowContext(ctx,
		`SELECT user_name, inferences, updated_at FROM user_records WHERE user_id = ?`,
		userID,
	).Scan(&name, &raw, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return &UserRecord{UserID: userID}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query user record: %w", err)
	}

	var ids []string
	if err := json.Unmarshal([]byte(raw), &ids); err != nil {
		return nil, fmt.Errorf("decode inferences for %s: %w", userID, err)
	}
	return &UserRecord{
		UserID:     userID,
		UserName:   name,
		Inferences: ids,
		UpdatedAt:  time.UnixMilli(updatedAt).UTC(),
	}, nil
}

func saveUserRecord(ctx context.Context, q execQuerier, rec *UserRecord) error {
	if rec.UserID == "" {
		return errors.New("save user record: empty user id")
	}
	ids := rec.Inferences
	if ids == nil {
		ids = []string{}
	}
	raw, err := json.Marshal(ids)
	if err != nil {
		return fmt.Errorf("encode inferences: %w", err)
	}
	if rec.UpdatedAt.IsZero() {
		rec.UpdatedAt = time.Now().UTC()
	}

	_, err = q.ExecContext(ctx,
		`INSERT INTO user_records (user_id, user_name, inferences, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (user_id) DO UPDATE SET
			user_name = excluded.user_name,
			inferences = excluded.inferences,
			updated_at = excluded.updated_at`,
		rec.UserID, rec.UserName, string(raw), rec.UpdatedAt.UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("save user record: %w", err)
	}
	return nil
}
