// Package chanlock keeps two long-form reveals from interleaving on the same
// chat channel.
package chanlock

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
)

var (
	// ErrBusy is returned when another reveal holds the channel.
	ErrBusy = errors.New("channel busy")

	// ErrUnavailable marks failures to reach the lock backend while
	// claiming a channel.
	ErrUnavailable = errors.New("channel lock unavailable")
)

// Locker is a per-channel mutual-exclusion flag. TryEnter never blocks.
type Locker interface {
	// TryEnter claims the channel and returns a token naming this claim.
	// Reports false when the channel is already held.
	TryEnter(ctx context.Context, channelID string) (token string, ok bool, err error)
	// Exit releases the claim named by token. Releasing a claim that has
	// expired or been replaced is a no-op.
	Exit(ctx context.Context, channelID, token string) error
	// Held reports whether the channel is currently claimed.
	Held(ctx context.Context, channelID string) (bool, error)
}

// Hold runs fn while holding channelID and releases it on every exit path,
// including panics. Returns ErrBusy without calling fn when the channel is
// taken, and an error wrapping ErrUnavailable when the claim itself fails.
func Hold(ctx context.Context, l Locker, channelID string, fn func(ctx context.Context) error) (err error) {
	token, ok, err := l.TryEnter(ctx, channelID)
	if err != nil {
		return fmt.Errorf("enter channel %s: %w: %w", channelID, ErrUnavailable, err)
	}
	if !ok {
		return ErrBusy
	}
	defer func() {
		// Release with a context that outlives cancellation of ctx.
		if exitErr := l.Exit(context.WithoutCancel(ctx), channelID, token); exitErr != nil {
			err = errors.Join(err, fmt.Errorf("exit channel %s: %w", channelID, exitErr))
		}
	}()
	return fn(ctx)
}

// Memory is an in-process Locker.
type Memory struct {
	mu   sync.Mutex
	held map[string]string // channel -> claim token
}

// NewMemory creates an empty in-process Locker.
func NewMemory() *Memory {
	return &Memory{held: make(map[string]string)}
}

func (m *Memory) TryEnter(_ context.Context, channelID string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.held[channelID]; ok {
		return "", false, nil
	}
	token := uuid.NewString()
	m.held[channelID] = token
	return token, true, nil
}

func (m *Memory) Exit(_ context.Context, channelID, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.held[channelID] == token {
		delete(m.held, channelID)
	}
	return nil
}

func (m *Memory) Held(_ context.Context, channelID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.held[channelID]
	return ok, nil
}
