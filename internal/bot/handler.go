// Package bot turns parsed chat commands into replies: listings, chapter and
// question views, and answer submission.
package bot

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/abhisek/inference/internal/chanlock"
	"github.com/abhisek/inference/internal/logger"
	"github.com/abhisek/inference/internal/metrics"
	"github.com/abhisek/inference/internal/progression"
	"github.com/abhisek/inference/internal/store"
)

// Handler serves commands for every user and channel. It keeps no per-user
// state; records are loaded and saved through the UserRepo on each call.
type Handler struct {
	engine  *progression.Engine
	users   store.UserRepo
	events  store.EventRepo
	locks   chanlock.Locker
	log     *logger.Logger
	metrics *metrics.Metrics
}

// Option configures a Handler.
type Option func(*Handler)

// WithEventRepo records every submission.
func WithEventRepo(events store.EventRepo) Option {
	return func(h *Handler) { h.events = events }
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *logger.Logger) Option {
	return func(h *Handler) { h.log = l }
}

// WithMetrics sets the counters to update.
func WithMetrics(m *metrics.Metrics) Option {
	return func(h *Handler) { h.metrics = m }
}

// NewHandler creates a Handler.
func NewHandler(engine *progression.Engine, users store.UserRepo, locks chanlock.Locker, opts ...Option) *Handler {
	h := &Handler{
		engine: engine,
		users:  users,
		locks:  locks,
		log:    logger.Nop(),
	}
	for _, o := range opts {
		o(h)
	}
	return h
}

// call carries one command through the handler.
type call struct {
	ctx  context.Context
	sess Session
	req  Request
	rec  *store.UserRecord
	r    progression.Record
	log  *logger.Logger
}

func (c *call) reply(text string) error {
	if err := c.sess.Send(c.ctx, text); err != nil {
		return fmt.Errorf("send reply: %w", err)
	}
	return nil
}

// Handle runs one command. Player-facing outcomes (not found, locked, busy,
// wrong answer) are replies, not errors; the returned error is reserved for
// storage and delivery failures.
func (h *Handler) Handle(ctx context.Context, sess Session, req Request) error {
	c := &call{
		ctx:  ctx,
		sess: sess,
		req:  req,
		log: h.log.With(
			"request_id", uuid.NewString(),
			"user", sess.UserID(),
			"channel", sess.ChannelID(),
		),
	}
	c.log.Debug("command received", "target", req.Target, "list", req.List,
		"solution", req.Solution, "answers", req.AllAnswers, "forced", req.Force)

	busy, err := h.locks.Held(ctx, sess.ChannelID())
	if err != nil {
		return fmt.Errorf("check channel lock: %w", err)
	}
	if busy {
		h.metrics.Busy()
		return c.reply(msgBusy)
	}

	if (req.AllAnswers || req.Force) && !sess.Privileged() {
		c.log.Warn("privileged option refused")
		return c.reply(msgNotPermitted)
	}

	if req.AllAnswers {
		return h.answerDump(c)
	}

	rec, err := h.users.Load(ctx, sess.UserID())
	if err != nil {
		return fmt.Errorf("load record: %w", err)
	}
	r, err := progression.ParseRecord(rec.Inferences)
	if err != nil {
		return fmt.Errorf("load record for %s: %w", sess.UserID(), err)
	}
	c.rec, c.r = rec, r

	switch {
	case req.Target == "" && req.List:
		return h.summary(c)
	case req.Target == "":
		return h.contents(c)
	}

	if ch, ok := h.engine.Catalog().Chapter(req.Target); ok {
		return h.chapter(c, ch)
	}
	q, ok := h.engine.Catalog().Question(req.Target)
	if !ok {
		return c.reply(msgNotFound)
	}
	if req.Word == "" {
		return h.question(c, q)
	}
	return h.submit(c, q)
}

// refusal maps an access error onto its reply.
func (h *Handler) refusal(c *call, id string, err error) error {
	if errors.Is(err, progression.ErrNotFound) {
		return c.reply(msgNotFound)
	}
	le, ok := progression.AsLocked(err)
	if !ok {
		return err
	}
	rel := h.engine.Release()
	switch le.Reason {
	case progression.ReasonSpecialThreshold:
		return c.reply(msgSpecialLocked(rel.SpecialChapterThreshold))
	case progression.ReasonPrerequisites:
		return c.reply(msgPrerequisites(id, le.Conditions))
	default:
		return c.reply(msgProgressLocked(rel.AdvanceSolveCount))
	}
}
