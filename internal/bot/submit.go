package bot

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/abhisek/inference/internal/catalog"
	"github.com/abhisek/inference/internal/progression"
	"github.com/abhisek/inference/internal/store"
)

// submit grades an answer, persists a changed record, and reports the
// outcome with any unlock it caused.
func (h *Handler) submit(c *call, q *catalog.Question) error {
	// Grade against the record as stored at write time; another submission
	// for the same player may have landed since Handle loaded it.
	var res *progression.Result
	err := h.users.Update(c.ctx, c.sess.UserID(), func(rec *store.UserRecord) (bool, error) {
		r, err := progression.ParseRecord(rec.Inferences)
		if err != nil {
			return false, fmt.Errorf("load record for %s: %w", rec.UserID, err)
		}
		res, err = h.engine.Submit(r, q.ID, c.req.Word, progression.SubmitOptions{Force: c.req.Force})
		if err != nil || !res.Changed() {
			return false, err
		}
		rec.UserName = c.sess.UserName()
		rec.Inferences = res.Record.IDs()
		rec.UpdatedAt = time.Time{}
		return true, nil
	})
	if err != nil {
		_, locked := progression.AsLocked(err)
		switch {
		case errors.Is(err, progression.ErrNotFound):
			h.metrics.Answer("not-found")
		case locked:
			h.metrics.Answer("locked")
		default:
			return fmt.Errorf("save record: %w", err)
		}
		return h.refusal(c, q.ID, err)
	}

	h.metrics.Answer(string(res.Outcome))
	if res.Unlock != nil && res.Unlock.Released {
		h.metrics.Unlock(string(res.Unlock.Kind))
	}
	h.recordEvent(c, res)

	switch res.Outcome {
	case progression.OutcomeAlreadyAnswered:
		return c.reply(msgAlreadyAnswered)
	case progression.OutcomeIncorrect:
		return c.reply(msgIncorrect)
	}

	c.log.Info("answer accepted", "question", q.ID,
		"progress_before", res.OldProgress, "progress_after", res.NewProgress,
		"answers", res.Record.Len())

	lines := []string{msgCorrect + unlockSuffix(res.Unlock)}
	if q.Meaning != "" {
		lines = append(lines, q.Meaning)
	}
	if len(res.Additional) > 0 {
		lines = append(lines, strings.Join(res.Additional, "\n"))
	}
	return c.reply(strings.Join(lines, "\n"))
}

func unlockSuffix(ev *progression.UnlockEvent) string {
	if s := msgUnlock(ev); s != "" {
		return " " + s
	}
	return ""
}

// recordEvent appends the submission to the event log. Failures are logged;
// the player's record is already saved.
func (h *Handler) recordEvent(c *call, res *progression.Result) {
	if h.events == nil {
		return
	}
	ev := &store.AnswerEvent{
		UserID:     c.sess.UserID(),
		ChannelID:  c.sess.ChannelID(),
		QuestionID: res.Question.ID,
		Outcome:    string(res.Outcome),
		Progress:   res.NewProgress,
	}
	if res.Unlock != nil && res.Unlock.Released {
		ev.UnlockKind = string(res.Unlock.Kind)
		ev.UnlockChapter = res.Unlock.Chapter
	}
	if err := h.events.AppendAnswer(c.ctx, ev); err != nil {
		c.log.Error("append answer event failed", "question", res.Question.ID, "error", err)
	}
}
