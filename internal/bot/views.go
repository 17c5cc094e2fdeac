package bot

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/abhisek/inference/internal/catalog"
	"github.com/abhisek/inference/internal/chanlock"
)

func (h *Handler) answerDump(c *call) error {
	cat := h.engine.Catalog()
	var lines []string
	for _, idx := range cat.ChapterIndices() {
		var answers []string
		for _, q := range cat.QuestionsIn(idx) {
			answers = append(answers, q.Answer)
		}
		lines = append(lines, msgAnswerDump(idx, answers))
	}
	c.log.Info("answer dump served")
	return c.reply(strings.Join(lines, "\n"))
}

// solvedIDs lists the record's ids in chapter idx, in record order.
func (c *call) solvedIDs(idx float64) []string {
	var ids []string
	for _, k := range c.r.InChapter(idx) {
		ids = append(ids, k.String())
	}
	return ids
}

func (h *Handler) summary(c *call) error {
	cat := h.engine.Catalog()
	rel := h.engine.Release()

	lines := []string{msgSummaryHeader(c.sess.UserName(), c.r.Len(), cat.GradedQuestionCount())}
	for _, idx := range cat.ChapterIndices() {
		if idx > float64(rel.ChapterCount) || h.engine.ChapterLocked(c.r, catalog.FormatChapter(idx)) {
			continue
		}
		lines = append(lines, msgChapterProgress(idx, len(cat.QuestionsIn(idx)), c.solvedIDs(idx)))
	}
	return c.reply(strings.Join(lines, "\n"))
}

func (h *Handler) contents(c *call) error {
	cat := h.engine.Catalog()
	rel := h.engine.Release()

	lines := []string{msgContentsHeader(h.engine.DisplayProgress(c.r)), msgRule}
	for _, ch := range cat.Chapters() {
		if ch.Progress > rel.ChapterCount {
			continue
		}
		line := chapterTitle(ch) + " " + ch.Name
		if ch.Numeric {
			if h.engine.ChapterLocked(c.r, ch.ID) {
				continue
			}
			if n := len(cat.QuestionsIn(ch.Index)); n > 0 {
				line += fmtQuestionCount(n)
			}
		}
		lines = append(lines, strings.TrimSpace(line))
	}
	lines = append(lines, msgRule, msgContentsFooter)
	return c.reply(strings.Join(lines, "\n"))
}

func fmtQuestionCount(n int) string {
	if n == 1 {
		return " (1 question)"
	}
	return " (" + strconv.Itoa(n) + " questions)"
}

// chapter shows a chapter's narrative, or with -l its completion list.
// Blocks are streamed one message at a time while the channel is held.
func (h *Handler) chapter(c *call, ch *catalog.Chapter) error {
	if !c.req.Force {
		if err := h.engine.CheckChapter(c.r, ch); err != nil {
			return h.refusal(c, ch.ID, err)
		}
	}

	blocks := make([]string, 0, len(ch.Content)+1)
	for _, lines := range ch.Content {
		blocks = append(blocks, strings.Join(lines, "\n"))
	}
	if ch.Progress < h.engine.RawProgress(c.r) && len(ch.AdditionalContent) > 0 {
		blocks = append(blocks, strings.Join(ch.AdditionalContent, "\n"))
	}

	var footer string
	if ch.Numeric {
		qs := h.engine.Catalog().QuestionsIn(ch.Index)
		ids := make([]string, len(qs))
		for i, q := range qs {
			ids[i] = q.ID
		}
		list := msgQuestionList(ids)
		if c.req.List {
			solved := c.solvedIDs(ch.Index)
			switch {
			case len(solved) == len(qs):
				list = msgQuestionListDone(ids)
			case len(solved) > 0:
				list += "\n" + msgCompleted(solved)
			}
		}
		footer = list

		if ch.Index == 0 {
			// The special chapter reveals one more block per answer in it.
			if solved := c.r.CountChapter(0); solved < len(blocks) {
				footer = msgSolveMore + "\n" + list
				blocks = blocks[:solved+1]
			}
		}
	}
	if c.req.List {
		blocks = nil
	}
	if footer != "" {
		blocks = append(blocks, footer)
	}

	err := chanlock.Hold(c.ctx, h.locks, c.sess.ChannelID(), func(ctx context.Context) error {
		for _, b := range blocks {
			if err := c.sess.Send(ctx, b); err != nil {
				return err
			}
		}
		return nil
	})
	switch {
	case err == nil:
		return nil
	case errors.Is(err, chanlock.ErrBusy):
		h.metrics.Busy()
		return c.reply(msgBusy)
	case errors.Is(err, chanlock.ErrUnavailable):
		return err
	default:
		// Delivery failures end the command quietly; the lock is already
		// released.
		h.metrics.DeliveryFailed()
		c.log.Warn("chapter delivery failed", "chapter", ch.ID, "error", err)
		return nil
	}
}

func (h *Handler) question(c *call, q *catalog.Question) error {
	if !c.req.Force {
		if err := h.engine.CheckQuestion(c.r, q); err != nil {
			return h.refusal(c, q.ID, err)
		}
	}

	answered := c.r.Contains(q.Key)
	if c.req.Solution && !answered && !c.req.Force {
		return c.reply(msgSolutionLocked)
	}

	lines := []string{msgQuestionHeader(q.ID, answered)}
	if c.req.Solution {
		lines = append(lines, msgAnswerLine(q))
	}
	if clue := msgClueLine(q); clue != "" {
		lines = append(lines, clue)
	}
	for i, hint := range q.Hints {
		lines = append(lines, strconv.Itoa(i+1)+". "+hint)
	}
	if q.Comment != "" {
		lines = append(lines, "Note: "+q.Comment)
	}
	if err := c.reply(strings.Join(lines, "\n")); err != nil {
		return err
	}
	if c.req.Solution && len(q.Solution) > 0 {
		return c.reply(strings.Join(q.Solution, "\n"))
	}
	return nil
}
