package progression

import (
	"strings"

	"github.com/abhisek/inference/internal/catalog"
)

// ChapterLocked applies the side-condition locks on a chapter id: chapter
// "0" needs SpecialChapterThreshold answers in total, and a hidden chapter
// "<n>.5" needs HiddenUnlockCount answers in chapter n. Every other id is
// open as far as this rule is concerned; progress gating is separate.
func ChapterLocked(r Record, chapterID string, rel catalog.Release) bool {
	if chapterID == "0" {
		return r.Len() < rel.SpecialChapterThreshold
	}
	if base, ok := strings.CutSuffix(chapterID, ".5"); ok {
		n, err := catalog.ParseChapterIndex(base)
		if err != nil {
			return true
		}
		return r.CountChapter(n) < rel.HiddenUnlockCount
	}
	return false
}

// checkChapter decides whether a chapter's narrative is viewable.
func checkChapter(r Record, ch *catalog.Chapter, rel catalog.Release) error {
	raw := RawProgress(r, rel.AdvanceSolveCount)
	display := DisplayProgress(raw, rel.ChapterCount)

	if ch.Numeric && ChapterLocked(r, ch.ID, rel) {
		if ch.ID == "0" {
			return &LockedError{Reason: ReasonSpecialThreshold}
		}
		return ErrNotFound
	}
	if ch.Actual {
		if ch.Progress+1 > raw {
			return &LockedError{Reason: ReasonProgress}
		}
	} else if ch.Progress > display {
		return &LockedError{Reason: ReasonProgress}
	}
	return nil
}

// checkQuestion decides whether a question is viewable and answerable.
func checkQuestion(r Record, q *catalog.Question, rel catalog.Release) error {
	raw := RawProgress(r, rel.AdvanceSolveCount)
	display := DisplayProgress(raw, rel.ChapterCount)

	if ChapterLocked(r, catalog.FormatChapter(q.Chapter()), rel) {
		if q.Chapter() == 0 {
			return &LockedError{Reason: ReasonSpecialThreshold}
		}
		return ErrNotFound
	}
	if q.Chapter() > float64(display) {
		return &LockedError{Reason: ReasonProgress}
	}
	if len(q.Prerequisites) > 0 {
		statuses, ok := EvaluatePrerequisites(r, q.Prerequisites, rel)
		if !ok {
			return &LockedError{Reason: ReasonPrerequisites, Conditions: statuses}
		}
	}
	return nil
}
