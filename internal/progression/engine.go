package progression

import (
	"strings"

	"github.com/abhisek/inference/internal/catalog"
)

// Engine applies the progression rules of one catalog. It holds no user
// state; every call takes the user's Record and returns new values.
type Engine struct {
	cat   *catalog.Catalog
	rel   catalog.Release
	rules []UnlockRule
}

// Option configures an Engine.
type Option func(*Engine)

// WithUnlockRules replaces DefaultUnlockRules.
func WithUnlockRules(rules ...UnlockRule) Option {
	return func(e *Engine) { e.rules = rules }
}

// NewEngine creates an engine over cat.
func NewEngine(cat *catalog.Catalog, opts ...Option) *Engine {
	e := &Engine{
		cat:   cat,
		rel:   cat.Release(),
		rules: DefaultUnlockRules(),
	}
	for _, o := range opts {
		o(e)
	}
	return e
}

// Catalog returns the catalog the engine evaluates against.
func (e *Engine) Catalog() *catalog.Catalog { return e.cat }

// Release returns the release constants.
func (e *Engine) Release() catalog.Release { return e.rel }

// RawProgress is the uncapped progress level of r.
func (e *Engine) RawProgress(r Record) int {
	return RawProgress(r, e.rel.AdvanceSolveCount)
}

// DisplayProgress is the progress level capped at the released chapters.
func (e *Engine) DisplayProgress(r Record) int {
	return DisplayProgress(e.RawProgress(r), e.rel.ChapterCount)
}

// ChapterLocked applies the chapter 0 and hidden chapter locks.
func (e *Engine) ChapterLocked(r Record, chapterID string) bool {
	return ChapterLocked(r, chapterID, e.rel)
}

// CheckChapter returns nil when the chapter's narrative is viewable,
// ErrNotFound for a locked hidden chapter, or a *LockedError.
func (e *Engine) CheckChapter(r Record, ch *catalog.Chapter) error {
	return checkChapter(r, ch, e.rel)
}

// CheckQuestion returns nil when the question may be viewed and answered,
// ErrNotFound when its hidden chapter is locked, or a *LockedError.
func (e *Engine) CheckQuestion(r Record, q *catalog.Question) error {
	return checkQuestion(r, q, e.rel)
}

// Prerequisites evaluates the conditions gating q.
func (e *Engine) Prerequisites(r Record, q *catalog.Question) ([]ConditionStatus, bool) {
	return EvaluatePrerequisites(r, q.Prerequisites, e.rel)
}

// Outcome is the result kind of a submission that passed the lock checks.
type Outcome string

const (
	OutcomeCorrect         Outcome = "correct"
	OutcomeAlreadyAnswered Outcome = "already-answered"
	OutcomeIncorrect       Outcome = "incorrect"
)

// SubmitOptions alters Submit.
type SubmitOptions struct {
	// Force skips the lock and prerequisite checks. Authorize it upstream.
	Force bool
}

// Result describes a submission.
type Result struct {
	Outcome  Outcome
	Question *catalog.Question
	// Record is the updated record; it equals the input unless Outcome is
	// OutcomeCorrect.
	Record      Record
	OldProgress int
	NewProgress int
	// Unlock is the announced unlock, if any.
	Unlock *UnlockEvent
	// Additional is the volume finale's extra content, revealed on the
	// answer that moves progress past it.
	Additional []string
}

// Changed reports whether the record must be persisted.
func (res *Result) Changed() bool {
	return res.Outcome == OutcomeCorrect
}

// Submit checks word against questionID and, when correct, inserts the
// question into the record and works out which unlock to announce.
func (e *Engine) Submit(r Record, questionID, word string, opts SubmitOptions) (*Result, error) {
	q, ok := e.cat.Question(questionID)
	if !ok {
		return nil, ErrNotFound
	}
	if !opts.Force {
		if err := e.CheckQuestion(r, q); err != nil {
			return nil, err
		}
	}

	oldProgress := e.RawProgress(r)
	res := &Result{
		Question:    q,
		Record:      r,
		OldProgress: oldProgress,
		NewProgress: oldProgress,
	}

	if r.Contains(q.Key) {
		res.Outcome = OutcomeAlreadyAnswered
		return res, nil
	}
	if strings.ToLower(strings.TrimSpace(word)) != strings.ToLower(q.Answer) {
		res.Outcome = OutcomeIncorrect
		return res, nil
	}

	after, _ := r.Insert(q.Key)
	res.Outcome = OutcomeCorrect
	res.Record = after
	res.NewProgress = e.RawProgress(after)
	res.Unlock = RunUnlockRules(e.rules, &UnlockInput{
		Question:    q,
		Before:      r,
		After:       after,
		OldProgress: oldProgress,
		NewProgress: res.NewProgress,
		Release:     e.rel,
	})

	if res.NewProgress > oldProgress && res.NewProgress == e.rel.VolumeFinale+1 {
		if finale, ok := e.cat.Chapter(catalog.FormatChapter(float64(e.rel.VolumeFinale))); ok {
			res.Additional = finale.AdditionalContent
		}
	}
	return res, nil
}
