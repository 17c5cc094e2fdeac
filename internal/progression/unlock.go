package progression

import "github.com/abhisek/inference/internal/catalog"

// UnlockKind identifies which chapter family a submission opened.
type UnlockKind string

const (
	UnlockMainline UnlockKind = "mainline"
	UnlockHidden   UnlockKind = "hidden"
	UnlockSpecial  UnlockKind = "special"
)

// UnlockEvent is the single announcement a correct answer can produce.
type UnlockEvent struct {
	Kind    UnlockKind
	Chapter float64
	// Released is false for main-line levels past the released chapters;
	// progress still advances but there is nothing to announce.
	Released bool
	// AlsoSpecial is set when this answer was also the one that opened
	// chapter 0, which is then announced alongside Chapter.
	AlsoSpecial bool
}

// UnlockInput is what a rule sees about one correct submission.
type UnlockInput struct {
	Question    *catalog.Question
	Before      Record
	After       Record
	OldProgress int
	NewProgress int
	Release     catalog.Release
}

func (in *UnlockInput) reachedSpecial() bool {
	return in.After.Len() == in.Release.SpecialChapterThreshold
}

// UnlockRule detects one kind of unlock. Returns nil when it does not apply.
type UnlockRule interface {
	Name() string
	Evaluate(in *UnlockInput) *UnlockEvent
}

// DefaultUnlockRules returns the rules in priority order. A main-line
// advance outranks a hidden chapter, which outranks chapter 0. When a lower
// rule would also have fired its chapter is still unlocked, just not
// announced.
func DefaultUnlockRules() []UnlockRule {
	return []UnlockRule{
		MainlineRule{},
		HiddenRule{},
		SpecialRule{},
	}
}

// RunUnlockRules returns the first event produced, or nil.
func RunUnlockRules(rules []UnlockRule, in *UnlockInput) *UnlockEvent {
	for _, r := range rules {
		if ev := r.Evaluate(in); ev != nil {
			return ev
		}
	}
	return nil
}

// MainlineRule fires when raw progress went up.
type MainlineRule struct{}

func (MainlineRule) Name() string { return "mainline" }

func (MainlineRule) Evaluate(in *UnlockInput) *UnlockEvent {
	if in.NewProgress <= in.OldProgress {
		return nil
	}
	return &UnlockEvent{
		Kind:        UnlockMainline,
		Chapter:     float64(in.NewProgress),
		Released:    in.NewProgress <= in.Release.ChapterCount,
		AlsoSpecial: in.reachedSpecial(),
	}
}

// HiddenRule fires on the answer that brings an eligible chapter to exactly
// HiddenUnlockCount answers.
type HiddenRule struct{}

func (HiddenRule) Name() string { return "hidden" }

func (HiddenRule) Evaluate(in *UnlockInput) *UnlockEvent {
	ch := in.Question.Chapter()
	if !in.Release.HasHidden(ch) || in.After.CountChapter(ch) != in.Release.HiddenUnlockCount {
		return nil
	}
	return &UnlockEvent{
		Kind:        UnlockHidden,
		Chapter:     ch + 0.5,
		Released:    true,
		AlsoSpecial: in.reachedSpecial(),
	}
}

// SpecialRule fires on the answer that makes the record exactly
// SpecialChapterThreshold long.
type SpecialRule struct{}

func (SpecialRule) Name() string { return "special" }

func (SpecialRule) Evaluate(in *UnlockInput) *UnlockEvent {
	if !in.reachedSpecial() {
		return nil
	}
	return &UnlockEvent{Kind: UnlockSpecial, Chapter: 0, Released: true}
}
