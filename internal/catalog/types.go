package catalog

import (
	"fmt"
	"slices"

	"gopkg.in/yaml.v3"
)

// Release holds the constants fixed by a content release.
type Release struct {
	// ChapterCount is the number of graded chapters counted toward completion.
	ChapterCount int `yaml:"chapterCount" json:"chapterCount"`
	// SpecialChapterThreshold is the total answer count that opens chapter 0.
	SpecialChapterThreshold int `yaml:"specialChapterThreshold" json:"specialChapterThreshold"`
	// HiddenEligible lists integer chapters that own a hidden x.5 chapter.
	HiddenEligible []int `yaml:"hiddenEligible" json:"hiddenEligible"`
	// HiddenUnlockCount is the per-chapter answer count that opens its x.5 chapter.
	HiddenUnlockCount int `yaml:"hiddenUnlockCount" json:"hiddenUnlockCount"`
	// AdvanceSolveCount is the answer count in the current chapter that
	// advances progress by one.
	AdvanceSolveCount int `yaml:"advanceSolveCount" json:"advanceSolveCount"`
	// VolumeFinale is the chapter whose additional content is revealed when
	// progress moves past it.
	VolumeFinale int `yaml:"volumeFinale" json:"volumeFinale"`
}

// DefaultRelease returns the constants of the current content release.
func DefaultRelease() Release {
	return Release{
		ChapterCount:            19,
		SpecialChapterThreshold: 100,
		HiddenEligible:          []int{1, 3, 5, 7, 9, 13, 17},
		HiddenUnlockCount:       10,
		AdvanceSolveCount:       5,
		VolumeFinale:            10,
	}
}

// withDefaults fills zero fields from DefaultRelease.
func (r Release) withDefaults() Release {
	d := DefaultRelease()
	if r.ChapterCount == 0 {
		r.ChapterCount = d.ChapterCount
	}
	if r.SpecialChapterThreshold == 0 {
		r.SpecialChapterThreshold = d.SpecialChapterThreshold
	}
	if r.HiddenEligible == nil {
		r.HiddenEligible = d.HiddenEligible
	}
	if r.HiddenUnlockCount == 0 {
		r.HiddenUnlockCount = d.HiddenUnlockCount
	}
	if r.AdvanceSolveCount == 0 {
		r.AdvanceSolveCount = d.AdvanceSolveCount
	}
	if r.VolumeFinale == 0 {
		r.VolumeFinale = d.VolumeFinale
	}
	return r
}

// HasHidden reports whether chapter owns a hidden x.5 chapter.
func (r Release) HasHidden(chapter float64) bool {
	if !IsIntegral(chapter) {
		return false
	}
	return slices.Contains(r.HiddenEligible, int(chapter))
}

// Chapter is a static content unit. Numeric ids are graded or hidden
// chapters; anything else is narrative only.
type Chapter struct {
	ID                string     `yaml:"id" validate:"required"`
	Name              string     `yaml:"name"`
	Progress          int        `yaml:"progress" validate:"gte=0"`
	Actual            bool       `yaml:"actual"`
	Content           [][]string `yaml:"content"`
	AdditionalContent []string   `yaml:"additionalContent"`

	// Index is the parsed id, valid when Numeric is set.
	Index   float64 `yaml:"-"`
	Numeric bool    `yaml:"-"`
}

// Question is a single puzzle.
type Question struct {
	ID            string         `yaml:"id" validate:"required"`
	Answer        string         `yaml:"answer" validate:"required"`
	Info          string         `yaml:"info"`
	Clue          string         `yaml:"clue"`
	Meaning       string         `yaml:"meaning"`
	Category      string         `yaml:"category"`
	Comment       string         `yaml:"comment"`
	Hints         []string       `yaml:"hints"`
	Solution      []string       `yaml:"solution"`
	Prerequisites []Prerequisite `yaml:"prerequisites" validate:"dive"`

	Key QuestionKey `yaml:"-"`
}

// Chapter returns the chapter index the question belongs to.
func (q *Question) Chapter() float64 {
	return q.Key.Chapter
}

// PrerequisiteKind names a per-question unlock condition.
type PrerequisiteKind string

const (
	// PrereqPrefix: at least Count answers in chapter Chapter.
	PrereqPrefix PrerequisiteKind = "prefix"
	// PrereqSuffix: at least Count answers with sub index Sub.
	PrereqSuffix PrerequisiteKind = "suffix"
	// PrereqChapter: the hidden chapter (Chapter - 0.5) is unlocked.
	PrereqChapter PrerequisiteKind = "chapter"
	// PrereqQuestion: question "<Chapter>-<Sub>" is answered.
	PrereqQuestion PrerequisiteKind = "question"
)

// Prerequisite is one condition gating a question. Catalog files spell it
// as a tuple: [kind, arg1, arg2?].
type Prerequisite struct {
	Kind PrerequisiteKind `validate:"oneof=prefix suffix chapter question"`
	// Arg1 is the chapter index (prefix, chapter, question) or the sub
	// index (suffix).
	Arg1 float64
	// Arg2 is the minimum count (prefix, suffix) or the sub index (question).
	Arg2 int
}

// UnmarshalYAML decodes the [kind, arg1, arg2?] tuple form.
func (p *Prerequisite) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.SequenceNode {
		return fmt.Errorf("line %d: prerequisite must be a list", node.Line)
	}
	if len(node.Content) < 2 || len(node.Content) > 3 {
		return fmt.Errorf("line %d: prerequisite needs 2 or 3 items, got %d", node.Line, len(node.Content))
	}
	var kind string
	if err := node.Content[0].Decode(&kind); err != nil {
		return fmt.Errorf("line %d: prerequisite kind: %w", node.Line, err)
	}
	p.Kind = PrerequisiteKind(kind)
	if err := node.Content[1].Decode(&p.Arg1); err != nil {
		return fmt.Errorf("line %d: prerequisite arg1: %w", node.Line, err)
	}
	p.Arg2 = 0
	if len(node.Content) == 3 {
		if err := node.Content[2].Decode(&p.Arg2); err != nil {
			return fmt.Errorf("line %d: prerequisite arg2: %w", node.Line, err)
		}
	}
	return nil
}

// needsArg2 reports whether the kind takes a second argument.
func (k PrerequisiteKind) needsArg2() bool {
	return k == PrereqPrefix || k == PrereqSuffix || k == PrereqQuestion
}
