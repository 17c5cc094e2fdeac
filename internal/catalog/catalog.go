package catalog

import (
	"fmt"
	"slices"
	"sort"
	"strings"
)

// Catalog is the immutable chapter and question tables of one content
// release, with precomputed indices. Build it once with New and share it.
type Catalog struct {
	release      Release
	chapters     []Chapter
	questions    []Question
	chapterByID  map[string]*Chapter
	questionByID map[string]*Question
	byChapter    map[float64][]*Question
	indices      []float64
	gradedCount  int
}

// New validates the tables and builds a Catalog. Zero release fields fall
// back to DefaultRelease.
func New(release Release, chapters []Chapter, questions []Question) (*Catalog, error) {
	c := &Catalog{
		release:      release.withDefaults(),
		chapters:     slices.Clone(chapters),
		questions:    slices.Clone(questions),
		chapterByID:  make(map[string]*Chapter, len(chapters)),
		questionByID: make(map[string]*Question, len(questions)),
		byChapter:    make(map[float64][]*Question),
	}

	for i := range c.chapters {
		ch := &c.chapters[i]
		if idx, err := ParseChapterIndex(ch.ID); err == nil {
			ch.Index = idx
			ch.Numeric = true
		}
	}
	for i := range c.questions {
		q := &c.questions[i]
		if k, err := ParseQuestionKey(q.ID); err == nil {
			q.Key = k
		}
	}

	if err := validateTables(c.chapters, c.questions); err != nil {
		return nil, err
	}

	for i := range c.chapters {
		ch := &c.chapters[i]
		c.chapterByID[normalizeChapterID(ch.ID)] = ch
	}
	for i := range c.questions {
		q := &c.questions[i]
		c.questionByID[q.ID] = q
		if _, ok := c.byChapter[q.Key.Chapter]; !ok {
			c.indices = append(c.indices, q.Key.Chapter)
		}
		c.byChapter[q.Key.Chapter] = append(c.byChapter[q.Key.Chapter], q)
		if q.Key.Chapter <= float64(c.release.ChapterCount) {
			c.gradedCount++
		}
	}
	sort.Float64s(c.indices)

	return c, nil
}

// normalizeChapterID maps user spellings ("Chapter-5", " 5 ", "PROLOGUE")
// onto the lookup key.
func normalizeChapterID(id string) string {
	s := strings.ToLower(strings.TrimSpace(id))
	return strings.TrimPrefix(s, "chapter-")
}

// Release returns the release constants.
func (c *Catalog) Release() Release {
	r := c.release
	r.HiddenEligible = slices.Clone(r.HiddenEligible)
	return r
}

// Chapter looks up a chapter by id. Numeric ids may carry a "chapter-"
// prefix; freeform ids match case-insensitively.
func (c *Catalog) Chapter(id string) (*Chapter, bool) {
	ch, ok := c.chapterByID[normalizeChapterID(id)]
	return ch, ok
}

// Question looks up a question by its canonical id.
func (c *Catalog) Question(id string) (*Question, bool) {
	q, ok := c.questionByID[strings.TrimSpace(id)]
	return q, ok
}

// Chapters returns all chapters in declaration order.
func (c *Catalog) Chapters() []*Chapter {
	out := make([]*Chapter, len(c.chapters))
	for i := range c.chapters {
		out[i] = &c.chapters[i]
	}
	return out
}

// ChapterIndices returns every chapter index that has questions, ascending.
func (c *Catalog) ChapterIndices() []float64 {
	return slices.Clone(c.indices)
}

// QuestionsIn returns the questions of a chapter in declaration order.
func (c *Catalog) QuestionsIn(chapter float64) []*Question {
	return slices.Clone(c.byChapter[chapter])
}

// GradedQuestionCount is the number of questions in chapters up to
// ChapterCount.
func (c *Catalog) GradedQuestionCount() int {
	return c.gradedCount
}

// String summarizes the catalog for logs.
func (c *Catalog) String() string {
	return fmt.Sprintf("catalog(%d chapters, %d questions, %d graded)",
		len(c.chapters), len(c.questions), c.gradedCount)
}
