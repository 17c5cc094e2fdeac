package catalog

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// QuestionKey is the structured form of a question id "<chapter>-<sub>".
type QuestionKey struct {
	Chapter float64
	Sub     int
}

// ParseQuestionKey parses a canonical question id such as "3-7" or "9.5-2".
// Non-canonical spellings ("03-7", "3-07", "3.0-7") are rejected so that the
// string form and the structured form always agree on prefix/suffix matches.
func ParseQuestionKey(id string) (QuestionKey, error) {
	sep := strings.IndexByte(id, '-')
	if sep <= 0 || sep == len(id)-1 {
		return QuestionKey{}, fmt.Errorf("malformed question id %q", id)
	}
	ch, err := ParseChapterIndex(id[:sep])
	if err != nil {
		return QuestionKey{}, fmt.Errorf("malformed question id %q: %w", id, err)
	}
	sub, err := strconv.Atoi(id[sep+1:])
	if err != nil || sub <= 0 || strconv.Itoa(sub) != id[sep+1:] {
		return QuestionKey{}, fmt.Errorf("malformed question id %q: bad sub index", id)
	}
	return QuestionKey{Chapter: ch, Sub: sub}, nil
}

// MustParseQuestionKey is ParseQuestionKey for ids known to be valid.
func MustParseQuestionKey(id string) QuestionKey {
	k, err := ParseQuestionKey(id)
	if err != nil {
		panic(err)
	}
	return k
}

// String returns the canonical id.
func (k QuestionKey) String() string {
	return FormatChapter(k.Chapter) + "-" + strconv.Itoa(k.Sub)
}

// Less orders keys by chapter, then sub index.
func (k QuestionKey) Less(o QuestionKey) bool {
	if k.Chapter != o.Chapter {
		return k.Chapter < o.Chapter
	}
	return k.Sub < o.Sub
}

// MaxChapterIndex is the largest chapter index an id may name. Progress
// arithmetic converts indices to int.
const MaxChapterIndex = 1 << 20

// ParseChapterIndex parses a canonical numeric chapter id ("0", "5", "9.5").
func ParseChapterIndex(s string) (float64, error) {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || f < 0 || f > MaxChapterIndex || FormatChapter(f) != s {
		return 0, fmt.Errorf("bad chapter index %q", s)
	}
	return f, nil
}

// FormatChapter renders a chapter index the way ids spell it: 5 -> "5",
// 9.5 -> "9.5".
func FormatChapter(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// IsIntegral reports whether a chapter index has no fractional part.
func IsIntegral(f float64) bool {
	return f == math.Trunc(f)
}

// IsNumericID reports whether id names a numbered chapter.
func IsNumericID(id string) bool {
	_, err := ParseChapterIndex(id)
	return err == nil
}
