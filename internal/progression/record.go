package progression

import (
	"fmt"
	"slices"

	"github.com/abhisek/inference/internal/catalog"
)

// Record is a user's ordered list of correctly answered questions. Keys are
// kept strictly ascending by (chapter, sub) with no duplicates; Insert
// preserves that order without re-sorting, so old records round-trip
// exactly as stored.
type Record struct {
	keys []catalog.QuestionKey
}

// ParseRecord converts the stored id list into a Record. The stored order is
// kept as is.
func ParseRecord(ids []string) (Record, error) {
	keys := make([]catalog.QuestionKey, 0, len(ids))
	for i, id := range ids {
		k, err := catalog.ParseQuestionKey(id)
		if err != nil {
			return Record{}, fmt.Errorf("record entry %d: %w", i, err)
		}
		keys = append(keys, k)
	}
	return Record{keys: keys}, nil
}

// MustParseRecord is ParseRecord for literals.
func MustParseRecord(ids ...string) Record {
	r, err := ParseRecord(ids)
	if err != nil {
		panic(err)
	}
	return r
}

// IDs returns the storage form.
func (r Record) IDs() []string {
	out := make([]string, len(r.keys))
	for i, k := range r.keys {
		out[i] = k.String()
	}
	return out
}

// Keys returns a copy of the keys in record order.
func (r Record) Keys() []catalog.QuestionKey {
	return slices.Clone(r.keys)
}

// Len is the total number of answered questions.
func (r Record) Len() int {
	return len(r.keys)
}

// Contains reports whether k has been answered.
func (r Record) Contains(k catalog.QuestionKey) bool {
	return slices.Contains(r.keys, k)
}

// CountChapter counts answers whose id starts with "<chapter>-".
func (r Record) CountChapter(chapter float64) int {
	n := 0
	for _, k := range r.keys {
		if k.Chapter == chapter {
			n++
		}
	}
	return n
}

// CountSub counts answers whose id ends with "-<sub>".
func (r Record) CountSub(sub int) int {
	n := 0
	for _, k := range r.keys {
		if k.Sub == sub {
			n++
		}
	}
	return n
}

// InChapter returns the answered keys of one chapter in record order.
func (r Record) InChapter(chapter float64) []catalog.QuestionKey {
	var out []catalog.QuestionKey
	for _, k := range r.keys {
		if k.Chapter == chapter {
			out = append(out, k)
		}
	}
	return out
}

// Insert returns a new Record with k placed before the first entry that
// sorts after it, or appended when none does. The receiver is not modified.
// Reports false, and returns r unchanged, when k is already present.
func (r Record) Insert(k catalog.QuestionKey) (Record, bool) {
	if r.Contains(k) {
		return r, false
	}
	at := len(r.keys)
	for i, e := range r.keys {
		if k.Less(e) {
			at = i
			break
		}
	}
	keys := make([]catalog.QuestionKey, 0, len(r.keys)+1)
	keys = append(keys, r.keys[:at]...)
	keys = append(keys, k)
	keys = append(keys, r.keys[at:]...)
	return Record{keys: keys}, true
}
