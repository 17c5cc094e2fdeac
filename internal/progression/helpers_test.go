package progression

import (
	"fmt"
	"strconv"
	"testing"

	"github.com/abhisek/inference/internal/catalog"
)

// testCatalog builds chapters 0..19 with 12 questions each, hidden chapters
// 1.5, 3.5 and 5.5 with 3 questions each, two narrative chapters, and
// chapter 4 questions 13..17 carrying prerequisites.
func testCatalog(t *testing.T, rel catalog.Release) *catalog.Catalog {
	t.Helper()

	var chapters []catalog.Chapter
	var questions []catalog.Question
	for ch := 0; ch <= 19; ch++ {
		id := strconv.Itoa(ch)
		chapters = append(chapters, catalog.Chapter{ID: id, Name: "Chapter " + id, Progress: ch})
		for i := 1; i <= 12; i++ {
			questions = append(questions, question(fmt.Sprintf("%d-%d", ch, i)))
		}
	}
	chapters[10].AdditionalContent = []string{"the first volume ends here"}

	for _, h := range []string{"1.5", "3.5", "5.5"} {
		idx, _ := catalog.ParseChapterIndex(h)
		chapters = append(chapters, catalog.Chapter{ID: h, Progress: int(idx)})
		for i := 1; i <= 3; i++ {
			questions = append(questions, question(fmt.Sprintf("%s-%d", h, i)))
		}
	}
	chapters = append(chapters,
		catalog.Chapter{ID: "Interlude", Progress: 3},
		catalog.Chapter{ID: "Afterword", Progress: 10, Actual: true},
	)

	prefix := catalog.Prerequisite{Kind: catalog.PrereqPrefix, Arg1: 2, Arg2: 3}
	suffix := catalog.Prerequisite{Kind: catalog.PrereqSuffix, Arg1: 1, Arg2: 3}
	hidden := catalog.Prerequisite{Kind: catalog.PrereqChapter, Arg1: 6}
	single := catalog.Prerequisite{Kind: catalog.PrereqQuestion, Arg1: 3, Arg2: 2}
	withPrereqs := func(id string, p ...catalog.Prerequisite) catalog.Question {
		q := question(id)
		q.Prerequisites = p
		return q
	}
	questions = append(questions,
		withPrereqs("4-13", prefix),
		withPrereqs("4-14", suffix),
		withPrereqs("4-15", hidden),
		withPrereqs("4-16", single),
		withPrereqs("4-17", prefix, suffix, hidden, single),
	)

	c, err := catalog.New(rel, chapters, questions)
	if err != nil {
		t.Fatalf("build catalog: %v", err)
	}
	return c
}

func question(id string) catalog.Question {
	return catalog.Question{ID: id, Answer: answerFor(id), Meaning: "meaning of " + id}
}

func answerFor(id string) string {
	return "ans" + id
}

// ids lists "<ch>-from" .. "<ch>-to".
func ids(ch string, from, to int) []string {
	var out []string
	for i := from; i <= to; i++ {
		out = append(out, fmt.Sprintf("%s-%d", ch, i))
	}
	return out
}

// record concatenates id groups into a Record, in the given order.
func record(groups ...[]string) Record {
	var all []string
	for _, g := range groups {
		all = append(all, g...)
	}
	return MustParseRecord(all...)
}

// fullChapters answers n questions in each chapter from..to.
func fullChapters(from, to, n int) []string {
	var out []string
	for ch := from; ch <= to; ch++ {
		out = append(out, ids(strconv.Itoa(ch), 1, n)...)
	}
	return out
}
