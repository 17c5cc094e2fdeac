package progression

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/inference/internal/catalog"
)

func TestChapterLocked_Special(t *testing.T) {
	rel := catalog.DefaultRelease()

	r99 := record(fullChapters(1, 8, 12), ids("9", 1, 3))
	require.Equal(t, 99, r99.Len())
	if !ChapterLocked(r99, "0", rel) {
		t.Error("chapter 0 must be locked at 99 answers")
	}

	r100 := record(fullChapters(1, 8, 12), ids("9", 1, 4))
	if ChapterLocked(r100, "0", rel) {
		t.Error("chapter 0 must be unlocked at 100 answers")
	}
}

func TestChapterLocked_Hidden(t *testing.T) {
	rel := catalog.DefaultRelease()

	nine := record(ids("5", 1, 9))
	if !ChapterLocked(nine, "5.5", rel) {
		t.Error("5.5 must be locked with 9 answers in chapter 5")
	}
	ten := record(ids("5", 1, 10))
	if ChapterLocked(ten, "5.5", rel) {
		t.Error("5.5 must be unlocked with 10 answers in chapter 5")
	}
	if !ChapterLocked(ten, "3.5", rel) {
		t.Error("3.5 depends on chapter 3 only")
	}
	if !ChapterLocked(ten, "x.5", rel) {
		t.Error("malformed hidden id must stay locked")
	}
}

func TestChapterLocked_Others(t *testing.T) {
	rel := catalog.DefaultRelease()
	for _, id := range []string{"1", "7", "19", "Interlude", "2.25"} {
		if ChapterLocked(Record{}, id, rel) {
			t.Errorf("ChapterLocked(%q) = true, want false", id)
		}
	}
}

func TestEngine_CheckChapter(t *testing.T) {
	e := NewEngine(testCatalog(t, catalog.Release{}))
	cat := e.Catalog()
	chapter := func(id string) *catalog.Chapter {
		ch, ok := cat.Chapter(id)
		require.True(t, ok, id)
		return ch
	}

	fresh := Record{}
	assert.NoError(t, e.CheckChapter(fresh, chapter("1")))

	err := e.CheckChapter(fresh, chapter("2"))
	le, ok := AsLocked(err)
	require.True(t, ok)
	assert.Equal(t, ReasonProgress, le.Reason)

	err = e.CheckChapter(fresh, chapter("0"))
	le, ok = AsLocked(err)
	require.True(t, ok)
	assert.Equal(t, ReasonSpecialThreshold, le.Reason)

	// Locked hidden chapters do not admit they exist.
	assert.ErrorIs(t, e.CheckChapter(fresh, chapter("1.5")), ErrNotFound)
	assert.NoError(t, e.CheckChapter(record(ids("1", 1, 10)), chapter("1.5")))

	// Narrative chapters follow progress only.
	assert.Error(t, e.CheckChapter(fresh, chapter("Interlude")))
	assert.NoError(t, e.CheckChapter(record(fullChapters(1, 2, 5)), chapter("Interlude")))
}

func TestEngine_CheckChapter_ActualProgress(t *testing.T) {
	e := NewEngine(testCatalog(t, catalog.Release{}))
	afterword, _ := e.Catalog().Chapter("Afterword")

	// Raw progress 10: displayed progress would pass, actual gating does not.
	at10 := record(fullChapters(1, 9, 5))
	require.Equal(t, 10, e.RawProgress(at10))
	_, locked := AsLocked(e.CheckChapter(at10, afterword))
	assert.True(t, locked)

	at11 := record(fullChapters(1, 10, 5))
	assert.NoError(t, e.CheckChapter(at11, afterword))
}

func TestEngine_CheckChapter_ActualIgnoresDisplayCap(t *testing.T) {
	rel := catalog.Release{ChapterCount: 3}
	cat, err := catalog.New(rel,
		[]catalog.Chapter{
			{ID: "3", Progress: 3},
			{ID: "Epilogue", Progress: 3, Actual: true},
			{ID: "Beyond", Progress: 4},
		},
		[]catalog.Question{{ID: "3-1", Answer: "a"}},
	)
	require.NoError(t, err)
	e := NewEngine(cat)

	rec := record(fullChapters(1, 3, 5))
	require.Equal(t, 4, e.RawProgress(rec))
	require.Equal(t, 3, e.DisplayProgress(rec))

	epilogue, _ := cat.Chapter("Epilogue")
	assert.NoError(t, e.CheckChapter(rec, epilogue))

	beyond, _ := cat.Chapter("Beyond")
	_, locked := AsLocked(e.CheckChapter(rec, beyond))
	assert.True(t, locked, "non-actual chapters are gated by the capped level")
}

func TestEngine_CheckQuestion(t *testing.T) {
	e := NewEngine(testCatalog(t, catalog.Release{}))
	cat := e.Catalog()
	q := func(id string) *catalog.Question {
		qq, ok := cat.Question(id)
		require.True(t, ok, id)
		return qq
	}

	fresh := Record{}
	assert.NoError(t, e.CheckQuestion(fresh, q("1-1")))

	le, ok := AsLocked(e.CheckQuestion(fresh, q("2-1")))
	require.True(t, ok)
	assert.Equal(t, ReasonProgress, le.Reason)

	le, ok = AsLocked(e.CheckQuestion(fresh, q("0-1")))
	require.True(t, ok)
	assert.Equal(t, ReasonSpecialThreshold, le.Reason)

	assert.True(t, errors.Is(e.CheckQuestion(fresh, q("1.5-1")), ErrNotFound))
	assert.NoError(t, e.CheckQuestion(record(ids("1", 1, 10)), q("1.5-1")))
}

func TestEngine_CheckQuestion_Prerequisites(t *testing.T) {
	e := NewEngine(testCatalog(t, catalog.Release{}))
	cat := e.Catalog()
	base := fullChapters(1, 3, 1)
	reachFour := ids("3", 2, 5)

	q, _ := cat.Question("4-13")
	rec := record(base, reachFour)
	require.Equal(t, 4, e.RawProgress(rec))

	le, ok := AsLocked(e.CheckQuestion(rec, q))
	require.True(t, ok)
	assert.Equal(t, ReasonPrerequisites, le.Reason)
	require.Len(t, le.Conditions, 1)
	assert.Equal(t, 1, le.Conditions[0].Have)
	assert.False(t, le.Conditions[0].Satisfied)

	rec = record(ids("1", 1, 1), ids("2", 1, 3), ids("3", 1, 5))
	assert.NoError(t, e.CheckQuestion(rec, q))
}

func TestEvaluatePrerequisites(t *testing.T) {
	rel := catalog.DefaultRelease()
	prereqs := []catalog.Prerequisite{
		{Kind: catalog.PrereqPrefix, Arg1: 2, Arg2: 3},
		{Kind: catalog.PrereqSuffix, Arg1: 1, Arg2: 3},
		{Kind: catalog.PrereqChapter, Arg1: 6},
		{Kind: catalog.PrereqQuestion, Arg1: 3, Arg2: 2},
	}

	tests := []struct {
		name string
		rec  Record
		want []bool
	}{
		{"nothing", Record{}, []bool{false, false, false, false}},
		{"prefix only", record(ids("2", 1, 3)), []bool{true, false, false, false}},
		{"suffix", MustParseRecord("1-1", "2-1", "3-1"), []bool{false, true, false, false}},
		{"suffix does not match longer sub", MustParseRecord("1-11", "2-21", "3-31"), []bool{false, false, false, false}},
		{"hidden chapter", record(ids("5", 1, 10)), []bool{false, false, true, false}},
		{"question", MustParseRecord("3-2"), []bool{false, false, false, true}},
		{"all", record(ids("1", 1, 1), ids("2", 1, 3), ids("3", 1, 2), ids("5", 1, 10)), []bool{true, true, true, true}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			statuses, ok := EvaluatePrerequisites(tt.rec, prereqs, rel)
			require.Len(t, statuses, len(prereqs))
			allMet := true
			for i, s := range statuses {
				assert.Equal(t, prereqs[i], s.Prerequisite, "order must follow declaration")
				assert.Equal(t, tt.want[i], s.Satisfied, "condition %d (%s)", i, s.Kind)
				allMet = allMet && tt.want[i]
			}
			assert.Equal(t, allMet, ok)
		})
	}
}

func TestEvaluatePrerequisites_PrefixExample(t *testing.T) {
	rel := catalog.DefaultRelease()
	p := []catalog.Prerequisite{{Kind: catalog.PrereqPrefix, Arg1: 2, Arg2: 3}}

	if _, ok := EvaluatePrerequisites(record(ids("2", 1, 2)), p, rel); ok {
		t.Error("two answers in chapter 2 must not satisfy (prefix, 2, 3)")
	}
	statuses, ok := EvaluatePrerequisites(record(ids("2", 1, 3)), p, rel)
	if !ok {
		t.Error("three answers in chapter 2 must satisfy (prefix, 2, 3)")
	}
	if statuses[0].Have != 3 {
		t.Errorf("Have = %d, want 3", statuses[0].Have)
	}
}
