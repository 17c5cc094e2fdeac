package progression

import "github.com/abhisek/inference/internal/catalog"

// ConditionStatus is the evaluation of one prerequisite.
type ConditionStatus struct {
	catalog.Prerequisite
	Satisfied bool
	// Have is the current count for prefix and suffix conditions.
	Have int
}

// EvaluatePrerequisites checks every condition, in declared order, without
// stopping at the first failure. ok is true when all hold.
func EvaluatePrerequisites(r Record, prereqs []catalog.Prerequisite, rel catalog.Release) (statuses []ConditionStatus, ok bool) {
	ok = true
	statuses = make([]ConditionStatus, 0, len(prereqs))
	for _, p := range prereqs {
		s := ConditionStatus{Prerequisite: p}
		switch p.Kind {
		case catalog.PrereqPrefix:
			s.Have = r.CountChapter(p.Arg1)
			s.Satisfied = s.Have >= p.Arg2
		case catalog.PrereqSuffix:
			s.Have = r.CountSub(int(p.Arg1))
			s.Satisfied = s.Have >= p.Arg2
		case catalog.PrereqChapter:
			s.Satisfied = !ChapterLocked(r, catalog.FormatChapter(p.Arg1-0.5), rel)
		case catalog.PrereqQuestion:
			s.Satisfied = r.Contains(catalog.QuestionKey{Chapter: p.Arg1, Sub: p.Arg2})
		}
		ok = ok && s.Satisfied
		statuses = append(statuses, s)
	}
	return statuses, ok
}
