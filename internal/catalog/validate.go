package catalog

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// validateTables performs all structural checks on the chapter and question
// tables. Returns a combined error describing all problems found, or nil.
func validateTables(chapters []Chapter, questions []Question) error {
	var errs []string

	chapterIDs := make(map[string]bool, len(chapters))
	for i := range chapters {
		ch := &chapters[i]
		if err := validate.Struct(ch); err != nil {
			errs = append(errs, describe(fmt.Sprintf("chapter %q", ch.ID), err))
		}
		key := normalizeChapterID(ch.ID)
		if chapterIDs[key] {
			errs = append(errs, fmt.Sprintf("duplicate chapter ID: %q", ch.ID))
		}
		chapterIDs[key] = true
	}

	questionIDs := make(map[string]bool, len(questions))
	for i := range questions {
		q := &questions[i]
		if err := validate.Struct(q); err != nil {
			errs = append(errs, describe(fmt.Sprintf("question %q", q.ID), err))
		}
		if _, err := ParseQuestionKey(q.ID); err != nil && q.ID != "" {
			errs = append(errs, err.Error())
		}
		if questionIDs[q.ID] {
			errs = append(errs, fmt.Sprintf("duplicate question ID: %q", q.ID))
		}
		questionIDs[q.ID] = true

		for j, p := range q.Prerequisites {
			prefix := fmt.Sprintf("question %q prerequisite %d", q.ID, j)
			if p.Kind.needsArg2() && p.Arg2 <= 0 {
				errs = append(errs, fmt.Sprintf("%s: %s needs a positive second argument", prefix, p.Kind))
			}
			if p.Arg1 < 0 {
				errs = append(errs, fmt.Sprintf("%s: first argument must be >= 0, got %v", prefix, p.Arg1))
			}
			if p.Kind == PrereqSuffix && !IsIntegral(p.Arg1) {
				errs = append(errs, fmt.Sprintf("%s: suffix sub index must be an integer, got %v", prefix, p.Arg1))
			}
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("catalog validation failed:\n  %s", strings.Join(errs, "\n  "))
	}
	return nil
}

// describe flattens validator field errors into one line.
func describe(subject string, err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Sprintf("%s: %v", subject, err)
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		parts = append(parts, fmt.Sprintf("%s failed %q", fe.Namespace(), fe.Tag()))
	}
	return fmt.Sprintf("%s: %s", subject, strings.Join(parts, ", "))
}
