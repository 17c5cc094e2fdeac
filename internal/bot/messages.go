package bot

import (
	"fmt"
	"strings"

	"github.com/abhisek/inference/internal/catalog"
	"github.com/abhisek/inference/internal/progression"
)

const (
	msgNotFound        = "No matching chapter or question."
	msgBusy            = "Chapter text is being shown in this channel right now. Please try again later."
	msgNotPermitted    = "You are not allowed to use that option."
	msgAlreadyAnswered = "You have already answered this question."
	msgIncorrect       = "Incorrect."
	msgCorrect         = "Correct!"
	msgSolutionLocked  = "Answer this question first to see its solution."
	msgSolveMore       = "(Answer more questions in this chapter to continue the story.)"
	msgRule            = "================"
	msgContentsFooter  = "Send a chapter or question id to view it."
)

func msgSpecialLocked(threshold int) string {
	return fmt.Sprintf("Answer at least %d questions in total to view this chapter.", threshold)
}

func msgProgressLocked(solveCount int) string {
	return fmt.Sprintf("Answer at least %d questions of the previous chapter to view this chapter.", solveCount)
}

func chapterTitle(ch *catalog.Chapter) string {
	if ch.Numeric {
		return "Chapter " + ch.ID
	}
	return ch.ID
}

func msgContentsHeader(progress int) string {
	return fmt.Sprintf("Inference puzzles (unlocked through chapter %d)", progress)
}

func msgSummaryHeader(name string, solved, total int) string {
	pct := 0
	if total > 0 {
		pct = solved * 100 / total
	}
	return fmt.Sprintf("%s, you have solved %d of %d questions (%d%%).", name, solved, total, pct)
}

// msgChapterProgress is one summary line: "Chapter 2: 4 questions, ...".
func msgChapterProgress(index float64, total int, solved []string) string {
	line := fmt.Sprintf("Chapter %s: %d questions", catalog.FormatChapter(index), total)
	switch {
	case len(solved) == 0:
		return line + "."
	case len(solved) == total:
		return line + ", all completed."
	default:
		return line + ", completed " + strings.Join(solved, ", ") + "."
	}
}

func msgQuestionList(ids []string) string {
	return "Questions in this chapter: " + strings.Join(ids, ", ") + "."
}

func msgQuestionListDone(ids []string) string {
	return "Questions in this chapter: " + strings.Join(ids, ", ") + ", all completed."
}

func msgCompleted(ids []string) string {
	return "Completed " + strings.Join(ids, ", ") + "."
}

func msgQuestionHeader(id string, answered bool) string {
	if answered {
		return fmt.Sprintf("Question %s (answered)", id)
	}
	return "Question " + id
}

func msgAnswerLine(q *catalog.Question) string {
	line := "Answer: " + q.Answer
	if q.Info != "" {
		line += " (" + q.Info + ")"
	}
	if q.Meaning != "" {
		line += " " + q.Meaning
	}
	return line
}

func msgClueLine(q *catalog.Question) string {
	if q.Clue == "" {
		return q.Category
	}
	line := "Clue: " + q.Clue
	if q.Category != "" {
		line += " (" + q.Category + ")"
	}
	return line
}

// msgPrerequisites renders the locked-question checklist.
func msgPrerequisites(id string, conds []progression.ConditionStatus) string {
	out := []string{fmt.Sprintf("Question %s (locked)", id)}
	for _, c := range conds {
		var hint string
		switch c.Kind {
		case catalog.PrereqPrefix:
			hint = fmt.Sprintf("Answer at least %d questions of chapter %s.", c.Arg2, catalog.FormatChapter(c.Arg1))
			if !c.Satisfied {
				hint += fmt.Sprintf(" (%d/%d)", c.Have, c.Arg2)
			}
		case catalog.PrereqSuffix:
			hint = fmt.Sprintf("Answer at least %d questions numbered X-%s.", c.Arg2, catalog.FormatChapter(c.Arg1))
			if !c.Satisfied {
				hint += fmt.Sprintf(" (%d/%d)", c.Have, c.Arg2)
			}
		case catalog.PrereqChapter:
			hint = fmt.Sprintf("Unlock hidden chapter %s.", catalog.FormatChapter(c.Arg1-0.5))
		case catalog.PrereqQuestion:
			hint = fmt.Sprintf("Answer question %s-%d.", catalog.FormatChapter(c.Arg1), c.Arg2)
		}
		mark := "[  ]"
		if c.Satisfied {
			mark = "[√]"
		}
		out = append(out, mark+" "+hint)
	}
	return strings.Join(out, "\n")
}

// msgUnlock announces ev, or returns "" when there is nothing to say.
func msgUnlock(ev *progression.UnlockEvent) string {
	if ev == nil || !ev.Released {
		return ""
	}
	if ev.Kind == progression.UnlockSpecial {
		return "You unlocked chapter 0!"
	}
	prefix := ""
	if ev.AlsoSpecial {
		prefix = "0, "
	}
	return fmt.Sprintf("You unlocked chapter %s%s!", prefix, catalog.FormatChapter(ev.Chapter))
}

func msgAnswerDump(index float64, answers []string) string {
	return fmt.Sprintf("%s: %s.", catalog.FormatChapter(index), strings.Join(answers, ", "))
}
