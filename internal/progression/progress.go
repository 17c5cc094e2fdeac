package progression

import "github.com/abhisek/inference/internal/catalog"

// RawProgress derives the main-line progress level from a record. Only
// integer chapters at or above the running level count; hidden (x.5) and
// chapter 0 entries never move it. Progress starts at 1, jumps to any higher
// chapter seen, and gains one more level once the current chapter has
// solveCount answers.
func RawProgress(r Record, solveCount int) int {
	progress := 1
	solved := 0
	for _, k := range r.keys {
		if !catalog.IsIntegral(k.Chapter) {
			continue
		}
		ch := int(k.Chapter)
		switch {
		case ch > progress:
			progress = ch
			solved = 1
		case ch == progress:
			solved++
		}
	}
	if solved >= solveCount {
		progress++
	}
	return progress
}

// DisplayProgress caps raw progress at the number of released chapters.
func DisplayProgress(raw, chapterCount int) int {
	return min(raw, chapterCount)
}
