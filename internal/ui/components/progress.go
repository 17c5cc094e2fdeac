package components

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/inference/internal/ui/theme"
)

// ProgressBar displays solved out of total as a horizontal bar.
type ProgressBar struct {
	Label  string
	Solved int
	Total  int
	Width  int
}

// NewProgressBar creates a new progress bar.
func NewProgressBar(label string, solved, total, width int) ProgressBar {
	return ProgressBar{
		Label:  label,
		Solved: solved,
		Total:  total,
		Width:  width,
	}
}

// Fraction is Solved/Total clamped to [0, 1].
func (p ProgressBar) Fraction() float64 {
	if p.Total <= 0 {
		return 0
	}
	f := float64(p.Solved) / float64(p.Total)
	return min(max(f, 0), 1)
}

// View renders the progress bar.
func (p ProgressBar) View() string {
	var result string

	if p.Label != "" {
		result += theme.Text.Render(p.Label) + "  "
	}

	count := fmt.Sprintf("  %d/%d", p.Solved, p.Total)
	barWidth := p.Width - lipgloss.Width(result) - len(count)
	if barWidth < 4 {
		barWidth = 4
	}

	filled := int(float64(barWidth) * p.Fraction())
	empty := barWidth - filled

	result += theme.ProgressFilled.Render(strings.Repeat(" ", filled)) +
		theme.ProgressEmpty.Render(strings.Repeat(" ", empty))

	result += theme.Hint.UnsetItalic().Render(count)

	return result
}
