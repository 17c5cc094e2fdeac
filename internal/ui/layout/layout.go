package layout

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/inference/internal/ui/theme"
)

const (
	MinWidth  = 60
	MinHeight = 16
)

// KeyHint is one key binding shown in the footer.
type KeyHint struct {
	Key         string
	Description string
}

// IsTooSmall reports whether the terminal cannot fit a frame.
func IsTooSmall(width, height int) bool {
	return width < MinWidth || height < MinHeight
}

// RenderMinSizeMessage asks the player to enlarge the terminal.
func RenderMinSizeMessage(width, height int) string {
	return theme.Text.
		Align(lipgloss.Center, lipgloss.Center).
		Width(width).
		Height(height).
		Render(fmt.Sprintf("The page is too narrow.\nResize to at least %d x %d (now %d x %d).",
			MinWidth, MinHeight, width, height))
}

// RenderHeader puts the app name and title on the left and status on the
// right.
func RenderHeader(title, status string, width int) string {
	left := theme.Title.Render(" Inference") + "  " + theme.Text.Render(title)
	inner := width - theme.Bar.GetHorizontalFrameSize()
	gap := max(inner-lipgloss.Width(left)-lipgloss.Width(status), 1)
	return theme.Bar.Width(width).Render(left + strings.Repeat(" ", gap) + status)
}

// RenderFooter lists key hints.
func RenderFooter(hints []KeyHint, width int) string {
	parts := make([]string, 0, len(hints))
	for _, h := range hints {
		parts = append(parts, theme.Text.Bold(true).Render(h.Key)+" "+theme.Hint.Render(h.Description))
	}
	return theme.Bar.Width(width).Render(" " + strings.Join(parts, "   "))
}

// RenderFrame stacks header, content and footer, giving the content all
// remaining rows.
func RenderFrame(header, content, footer string, width, height int) string {
	rows := max(height-lipgloss.Height(header)-lipgloss.Height(footer), 0)
	body := lipgloss.NewStyle().Width(width).Height(rows).MaxHeight(rows).Render(content)
	return lipgloss.JoinVertical(lipgloss.Left, header, body, footer)
}

// TailLines keeps the last n lines of s.
func TailLines(s string, n int) string {
	if n <= 0 {
		return ""
	}
	lines := strings.Split(s, "\n")
	if len(lines) <= n {
		return s
	}
	return strings.Join(lines[len(lines)-n:], "\n")
}
