package theme

import (
	"charm.land/lipgloss/v2"
)

// Palette: old paper, ink and sealing wax.
var (
	Wax   = lipgloss.Color("#B45309")
	Ink   = lipgloss.Color("#0D9488")
	Amber = lipgloss.Color("#F59E0B")
	Right = lipgloss.Color("#22C55E")
	Wrong = lipgloss.Color("#F43F5E")
	Paper = lipgloss.Color("#F8FAFC")
	Faded = lipgloss.Color("#94A3B8")
	Card  = lipgloss.Color("#1E293B")
	Rule  = lipgloss.Color("#334155")
)

var (
	Title = lipgloss.NewStyle().Bold(true).Foreground(Wax)
	Text  = lipgloss.NewStyle().Foreground(Paper)
	Hint  = lipgloss.NewStyle().Foreground(Faded).Italic(true)

	// Bar frames the header and footer.
	Bar = lipgloss.NewStyle().
		Background(Card).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Rule)
)

// Transcript styles.
var (
	// Prompt renders the player's own lines.
	Prompt = lipgloss.NewStyle().Foreground(Amber).Bold(true)

	// Reply renders one bot message behind an ink rule.
	Reply = lipgloss.NewStyle().
		Foreground(Paper).
		Border(lipgloss.NormalBorder(), false, false, false, true).
		BorderForeground(Ink).
		PaddingLeft(1)

	ReplyRight = Reply.Foreground(Right).Bold(true)
	ReplyWrong = Reply.Foreground(Wrong)

	// Failure renders local errors (bad switches, storage failures).
	Failure = lipgloss.NewStyle().Foreground(Wrong).Bold(true)
)

var (
	ProgressFilled = lipgloss.NewStyle().Background(Ink)
	ProgressEmpty  = lipgloss.NewStyle().Background(Rule)
)
