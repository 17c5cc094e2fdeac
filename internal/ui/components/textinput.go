package components

import (
	"strings"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
)

// CommandInput wraps bubbles/textinput as a one-line command prompt with
// history.
type CommandInput struct {
	Model   textinput.Model
	history []string
	cursor  int // index into history while browsing; len(history) = fresh line
}

// NewCommandInput creates a focused prompt.
func NewCommandInput(placeholder string, charLimit int) CommandInput {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.Prompt = "> "
	ti.Focus()

	if charLimit > 0 {
		ti.CharLimit = charLimit
	}

	return CommandInput{Model: ti}
}

// Init returns the initial command.
func (c CommandInput) Init() tea.Cmd {
	return c.Model.Focus()
}

// Update handles messages. Up and down walk the history.
func (c CommandInput) Update(msg tea.Msg) (CommandInput, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyMsg); ok {
		switch kmsg.String() {
		case "up":
			if c.cursor > 0 {
				c.cursor--
				c.Model.SetValue(c.history[c.cursor])
				c.Model.CursorEnd()
			}
			return c, nil
		case "down":
			if c.cursor < len(c.history) {
				c.cursor++
				if c.cursor == len(c.history) {
					c.Model.SetValue("")
				} else {
					c.Model.SetValue(c.history[c.cursor])
				}
				c.Model.CursorEnd()
			}
			return c, nil
		}
	}

	var cmd tea.Cmd
	c.Model, cmd = c.Model.Update(msg)
	return c, cmd
}

// View renders the prompt.
func (c CommandInput) View() string {
	return c.Model.View()
}

// Value returns the current input value.
func (c CommandInput) Value() string {
	return c.Model.Value()
}

// Take returns the trimmed line, records it in history and clears the
// prompt.
func (c *CommandInput) Take() string {
	line := strings.TrimSpace(c.Model.Value())
	if line != "" && (len(c.history) == 0 || c.history[len(c.history)-1] != line) {
		c.history = append(c.history, line)
	}
	c.cursor = len(c.history)
	c.Model.SetValue("")
	return line
}
