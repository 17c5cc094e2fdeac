package bot

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/pflag"
)

// Session is the chat host's view of one incoming command.
type Session interface {
	UserID() string
	UserName() string
	ChannelID() string
	// Privileged reports whether the caller may use the answer dump and
	// forced viewing.
	Privileged() bool
	// Send delivers one message and returns once the host acknowledged it.
	Send(ctx context.Context, text string) error
}

// Options are the command switches.
type Options struct {
	List       bool // -l: completion lists instead of content
	Solution   bool // -s: show the answer and solution
	AllAnswers bool // -a: dump every answer (privileged)
	Force      bool // -f: skip lock checks (privileged)
}

// Request is one parsed command: an optional target (chapter or question
// id), an optional answer word, and switches.
type Request struct {
	Target string
	Word   string
	Options
}

// AddFlags binds the switches to fs.
func (o *Options) AddFlags(fs *pflag.FlagSet) {
	fs.BoolVarP(&o.List, "list", "l", false, "Show solved lists instead of content")
	fs.BoolVarP(&o.Solution, "solution", "s", false, "Show the answer and solution of an answered question")
	fs.BoolVarP(&o.AllAnswers, "answers", "a", false, "Print every answer (privileged)")
	fs.BoolVarP(&o.Force, "forced", "f", false, "Skip lock checks (privileged)")
}

// ParseLine parses "<target> [word...] [-l] [-s] [-a] [-f]". Switches may
// appear anywhere and combine ("-ls"); "--" ends them. Every word after the
// target is joined into the answer.
func ParseLine(line string) (Request, error) {
	var req Request
	fs := pflag.NewFlagSet("line", pflag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.SetInterspersed(true)
	req.Options.AddFlags(fs)
	if err := fs.Parse(strings.Fields(line)); err != nil {
		return Request{}, fmt.Errorf("parse command: %w", err)
	}
	if args := fs.Args(); len(args) > 0 {
		req.Target = args[0]
		req.Word = strings.Join(args[1:], " ")
	}
	return req, nil
}
