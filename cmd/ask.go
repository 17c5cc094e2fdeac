package cmd

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/inference/internal/bot"
	"github.com/abhisek/inference/internal/config"
)

var askCmd = &cobra.Command{
	Use:   "ask [chapter|question] [answer...]",
	Short: "Run one command: view a chapter or question, or submit an answer",
	Long: `Run a single command against the player's record and print the replies.

With no arguments, prints the table of contents (or the completion summary
with --list). A chapter id shows that chapter; a question id shows the
question, and any further words are submitted as the answer.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := openDeps(cmd, nil)
		if err != nil {
			return err
		}
		defer d.Close()

		req := bot.Request{Options: askOpts}
		if len(args) > 0 {
			req.Target = args[0]
			req.Word = strings.Join(args[1:], " ")
		}

		sess := &writerSession{cfg: d.cfg, w: cmd.OutOrStdout()}
		return d.handler.Handle(cmd.Context(), sess, req)
	},
}

var askOpts bot.Options

func init() {
	askOpts.AddFlags(askCmd.Flags())
}

// writerSession delivers replies to a writer, one block per message.
type writerSession struct {
	cfg  *config.Config
	w    io.Writer
	sent int
}

func (s *writerSession) UserID() string    { return s.cfg.UserID }
func (s *writerSession) UserName() string  { return s.cfg.UserName }
func (s *writerSession) ChannelID() string { return s.cfg.Channel }
func (s *writerSession) Privileged() bool  { return s.cfg.Admin }

func (s *writerSession) Send(ctx context.Context, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s.sent > 0 {
		if _, err := fmt.Fprintln(s.w); err != nil {
			return err
		}
	}
	s.sent++
	_, err := fmt.Fprintln(s.w, text)
	return err
}
