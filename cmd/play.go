package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/abhisek/inference/internal/app"
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play in the interactive terminal",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
}

// playWith starts the terminal UI on an opened pipeline.
func playWith(d *deps) error {
	return app.Run(app.Options{
		Runner:     d.handler,
		Status:     d.status,
		UserID:     d.cfg.UserID,
		UserName:   d.cfg.UserName,
		Channel:    d.cfg.Channel,
		Privileged: d.cfg.Admin,
	})
}

// status summarizes the configured player's record for the header.
func (d *deps) status(ctx context.Context) (app.Status, error) {
	r, err := d.record(ctx)
	if err != nil {
		return app.Status{}, err
	}
	return app.Status{
		Progress: d.engine.DisplayProgress(r),
		Solved:   r.Len(),
		Total:    d.engine.Catalog().GradedQuestionCount(),
	}, nil
}
