package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/colonyops/clarity/internal/core/styles"
	"github.com/colonyops/clarity/internal/data/stores"
)

type HistoryCmd struct {
	flags *Flags
	app   *App

	// flags
	limit int
}

// NewHistoryCmd creates a new history command
func NewHistoryCmd(flags *Flags, app *App) *HistoryCmd {
	return &HistoryCmd{flags: flags, app: app}
}

// Register adds the history command to the application
func (cmd *HistoryCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:  "history",
		Usage: "List recently opened documents",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:        "limit",
				Aliases:     []string{"n"},
				Usage:       "maximum number of entries",
				Value:       20,
				Destination: &cmd.limit,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *HistoryCmd) run(ctx context.Context, c *cli.Command) error {
	if cmd.app.History == nil {
		return errors.New("history is only kept when responses are persisted")
	}

	entries, err := cmd.app.History.Recent(ctx, cmd.limit)
	if err != nil {
		return err
	}
	return writeHistory(c.Root().Writer, entries)
}

func writeHistory(w io.Writer, entries []stores.HistoryEntry) error {
	if len(entries) == 0 {
		_, _ = fmt.Fprintln(w, "No documents opened yet")
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, e := range entries {
		title := e.Title
		if title == "" {
			title = "(untitled)"
		}
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\n",
			styles.DividerStyle.Render(e.OpenedAt.Local().Format(time.DateTime)),
			styles.ValueStyle.Render(title),
			styles.KeyStyle.Render(e.Source),
		)
	}
	return tw.Flush()
}
