package commands

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/colonyops/clarity/internal/core/styles"
	"github.com/colonyops/clarity/internal/core/summary"
	"github.com/colonyops/clarity/internal/core/validate"
	"github.com/colonyops/clarity/pkg/iojson"
)

type SummarizeCmd struct {
	flags *Flags
	app   *App

	// flags
	tree       bool
	jsonOutput bool
}

// NewSummarizeCmd creates a new summarize command
func NewSummarizeCmd(flags *Flags, app *App) *SummarizeCmd {
	return &SummarizeCmd{flags: flags, app: app}
}

// Register adds the summarize command to the application
func (cmd *SummarizeCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "summarize",
		Usage:     "Print the layered summary of an article",
		UsageText: "clarity summarize [--tree] [--json] <url | path | ->",
		Description: `Extracts the article, summarizes it and prints every level.

By default the service flattens the tree. With --tree the nested tree is
requested instead and flattened locally; both are cached separately.`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "tree",
				Usage:       "request the nested tree and flatten it locally",
				Destination: &cmd.tree,
			},
			&cli.BoolFlag{
				Name:        "json",
				Usage:       "output the flattened tree as JSON",
				Destination: &cmd.jsonOutput,
			},
		},
		Action: cmd.run,
	})

	return app
}

type summarizeOutput struct {
	Title         string                `json:"title"`
	Source        string                `json:"source"`
	FlattenedTree summary.FlattenedTree `json:"flattened_tree"`
}

func (cmd *SummarizeCmd) run(ctx context.Context, c *cli.Command) error {
	source := c.Args().First()
	if err := validate.SourceField("source", source); err != nil {
		return err
	}

	a, err := cmd.app.Loader.Load(ctx, source)
	if err != nil {
		return fmt.Errorf("load article: %w", err)
	}

	var tree summary.FlattenedTree
	if cmd.tree {
		root, err := cmd.app.Cache.SummaryTree(ctx, a.Text)
		if err != nil {
			return fmt.Errorf("summarize: %w", err)
		}
		tree = summary.Flatten(root)
	} else {
		tree, err = cmd.app.Cache.FlattenedSummary(ctx, a.Text)
		if err != nil {
			return fmt.Errorf("summarize: %w", err)
		}
	}

	out := c.Root().Writer
	if cmd.jsonOutput {
		return iojson.WriteWith(out, c.Root().ErrWriter, summarizeOutput{
			Title:         a.Title,
			Source:        a.Source,
			FlattenedTree: tree,
		})
	}

	_, _ = fmt.Fprintln(out, styles.CommandHeaderStyle.Render(a.Title))
	_, _ = fmt.Fprintln(out, styles.DividerStyle.Render(a.Source))
	_, _ = fmt.Fprintln(out)
	writeTree(out, tree)
	return nil
}

// writeTree prints each level with its sections numbered. A section lists
// the next-level sections it refines into.
func writeTree(w io.Writer, tree summary.FlattenedTree) {
	for l, level := range tree {
		if l > 0 {
			_, _ = fmt.Fprintln(w)
		}
		_, _ = fmt.Fprintln(w, styles.CommandHeaderStyle.Render(fmt.Sprintf("Level %d", l+1)))

		for i, sec := range level {
			label := styles.KeyStyle.Render(fmt.Sprintf("  %d.%d", l+1, i+1))
			_, _ = fmt.Fprintf(w, "%s %s\n", label, styles.ValueStyle.Render(strings.Join(sec.Sentences(), " ")))

			if sec.HasChildren() {
				refs := make([]string, len(sec.ChildrenInNextLevel))
				for j, ci := range sec.ChildrenInNextLevel {
					refs[j] = fmt.Sprintf("%d.%d", l+2, ci+1)
				}
				_, _ = fmt.Fprintln(w, styles.DividerStyle.Render("      → "+strings.Join(refs, ", ")))
			}
		}
	}
}
