package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/colonyops/clarity/pkg/iojson"
)

type SimilarityCmd struct {
	flags *Flags
	app   *App

	// flags
	source  string
	targets []string
	input   iojson.FileReader[similarityInput]
}

type similarityInput struct {
	Source string   `json:"source"`
	Target []string `json:"target"`
}

// NewSimilarityCmd creates a new similarity command
func NewSimilarityCmd(flags *Flags, app *App) *SimilarityCmd {
	return &SimilarityCmd{flags: flags, app: app}
}

// Register adds the similarity command to the application
func (cmd *SimilarityCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "similarity",
		Usage:     "Find the target sentence closest to a source sentence",
		UsageText: "clarity similarity --source <text> --target <text> [--target <text>...]",
		Description: `Asks the service which target text, and which sentence inside it, best
matches the source sentence. Answers are cached.

Without --source the request is read as JSON ({"source": "...", "target": [...]})
from --file or stdin.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "source",
				Usage:       "sentence to match",
				Destination: &cmd.source,
			},
			&cli.StringSliceFlag{
				Name:        "target",
				Usage:       "candidate text, in order (repeatable)",
				Destination: &cmd.targets,
			},
			cmd.input.Flag(),
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *SimilarityCmd) run(ctx context.Context, c *cli.Command) error {
	req := similarityInput{Source: cmd.source, Target: cmd.targets}
	if req.Source == "" {
		if !cmd.input.Provided() {
			return errors.New("--source is required unless JSON is given with --file or stdin")
		}
		in, err := cmd.input.Read()
		if err != nil {
			return err
		}
		req = in
	}

	if len(req.Target) == 0 {
		return errors.New("at least one --target is required")
	}

	match, err := cmd.app.Cache.Similarity(ctx, req.Source, req.Target)
	if err != nil {
		return fmt.Errorf("similarity: %w", err)
	}

	return iojson.WriteWith(c.Root().Writer, c.Root().ErrWriter, match)
}
