package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"
	"golang.org/x/term"

	"github.com/colonyops/clarity/internal/article"
	"github.com/colonyops/clarity/internal/core/styles"
	"github.com/colonyops/clarity/internal/core/validate"
	"github.com/colonyops/clarity/internal/data/stores"
	"github.com/colonyops/clarity/internal/profiler"
	"github.com/colonyops/clarity/internal/tui"
	"github.com/colonyops/clarity/pkg/executil"
)

// otherSource is the picker value that asks for a URL or path.
const otherSource = "\x00other"

// recentLimit is how many history entries the picker offers.
const recentLimit = 5

type ReadCmd struct {
	flags *Flags
	app   *App
}

// NewReadCmd creates a new read command
func NewReadCmd(flags *Flags, app *App) *ReadCmd {
	return &ReadCmd{flags: flags, app: app}
}

// Register adds the read command to the application
func (cmd *ReadCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "read",
		Usage:     "Read an article as layered summaries",
		UsageText: "clarity read [url | path | -]",
		Description: `Opens the reader: one card per summary level, from the most abstract on
the left to the most detailed on the right.

Hover a sentence to highlight the passage it summarizes in the next level,
click it to follow. Without a source an interactive picker offers recent
articles and examples. Use - to read from stdin.`,
		Flags:  cmd.Flags(),
		Action: cmd.Run,
	})

	return app
}

// Flags returns the reader flags, also registered on the root command since
// reading is the default action.
func (cmd *ReadCmd) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.IntFlag{
			Name:        "profiler-port",
			Usage:       "enable pprof HTTP endpoint on specified port (e.g., 6060)",
			Sources:     cli.EnvVars("CLARITY_PROFILER_PORT"),
			Destination: &cmd.flags.ProfilerPort,
		},
	}
}

// Run executes the reader. Exported for use as default command.
func (cmd *ReadCmd) Run(ctx context.Context, c *cli.Command) error {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return errors.New("read needs a terminal; use 'clarity summarize' to print summaries")
	}

	source := c.Args().First()
	if source == "" {
		picked, err := cmd.pick(ctx)
		if err != nil {
			if errors.Is(err, huh.ErrUserAborted) {
				return nil
			}
			return fmt.Errorf("form: %w", err)
		}
		source = picked
	}

	if cmd.flags.ProfilerPort > 0 {
		profServer := profiler.New(cmd.flags.ProfilerPort)
		if err := profServer.Start(ctx); err != nil {
			return fmt.Errorf("failed to start profiler: %w", err)
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := profServer.Shutdown(shutdownCtx); err != nil {
				log.Error().Err(err).Msg("failed to shutdown profiler server")
			}
		}()
		log.Info().
			Str("url", fmt.Sprintf("http://%s/debug/pprof/", profServer.Addr())).
			Msg("profiler endpoint available")
	}

	opts := tui.Options{
		Source:     source,
		Loader:     cmd.app.Loader,
		Summarizer: cmd.app.Cache,
		Opener:     &executil.RealExecutor{},
	}
	if cmd.app.History != nil {
		opts.History = cmd.app.History
	}

	m := tui.New(ctx, cmd.app.Config, opts)
	final, err := tea.NewProgram(m, programOptions(ctx, source)...).Run()
	if err != nil {
		return fmt.Errorf("run tui: %w", err)
	}

	stats := cmd.app.Cache.Stats()
	log.Info().
		Int64("hits", stats.Hits).
		Int64("misses", stats.Misses).
		Int64("remote_calls", stats.RemoteCalls).
		Int64("failures", stats.Failures).
		Msg("reader closed")

	if fm, ok := final.(tui.Model); ok && fm.Err() != nil {
		return fm.Err()
	}
	return nil
}

// pick asks for a source: a recent article, an example, or a typed URL or
// path.
func (cmd *ReadCmd) pick(ctx context.Context) (string, error) {
	var recent []stores.HistoryEntry
	if cmd.app.History != nil {
		entries, err := cmd.app.History.Recent(ctx, recentLimit)
		if err != nil {
			log.Warn().Err(err).Msg("failed to load history")
		}
		recent = entries
	}

	var choice string
	err := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("What do you want to read?").
				Options(pickerOptions(recent)...).
				Value(&choice),
		),
	).WithTheme(styles.FormTheme()).Run()
	if err != nil {
		return "", err
	}

	if choice != otherSource {
		return choice, nil
	}

	var source string
	err = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Article").
				Description("A URL, a path to a .txt, .md, .html, .pdf or .docx file, or - for stdin").
				Validate(validate.Source).
				Value(&source),
		),
	).WithTheme(styles.FormTheme()).Run()
	return strings.TrimSpace(source), err
}

func pickerOptions(recent []stores.HistoryEntry) []huh.Option[string] {
	opts := make([]huh.Option[string], 0, len(recent)+len(Examples)+1)
	for _, e := range recent {
		title := e.Title
		if title == "" {
			title = e.Source
		}
		opts = append(opts, huh.NewOption("Recent · "+title, e.Source))
	}
	for _, ex := range Examples {
		opts = append(opts, huh.NewOption(fmt.Sprintf("%s (%s)", ex.Title, ex.Site), ex.URL))
	}
	return append(opts, huh.NewOption("Another URL or file…", otherSource))
}

// programOptions configures the terminal for the reader. Hover needs motion
// reports with no button held, which only all-motion mode delivers. Articles
// piped on stdin leave the keyboard on the controlling TTY.
func programOptions(ctx context.Context, source string) []tea.ProgramOption {
	opts := []tea.ProgramOption{
		tea.WithAltScreen(),
		tea.WithMouseAllMotion(),
		tea.WithContext(ctx),
	}
	if source == article.StdinSource {
		opts = append(opts, tea.WithInputTTY())
	}
	return opts
}
