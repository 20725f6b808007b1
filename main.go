package main

import (
	"context"
	"fmt"
	"os"
	"runtime/debug"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/colonyops/clarity/internal/commands"
	"github.com/colonyops/clarity/internal/core/config"
	"github.com/colonyops/clarity/internal/core/logging"
	"github.com/colonyops/clarity/pkg/logutils"
)

// Set with -ldflags on release builds.
var (
	version = "dev"
	commit  = "HEAD"
	date    = "now"
)

// build renders the version string. `go install module@version` leaves the
// ldflags unset, so the module version and VCS stamp are read from the
// embedded build info instead.
func build() string {
	v, c, d := version, commit, date
	if info, ok := debug.ReadBuildInfo(); ok && v == "dev" {
		if mv := info.Main.Version; mv != "" && mv != "(devel)" {
			v = mv
		}
		for _, s := range info.Settings {
			if s.Key == "vcs.revision" {
				c = s.Value
			} else if s.Key == "vcs.time" {
				d = s.Value
			}
		}
	}
	return fmt.Sprintf("%s (%s) %s", v, c[:min(len(c), 7)], d)
}

func main() {
	ctx := context.Background()

	// .env values become CLARITY_* flag sources; real env vars win.
	if _, err := config.LoadDotEnv("."); err != nil {
		fmt.Fprintf(os.Stderr, "load .env: %v\n", err)
	}

	var (
		logCloser func()
		clarity   = &commands.App{}
	)

	flags := &commands.Flags{}

	app := &cli.Command{
		Name:      "clarity",
		Usage:     "Read articles as layered summaries",
		UsageText: "clarity [global options] [command [command options]] [url | path | -]",
		Description: `Clarity turns an article into a tree of summaries, from a few sentences down
to the full text, and shows each level as a card side by side.

Run 'clarity <url>' to open the reader, or 'clarity' to pick from recent
documents and examples. Run 'clarity summarize <url>' to print the levels.`,
		Version: build(),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "log-level",
				Usage:       "log level (debug, info, warn, error, fatal, panic)",
				Sources:     cli.EnvVars("CLARITY_LOG_LEVEL"),
				Value:       "info",
				Destination: &flags.LogLevel,
			},
			&cli.StringFlag{
				Name:        "log-file",
				Usage:       "path to log file (defaults to <data-dir>/clarity.log)",
				Sources:     cli.EnvVars("CLARITY_LOG_FILE"),
				Destination: &flags.LogFile,
			},
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "path to config file",
				Sources:     cli.EnvVars("CLARITY_CONFIG"),
				Value:       commands.DefaultConfigPath(),
				Destination: &flags.ConfigPath,
			},
			&cli.StringFlag{
				Name:        "data-dir",
				Usage:       "path to data directory",
				Sources:     cli.EnvVars("CLARITY_DATA_DIR"),
				Value:       commands.DefaultDataDir(),
				Destination: &flags.DataDir,
			},
			&cli.StringFlag{
				Name:        "server-origin",
				Usage:       "summarizer service origin (overrides server_origin)",
				Sources:     cli.EnvVars("CLARITY_SERVER_ORIGIN"),
				Destination: &flags.ServerOrigin,
			},
			&cli.BoolFlag{
				Name:        "no-cache-persist",
				Usage:       "keep service responses in memory only",
				Sources:     cli.EnvVars("CLARITY_NO_CACHE_PERSIST"),
				Destination: &flags.NoCachePersist,
			},
		},
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			cfg, err := config.Load(flags.ConfigPath, flags.DataDir)
			if err != nil {
				return ctx, fmt.Errorf("load config: %w", err)
			}

			if flags.ServerOrigin != "" {
				cfg.ServerOrigin = flags.ServerOrigin
			}
			if flags.NoCachePersist {
				cfg.Cache.Persist = false
			}
			if err := cfg.Validate(); err != nil {
				return ctx, fmt.Errorf("invalid config: %w", err)
			}

			// Always log to a file; the reader owns the terminal.
			logFile := flags.LogFile
			if logFile == "" {
				logFile = cfg.LogFile()
			}

			logger, closer, err := logutils.New(flags.LogLevel, logFile)
			if err != nil {
				return ctx, fmt.Errorf("setup logger: %w", err)
			}
			logging.Install(logger)
			logCloser = closer

			opened, err := commands.Open(ctx, cfg)
			if err != nil {
				return ctx, err
			}

			// Commands already hold a pointer to the App.
			*clarity = *opened

			return ctx, nil
		},
		After: func(ctx context.Context, c *cli.Command) error {
			if err := clarity.Close(); err != nil {
				log.Error().Err(err).Msg("failed to close database")
				return err
			}

			if logCloser != nil {
				logCloser()
			}
			return nil
		},
	}

	readCmd := commands.NewReadCmd(flags, clarity)

	app = readCmd.Register(app)
	app = commands.NewSummarizeCmd(flags, clarity).Register(app)
	app = commands.NewSimilarityCmd(flags, clarity).Register(app)
	app = commands.NewCacheCmd(flags, clarity).Register(app)
	app = commands.NewHistoryCmd(flags, clarity).Register(app)
	app = commands.NewConfigCmd(flags, clarity).Register(app)

	app.Flags = append(app.Flags, readCmd.Flags()...)

	// Reading is the default action; a lone argument is the source.
	app.Action = func(ctx context.Context, c *cli.Command) error {
		if c.Args().Len() > 1 {
			return fmt.Errorf("expected one source, got %d. Run 'clarity --help' for usage", c.Args().Len())
		}
		return readCmd.Run(ctx, c)
	}

	exitCode := 0
	runErr := app.Run(ctx, os.Args)
	if runErr != nil {
		fmt.Println()
		fmt.Println(runErr.Error())
		exitCode = 1
	}

	os.Exit(exitCode)
}
