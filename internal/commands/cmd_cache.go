package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"text/tabwriter"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/urfave/cli/v3"

	"github.com/colonyops/clarity/internal/cache"
	"github.com/colonyops/clarity/internal/core/kv"
	"github.com/colonyops/clarity/internal/core/styles"
	"github.com/colonyops/clarity/pkg/iojson"
)

type CacheCmd struct {
	flags *Flags
	app   *App

	// flags
	namespace  string
	jsonOutput bool
	yes        bool
}

// NewCacheCmd creates a new cache command
func NewCacheCmd(flags *Flags, app *App) *CacheCmd {
	return &CacheCmd{flags: flags, app: app}
}

// Register adds the cache command to the application
func (cmd *CacheCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:  "cache",
		Usage: "Inspect persisted service responses",
		Commands: []*cli.Command{
			{
				Name:      "reset",
				Usage:     "Delete every persisted response and the reading history",
				UsageText: "clarity cache reset [--yes]",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:        "yes",
						Aliases:     []string{"y"},
						Usage:       "skip the confirmation prompt",
						Destination: &cmd.yes,
					},
				},
				Action: cmd.runReset,
			},
			{
				Name:   "stats",
				Usage:  "Count persisted entries per namespace",
				Action: cmd.runStats,
			},
			{
				Name:      "ls",
				Usage:     "List persisted entries",
				UsageText: "clarity cache ls [--namespace <name>] [--json]",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:        "namespace",
						Aliases:     []string{"n"},
						Usage:       "only list keys in this namespace (flattened-summary, summary, similarity)",
						Destination: &cmd.namespace,
					},
					&cli.BoolFlag{
						Name:        "json",
						Usage:       "output as JSON lines",
						Destination: &cmd.jsonOutput,
					},
				},
				Action: cmd.runList,
			},
		},
	})

	return app
}

func (cmd *CacheCmd) runReset(ctx context.Context, c *cli.Command) error {
	if cmd.app.DB == nil {
		return errors.New("responses are not persisted; nothing to reset")
	}

	if !cmd.yes {
		var confirmed bool
		err := huh.NewConfirm().
			Title("Reset the response cache?").
			Description(cmd.app.Config.DataDir + "\nCached summaries, similarity matches and history will be deleted.").
			Value(&confirmed).
			Run()
		if err != nil {
			return err
		}
		if !confirmed {
			_, _ = fmt.Fprintln(c.Root().Writer, "Reset cancelled")
			return nil
		}
	}

	if err := cmd.app.DB.Reset(ctx); err != nil {
		return fmt.Errorf("reset cache: %w", err)
	}
	_, err := fmt.Fprintln(c.Root().Writer, "✔ cache reset")
	return err
}

func (cmd *CacheCmd) runStats(ctx context.Context, c *cli.Command) error {
	counts, err := cache.Inventory(ctx, cmd.app.KV)
	if err != nil {
		return err
	}
	if err := writeInventory(c.Root().Writer, counts); err != nil {
		return err
	}

	if cmd.app.DB == nil {
		return nil
	}
	version, err := cmd.app.DB.SchemaVersion(ctx)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(c.Root().Writer, "\n%s %d\n", styles.DividerStyle.Render("schema version"), version)
	return err
}

func writeInventory(w io.Writer, counts map[string]int) error {
	names := make([]string, 0, len(counts))
	for ns := range counts {
		names = append(names, ns)
	}
	sort.Strings(names)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, styles.CommandHeaderStyle.Render("NAMESPACE")+"\t"+styles.CommandHeaderStyle.Render("ENTRIES"))
	total := 0
	for _, ns := range names {
		total += counts[ns]
		_, _ = fmt.Fprintf(tw, "%s\t%d\n", styles.KeyStyle.Render(ns), counts[ns])
	}
	_, _ = fmt.Fprintf(tw, "%s\t%d\n", styles.DividerStyle.Render("total"), total)
	return tw.Flush()
}

type cacheEntryJSON struct {
	Key       string    `json:"key"`
	Namespace string    `json:"namespace"`
	Bytes     int       `json:"bytes"`
	CreatedAt time.Time `json:"created_at"`
}

func (cmd *CacheCmd) runList(ctx context.Context, c *cli.Command) error {
	entries, err := listEntries(ctx, cmd.app.KV, cmd.namespace)
	if err != nil {
		return err
	}

	out := c.Root().Writer
	if cmd.jsonOutput {
		for _, e := range entries {
			if err := iojson.WriteLine(out, e); err != nil {
				return err
			}
		}
		return nil
	}

	if len(entries) == 0 {
		_, _ = fmt.Fprintln(out, "No cached entries")
		return nil
	}

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "KEY\tBYTES\tCREATED")
	for _, e := range entries {
		_, _ = fmt.Fprintf(tw, "%s\t%d\t%s\n", e.Key, e.Bytes, e.CreatedAt.Local().Format(time.DateTime))
	}
	return tw.Flush()
}

// listEntries returns the entries in namespace, or every entry when namespace
// is empty, sorted by key.
func listEntries(ctx context.Context, store kv.KV, namespace string) ([]cacheEntryJSON, error) {
	keys, err := store.ListKeys(ctx)
	if err != nil {
		return nil, fmt.Errorf("list cache keys: %w", err)
	}
	sort.Strings(keys)

	entries := make([]cacheEntryJSON, 0, len(keys))
	for _, k := range keys {
		ns := cache.Namespace(k)
		if namespace != "" && ns != namespace {
			continue
		}

		raw, err := store.GetRaw(ctx, k)
		if err != nil {
			if kv.IsNotFound(err) {
				continue
			}
			return nil, fmt.Errorf("read %s: %w", k, err)
		}

		entries = append(entries, cacheEntryJSON{
			Key:       k,
			Namespace: ns,
			Bytes:     len(raw.Value),
			CreatedAt: raw.CreatedAt,
		})
	}
	return entries, nil
}
