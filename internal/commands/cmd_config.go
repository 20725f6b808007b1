package commands

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"

	"github.com/colonyops/clarity/internal/core/styles"
)

type ConfigCmd struct {
	flags *Flags
	app   *App
}

// NewConfigCmd creates a new config command
func NewConfigCmd(flags *Flags, app *App) *ConfigCmd {
	return &ConfigCmd{flags: flags, app: app}
}

// Register adds the config command to the application
func (cmd *ConfigCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:  "config",
		Usage: "Inspect the effective configuration",
		Commands: []*cli.Command{
			{
				Name:   "validate",
				Usage:  "Validate the config file, data directory and server origin",
				Action: cmd.runValidate,
			},
			{
				Name:   "show",
				Usage:  "Print the effective configuration as YAML",
				Action: cmd.runShow,
			},
		},
	})

	return app
}

func (cmd *ConfigCmd) runValidate(_ context.Context, c *cli.Command) error {
	if err := cmd.app.Config.ValidateDeep(cmd.flags.ConfigPath); err != nil {
		return err
	}

	_, _ = fmt.Fprintln(c.Root().Writer, styles.KeyStyle.Render("✔")+" configuration is valid")
	return nil
}

func (cmd *ConfigCmd) runShow(_ context.Context, c *cli.Command) error {
	enc := yaml.NewEncoder(c.Root().Writer)
	enc.SetIndent(2)
	if err := enc.Encode(cmd.app.Config); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	return enc.Close()
}
