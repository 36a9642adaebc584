package cli

import (
	"fmt"
	"os"

	"github.com/poltergeist/reflector/pkg/config"
	"github.com/poltergeist/reflector/pkg/types"
	"github.com/spf13/cobra"
)

func (c *CLI) newInitCmd() *cobra.Command {
	var force bool
	var scoring string

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize a new Reflector configuration",
		Long: `Write a default reflector.config.yaml to the project root. Pass --config
to choose another location; a .json name writes JSON instead.`,
		Args:              cobra.NoArgs,
		PersistentPreRunE: c.initializeLogger,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runInit(scoring, force)
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "overwrite existing configuration")
	cmd.Flags().StringVar(&scoring, "scoring-side", "north", "scoring side written to the configuration")

	return cmd
}

func (c *CLI) runInit(scoring string, force bool) error {
	configPath := c.getConfigPath()

	if _, err := os.Stat(configPath); err == nil && !force {
		return fmt.Errorf("configuration already exists. Use --force to overwrite")
	}

	dir, err := types.ParseDirection(scoring)
	if err != nil {
		return err
	}

	manager := config.NewManager()
	cfg := manager.GetDefaultConfig()
	cfg.Scoring = dir

	if err := manager.WriteConfig(configPath, cfg); err != nil {
		return err
	}

	c.printSuccess(fmt.Sprintf("Created configuration at %s", configPath))
	c.printInfo("Edit the configuration to change the cycle count or scoring side")
	return nil
}
