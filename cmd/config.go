package cmd

import (
	"github.com/spf13/cobra"

	"github.com/mj1618/focusnav/internal/config"
	"github.com/mj1618/focusnav/internal/model"
	"github.com/mj1618/focusnav/internal/output"
	"github.com/mj1618/focusnav/internal/session"
)

var configCmd = &cobra.Command{
	Use:   "config [layout]",
	Short: "Print the effective engine configuration",
	Long: `Print the configuration the engine would run with: defaults, then the
config file, then the layout's container and config block (when a layout is
given), then FOCUSNAV_* environment variables.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runConfig,
}

func init() {
	rootCmd.AddCommand(configCmd)
}

func runConfig(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		cfg, err := config.Load(configPath())
		if err != nil {
			return err
		}
		return output.Print(cfg)
	}
	layout, err := model.LoadLayout(args[0])
	if err != nil {
		return err
	}
	cfg, err := session.LayoutConfig(layout, configPath())
	if err != nil {
		return err
	}
	return output.Print(cfg)
}
