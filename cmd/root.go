package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/mj1618/focusnav/internal/output"
	"github.com/mj1618/focusnav/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "focusnav",
	Short: "Directional focus navigation over UI layouts",
	Long: `Navigate a UI layout with up, down, left and right the way a TV remote or
game controller would. Layouts are YAML or JSON element trees; focusable
elements carry the configured attribute and navigation hints.`,
	SilenceUsage: true,
}

// logger is configured by the root command's --verbose flag.
var logger = slog.New(slog.DiscardHandler)

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.Version = fmt.Sprintf("%s (commit: %s, built: %s)", version.Version, version.Commit, version.BuildDate)
	rootCmd.PersistentFlags().String("format", "yaml", "Output format: yaml, json")
	rootCmd.PersistentFlags().Bool("pretty", false, "Pretty-print JSON output")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Log engine decisions to stderr")
	rootCmd.PersistentFlags().String("config", "", "Config file (default: $FOCUSNAV_CONFIG or ~/.config/focusnav/config.yaml)")
	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		format, _ := rootCmd.PersistentFlags().GetString("format")
		f, err := output.ParseFormat(format)
		if err != nil {
			return err
		}
		output.OutputFormat = f
		output.PrettyOutput, _ = rootCmd.PersistentFlags().GetBool("pretty")

		verbose, _ := rootCmd.PersistentFlags().GetBool("verbose")
		level := slog.LevelWarn
		if verbose {
			level = slog.LevelDebug
		}
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
		return nil
	}
}

// configPath returns the --config flag value.
func configPath() string {
	path, _ := rootCmd.PersistentFlags().GetString("config")
	return path
}
