package cmd

import (
	"github.com/spf13/cobra"

	"github.com/mj1618/focusnav/internal/model"
	"github.com/mj1618/focusnav/internal/output"
)

var diffCmd = &cobra.Command{
	Use:   "diff <old-layout> <new-layout>",
	Short: "Compare two layouts element by element",
	Long: `Compare two layouts by element id and list the elements added, removed,
moved (bounds changed) and otherwise changed. These are the mutations the
engine applies when a watched layout is reloaded.`,
	Args: cobra.ExactArgs(2),
	RunE: runDiff,
}

func init() {
	rootCmd.AddCommand(diffCmd)
}

func runDiff(cmd *cobra.Command, args []string) error {
	prev, err := model.LoadLayout(args[0])
	if err != nil {
		return err
	}
	curr, err := model.LoadLayout(args[1])
	if err != nil {
		return err
	}
	return output.Print(model.DiffLayouts(model.FlattenElements(prev.Elements), model.FlattenElements(curr.Elements)))
}
