package cmd

import (
	"github.com/spf13/cobra"

	"github.com/mj1618/focusnav/internal/output"
	"github.com/mj1618/focusnav/internal/session"
)

var moveCmd = &cobra.Command{
	Use:   "move <layout> <direction>...",
	Short: "Move focus through a layout and report where it lands",
	Long: `Load a layout, apply one or more moves and print each step with the
element focused after it. Directions are up, down, left, right and enter;
several may be joined with commas.

Examples:
  focusnav move menu.yaml down
  focusnav move menu.yaml right,right,down --from "#play"
  focusnav move menu.yaml left --debug   # include candidate scores`,
	Args: cobra.MinimumNArgs(2),
	RunE: runMove,
}

func init() {
	rootCmd.AddCommand(moveCmd)
	addSessionFlags(moveCmd)
}

func runMove(cmd *cobra.Command, args []string) error {
	directions, err := parseDirections(args[1:])
	if err != nil {
		return err
	}
	s, err := openSession(cmd, args[0])
	if err != nil {
		return err
	}
	defer s.Close()
	s.ResetTrail()

	steps := make([]session.Step, 0, len(directions))
	for _, d := range directions {
		steps = append(steps, session.Step{Action: "move", Params: map[string]any{"direction": string(d)}})
	}
	return output.Print(s.Run(steps, true))
}
