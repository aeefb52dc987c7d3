package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mj1618/focusnav/internal/output"
	"github.com/mj1618/focusnav/internal/session"
)

var doCmd = &cobra.Command{
	Use:   "do <layout>",
	Short: "Execute multiple navigation steps in a batch",
	Long: `Execute a sequence of steps from a YAML list on stdin (or --file) against a
layout.

Each step is an action name with its parameters as a map. Steps execute
sequentially, and by default execution stops on the first error. The result
lists every step, the final focus and the focus trail.

Supported step types: move, up, down, left, right, enter, key, set-current,
register, unregister, lock, unlock, refresh, start, destroy, current, known, sleep

Example:
  focusnav do menu.yaml <<'EOF'
  - down: {}
  - move: { direction: right, count: 2 }
  - set-current: { target: "#settings" }
  - enter: {}
  EOF`,
	Args: cobra.ExactArgs(1),
	RunE: runDo,
}

func init() {
	rootCmd.AddCommand(doCmd)
	addSessionFlags(doCmd)
	doCmd.Flags().String("file", "", "Read steps from this file instead of stdin")
	doCmd.Flags().Bool("stop-on-error", true, "Stop execution on first error (default: true)")
}

func runDo(cmd *cobra.Command, args []string) error {
	file, _ := cmd.Flags().GetString("file")
	stopOnError, _ := cmd.Flags().GetBool("stop-on-error")

	data, err := readInput(file, os.Stdin)
	if err != nil {
		return err
	}
	steps, err := session.ParseSteps(data)
	if err != nil {
		return err
	}

	s, err := openSession(cmd, args[0])
	if err != nil {
		return err
	}
	defer s.Close()

	result := s.Run(steps, stopOnError)
	if err := output.Print(result); err != nil {
		return err
	}
	if !result.OK {
		return fmt.Errorf("%s", result.Error)
	}
	return nil
}
