package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mj1618/focusnav/internal/geometry"
	"github.com/mj1618/focusnav/internal/nav"
	"github.com/mj1618/focusnav/internal/session"
)

// openSession loads the layout at path with the --config file and the
// per-command --from and --debug flags applied.
func openSession(cmd *cobra.Command, path string) (*session.Session, error) {
	s, err := session.Open(path, configPath(), session.WithLogger(logger))
	if err != nil {
		return nil, err
	}
	if flag := cmd.Flags().Lookup("debug"); flag != nil {
		if debug, _ := cmd.Flags().GetBool("debug"); debug {
			cfg := s.Engine.Config()
			cfg.Debug = true
			s.Engine.Configure(cfg)
		}
	}
	if flag := cmd.Flags().Lookup("from"); flag != nil {
		from, _ := cmd.Flags().GetString("from")
		if from != "" {
			el, err := s.Resolve(from)
			if err != nil {
				s.Close()
				return nil, err
			}
			s.Engine.SetCurrent(el, nav.WithoutEvents())
		}
	}
	return s, nil
}

// addSessionFlags registers --from and --debug.
func addSessionFlags(cmd *cobra.Command) {
	cmd.Flags().String("from", "", "Selector of the element to start from (default: the configured default element)")
	cmd.Flags().Bool("debug", false, "Record candidate scores for each move")
}

// parseDirections splits direction arguments. Each argument may hold
// several comma-separated directions: "right,right,down".
func parseDirections(args []string) ([]geometry.Direction, error) {
	var out []geometry.Direction
	for _, arg := range args {
		for _, part := range strings.Split(arg, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			d, err := geometry.ParseDirection(part)
			if err != nil {
				return nil, err
			}
			out = append(out, d)
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("at least one direction is required")
	}
	return out, nil
}

// readInput reads path, or stdin when path is empty or "-".
func readInput(path string, stdin io.Reader) ([]byte, error) {
	if path == "" || path == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("failed to read stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return data, nil
}
