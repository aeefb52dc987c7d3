package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gdamore/tcell/v2"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/mj1618/focusnav/internal/tui"
)

var playCmd = &cobra.Command{
	Use:   "play <layout>",
	Short: "Navigate a layout interactively in the terminal",
	Long: `Draw a layout in the terminal and drive focus with the keyboard.

Keys:
  arrows, hjkl, wasd   move focus
  enter                activate the focused element
  space                lock / unlock input
  r                    rebuild the registry
  q, esc               quit

With --watch the layout file is reloaded whenever it changes on disk.`,
	Args: cobra.ExactArgs(1),
	RunE: runPlay,
}

func init() {
	rootCmd.AddCommand(playCmd)
	addSessionFlags(playCmd)
	playCmd.Flags().Bool("watch", true, "Reload the layout when the file changes")
}

func runPlay(cmd *cobra.Command, args []string) error {
	watch, _ := cmd.Flags().GetBool("watch")

	s, err := openSession(cmd, args[0])
	if err != nil {
		return err
	}
	defer s.Close()

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("failed to create screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("failed to initialize screen: %w", err)
	}
	defer screen.Fini()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		// Quitting the player ends the watcher too.
		defer cancel()
		return tui.New(screen, s).Run(ctx)
	})
	if watch {
		g.Go(func() error {
			return s.Watch(ctx)
		})
	}
	return g.Wait()
}
