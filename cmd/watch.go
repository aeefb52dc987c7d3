package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/mj1618/focusnav/internal/host"
	"github.com/mj1618/focusnav/internal/model"
	"github.com/mj1618/focusnav/internal/nav"
	"github.com/mj1618/focusnav/internal/session"
)

var watchCmd = &cobra.Command{
	Use:   "watch <layout>",
	Short: "Watch a layout file and stream engine events as JSONL",
	Long: `Load a layout, then reload it whenever the file changes and emit what the
engine saw as JSONL on stdout: one "reload" event per change with the
elements added, removed and moved, and one "focus" event per focus move
(for example when the focused element is removed).

Output is always JSONL regardless of the --format flag.

Use Ctrl+C or --duration to stop watching.`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
	addSessionFlags(watchCmd)
	watchCmd.Flags().Int("duration", 0, "Max seconds to watch (0 = until Ctrl+C)")
	watchCmd.Flags().Int("debounce", int(host.DefaultDebounce/time.Millisecond), "Milliseconds to wait for writes to settle before reloading")
}

// eventWriter serializes JSONL events from the watcher and engine
// goroutines.
type eventWriter struct {
	mu    sync.Mutex
	enc   *json.Encoder
	count int
}

func newEventWriter(w io.Writer) *eventWriter {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	return &eventWriter{enc: enc}
}

func (w *eventWriter) emit(v map[string]interface{}) {
	w.mu.Lock()
	defer w.mu.Unlock()
	v["ts"] = time.Now().Unix()
	w.enc.Encode(v)
	w.count++
}

func (w *eventWriter) total() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.count
}

func reloadEvent(diff model.LayoutDiff, known int) map[string]interface{} {
	ids := func(elements []model.FlatElement) []string {
		out := make([]string, 0, len(elements))
		for _, el := range elements {
			out = append(out, el.ID)
		}
		return out
	}
	changed := make([]string, 0, len(diff.Changed))
	for _, c := range diff.Changed {
		changed = append(changed, c.ID)
	}
	return map[string]interface{}{
		"type":    "reload",
		"added":   ids(diff.Added),
		"removed": ids(diff.Removed),
		"moved":   ids(diff.Moved),
		"changed": changed,
		"known":   known,
	}
}

func focusEvent(ev nav.Event) map[string]interface{} {
	e := map[string]interface{}{"type": "focus", "to": ev.To.Key()}
	if ev.From != nil {
		e["from"] = ev.From.Key()
	}
	if ev.Direction != "" {
		e["direction"] = string(ev.Direction)
	}
	return e
}

func runWatch(cmd *cobra.Command, args []string) error {
	durationSec, _ := cmd.Flags().GetInt("duration")
	debounceMs, _ := cmd.Flags().GetInt("debounce")

	s, err := openSession(cmd, args[0])
	if err != nil {
		return err
	}
	defer s.Close()

	w := newEventWriter(os.Stdout)
	start := time.Now()
	w.emit(map[string]interface{}{
		"type":    "snapshot",
		"known":   len(s.Engine.KnownElements()),
		"focused": focusedKey(s),
	})
	off := s.Engine.On(nav.EventFocusMoved, func(ev nav.Event) { w.emit(focusEvent(ev)) })
	defer off()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if durationSec > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(durationSec)*time.Second)
		defer cancel()
	}

	err = s.Watch(ctx,
		host.WithDebounce(time.Duration(debounceMs)*time.Millisecond),
		host.OnReload(func(diff model.LayoutDiff) {
			w.emit(reloadEvent(diff, len(s.Engine.KnownElements())))
		}),
	)
	if err != nil {
		return err
	}

	w.emit(map[string]interface{}{
		"type":    "done",
		"elapsed": fmt.Sprintf("%.1fs", time.Since(start).Seconds()),
		"events":  w.total(),
	})
	return nil
}

func focusedKey(s *session.Session) string {
	if cur := s.Engine.Current(); cur != nil {
		return cur.Key()
	}
	return ""
}
