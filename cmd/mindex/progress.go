package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/mattn/go-isatty"

	"github.com/TestProjects-Sigma/music-indexer/internal/progress"
)

// runWithProgress runs fn with a live progress line on out when out is a
// terminal. The events channel is closed after fn returns so the renderer
// always drains completely.
func runWithProgress[T any](ctx context.Context, out io.Writer, label string, fn func(context.Context, chan<- progress.Event) (T, error)) (T, error) {
	events := make(chan progress.Event, 64)
	done := make(chan struct{})

	go func() {
		defer close(done)
		interactive := isTerminal(out)
		var last progress.Event
		for ev := range events {
			last = ev
			if interactive {
				fmt.Fprintf(out, "\r%s %d/%d  %s\x1b[K", label, ev.Processed, ev.Total, filepath.Base(ev.Current))
			}
		}
		if interactive && last.Total > 0 {
			fmt.Fprint(out, "\r\x1b[K")
		}
	}()

	result, err := fn(ctx, events)
	close(events)
	<-done
	return result, err
}

func isTerminal(w io.Writer) bool {
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
