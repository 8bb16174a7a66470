package flow

import (
	"context"
	"log/slog"

	through "github.com/imishinist/go-through"
)

// DoStream connects out to in in the background. Values are written to in
// one at a time, so a slow in blocks the reads from out.
func DoStream(out through.Output, in through.Input) {
	go func() {
		if err := through.Pump(context.Background(), out, in); err != nil {
			slog.Debug("flow: stream stopped", "error", err)
		}
	}()
}
