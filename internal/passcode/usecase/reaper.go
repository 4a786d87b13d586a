package usecase

import (
	"context"
	"log/slog"
	"time"
)

const defaultReapInterval = 5 * time.Minute

// RunReaper sweeps expired entries until ctx is canceled. The lifecycle
// already treats expired codes as dead at read time; the sweep only keeps the
// table from growing.
func (e *Engine) RunReaper(ctx context.Context) error {
	interval := e.cfg.GetSecond("modules.passcode.reaper_interval_seconds")
	if interval <= 0 {
		interval = defaultReapInterval
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	slog.InfoContext(ctx, "passcode reaper started", "interval", interval.String())

	for {
		select {
		case <-ctx.Done():
			slog.InfoContext(ctx, "passcode reaper stopped")
			return nil

		case <-ticker.C:
			n, err := e.repoDB.DeleteExpired(ctx)
			if err != nil {
				slog.WarnContext(ctx, "failed to repo delete expired passcodes", "error", err)
				continue
			}
			if n > 0 {
				slog.DebugContext(ctx, "reaped expired passcodes", "count", n)
			}
		}
	}
}
