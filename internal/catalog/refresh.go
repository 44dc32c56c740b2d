package catalog

import (
	"context"
	"log/slog"
	"time"

	"github.com/jorgej/gimlet-skill-sub000/internal/metrics"
)

// Refresher re-downloads a feed regardless of cache state.
type Refresher interface {
	Refresh(ctx context.Context, url string) error
}

// StartRefreshWorker runs a background goroutine that re-downloads every feed
// once at start and then on each interval, so listener requests rarely wait
// on a feed host. It stops when ctx is cancelled.
func StartRefreshWorker(ctx context.Context, c *Catalog, r Refresher, interval time.Duration) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		slog.Info("Feed refresh worker started", "interval", interval, "feeds", len(c.FeedURLs()))

		refreshOnce(ctx, c, r)
		for {
			select {
			case <-ticker.C:
				refreshOnce(ctx, c, r)
			case <-ctx.Done():
				slog.Info("Feed refresh worker shutting down", "reason", ctx.Err())
				return
			}
		}
	}()
}

func refreshOnce(ctx context.Context, c *Catalog, r Refresher) {
	if failed := refreshFeeds(ctx, c, r); failed > 0 {
		metrics.FeedRefreshFailuresTotal.Add(float64(failed))
	}
}

func refreshFeeds(ctx context.Context, c *Catalog, r Refresher) int {
	failed := 0
	for _, url := range c.FeedURLs() {
		if ctx.Err() != nil {
			return failed
		}
		if err := r.Refresh(ctx, url); err != nil {
			failed++
			slog.Warn("Feed refresh failed", "url", url, "error", err)
		}
	}
	if failed > 0 {
		slog.Info("Feed refresh completed with failures", "failed", failed)
	}
	return failed
}
