package broker

import (
	"context"
	"time"
)

// statsInterval is how often the broker refreshes its gauge metrics from
// the handle table.
const statsInterval = 5 * time.Second

// RunStatsLoop periodically snapshots handle-table occupancy into the
// broker's metrics Recorder, until ctx is canceled. Intended to run in its
// own goroutine alongside Serve.
func (b *Broker) RunStatsLoop(ctx context.Context) {
	ticker := time.NewTicker(statsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			stats := b.handles.Stats()
			b.metrics.SetLiveHandleStats(stats.HandleCount, stats.TotalBytes)
		}
	}
}
