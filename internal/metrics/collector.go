package metrics

import (
	"context"
	"time"

	"media-board/internal/logging"
)

// collectTimeout bounds one LibraryStats call.
const collectTimeout = 10 * time.Second

// StatsProvider supplies library totals for the collector.
type StatsProvider interface {
	LibraryStats(ctx context.Context) (Stats, error)
}

// Stats holds the current library statistics
type Stats struct {
	ImagesByExt map[string]int
	TotalTags   int
}

// Collector refreshes the library gauges on a fixed interval.
type Collector struct {
	provider StatsProvider
	interval time.Duration

	cancel context.CancelFunc
	done   chan struct{}
}

func NewCollector(provider StatsProvider, interval time.Duration) *Collector {
	return &Collector{provider: provider, interval: interval}
}

// Start refreshes the gauges once and then every interval until ctx is
// cancelled or Stop is called.
func (c *Collector) Start(ctx context.Context) {
	ctx, c.cancel = context.WithCancel(ctx)
	c.done = make(chan struct{})
	go func() {
		defer close(c.done)
		ticker := time.NewTicker(c.interval)
		defer ticker.Stop()
		for {
			c.collect(ctx)
			select {
			case <-ticker.C:
			case <-ctx.Done():
				return
			}
		}
	}()
}

// Stop ends the loop and waits for an in-flight refresh to finish.
func (c *Collector) Stop() {
	if c.cancel == nil {
		return
	}
	c.cancel()
	<-c.done
}

func (c *Collector) collect(ctx context.Context) {
	if c.provider == nil {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, collectTimeout)
	defer cancel()

	stats, err := c.provider.LibraryStats(ctx)
	if err != nil {
		logging.Warn("Metrics collection failed: %v", err)
		return
	}
	record(stats)
}

// record publishes stats. Extensions absent from stats are dropped from the
// per-extension gauge.
func record(stats Stats) {
	LibraryImagesTotal.Reset()
	total := 0
	for ext, n := range stats.ImagesByExt {
		LibraryImagesTotal.WithLabelValues(ext).Set(float64(n))
		total += n
	}
	LibraryTagsTotal.Set(float64(stats.TotalTags))
	logging.Debug("Metrics collected: images=%d, tags=%d", total, stats.TotalTags)
}
