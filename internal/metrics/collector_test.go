package metrics

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

type fakeStats struct {
	stats Stats
	err   error
	calls int
}

func (f *fakeStats) LibraryStats(context.Context) (Stats, error) {
	f.calls++
	return f.stats, f.err
}

func TestCollectorCollectUpdatesGauges(t *testing.T) {
	provider := &fakeStats{stats: Stats{
		ImagesByExt: map[string]int{"jpg": 3, "pdf": 1},
		TotalTags:   7,
	}}

	c := NewCollector(provider, time.Hour)
	c.collect(context.Background())

	if got := testutil.ToFloat64(LibraryImagesTotal.WithLabelValues("jpg")); got != 3 {
		t.Errorf("jpg images = %v, want 3", got)
	}
	if got := testutil.ToFloat64(LibraryImagesTotal.WithLabelValues("pdf")); got != 1 {
		t.Errorf("pdf images = %v, want 1", got)
	}
	if got := testutil.ToFloat64(LibraryTagsTotal); got != 7 {
		t.Errorf("tags = %v, want 7", got)
	}
}

func TestCollectorCollectErrorLeavesGauges(t *testing.T) {
	LibraryTagsTotal.Set(11)
	provider := &fakeStats{err: errors.New("db closed")}

	c := NewCollector(provider, time.Hour)
	c.collect(context.Background())

	if provider.calls != 1 {
		t.Fatalf("expected provider to be called once, got %d", provider.calls)
	}
	if got := testutil.ToFloat64(LibraryTagsTotal); got != 11 {
		t.Errorf("tags gauge changed on error: %v", got)
	}
}

func TestCollectorNilProvider(t *testing.T) {
	c := NewCollector(nil, time.Hour)
	c.collect(context.Background())
}

func TestCollectorDropsVanishedExtensions(t *testing.T) {
	record(Stats{ImagesByExt: map[string]int{"gif": 2, "png": 1}})
	record(Stats{ImagesByExt: map[string]int{"png": 4}})

	if n := testutil.CollectAndCount(LibraryImagesTotal); n != 1 {
		t.Errorf("series = %d, want 1", n)
	}
	if got := testutil.ToFloat64(LibraryImagesTotal.WithLabelValues("png")); got != 4 {
		t.Errorf("png images = %v, want 4", got)
	}
}

func TestCollectorStartStop(t *testing.T) {
	provider := &fakeStats{stats: Stats{TotalTags: 1}}
	c := NewCollector(provider, time.Hour)
	c.Start(context.Background())
	c.Stop()
	c.Stop()

	if provider.calls < 1 {
		t.Errorf("expected an initial refresh, got %d calls", provider.calls)
	}
}

func TestInitializeMetricsDoesNotPanic(t *testing.T) {
	defer func() {
		if r := recover(); r != nil {
			t.Fatalf("InitializeMetrics panicked: %v", r)
		}
	}()
	InitializeMetrics([]string{"gd", "convert"})
}
