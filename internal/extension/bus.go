package extension

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"media-board/internal/events"
	"media-board/internal/logging"
	"media-board/internal/metrics"
)

var log = logging.Named("bus")

// Publisher is the part of the bus handlers use to emit follow-up events.
type Publisher interface {
	Publish(ctx context.Context, e events.Event) error
}

type dispatchKey struct{}

type dispatchState struct {
	bus   *Bus
	depth int
}

// Bus delivers events to registered extensions in priority order.
type Bus struct {
	driver string

	// publish serializes top-level publishes; nested ones run under the
	// holder's lock.
	publish sync.Mutex

	mu   sync.RWMutex
	exts []Extension
}

// NewBus returns an empty bus. driver is the active store driver used by IsLive.
func NewBus(driver string) *Bus {
	return &Bus{driver: driver}
}

// Register adds ext, keeping the table sorted by priority with ties in
// registration order.
func (b *Bus) Register(ext Extension) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.exts = append(b.exts, ext)
	sort.SliceStable(b.exts, func(i, j int) bool {
		return b.exts[i].Priority() < b.exts[j].Priority()
	})
	metrics.ExtensionsRegistered.Set(float64(len(b.exts)))

	if !IsLive(ext, b.driver) {
		log.Info("Extension %s registered but inactive (driver %q not in %v)", ext.ID(), b.driver, ext.DBSupport())
	}
}

// Extensions returns the dispatch table in order.
func (b *Bus) Extensions() []Extension {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]Extension, len(b.exts))
	copy(out, b.exts)
	return out
}

// Driver returns the active store driver.
func (b *Bus) Driver() string { return b.driver }

// Publish delivers e to every live extension that handles it. A NotApplicable
// error from a handler is skipped; any other error stops dispatch and is
// returned wrapped with the extension id. Work done by earlier handlers stays.
func (b *Bus) Publish(ctx context.Context, e events.Event) error {
	state, nested := ctx.Value(dispatchKey{}).(*dispatchState)
	if !nested || state.bus != b {
		b.publish.Lock()
		defer b.publish.Unlock()
		state = &dispatchState{bus: b}
	}

	state.depth++
	defer func() { state.depth-- }()
	metrics.EventDepth.Observe(float64(state.depth))
	ctx = context.WithValue(ctx, dispatchKey{}, state)

	name := e.Name()
	for _, ext := range b.Extensions() {
		if !IsLive(ext, b.driver) {
			continue
		}

		start := time.Now()
		handled, err := e.Deliver(ctx, ext)
		if !handled {
			continue
		}
		metrics.EventDispatchDuration.WithLabelValues(name, ext.ID()).Observe(time.Since(start).Seconds())

		if err == nil {
			continue
		}
		if events.IsNotApplicable(err) {
			log.Debug("%s: %s not applicable: %v", name, ext.ID(), err)
			continue
		}

		metrics.EventsPublishedTotal.WithLabelValues(name, "error").Inc()
		if events.IsRejected(err) {
			log.Info("%s rejected by %s: %v", name, ext.ID(), err)
		} else {
			log.Error("%s failed in %s: %v", name, ext.ID(), err)
		}
		return fmt.Errorf("%s: %w", ext.ID(), err)
	}

	metrics.EventsPublishedTotal.WithLabelValues(name, "ok").Inc()
	return nil
}
