package extension

import (
	"context"
	"fmt"

	"media-board/internal/events"
)

// Factory builds an extension instance.
type Factory func(ctx *Context) (Extension, error)

// ThemeFactory builds a presentation delegate.
type ThemeFactory func() any

// Entry declares one extension.
type Entry struct {
	ID    string
	New   Factory
	Theme ThemeFactory
}

// Registry is the ordered table of extensions known to the process.
type Registry struct {
	entries []Entry
	custom  map[string]ThemeFactory
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{custom: make(map[string]ThemeFactory)}
}

// Register appends e. IDs must be unique.
func (r *Registry) Register(e Entry) error {
	if e.ID == "" || e.New == nil {
		return fmt.Errorf("extension entry needs an id and a factory")
	}
	for _, existing := range r.entries {
		if existing.ID == e.ID {
			return fmt.Errorf("extension %q already registered", e.ID)
		}
	}
	r.entries = append(r.entries, e)
	return nil
}

// MustRegister is Register for static tables.
func (r *Registry) MustRegister(entries ...Entry) {
	for _, e := range entries {
		if err := r.Register(e); err != nil {
			panic(err)
		}
	}
}

// OverrideTheme installs a customized theme for id, replacing the default.
func (r *Registry) OverrideTheme(id string, f ThemeFactory) {
	r.custom[id] = f
}

// ThemeFor returns a new customized theme for id if one is installed, else
// the default theme, else nil.
func (r *Registry) ThemeFor(id string) any {
	if f, ok := r.custom[id]; ok && f != nil {
		return f()
	}
	for _, e := range r.entries {
		if e.ID == id && e.Theme != nil {
			return e.Theme()
		}
	}
	return nil
}

// IDs returns the registered ids in declaration order.
func (r *Registry) IDs() []string {
	ids := make([]string, len(r.entries))
	for i, e := range r.entries {
		ids[i] = e.ID
	}
	return ids
}

// Build instantiates every entry, binds themes, registers the instances on a
// new Bus and publishes InitExt.
func (r *Registry) Build(ctx context.Context, ectx Context) (*Bus, error) {
	bus := NewBus(ectx.Driver)
	ectx.Bus = bus

	for _, e := range r.entries {
		ext, err := e.New(&ectx)
		if err != nil {
			return nil, fmt.Errorf("failed to build extension %s: %w", e.ID, err)
		}
		if themed, ok := ext.(Themed); ok {
			if theme := r.ThemeFor(e.ID); theme != nil {
				themed.SetTheme(theme)
			}
		}
		bus.Register(ext)
		log.Debug("Registered %s (priority %d)", ext.ID(), ext.Priority())
	}

	if err := bus.Publish(ctx, &events.InitExt{}); err != nil {
		return nil, fmt.Errorf("extension init failed: %w", err)
	}
	log.Info("%d extensions ready", len(r.entries))
	return bus, nil
}
