package extension

import (
	"slices"

	"media-board/internal/storage"
	"media-board/internal/thumbnail"
)

// DefaultPriority is used when an extension does not choose one.
const DefaultPriority = 50

// Extension is a unit registered on the bus.
type Extension interface {
	ID() string
	// Priority orders dispatch; lower runs first.
	Priority() int
	// DBSupport lists the store drivers the extension works with.
	// Empty means any driver.
	DBSupport() []string
}

// Themed extensions receive their presentation delegate at build time.
type Themed interface {
	SetTheme(theme any)
}

// Context carries the shared collaborators handed to extension factories.
type Context struct {
	Thumbs thumbnail.Config
	Store  storage.Store
	Bus    Publisher
	Driver string
}

// IsLive reports whether ext may receive events when driver is active.
func IsLive(ext Extension, driver string) bool {
	supported := ext.DBSupport()
	return len(supported) == 0 || slices.Contains(supported, driver)
}

// Option configures a Base.
type Option func(*Base)

// WithPriority overrides DefaultPriority.
func WithPriority(p int) Option {
	return func(b *Base) { b.priority = p }
}

// WithDBSupport restricts the extension to the given drivers.
func WithDBSupport(drivers ...string) Option {
	return func(b *Base) { b.dbSupport = drivers }
}

// Base implements Extension and Themed for embedding.
type Base struct {
	id        string
	priority  int
	dbSupport []string
	theme     any
}

// NewBase returns a Base with DefaultPriority and no driver restriction.
func NewBase(id string, opts ...Option) Base {
	b := Base{id: id, priority: DefaultPriority}
	for _, opt := range opts {
		opt(&b)
	}
	return b
}

func (b *Base) ID() string          { return b.id }
func (b *Base) Priority() int       { return b.priority }
func (b *Base) DBSupport() []string { return b.dbSupport }

// SetTheme binds the theme. Only the first call has effect.
func (b *Base) SetTheme(theme any) {
	if b.theme == nil {
		b.theme = theme
	}
}

// Theme returns the bound theme, or nil.
func (b *Base) Theme() any { return b.theme }
