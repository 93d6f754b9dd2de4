/*
Package extension hosts the event bus and the registry of extensions.

An extension is any value implementing Extension; it subscribes to events by
also implementing the matching handler interfaces from package events. The
registry builds every extension from an explicit table of factories, binds
each one's presentation theme, registers them on a fresh Bus and publishes
InitExt once.

	reg := extension.NewRegistry()
	reg.Register(extension.Entry{ID: "pixel", New: pixel.New, Theme: pixel.NewTheme})
	bus, err := reg.Build(ctx, extension.Context{Thumbs: cfg, Store: store, Driver: "sqlite3"})

Dispatch is synchronous and depth-first: a handler may publish further events
and those finish before the outer publish moves to the next extension.
Extensions are visited in ascending priority; ties keep registration order.
*/
package extension
