// Package app wires the media board together. Both the HTTP server and the
// boardctl CLI build the same App from a startup.Config:
//
//	database -> warehouse -> library -> registry -> bus
//
// The registry lists the extensions in declared order: index, pixel, pdf and,
// when NATS_URL is set, notify. The bus orders them by priority.
//
// App also exposes the operations the outer shells need (upload, thumbnail
// regeneration, display) so that HTTP handlers and CLI commands publish the
// same events the same way.
package app
