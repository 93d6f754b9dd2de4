// Package events defines the messages broadcast on the extension bus and the
// handler interfaces an extension implements to receive them.
//
// Every event is a pointer to a struct. Fields set by the constructor are
// inputs; exported fields documented as outputs are filled in by handlers as
// the event travels through the bus. Delivery is reflection-free: each event
// type asserts the listener against its own handler interface, so an
// extension subscribes simply by implementing, for example, DataUploadHandler.
//
// Errors returned by handlers are classified by Kind. A NotApplicable error is
// swallowed by the bus and dispatch continues; Rejected and Fatal errors abort
// the publish without rolling back work done by earlier handlers.
package events
