package thumbnail

import "fmt"

// ErrorKind classifies engine failures.
type ErrorKind int

const (
	// Unavailable means the engine's tool or library is missing.
	Unavailable ErrorKind = iota
	// ProcessFailed means the engine ran and failed.
	ProcessFailed
	// UnsupportedInput means the source could not be read as an image.
	UnsupportedInput
)

func (k ErrorKind) String() string {
	switch k {
	case Unavailable:
		return "unavailable"
	case ProcessFailed:
		return "process_failed"
	case UnsupportedInput:
		return "unsupported_input"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// EngineError is returned by every Engine.
type EngineError struct {
	Engine string
	Kind   ErrorKind
	Err    error
}

func (e *EngineError) Error() string {
	return fmt.Sprintf("thumbnail engine %s: %s: %v", e.Engine, e.Kind, e.Err)
}

func (e *EngineError) Unwrap() error { return e.Err }

func engineErr(engine string, kind ErrorKind, format string, args ...any) error {
	return &EngineError{Engine: engine, Kind: kind, Err: fmt.Errorf(format, args...)}
}
