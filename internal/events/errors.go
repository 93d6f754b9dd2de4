package events

import (
	"errors"
	"fmt"
)

// Kind classifies a handler error for the bus.
type Kind int

const (
	// KindNotApplicable means the event was not meant for this handler.
	KindNotApplicable Kind = iota
	// KindRejected is a user-facing refusal; resubmitting different input may succeed.
	KindRejected
	// KindFatal is an infrastructure failure; the attempt is abandoned.
	KindFatal
)

func (k Kind) String() string {
	switch k {
	case KindNotApplicable:
		return "not_applicable"
	case KindRejected:
		return "rejected"
	case KindFatal:
		return "fatal"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Error is the error type handlers return to steer dispatch.
type Error struct {
	Kind Kind
	Op   string
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	switch {
	case e.Msg != "" && e.Err != nil:
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Msg, e.Err)
	case e.Msg != "":
		return fmt.Sprintf("%s: %s", e.Op, e.Msg)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	default:
		return e.Op + ": " + e.Kind.String()
	}
}

func (e *Error) Unwrap() error { return e.Err }

// Upload error messages.
const (
	MsgInvalidFile     = "invalid or corrupted file"
	MsgTargetMissing   = "target does not exist"
	MsgDuplicate       = "duplicate of existing"
	MsgEntityBuildFail = "handler failed to build entity"
)

// ErrNotApplicable is a convenience NotApplicable error without context.
var ErrNotApplicable = &Error{Kind: KindNotApplicable, Op: "dispatch"}

// NotApplicable returns a KindNotApplicable error.
func NotApplicable(op, msg string) error {
	return &Error{Kind: KindNotApplicable, Op: op, Msg: msg}
}

// UploadError returns a KindRejected error with a user-facing message.
func UploadError(msg string) error {
	return &Error{Kind: KindRejected, Op: "upload", Msg: msg}
}

// Fatal wraps err as a KindFatal error.
func Fatal(op string, err error) error {
	return &Error{Kind: KindFatal, Op: op, Err: err}
}

// KindOf classifies err. Errors that are not *Error are treated as fatal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindFatal
}

// IsNotApplicable reports whether err is a NotApplicable error.
func IsNotApplicable(err error) bool {
	return err != nil && KindOf(err) == KindNotApplicable
}

// IsRejected reports whether err is a user-facing rejection.
func IsRejected(err error) bool {
	return err != nil && KindOf(err) == KindRejected
}

// Message returns the user-facing message of a rejection, or the error text.
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) && e.Msg != "" {
		return e.Msg
	}
	return err.Error()
}
