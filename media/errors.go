package media

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidArgument is returned synchronously, before any side effect, for malformed calls.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrClosed is returned by every operation once the bridge has been closed.
	ErrClosed = errors.New("media bridge is closed")

	// ErrUnknownHandle reports a notification for an id with no live handle.
	ErrUnknownHandle = errors.New("unknown media handle")

	// ErrUnrecognizedNotification reports a message kind or action the bridge does not route.
	ErrUnrecognizedNotification = errors.New("unrecognized notification")

	// ErrMalformedValue reports a notification or completion value of the wrong shape.
	ErrMalformedValue = errors.New("malformed value")
)

// NativeError relays a failure reported by the native side. Code is passed through uninterpreted.
type NativeError struct {
	// Action is the command that failed, empty for errors pushed as notifications.
	Action string
	Code   any
}

func (e *NativeError) Error() string {
	if e.Action == "" {
		return fmt.Sprintf("native media error: %v", e.Code)
	}
	return fmt.Sprintf("native %s failed: %v", e.Action, e.Code)
}

func invalidArgument(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidArgument, fmt.Sprintf(format, args...))
}
