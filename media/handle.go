package media

import (
	"fmt"
	"strings"
	"sync"

	"github.com/mediabridge/mediabridge/log"
	"github.com/spf13/cast"
)

// Callbacks are the per-handle notification targets. Each one is optional.
type Callbacks struct {
	// OnSuccess fires when the native side reports Stopped, i.e. playback or recording finished.
	OnSuccess func()
	// OnError receives native failures, as *NativeError, from commands and error notifications.
	OnError func(err error)
	// OnStatus receives every reported state.
	OnStatus func(state State)
	// OnCreate fires once the native resource exists; running reports whether it was already playing.
	OnCreate func(running bool)
}

// Options is an opaque configuration bag passed through to native play.
type Options map[string]any

// Handle is the in-process representation of one native media resource.
// Callbacks always run on the owning bridge's event loop.
type Handle struct {
	id        string
	src       string
	bridge    *Bridge
	callbacks Callbacks

	mu       sync.RWMutex
	state    State
	duration float64
	position float64
}

func newHandle(b *Bridge, id, src string, cb Callbacks, state State) *Handle {
	return &Handle{
		id:        id,
		src:       src,
		bridge:    b,
		callbacks: cb,
		state:     state,
		duration:  Unknown,
		position:  Unknown,
	}
}

// ID returns the opaque identifier shared with the native side.
func (h *Handle) ID() string {
	return h.id
}

// Src returns the resource locator the handle was created with.
func (h *Handle) Src() string {
	return h.src
}

// State returns the last reported playback state.
func (h *Handle) State() State {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.state
}

// GetDuration returns the cached duration, or Unknown. It never contacts the native side.
func (h *Handle) GetDuration() float64 {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.duration
}

// Position returns the cached playback position, or Unknown.
func (h *Handle) Position() float64 {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.position
}

func (h *Handle) setState(s State) {
	h.mu.Lock()
	h.state = s
	h.mu.Unlock()
}

func (h *Handle) setDuration(d float64) {
	h.mu.Lock()
	h.duration = d
	h.mu.Unlock()
}

func (h *Handle) setPosition(p float64) {
	h.mu.Lock()
	h.position = p
	h.mu.Unlock()
}

// failure builds the error continuation routed to OnError, nil when the handle has none.
func (h *Handle) failure(action string) func(any) {
	return relay(action, h.callbacks.OnError)
}

func (h *Handle) created() func(any) {
	if h.callbacks.OnCreate == nil {
		return nil
	}
	return func(v any) {
		running, err := cast.ToBoolE(v)
		if err != nil && v != nil {
			log.WithFields(log.Fields{"id": h.id, "value": v}).Debug("create reported a non-boolean value")
		}
		h.callbacks.OnCreate(running)
	}
}

func validateSource(src string) error {
	if strings.TrimSpace(src) == "" {
		return invalidArgument("empty media source")
	}
	if strings.ContainsAny(src, "\x00\r\n") {
		return invalidArgument("control characters in media source %q", src)
	}
	return nil
}

func toFloat(v any) (float64, error) {
	if v == nil {
		return 0, fmt.Errorf("%w: nil", ErrMalformedValue)
	}
	f, err := cast.ToFloat64E(v)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrMalformedValue, err)
	}
	return f, nil
}
