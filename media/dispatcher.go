package media

import (
	"fmt"
	"math"

	"github.com/mediabridge/mediabridge/log"
	"github.com/spf13/cast"
)

// Dispatcher routes notifications to handles. It relays and caches; it never validates transitions.
type Dispatcher struct {
	registry Registry
}

// NewDispatcher returns a dispatcher resolving ids against r.
func NewDispatcher(r Registry) *Dispatcher {
	return &Dispatcher{registry: r}
}

// Dispatch applies n to its handle. The returned error only describes why n was dropped;
// it is logged here and callers may use it for accounting.
func (d *Dispatcher) Dispatch(n Notification) error {
	fields := log.Fields{"id": n.ID, "kind": n.Kind.String()}

	h, ok := d.registry.Lookup(n.ID).Get()
	if !ok {
		log.WithFields(fields).Warn("received status for unknown media")
		return fmt.Errorf("%w: %s", ErrUnknownHandle, n.ID)
	}

	switch n.Kind {
	case KindState:
		state, err := toState(n.Value)
		if err != nil {
			log.WithFields(fields).Warn(err)
			return err
		}
		h.setState(state)
		if h.callbacks.OnStatus != nil {
			h.callbacks.OnStatus(state)
		}
		if state == StateStopped && h.callbacks.OnSuccess != nil {
			h.callbacks.OnSuccess()
		}
	case KindDuration:
		v, err := toFloat(n.Value)
		if err != nil {
			log.WithFields(fields).Warn(err)
			return err
		}
		h.setDuration(v)
	case KindPosition:
		v, err := toFloat(n.Value)
		if err != nil {
			log.WithFields(fields).Warn(err)
			return err
		}
		h.setPosition(v)
	case KindError:
		if h.callbacks.OnError != nil {
			h.callbacks.OnError(&NativeError{Code: n.Value})
		}
	default:
		log.WithFields(fields).Errorf("unhandled media status kind %d", int(n.Kind))
		return fmt.Errorf("%w: kind %d", ErrUnrecognizedNotification, int(n.Kind))
	}

	return nil
}

func toState(v any) (State, error) {
	if s, ok := v.(State); ok {
		return s, nil
	}
	malformed := fmt.Errorf("%w: state %v", ErrMalformedValue, v)
	if _, ok := v.(bool); ok || v == nil {
		return StateUnknown, malformed
	}

	f, err := cast.ToFloat64E(v)
	if err != nil || f != math.Trunc(f) || math.IsInf(f, 0) {
		return StateUnknown, malformed
	}
	return State(int(f)), nil
}
