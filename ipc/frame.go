// Package ipc implements the media command channel over newline-delimited JSON on a unix socket
// served by the native media host.
package ipc

import "encoding/json"

// Request is the frame written for every command.
type Request struct {
	RequestID uint64 `json:"request_id" jsonschema:"required"`
	Service   string `json:"service" jsonschema:"required"`
	Action    string `json:"action" jsonschema:"required"`
	Args      []any  `json:"args"`
}

// Reply is the frame read back from the host. A non-null Error routes to the failure continuation.
// Keep leaves the continuation registered for further replies, which is how subscriptions stream.
type Reply struct {
	RequestID uint64          `json:"request_id" jsonschema:"required"`
	Data      json.RawMessage `json:"data,omitempty"`
	Error     json.RawMessage `json:"error,omitempty"`
	Keep      bool            `json:"keep,omitempty"`
}

func (r Reply) failed() bool {
	return len(r.Error) > 0 && string(r.Error) != "null"
}

// decode turns a raw payload into plain Go values, nil for an absent payload.
func decode(raw json.RawMessage) (any, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, err
	}
	return v, nil
}
