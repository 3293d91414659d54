package media

import (
	"encoding/json"
	"fmt"
)

// Notification is one status push from the native side.
type Notification struct {
	ID    string      `json:"id" jsonschema:"required"`
	Kind  MessageKind `json:"msgType" jsonschema:"required,enum=1,enum=2,enum=3,enum=9"`
	Value any         `json:"value,omitempty"`
}

// Message is the envelope delivered through the message channel subscription.
type Message struct {
	Action string        `json:"action" jsonschema:"required"`
	Status *Notification `json:"status,omitempty"`
}

// DecodeMessage accepts a Message, raw JSON, or a generic decoded JSON object.
func DecodeMessage(v any) (Message, error) {
	switch m := v.(type) {
	case Message:
		return m, nil
	case *Message:
		if m == nil {
			return Message{}, fmt.Errorf("%w: nil message", ErrMalformedValue)
		}
		return *m, nil
	case json.RawMessage:
		return unmarshalMessage(m)
	case []byte:
		return unmarshalMessage(m)
	case string:
		return unmarshalMessage([]byte(m))
	}

	raw, err := json.Marshal(v)
	if err != nil {
		return Message{}, fmt.Errorf("%w: %v", ErrMalformedValue, err)
	}
	return unmarshalMessage(raw)
}

func unmarshalMessage(raw []byte) (Message, error) {
	var msg Message
	if err := json.Unmarshal(raw, &msg); err != nil {
		return Message{}, fmt.Errorf("%w: %v", ErrMalformedValue, err)
	}
	return msg, nil
}
