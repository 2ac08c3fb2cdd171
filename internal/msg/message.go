package msg

import (
	"encoding/json"
	"errors"
)

// Message is one flash notice. Data carries optional caller-defined JSON.
type Message struct {
	Kind Kind            `json:"kind"`
	Text string          `json:"text"`
	Data json.RawMessage `json:"data,omitempty"`
}

// HasData reports whether the message carries custom data.
func (m Message) HasData() bool {
	return len(m.Data) > 0 && string(m.Data) != "null"
}

// DecodeData unmarshals the message data into target.
func (m Message) DecodeData(target any) error {
	if !m.HasData() {
		return errors.New("message has no data")
	}
	return json.Unmarshal(m.Data, target)
}

func encodeMessages(messages []Message) ([]byte, error) {
	return json.Marshal(messages)
}

func decodeMessages(raw []byte) ([]Message, error) {
	var messages []Message
	if err := json.Unmarshal(raw, &messages); err != nil {
		return nil, err
	}
	if len(messages) == 0 {
		return nil, nil
	}
	return messages, nil
}
