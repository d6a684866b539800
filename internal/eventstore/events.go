package eventstore

import (
	"encoding/json"
)

// Event types.
const (
	TypeRunStarted     = "RunStarted"
	TypeStageCompleted = "StageCompleted"
	TypeRunCompleted   = "RunCompleted"
	TypeRunFailed      = "RunFailed"
)

// RunStarted is the payload of TypeRunStarted.
type RunStarted struct {
	Template    string `json:"template"`
	Content     string `json:"content"`
	Destination string `json:"destination"`
}

// StageCompleted is the payload of TypeStageCompleted.
type StageCompleted struct {
	Stage      string `json:"stage"`
	DurationMS int64  `json:"duration_ms"`
	Error      string `json:"error,omitempty"`
}

// RunCompleted is the payload of TypeRunCompleted.
type RunCompleted struct {
	Items      int    `json:"items"`
	Pages      int    `json:"pages"`
	Files      int    `json:"files"`
	DurationMS int64  `json:"duration_ms"`
	Outcome    string `json:"outcome"`
}

// RunFailed is the payload of TypeRunFailed.
type RunFailed struct {
	Error      string `json:"error"`
	Outcome    string `json:"outcome"`
	DurationMS int64  `json:"duration_ms"`
}

func encodePayload(v any) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, historyError("failed to marshal event payload", err).Build()
	}
	return data, nil
}

// DecodePayload unmarshals an event payload into v.
func DecodePayload(e Event, v any) error {
	if err := json.Unmarshal(e.Payload(), v); err != nil {
		return historyError("failed to unmarshal event payload", err).
			WithContext("type", e.Type()).
			Build()
	}
	return nil
}
