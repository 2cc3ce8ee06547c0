package websocket

import "encoding/json"

// Message defines the structure for websocket messages.
type Message struct {
	Action  string      `json:"action"`
	Payload interface{} `json:"payload"`
}

// NewEventMessage encodes an activity event for broadcast. It returns nil
// when the payload cannot be marshalled.
func NewEventMessage(action string, payload interface{}) []byte {
	data, err := json.Marshal(Message{Action: action, Payload: payload})
	if err != nil {
		return nil
	}
	return data
}
