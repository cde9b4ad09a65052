package event

import (
	"encoding/json"
	"time"
)

// ChangeMessage announces that a collection snapshot was rewritten.
// It carries only the collection name, consumers reload the snapshot
// from the primary backend themselves.
type ChangeMessage struct {
	Collection string    `json:"collection"`
	At         time.Time `json:"at"`
}

func NewChangeMessage(collection string) *ChangeMessage {
	return &ChangeMessage{
		Collection: collection,
		At:         time.Now(),
	}
}

func (m *ChangeMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func ChangeMessageFromJSON(data []byte) (*ChangeMessage, error) {
	var msg ChangeMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
