package amqp

import (
	"encoding/json"
	"fmt"
	"time"
)

// EventType names what happened to a journal entry.
type EventType string

const (
	EntryCreated EventType = "entry.created"
	EntryUpdated EventType = "entry.updated"
	EntryDeleted EventType = "entry.deleted"
)

func (t EventType) Valid() bool {
	switch t {
	case EntryCreated, EntryUpdated, EntryDeleted:
		return true
	}
	return false
}

// EntryEventMessage is a lightweight notification about a journal entry.
// Consumers reload the entry from the store; DurationMinutes is the value
// that was persisted when the event was raised.
type EntryEventMessage struct {
	Type            EventType `json:"type"`
	EntryID         int64     `json:"entry_id"`
	TeacherID       int64     `json:"teacher_id"`
	DurationMinutes int       `json:"duration_minutes"`
	Timestamp       time.Time `json:"timestamp"`
}

// NewEntryEventMessage stamps the event with the current time.
func NewEntryEventMessage(t EventType, entryID, teacherID int64, durationMinutes int) *EntryEventMessage {
	return &EntryEventMessage{
		Type:            t,
		EntryID:         entryID,
		TeacherID:       teacherID,
		DurationMinutes: durationMinutes,
		Timestamp:       time.Now(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *EntryEventMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// EntryEventMessageFromJSON decodes and checks a message body.
func EntryEventMessageFromJSON(data []byte) (*EntryEventMessage, error) {
	var msg EntryEventMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	if !msg.Type.Valid() {
		return nil, fmt.Errorf("unknown event type %q", msg.Type)
	}
	if msg.EntryID <= 0 {
		return nil, fmt.Errorf("invalid entry id %d", msg.EntryID)
	}
	return &msg, nil
}
