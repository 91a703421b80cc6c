package amqp

import (
	"encoding/json"
	"time"
)

// BookSyncMessage asks the worker to re-export one year's workbook. It only
// carries the year; the worker reads the current ledger from SQLite, so a
// burst of entries collapses into idempotent rewrites.
type BookSyncMessage struct {
	Year      int       `json:"year"`
	Timestamp time.Time `json:"timestamp"`
}

func NewBookSyncMessage(year int) *BookSyncMessage {
	return &BookSyncMessage{
		Year:      year,
		Timestamp: time.Now(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *BookSyncMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// BookSyncMessageFromJSON creates a message from JSON bytes
func BookSyncMessageFromJSON(data []byte) (*BookSyncMessage, error) {
	var msg BookSyncMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
