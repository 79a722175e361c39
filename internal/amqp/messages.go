package amqp

import (
	"encoding/json"
	"time"
)

// RecordSyncMessage asks the ledger worker to export one record. It carries
// only the kind and ID; the worker fetches the full record from storage so
// the queue never holds stale amounts.
type RecordSyncMessage struct {
	Kind      string    `json:"kind"` // "expense" or "sale"
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
}

func NewRecordSyncMessage(kind, id string) *RecordSyncMessage {
	return &RecordSyncMessage{
		Kind:      kind,
		ID:        id,
		Timestamp: time.Now(),
	}
}

func (m *RecordSyncMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func RecordSyncMessageFromJSON(data []byte) (*RecordSyncMessage, error) {
	var msg RecordSyncMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
