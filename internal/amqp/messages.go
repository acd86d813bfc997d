package amqp

import (
	"encoding/json"
	"time"
)

// LedgerSyncMessage tells the mirror worker that a ledger entity changed.
// It carries only the entity kind, id and operation; the worker fetches the
// current row from the database before mirroring.
type LedgerSyncMessage struct {
	Entity    string    `json:"entity"`
	ID        string    `json:"id"`
	Op        string    `json:"op"`
	Timestamp time.Time `json:"timestamp"`
}

func NewLedgerSyncMessage(entity, id, op string) *LedgerSyncMessage {
	return &LedgerSyncMessage{
		Entity:    entity,
		ID:        id,
		Op:        op,
		Timestamp: time.Now(),
	}
}

func (m *LedgerSyncMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func LedgerSyncMessageFromJSON(data []byte) (*LedgerSyncMessage, error) {
	var msg LedgerSyncMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
