package events

import (
	"encoding/json"
	"time"
)

// TransactionEventMessage notifies consumers that a user's transaction
// changed. It carries only identifiers; consumers fetch current state
// from the store if they need it.
type TransactionEventMessage struct {
	Action    string    `json:"action"` // created, updated, deleted
	UserID    string    `json:"user_id"`
	ID        int64     `json:"id"`
	Timestamp time.Time `json:"timestamp"`
}

// NewTransactionEventMessage creates an event message stamped with the
// current time.
func NewTransactionEventMessage(action, userID string, id int64) *TransactionEventMessage {
	return &TransactionEventMessage{
		Action:    action,
		UserID:    userID,
		ID:        id,
		Timestamp: time.Now(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *TransactionEventMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// TransactionEventMessageFromJSON creates a message from JSON bytes
func TransactionEventMessageFromJSON(data []byte) (*TransactionEventMessage, error) {
	var msg TransactionEventMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
