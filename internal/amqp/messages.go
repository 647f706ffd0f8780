package amqp

import (
	"encoding/json"
	"fmt"
	"time"
)

const (
	ActionCreated = "created"
	ActionDeleted = "deleted"
)

// PurchaseEventMessage tells the summary worker that a user's purchases
// changed. It carries only identifiers; the worker re-reads the purchases
// from storage so a stale message can never write stale totals.
type PurchaseEventMessage struct {
	UserID     string    `json:"user_id"`
	PurchaseID int64     `json:"purchase_id"`
	Action     string    `json:"action"`
	Timestamp  time.Time `json:"timestamp"`
}

func NewPurchaseEvent(userID string, purchaseID int64, action string) *PurchaseEventMessage {
	return &PurchaseEventMessage{
		UserID:     userID,
		PurchaseID: purchaseID,
		Action:     action,
		Timestamp:  time.Now(),
	}
}

func (m *PurchaseEventMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func PurchaseEventFromJSON(data []byte) (*PurchaseEventMessage, error) {
	var msg PurchaseEventMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	if msg.UserID == "" {
		return nil, fmt.Errorf("purchase event has no user id")
	}
	return &msg, nil
}
