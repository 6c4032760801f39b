package amqp

import (
	"encoding/json"
	"time"
)

// PurchaseSyncMessage carries the full purchase record for the sheet-sync
// worker. The web app's store is process-local, so the worker cannot look
// the purchase up by ID; everything it needs travels in the message.
type PurchaseSyncMessage struct {
	ID             int64     `json:"id"`
	Date           string    `json:"date"` // YYYY-MM-DD
	Shop           string    `json:"shop"`
	Country        string    `json:"country"`
	Currency       string    `json:"currency"`
	Amount         float64   `json:"amount"`
	Category       string    `json:"category"`
	Note           string    `json:"note,omitempty"`
	ConvertedCents int64     `json:"converted_cents"`
	Rate           float64   `json:"rate"`
	RateDate       string    `json:"rate_date"` // YYYY-MM-DD
	Timestamp      time.Time `json:"timestamp"`
}

// ToJSON converts the message to JSON bytes
func (m *PurchaseSyncMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// PurchaseSyncMessageFromJSON creates a message from JSON bytes
func PurchaseSyncMessageFromJSON(data []byte) (*PurchaseSyncMessage, error) {
	var msg PurchaseSyncMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
