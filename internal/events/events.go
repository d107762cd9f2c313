// Package events publishes domain events to a Redis stream so that other
// consumers (notifications, reporting) can react without coupling to the API.
package events

import "time"

// Event types
const (
	AccountCreated    = "account.created"
	TransferCompleted = "transfer.completed"
)

// BankEventsStream is the single stream all bank events are appended to.
const BankEventsStream = "bank.events"

type Event struct {
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Data      any       `json:"data"`
}

type AccountCreatedEvent struct {
	AccountNumber string `json:"accountNumber"`
	UserID        string `json:"userId"`
}

type TransferCompletedEvent struct {
	SenderAccount   string `json:"senderAccount"`
	ReceiverAccount string `json:"receiverAccount"`
	Amount          string `json:"amount"`
	Fee             string `json:"fee"`
}
