package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// JournalEntry records one payment attempt. It has no field for
// the payment token.
type JournalEntry struct {
	ID            string          `json:"id"`
	RequestID     string          `json:"requestId,omitempty"`
	Amount        decimal.Decimal `json:"amount"`
	Currency      string          `json:"currency"`
	Success       bool            `json:"success"`
	TransactionID string          `json:"transactionId,omitempty"`
	AuthCode      string          `json:"authCode,omitempty"`
	ErrorCode     string          `json:"errorCode,omitempty"`
	ErrorMessage  string          `json:"errorMessage,omitempty"`
	CreatedAt     time.Time       `json:"createdAt"`
}

// NewJournalEntry summarizes the result of submitting order.
func NewJournalEntry(id, requestID string, order Order, result PaymentResult, at time.Time) *JournalEntry {
	e := &JournalEntry{
		ID:        id,
		RequestID: requestID,
		Amount:    order.Total,
		Currency:  "USD",
		CreatedAt: at.UTC(),
	}
	switch r := result.(type) {
	case Success:
		e.Success = true
		e.TransactionID = r.TransactionID
		e.AuthCode = r.AuthCode
	case Failure:
		e.ErrorCode = r.ErrorCode
		e.ErrorMessage = r.ErrorMessage
	}
	return e
}
