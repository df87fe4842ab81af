package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// HistoryRecord spans one loan of a card, from assignment to return.
type HistoryRecord struct {
	ID            string           `json:"_id"`
	CardID        *string          `json:"cardId"`
	CardNumber    string           `json:"cardNumber"`
	RequestID     *string          `json:"requestId"`
	AssignedAt    time.Time        `json:"assignedAt"`
	ReturnedAt    *time.Time       `json:"returnedAt"`
	AssignedBy    string           `json:"assignedBy"`
	ReturnedBy    *string          `json:"returnedBy"`
	DurationHours *decimal.Decimal `json:"durationHours"`
}

// LoanHours is the loan length in hours rounded to two places.
func LoanHours(from, to time.Time) decimal.Decimal {
	secs := decimal.NewFromFloat(to.Sub(from).Seconds())
	return secs.Div(decimal.NewFromInt(3600)).Round(2)
}
