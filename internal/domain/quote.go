package domain

import "time"

// QuoteStatus represents the status of a price quote
type QuoteStatus string

const (
	QuoteStatusPending   QuoteStatus = "pending"
	QuoteStatusAccepted  QuoteStatus = "accepted"
	QuoteStatusWithdrawn QuoteStatus = "withdrawn"
)

// Quote ценовое предложение, связанное 1:1 с Proposal.
// Ценовая логика принадлежит прайсинг-домену; здесь хранится только запись,
// чтобы создание предложения и квоты происходило в одной транзакции.
type Quote struct {
	ID       int64
	Price    float64
	Currency string
	Message  *string
	Status   QuoteStatus

	CreatedAt time.Time
	UpdatedAt time.Time
}
