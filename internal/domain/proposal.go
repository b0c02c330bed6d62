package domain

import "time"

// ProposalStatus represents the status of a proposal
type ProposalStatus string

const (
	ProposalStatusProposed  ProposalStatus = "proposed"
	ProposalStatusAccepted  ProposalStatus = "accepted"
	ProposalStatusRejected  ProposalStatus = "rejected"
	ProposalStatusCancelled ProposalStatus = "cancelled"
	ProposalStatusExpired   ProposalStatus = "expired"
)

// Proposal предложение времени и цены от мастера клиенту внутри переписки.
// Все связи хранятся как внешние ключи, объекты разрешаются через репозитории.
type Proposal struct {
	ID             int64
	ThreadID       int64
	ProfessionalID int64
	RequestID      int64
	CustomerID     *int64 // NULL, пока переписка не привязана к клиенту

	ProposedStart   time.Time
	DurationMinutes *int // NULL = использовать default_duration_minutes из настроек календаря
	Location        *string
	Notes           *string

	QuoteID int64

	Status          ProposalStatus
	ResponseMessage *string
	RespondedAt     *time.Time
	ExpiresAt       *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsTerminal returns true if the proposal reached a terminal status.
// PROPOSED is the only non-terminal status.
func (p *Proposal) IsTerminal() bool {
	return p.Status != ProposalStatusProposed
}

// IsExpiredAt returns true if the proposal has an expiry deadline in the past.
// Истечение применяется лениво: строка остаётся PROPOSED в БД,
// пока её не прочитает операция перехода статуса.
func (p *Proposal) IsExpiredAt(now time.Time) bool {
	return p.ExpiresAt != nil && !now.Before(*p.ExpiresAt)
}

// ProposalFilter фильтр для получения предложений
type ProposalFilter struct {
	ThreadID       *int64
	ProfessionalID *int64
	Status         *ProposalStatus
}
