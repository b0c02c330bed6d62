package domain

import "time"

// OutboxStatus represents the status of an outbox event
type OutboxStatus string

const (
	OutboxStatusPending    OutboxStatus = "pending"
	OutboxStatusDispatched OutboxStatus = "dispatched"
	OutboxStatusFailed     OutboxStatus = "failed"
)

// Event types published through the outbox
const (
	EventProposalCreated  = "proposal.created"
	EventProposalAccepted = "proposal.accepted"
)

// OutboxEvent событие для NotifyService, записанное в той же транзакции,
// что и основной переход статуса. Доставка выполняется внешним периодическим
// джобом через internal endpoint: основной переход никогда не откатывается
// из-за сбоя доставки уведомления.
type OutboxEvent struct {
	ID        int64
	EventType string
	Payload   []byte

	Status   OutboxStatus
	Attempts int

	CreatedAt    time.Time
	DispatchedAt *time.Time
}
