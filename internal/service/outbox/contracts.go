package outbox

import (
	"context"
	"time"

	"github.com/mesterhub/MH-SchedulingService/internal/domain"
)

// OutboxRepository интерфейс репозитория outbox событий
type OutboxRepository interface {
	ListPending(ctx context.Context, limit uint64) ([]*domain.OutboxEvent, error)
	MarkDispatched(ctx context.Context, id int64, dispatchedAt time.Time) error
	MarkFailed(ctx context.Context, id int64) error
}

// NotifyServiceClient интерфейс клиента для NotifyService
type NotifyServiceClient interface {
	SendEvent(ctx context.Context, eventType string, payload []byte) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
	DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error
}

// TimeProvider интерфейс для получения текущего времени
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
