package create_proposal

import (
	"context"
	"time"

	"github.com/mesterhub/MH-SchedulingService/internal/domain"
	"github.com/mesterhub/MH-SchedulingService/internal/integrations/threadservice"
)

// ProposalRepository интерфейс репозитория предложений
type ProposalRepository interface {
	Create(ctx context.Context, proposal *domain.Proposal) (*domain.Proposal, error)
}

// QuoteRepository интерфейс репозитория квот
type QuoteRepository interface {
	Create(ctx context.Context, quote *domain.Quote) (*domain.Quote, error)
}

// OutboxRepository интерфейс репозитория outbox событий
type OutboxRepository interface {
	Enqueue(ctx context.Context, eventType string, payload []byte) error
}

// ThreadServiceClient интерфейс клиента для ThreadService
type ThreadServiceClient interface {
	GetThread(ctx context.Context, threadID int64) (*threadservice.Thread, error)
}

// LeadServiceClient интерфейс клиента для LeadService
type LeadServiceClient interface {
	HasPurchasedLead(ctx context.Context, professionalID, requestID int64) (bool, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
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
