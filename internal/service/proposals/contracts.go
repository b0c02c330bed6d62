package proposals

import (
	"context"
	"time"

	"github.com/mesterhub/MH-SchedulingService/internal/domain"
	"github.com/mesterhub/MH-SchedulingService/internal/integrations/threadservice"
)

// ProposalRepository интерфейс репозитория предложений
type ProposalRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Proposal, error)
	List(ctx context.Context, filter domain.ProposalFilter) ([]*domain.Proposal, error)
	MarkResponded(ctx context.Context, id int64, status domain.ProposalStatus, responseMessage *string) error
	UpdateStatus(ctx context.Context, id int64, status domain.ProposalStatus) error
	ExpireDue(ctx context.Context, now time.Time) (int64, error)
}

// QuoteRepository интерфейс репозитория квот
type QuoteRepository interface {
	UpdateStatus(ctx context.Context, id int64, status domain.QuoteStatus) error
}

// ThreadServiceClient интерфейс клиента для ThreadService
type ThreadServiceClient interface {
	GetThread(ctx context.Context, threadID int64) (*threadservice.Thread, error)
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
