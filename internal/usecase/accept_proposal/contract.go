package accept_proposal

import (
	"context"
	"time"

	"github.com/mesterhub/MH-SchedulingService/internal/domain"
	"github.com/mesterhub/MH-SchedulingService/internal/integrations/threadservice"
)

// ProposalRepository интерфейс репозитория предложений
type ProposalRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Proposal, error)
	MarkAccepted(ctx context.Context, id int64, customerID int64, responseMessage *string) error
	UpdateStatus(ctx context.Context, id int64, status domain.ProposalStatus) error
}

// QuoteRepository интерфейс репозитория квот
type QuoteRepository interface {
	UpdateStatus(ctx context.Context, id int64, status domain.QuoteStatus) error
}

// OutboxRepository интерфейс репозитория outbox событий
type OutboxRepository interface {
	Enqueue(ctx context.Context, eventType string, payload []byte) error
}

// AppointmentService интерфейс сервиса записей
type AppointmentService interface {
	CreateFromProposal(ctx context.Context, proposal *domain.Proposal, customerID int64, durationMinutes int) (*domain.Appointment, error)
}

// CalendarService интерфейс сервиса настроек календаря
type CalendarService interface {
	GetDomainSettings(ctx context.Context, professionalID int64) (*domain.CalendarSettings, error)
}

// ThreadServiceClient интерфейс клиента для ThreadService
type ThreadServiceClient interface {
	GetThread(ctx context.Context, threadID int64) (*threadservice.Thread, error)
}

// RequestServiceClient интерфейс клиента для RequestService
type RequestServiceClient interface {
	AdvanceToBooked(ctx context.Context, requestID, appointmentID, professionalID int64) error
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
