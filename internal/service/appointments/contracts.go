package appointments

import (
	"context"
	"time"

	"github.com/mesterhub/MH-SchedulingService/internal/domain"
	"github.com/mesterhub/MH-SchedulingService/internal/integrations/jobservice"
)

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	Create(ctx context.Context, appointment *domain.Appointment) (*domain.Appointment, error)
	GetByID(ctx context.Context, id int64) (*domain.Appointment, error)
	GetByProposalID(ctx context.Context, proposalID int64) (*domain.Appointment, error)
	List(ctx context.Context, filter domain.AppointmentFilter) ([]*domain.Appointment, error)
	Cancel(ctx context.Context, id int64, status domain.AppointmentStatus, reason *string, cancelledAt time.Time) error
	Complete(ctx context.Context, id int64, completedAt time.Time, professionalNotes *string) error
	UpdateStatus(ctx context.Context, id int64, status domain.AppointmentStatus) error
}

// ReminderScheduler интерфейс планировщика напоминаний
type ReminderScheduler interface {
	ScheduleFor(ctx context.Context, appointment *domain.Appointment) error
	CancelAll(ctx context.Context, appointmentID int64) (int64, error)
}

// JobServiceClient интерфейс клиента для JobService
type JobServiceClient interface {
	EnsureJobForAppointment(ctx context.Context, request jobservice.EnsureJobRequest) (*jobservice.Job, error)
	AdvanceJob(ctx context.Context, appointmentID int64, status string) error
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
