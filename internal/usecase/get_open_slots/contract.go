package get_open_slots

import (
	"context"
	"time"

	"github.com/mesterhub/MH-SchedulingService/internal/domain"
)

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	ListIntersecting(ctx context.Context, professionalID int64, from, to time.Time) ([]*domain.Appointment, error)
}

// CalendarRepository интерфейс репозитория блоков доступности
type CalendarRepository interface {
	ListOverrides(ctx context.Context, professionalID int64, from, to time.Time) ([]*domain.AvailabilityOverride, error)
}

// CalendarService интерфейс сервиса настроек календаря
type CalendarService interface {
	GetDomainSettings(ctx context.Context, professionalID int64) (*domain.CalendarSettings, error)
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
