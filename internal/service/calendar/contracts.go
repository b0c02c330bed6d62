package calendar

import (
	"context"
	"time"

	"github.com/mesterhub/MH-SchedulingService/internal/domain"
)

// CalendarRepository интерфейс репозитория настроек календаря
type CalendarRepository interface {
	GetSettings(ctx context.Context, professionalID int64) (*domain.CalendarSettings, error)
	CreateSettings(ctx context.Context, settings *domain.CalendarSettings) (*domain.CalendarSettings, error)
	UpdateSettings(ctx context.Context, settings *domain.CalendarSettings) error
	CreateOverride(ctx context.Context, override *domain.AvailabilityOverride) (*domain.AvailabilityOverride, error)
	DeleteOverride(ctx context.Context, professionalID, overrideID int64) error
	ListOverrides(ctx context.Context, professionalID int64, from, to time.Time) ([]*domain.AvailabilityOverride, error)
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
