package get_calendar_settings

import (
	"context"

	"github.com/mesterhub/MH-SchedulingService/internal/service/calendar/models"
)

type CalendarService interface {
	GetSettings(ctx context.Context, professionalID int64) (*models.CalendarSettingsResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
