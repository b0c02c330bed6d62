package update_calendar_settings

import (
	"context"

	"github.com/mesterhub/MH-SchedulingService/internal/service/calendar/models"
)

type CalendarService interface {
	UpdateSettings(ctx context.Context, professionalID int64, req *models.UpdateSettingsRequest) (*models.CalendarSettingsResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
