package calendar_overrides

import (
	"context"
	"time"

	"github.com/mesterhub/MH-SchedulingService/internal/service/calendar/models"
)

type CalendarService interface {
	CreateOverride(ctx context.Context, professionalID int64, req *models.CreateOverrideRequest) (*models.OverrideResponse, error)
	DeleteOverride(ctx context.Context, professionalID, overrideID, userID int64) error
	ListOverrides(ctx context.Context, professionalID, userID int64, from, to time.Time) (*models.OverrideListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
