package update_calendar_settings

import (
	"github.com/mesterhub/MH-SchedulingService/internal/domain"
	"github.com/mesterhub/MH-SchedulingService/internal/service/calendar/models"
)

// UpdateCalendarSettingsRequest HTTP request model.
// Неуказанные поля остаются без изменений.
type UpdateCalendarSettingsRequest struct {
	Timezone    *string            `json:"timezone,omitempty"`
	WeeklyHours domain.WeeklyHours `json:"weeklyHours,omitempty"`

	BufferMinutes          *int `json:"bufferMinutes,omitempty"`
	MinAdvanceHours        *int `json:"minAdvanceHours,omitempty"`
	MaxAdvanceDays         *int `json:"maxAdvanceDays,omitempty"`
	DefaultDurationMinutes *int `json:"defaultDurationMinutes,omitempty"`

	OnlineBookingEnabled *bool `json:"onlineBookingEnabled,omitempty"`
}

// ToServiceRequest конвертирует HTTP request в модель сервиса
func (r *UpdateCalendarSettingsRequest) ToServiceRequest(userID int64) *models.UpdateSettingsRequest {
	return &models.UpdateSettingsRequest{
		UserID:                 userID,
		Timezone:               r.Timezone,
		WeeklyHours:            r.WeeklyHours,
		BufferMinutes:          r.BufferMinutes,
		MinAdvanceHours:        r.MinAdvanceHours,
		MaxAdvanceDays:         r.MaxAdvanceDays,
		DefaultDurationMinutes: r.DefaultDurationMinutes,
		OnlineBookingEnabled:   r.OnlineBookingEnabled,
	}
}
