package models

import (
	"time"

	"github.com/mesterhub/MH-SchedulingService/internal/domain"
)

// Request модели

// UpdateSettingsRequest запрос на обновление настроек календаря.
// Неуказанные поля остаются без изменений.
type UpdateSettingsRequest struct {
	UserID int64 `json:"userId"`

	Timezone    *string            `json:"timezone,omitempty"`
	WeeklyHours domain.WeeklyHours `json:"weeklyHours,omitempty"`

	BufferMinutes          *int `json:"bufferMinutes,omitempty"`
	MinAdvanceHours        *int `json:"minAdvanceHours,omitempty"`
	MaxAdvanceDays         *int `json:"maxAdvanceDays,omitempty"`
	DefaultDurationMinutes *int `json:"defaultDurationMinutes,omitempty"`

	OnlineBookingEnabled *bool `json:"onlineBookingEnabled,omitempty"`
}

// CreateOverrideRequest запрос на создание блока доступности
type CreateOverrideRequest struct {
	UserID int64 `json:"userId"`

	StartAt     time.Time `json:"startAt"`
	EndAt       time.Time `json:"endAt"`
	IsAvailable bool      `json:"isAvailable"`

	Reason *string `json:"reason,omitempty"`
	Notes  *string `json:"notes,omitempty"`
}

// Response модели

// DayHoursResponse рабочие часы одного дня
type DayHoursResponse struct {
	Start   string `json:"start"`
	End     string `json:"end"`
	Enabled bool   `json:"enabled"`
}

// CalendarSettingsResponse ответ с настройками календаря
type CalendarSettingsResponse struct {
	ID             int64 `json:"id"`
	ProfessionalID int64 `json:"professionalId"`

	Timezone    string                      `json:"timezone"`
	WeeklyHours map[string]DayHoursResponse `json:"weeklyHours,omitempty"`

	BufferMinutes          int `json:"bufferMinutes"`
	MinAdvanceHours        int `json:"minAdvanceHours"`
	MaxAdvanceDays         int `json:"maxAdvanceDays"`
	DefaultDurationMinutes int `json:"defaultDurationMinutes"`

	OnlineBookingEnabled bool `json:"onlineBookingEnabled"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// OverrideResponse ответ с данными блока доступности
type OverrideResponse struct {
	ID             int64 `json:"id"`
	ProfessionalID int64 `json:"professionalId"`

	StartAt     time.Time `json:"startAt"`
	EndAt       time.Time `json:"endAt"`
	IsAvailable bool      `json:"isAvailable"`

	Reason *string `json:"reason,omitempty"`
	Notes  *string `json:"notes,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
}

// OverrideListResponse ответ со списком блоков доступности
type OverrideListResponse struct {
	Overrides []OverrideResponse `json:"overrides"`
}

// FromDomainSettings конвертирует domain модель в DTO
func FromDomainSettings(s *domain.CalendarSettings) *CalendarSettingsResponse {
	if s == nil {
		return nil
	}

	resp := &CalendarSettingsResponse{
		ID:                     s.ID,
		ProfessionalID:         s.ProfessionalID,
		Timezone:               s.Timezone,
		BufferMinutes:          s.BufferMinutes,
		MinAdvanceHours:        s.MinAdvanceHours,
		MaxAdvanceDays:         s.MaxAdvanceDays,
		DefaultDurationMinutes: s.DefaultDurationMinutes,
		OnlineBookingEnabled:   s.OnlineBookingEnabled,
		CreatedAt:              s.CreatedAt,
		UpdatedAt:              s.UpdatedAt,
	}

	if s.WeeklyHours != nil {
		resp.WeeklyHours = make(map[string]DayHoursResponse, len(s.WeeklyHours))
		for day, hours := range s.WeeklyHours {
			resp.WeeklyHours[day] = DayHoursResponse{
				Start:   hours.Start.String(),
				End:     hours.End.String(),
				Enabled: hours.Enabled,
			}
		}
	}

	return resp
}

// FromDomainOverride конвертирует domain модель в DTO
func FromDomainOverride(o *domain.AvailabilityOverride) *OverrideResponse {
	if o == nil {
		return nil
	}

	return &OverrideResponse{
		ID:             o.ID,
		ProfessionalID: o.ProfessionalID,
		StartAt:        o.StartAt,
		EndAt:          o.EndAt,
		IsAvailable:    o.IsAvailable,
		Reason:         o.Reason,
		Notes:          o.Notes,
		CreatedAt:      o.CreatedAt,
	}
}

// FromDomainOverrideList конвертирует список domain моделей в DTO
func FromDomainOverrideList(overrides []*domain.AvailabilityOverride) *OverrideListResponse {
	if overrides == nil {
		return &OverrideListResponse{
			Overrides: []OverrideResponse{},
		}
	}

	resp := &OverrideListResponse{
		Overrides: make([]OverrideResponse, len(overrides)),
	}

	for i, override := range overrides {
		if overrideResp := FromDomainOverride(override); overrideResp != nil {
			resp.Overrides[i] = *overrideResp
		}
	}

	return resp
}
