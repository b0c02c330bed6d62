package calendar

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mesterhub/MH-SchedulingService/internal/domain"
	calendarRepo "github.com/mesterhub/MH-SchedulingService/internal/infra/storage/calendar"
	"github.com/mesterhub/MH-SchedulingService/internal/service/calendar/models"
)

// Service сервис для работы с настройками календаря
type Service struct {
	calendarRepo CalendarRepository
	timeProvider TimeProvider
	logger       Logger
}

// NewService создает новый экземпляр сервиса календаря
func NewService(
	calendarRepo CalendarRepository,
	timeProvider TimeProvider,
	logger Logger,
) *Service {
	return &Service{
		calendarRepo: calendarRepo,
		timeProvider: timeProvider,
		logger:       logger,
	}
}

// GetSettings получает настройки календаря мастера.
// Если настроек ещё нет, создает их с дефолтными значениями -
// у каждого мастера всегда есть рабочий календарь.
func (s *Service) GetSettings(ctx context.Context, professionalID int64) (*models.CalendarSettingsResponse, error) {
	settings, err := s.getOrCreateSettings(ctx, professionalID)
	if err != nil {
		return nil, err
	}

	return models.FromDomainSettings(settings), nil
}

// GetDomainSettings получает настройки календаря для внутренних
// потребителей (расчёт слотов), без конвертации в DTO
func (s *Service) GetDomainSettings(ctx context.Context, professionalID int64) (*domain.CalendarSettings, error) {
	return s.getOrCreateSettings(ctx, professionalID)
}

// UpdateSettings обновляет настройки календаря мастера.
// Неуказанные поля остаются без изменений.
func (s *Service) UpdateSettings(ctx context.Context, professionalID int64, req *models.UpdateSettingsRequest) (*models.CalendarSettingsResponse, error) {
	s.logger.Info("UpdateSettings: updating settings for professional=%d by user=%d", professionalID, req.UserID)

	if professionalID != req.UserID {
		s.logger.Warn("UpdateSettings: access denied for user=%d to settings of professional=%d", req.UserID, professionalID)
		return nil, ErrAccessDenied
	}

	settings, err := s.getOrCreateSettings(ctx, professionalID)
	if err != nil {
		return nil, err
	}

	if err := applyUpdate(settings, req); err != nil {
		s.logger.Warn("UpdateSettings: invalid input for professional=%d: %v", professionalID, err)
		return nil, err
	}

	if err := s.calendarRepo.UpdateSettings(ctx, settings); err != nil {
		s.logger.Error("UpdateSettings: repository error for professional=%d: %v", professionalID, err)
		return nil, fmt.Errorf("%w: UpdateSettings - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("UpdateSettings: successfully updated settings for professional=%d", professionalID)
	return models.FromDomainSettings(settings), nil
}

// CreateOverride создает блок доступности мастера
func (s *Service) CreateOverride(ctx context.Context, professionalID int64, req *models.CreateOverrideRequest) (*models.OverrideResponse, error) {
	s.logger.Info("CreateOverride: creating override for professional=%d by user=%d", professionalID, req.UserID)

	if professionalID != req.UserID {
		s.logger.Warn("CreateOverride: access denied for user=%d", req.UserID)
		return nil, ErrAccessDenied
	}

	if !req.StartAt.Before(req.EndAt) {
		return nil, fmt.Errorf("%w: startAt must be before endAt", ErrInvalidInput)
	}

	override := &domain.AvailabilityOverride{
		ProfessionalID: professionalID,
		StartAt:        req.StartAt,
		EndAt:          req.EndAt,
		IsAvailable:    req.IsAvailable,
		Reason:         req.Reason,
		Notes:          req.Notes,
	}

	created, err := s.calendarRepo.CreateOverride(ctx, override)
	if err != nil {
		s.logger.Error("CreateOverride: repository error for professional=%d: %v", professionalID, err)
		return nil, fmt.Errorf("%w: CreateOverride - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("CreateOverride: created override id=%d for professional=%d", created.ID, professionalID)
	return models.FromDomainOverride(created), nil
}

// DeleteOverride удаляет блок доступности мастера
func (s *Service) DeleteOverride(ctx context.Context, professionalID, overrideID, userID int64) error {
	s.logger.Info("DeleteOverride: deleting override id=%d for professional=%d by user=%d", overrideID, professionalID, userID)

	if professionalID != userID {
		s.logger.Warn("DeleteOverride: access denied for user=%d", userID)
		return ErrAccessDenied
	}

	if err := s.calendarRepo.DeleteOverride(ctx, professionalID, overrideID); err != nil {
		if errors.Is(err, calendarRepo.ErrOverrideNotFound) {
			s.logger.Warn("DeleteOverride: override id=%d not found", overrideID)
			return ErrOverrideNotFound
		}
		s.logger.Error("DeleteOverride: repository error for override id=%d: %v", overrideID, err)
		return fmt.Errorf("%w: DeleteOverride - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("DeleteOverride: successfully deleted override id=%d", overrideID)
	return nil
}

// ListOverrides получает блоки доступности мастера за период
func (s *Service) ListOverrides(ctx context.Context, professionalID, userID int64, from, to time.Time) (*models.OverrideListResponse, error) {
	if professionalID != userID {
		s.logger.Warn("ListOverrides: access denied for user=%d", userID)
		return nil, ErrAccessDenied
	}

	if !from.Before(to) {
		return nil, fmt.Errorf("%w: from must be before to", ErrInvalidInput)
	}

	overrides, err := s.calendarRepo.ListOverrides(ctx, professionalID, from, to)
	if err != nil {
		s.logger.Error("ListOverrides: repository error for professional=%d: %v", professionalID, err)
		return nil, fmt.Errorf("%w: ListOverrides - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainOverrideList(overrides), nil
}

func (s *Service) getOrCreateSettings(ctx context.Context, professionalID int64) (*domain.CalendarSettings, error) {
	settings, err := s.calendarRepo.GetSettings(ctx, professionalID)
	if err == nil {
		return settings, nil
	}
	if !errors.Is(err, calendarRepo.ErrSettingsNotFound) {
		s.logger.Error("getOrCreateSettings: repository error for professional=%d: %v", professionalID, err)
		return nil, fmt.Errorf("%w: getOrCreateSettings - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("getOrCreateSettings: lazily creating default settings for professional=%d", professionalID)

	created, err := s.calendarRepo.CreateSettings(ctx, domain.DefaultCalendarSettings(professionalID))
	if err != nil {
		s.logger.Error("getOrCreateSettings: failed to create settings for professional=%d: %v", professionalID, err)
		return nil, fmt.Errorf("%w: getOrCreateSettings - create settings: %v", ErrInternal, err)
	}

	return created, nil
}

func applyUpdate(settings *domain.CalendarSettings, req *models.UpdateSettingsRequest) error {
	if req.Timezone != nil {
		if _, err := time.LoadLocation(*req.Timezone); err != nil {
			return fmt.Errorf("%w: unknown timezone %q", ErrInvalidInput, *req.Timezone)
		}
		settings.Timezone = *req.Timezone
	}

	if req.WeeklyHours != nil {
		if err := validateWeeklyHours(req.WeeklyHours); err != nil {
			return err
		}
		settings.WeeklyHours = req.WeeklyHours
	}

	if req.BufferMinutes != nil {
		if *req.BufferMinutes < 0 {
			return fmt.Errorf("%w: bufferMinutes must not be negative", ErrInvalidInput)
		}
		settings.BufferMinutes = *req.BufferMinutes
	}

	if req.MinAdvanceHours != nil {
		if *req.MinAdvanceHours < 0 {
			return fmt.Errorf("%w: minAdvanceHours must not be negative", ErrInvalidInput)
		}
		settings.MinAdvanceHours = *req.MinAdvanceHours
	}

	if req.MaxAdvanceDays != nil {
		if *req.MaxAdvanceDays <= 0 {
			return fmt.Errorf("%w: maxAdvanceDays must be positive", ErrInvalidInput)
		}
		settings.MaxAdvanceDays = *req.MaxAdvanceDays
	}

	if req.DefaultDurationMinutes != nil {
		if *req.DefaultDurationMinutes < domain.MinDurationMinutes || *req.DefaultDurationMinutes > domain.MaxDurationMinutes {
			return fmt.Errorf("%w: defaultDurationMinutes must be between %d and %d",
				ErrInvalidInput, domain.MinDurationMinutes, domain.MaxDurationMinutes)
		}
		settings.DefaultDurationMinutes = *req.DefaultDurationMinutes
	}

	if req.OnlineBookingEnabled != nil {
		settings.OnlineBookingEnabled = *req.OnlineBookingEnabled
	}

	return nil
}

func validateWeeklyHours(hours domain.WeeklyHours) error {
	for day, dayHours := range hours {
		if !validWeekdayKey(day) {
			return fmt.Errorf("%w: unknown weekday %q", ErrInvalidInput, day)
		}
		if !dayHours.Enabled {
			continue
		}
		if err := dayHours.Start.Validate(); err != nil {
			return fmt.Errorf("%w: invalid start time for %s", ErrInvalidInput, day)
		}
		if err := dayHours.End.Validate(); err != nil {
			return fmt.Errorf("%w: invalid end time for %s", ErrInvalidInput, day)
		}
		if !dayHours.Start.IsBefore(dayHours.End) {
			return fmt.Errorf("%w: start must be before end for %s", ErrInvalidInput, day)
		}
	}
	return nil
}

func validWeekdayKey(day string) bool {
	switch day {
	case "monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday":
		return true
	}
	return false
}
