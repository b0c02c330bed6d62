package get_open_slots

import (
	"context"
	"fmt"
	"time"

	"github.com/mesterhub/MH-SchedulingService/internal/domain"
)

// UseCase use case для расчёта доступных слотов мастера на день
type UseCase struct {
	appointmentRepo AppointmentRepository
	calendarRepo    CalendarRepository
	calendar        CalendarService
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	appointmentRepo AppointmentRepository,
	calendarRepo CalendarRepository,
	calendar CalendarService,
	logger Logger,
) *UseCase {
	return &UseCase{
		appointmentRepo: appointmentRepo,
		calendarRepo:    calendarRepo,
		calendar:        calendar,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// Execute выполняет use case расчёта доступных слотов
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetOpenSlots: professional=%d, date=%s",
		req.ProfessionalID, req.Date.Format(domain.DateFormat))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetOpenSlots: validation failed: %v", err)
		return nil, err
	}

	// 2. Настройки календаря (создаются лениво с дефолтами)
	settings, err := uc.calendar.GetDomainSettings(ctx, req.ProfessionalID)
	if err != nil {
		uc.logger.Error("GetOpenSlots: failed to get settings for professional=%d: %v", req.ProfessionalID, err)
		return nil, fmt.Errorf("%w: failed to get calendar settings: %v", ErrInternal, err)
	}

	loc, err := time.LoadLocation(settings.Timezone)
	if err != nil {
		uc.logger.Warn("GetOpenSlots: unknown timezone %q for professional=%d, falling back to UTC",
			settings.Timezone, req.ProfessionalID)
		loc = time.UTC
	}

	now := uc.timeProvider.Now().In(loc)
	date := req.Date.In(loc)

	duration := settings.DefaultDurationMinutes
	if req.DurationMinutes != nil {
		duration = *req.DurationMinutes
	}

	response := &Response{
		ProfessionalID:  req.ProfessionalID,
		Date:            date.Format(domain.DateFormat),
		Timezone:        loc.String(),
		DurationMinutes: duration,
		Slots:           []Slot{},
	}

	// 3. Дата за горизонтом бронирования - ошибка, дата в прошлом - пустой ответ
	if err := validateDate(date, now, settings.MaxAdvanceDays); err != nil {
		uc.logger.Warn("GetOpenSlots: date validation failed: %v", err)
		return nil, err
	}
	if isDateInPast(date, now) {
		return response, nil
	}

	// 4. Рабочее окно дня из недельного расписания
	dayHours, open := settings.HoursFor(date.Weekday())
	if !open {
		uc.logger.Info("GetOpenSlots: professional=%d is not working on %s", req.ProfessionalID, response.Date)
		return response, nil
	}

	windowStart, err := dayHours.Start.At(date, loc)
	if err != nil {
		uc.logger.Error("GetOpenSlots: invalid working hours start for professional=%d: %v", req.ProfessionalID, err)
		return nil, fmt.Errorf("%w: invalid working hours: %v", ErrInternal, err)
	}
	windowEnd, err := dayHours.End.At(date, loc)
	if err != nil {
		uc.logger.Error("GetOpenSlots: invalid working hours end for professional=%d: %v", req.ProfessionalID, err)
		return nil, fmt.Errorf("%w: invalid working hours: %v", ErrInternal, err)
	}
	if !windowStart.Before(windowEnd) {
		return response, nil
	}

	// Запрошенная длительность не помещается в рабочее окно целиком
	if windowStart.Add(time.Duration(duration) * time.Minute).After(windowEnd) {
		uc.logger.Info("GetOpenSlots: duration %d does not fit the working window for professional=%d",
			duration, req.ProfessionalID)
		return response, nil
	}

	// 5. Занятые интервалы: записи дня с буфером и блоки недоступности
	dayStart := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, loc)
	dayEnd := dayStart.AddDate(0, 0, 1)

	appointments, err := uc.appointmentRepo.ListIntersecting(ctx, req.ProfessionalID, dayStart, dayEnd)
	if err != nil {
		uc.logger.Error("GetOpenSlots: failed to list appointments for professional=%d: %v", req.ProfessionalID, err)
		return nil, fmt.Errorf("%w: failed to list appointments: %v", ErrInternal, err)
	}

	overrides, err := uc.calendarRepo.ListOverrides(ctx, req.ProfessionalID, dayStart, dayEnd)
	if err != nil {
		uc.logger.Error("GetOpenSlots: failed to list overrides for professional=%d: %v", req.ProfessionalID, err)
		return nil, fmt.Errorf("%w: failed to list overrides: %v", ErrInternal, err)
	}

	busy := collectBusyPeriods(appointments, overrides, settings.BufferMinutes)

	// 6. Перебор кандидатов с фиксированным шагом от начала окна
	earliest := maxTime(windowStart, now.Add(time.Duration(settings.MinAdvanceHours)*time.Hour))
	openSlots := scanSlots(windowStart, windowEnd, earliest, time.Duration(duration)*time.Minute, busy)

	response.Slots = make([]Slot, 0, len(openSlots))
	for _, slot := range openSlots {
		response.Slots = append(response.Slots, Slot{Start: slot.Start, End: slot.End})
	}

	uc.logger.Info("GetOpenSlots: found %d slots for professional=%d on %s",
		len(response.Slots), req.ProfessionalID, response.Date)
	return response, nil
}
