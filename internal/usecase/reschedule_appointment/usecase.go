package reschedule_appointment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mesterhub/MH-SchedulingService/internal/domain"
	appointmentRepo "github.com/mesterhub/MH-SchedulingService/internal/infra/storage/appointment"
)

// UseCase use case для переноса записи.
// Перенос никогда не меняет время существующей строки: в одной транзакции
// создаётся новая строка с копией идентифицирующих полей, старая помечается
// RESCHEDULED и связывается с новой, напоминания старой строки отменяются,
// для новой - создаются заново.
type UseCase struct {
	appointmentRepo AppointmentRepository
	reminders       ReminderScheduler
	txManager       TransactionManager
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	appointmentRepo AppointmentRepository,
	reminders ReminderScheduler,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		appointmentRepo: appointmentRepo,
		reminders:       reminders,
		txManager:       txManager,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// Execute выполняет use case переноса записи
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("RescheduleAppointment: appointment=%d, user=%d, newStart=%s",
		req.AppointmentID, req.UserID, req.NewStart.Format(time.RFC3339))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("RescheduleAppointment: validation failed: %v", err)
		return nil, err
	}

	var created *domain.Appointment

	// 2. Перенос под блокировкой строки: из двух конкурентных переносов
	// одной записи ровно один увидит голову цепочки
	err := uc.txManager.Do(ctx, func(txCtx context.Context) error {
		current, err := uc.appointmentRepo.GetByID(txCtx, req.AppointmentID)
		if err != nil {
			if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
				return ErrAppointmentNotFound
			}
			return fmt.Errorf("%w: failed to get appointment: %v", ErrInternal, err)
		}

		// Перенести запись может любой из её участников
		if current.ProfessionalID != req.UserID && current.CustomerID != req.UserID {
			return ErrAccessDenied
		}

		// Переносится только актуальная голова цепочки: уже перенесённые,
		// отменённые и завершённые записи остаются как история
		if !current.IsChainHead() {
			uc.logger.Warn("RescheduleAppointment: appointment id=%d is not reschedulable, status=%s",
				current.ID, current.Status)
			return ErrNotChainHead
		}

		now := uc.timeProvider.Now()
		if !req.NewStart.After(now) {
			return ErrStartInPast
		}

		duration := current.DurationMinutes
		if req.DurationMinutes != nil {
			duration = *req.DurationMinutes
		}

		successor := &domain.Appointment{
			ProposalID:     current.ProposalID,
			ThreadID:       current.ThreadID,
			ProfessionalID: current.ProfessionalID,
			CustomerID:     current.CustomerID,
			RequestID:      current.RequestID,

			ScheduledStart:  req.NewStart,
			ScheduledEnd:    req.NewStart.Add(time.Duration(duration) * time.Minute),
			DurationMinutes: duration,

			LocationAddress: current.LocationAddress,
			LocationLat:     current.LocationLat,
			LocationLng:     current.LocationLng,

			ProfessionalNotes: current.ProfessionalNotes,
			CustomerNotes:     current.CustomerNotes,
			InternalNotes:     req.Reason,

			Status:            domain.StatusConfirmed,
			RescheduledFromID: &current.ID,
		}

		created, err = uc.appointmentRepo.Create(txCtx, successor)
		if err != nil {
			return fmt.Errorf("%w: failed to create successor appointment: %v", ErrInternal, err)
		}

		if err := uc.appointmentRepo.MarkRescheduled(txCtx, current.ID, created.ID); err != nil {
			return fmt.Errorf("%w: failed to mark appointment rescheduled: %v", ErrInternal, err)
		}

		// Напоминания переводятся на новую строку в той же транзакции:
		// у отменённой/перенесённой записи не остаётся активных напоминаний
		if _, err := uc.reminders.CancelAll(txCtx, current.ID); err != nil {
			return fmt.Errorf("%w: failed to cancel reminders: %v", ErrInternal, err)
		}

		if err := uc.reminders.ScheduleFor(txCtx, created); err != nil {
			return fmt.Errorf("%w: failed to schedule reminders: %v", ErrInternal, err)
		}

		return nil
	})

	if err != nil {
		return nil, err
	}

	uc.logger.Info("RescheduleAppointment: appointment id=%d rescheduled to id=%d",
		req.AppointmentID, created.ID)

	return &Response{
		AppointmentID:     created.ID,
		RescheduledFromID: req.AppointmentID,
		Status:            string(created.Status),
		ScheduledStart:    created.ScheduledStart,
		ScheduledEnd:      created.ScheduledEnd,
		DurationMinutes:   created.DurationMinutes,
	}, nil
}
