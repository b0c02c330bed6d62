package reminders

import (
	"context"
	"fmt"
	"time"

	"github.com/mesterhub/MH-SchedulingService/internal/domain"
	"github.com/mesterhub/MH-SchedulingService/internal/integrations/notifyservice"
)

// DefaultDispatchLimit максимальный размер пачки за один проход доставки
const DefaultDispatchLimit = 100

// Service сервис для работы с напоминаниями
type Service struct {
	reminderRepo ReminderRepository
	notifyClient NotifyServiceClient
	txManager    TransactionManager
	timeProvider TimeProvider
	logger       Logger
}

// NewService создает новый экземпляр сервиса напоминаний
func NewService(
	reminderRepo ReminderRepository,
	notifyClient NotifyServiceClient,
	txManager TransactionManager,
	timeProvider TimeProvider,
	logger Logger,
) *Service {
	return &Service{
		reminderRepo: reminderRepo,
		notifyClient: notifyClient,
		txManager:    txManager,
		timeProvider: timeProvider,
		logger:       logger,
	}
}

// ScheduleFor создает напоминания для записи: за сутки и за час до начала,
// обоим участникам. Напоминания с моментом отправки в прошлом не создаются -
// для записи на ближайший час пачка может оказаться пустой.
func (s *Service) ScheduleFor(ctx context.Context, appointment *domain.Appointment) error {
	now := s.timeProvider.Now()
	reminders := BuildReminders(appointment, now)

	if err := s.reminderRepo.CreateBatch(ctx, reminders); err != nil {
		s.logger.Error("ScheduleFor: failed to create reminders for appointment id=%d: %v", appointment.ID, err)
		return fmt.Errorf("%w: ScheduleFor - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("ScheduleFor: scheduled %d reminders for appointment id=%d", len(reminders), appointment.ID)
	return nil
}

// CancelAll отменяет все запланированные напоминания записи.
// Вызывается при отмене и переносе записи.
func (s *Service) CancelAll(ctx context.Context, appointmentID int64) (int64, error) {
	cancelled, err := s.reminderRepo.CancelAllScheduled(ctx, appointmentID)
	if err != nil {
		s.logger.Error("CancelAll: failed to cancel reminders for appointment id=%d: %v", appointmentID, err)
		return 0, fmt.Errorf("%w: CancelAll - repository error: %v", ErrInternal, err)
	}

	return cancelled, nil
}

// DispatchDue доставляет наступившие напоминания через NotifyService.
// Выполняется в транзакции: SKIP LOCKED в выборке защищает от двойной
// доставки конкурентными вызовами джоба. Сбой доставки одного напоминания
// помечает его FAILED и не прерывает остальные.
func (s *Service) DispatchDue(ctx context.Context, limit uint64) (sent int, failed int, err error) {
	if limit == 0 {
		limit = DefaultDispatchLimit
	}

	err = s.txManager.Do(ctx, func(ctx context.Context) error {
		now := s.timeProvider.Now()

		due, err := s.reminderRepo.ListDue(ctx, now, limit)
		if err != nil {
			return fmt.Errorf("%w: DispatchDue - list due reminders: %v", ErrInternal, err)
		}

		for _, reminder := range due {
			if sendErr := s.deliver(ctx, reminder); sendErr != nil {
				s.logger.Error("DispatchDue: failed to deliver reminder id=%d: %v", reminder.ID, sendErr)
				if markErr := s.reminderRepo.MarkFailed(ctx, reminder.ID, sendErr.Error()); markErr != nil {
					return fmt.Errorf("%w: DispatchDue - mark failed: %v", ErrInternal, markErr)
				}
				failed++
				continue
			}

			if markErr := s.reminderRepo.MarkSent(ctx, reminder.ID, s.timeProvider.Now()); markErr != nil {
				return fmt.Errorf("%w: DispatchDue - mark sent: %v", ErrInternal, markErr)
			}
			sent++
		}

		return nil
	})
	if err != nil {
		return 0, 0, err
	}

	if sent > 0 || failed > 0 {
		s.logger.Info("DispatchDue: dispatched %d reminders, %d failed", sent, failed)
	}
	return sent, failed, nil
}

func (s *Service) deliver(ctx context.Context, reminder *domain.Reminder) error {
	return s.notifyClient.SendReminder(ctx, notifyservice.ReminderNotification{
		ReminderID:    reminder.ID,
		AppointmentID: reminder.AppointmentID,
		RecipientType: string(reminder.RecipientType),
		RecipientID:   reminder.RecipientID,
		MinutesBefore: reminder.MinutesBefore,
		SendEmail:     reminder.SendEmail,
		SendSMS:       reminder.SendSMS,
		SendPush:      reminder.SendPush,
	})
}

// BuildReminders строит набор напоминаний для записи: каждое смещение
// для каждого участника. Моменты отправки в прошлом отбрасываются.
func BuildReminders(appointment *domain.Appointment, now time.Time) []*domain.Reminder {
	recipients := []struct {
		recipientType domain.RecipientType
		recipientID   int64
	}{
		{domain.RecipientCustomer, appointment.CustomerID},
		{domain.RecipientProfessional, appointment.ProfessionalID},
	}

	reminders := make([]*domain.Reminder, 0, len(domain.ReminderOffsetsMinutes)*len(recipients))
	for _, offset := range domain.ReminderOffsetsMinutes {
		remindAt := appointment.ScheduledStart.Add(-time.Duration(offset) * time.Minute)
		if !remindAt.After(now) {
			continue
		}

		for _, recipient := range recipients {
			reminders = append(reminders, &domain.Reminder{
				AppointmentID: appointment.ID,
				RecipientType: recipient.recipientType,
				RecipientID:   recipient.recipientID,
				RemindAt:      remindAt,
				MinutesBefore: offset,
				SendEmail:     true,
				SendPush:      true,
				Status:        domain.ReminderStatusScheduled,
			})
		}
	}

	return reminders
}
