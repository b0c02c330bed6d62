package appointments

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mesterhub/MH-SchedulingService/internal/domain"
	appointmentRepo "github.com/mesterhub/MH-SchedulingService/internal/infra/storage/appointment"
	"github.com/mesterhub/MH-SchedulingService/internal/integrations/jobservice"
	"github.com/mesterhub/MH-SchedulingService/internal/service/appointments/models"
)

// Service сервис для работы с записями
type Service struct {
	appointmentRepo AppointmentRepository
	reminders       ReminderScheduler
	jobClient       JobServiceClient
	txManager       TransactionManager
	timeProvider    TimeProvider
	logger          Logger
}

// NewService создает новый экземпляр сервиса записей
func NewService(
	appointmentRepo AppointmentRepository,
	reminders ReminderScheduler,
	jobClient JobServiceClient,
	txManager TransactionManager,
	timeProvider TimeProvider,
	logger Logger,
) *Service {
	return &Service{
		appointmentRepo: appointmentRepo,
		reminders:       reminders,
		jobClient:       jobClient,
		txManager:       txManager,
		timeProvider:    timeProvider,
		logger:          logger,
	}
}

// CreateFromProposal создает запись из принятого предложения.
// Вызывается после фиксации принятия как компенсируемый побочный эффект.
// Идемпотентность обеспечивается уникальным индексом по proposal_id:
// при конфликте возвращается существующая запись без ошибки.
func (s *Service) CreateFromProposal(ctx context.Context, proposal *domain.Proposal, customerID int64, durationMinutes int) (*domain.Appointment, error) {
	s.logger.Info("CreateFromProposal: creating appointment from proposal id=%d", proposal.ID)

	if proposal.Status != domain.ProposalStatusAccepted {
		return nil, ErrProposalNotAccepted
	}

	now := s.timeProvider.Now()
	appointment := &domain.Appointment{
		ProposalID:            proposal.ID,
		ThreadID:              proposal.ThreadID,
		ProfessionalID:        proposal.ProfessionalID,
		CustomerID:            customerID,
		RequestID:             proposal.RequestID,
		ScheduledStart:        proposal.ProposedStart,
		ScheduledEnd:          proposal.ProposedStart.Add(minutes(durationMinutes)),
		DurationMinutes:       durationMinutes,
		LocationAddress:       proposal.Location,
		ProfessionalNotes:     proposal.Notes,
		Status:                domain.StatusConfirmed,
		ConfirmedByCustomerAt: &now,
	}

	created, err := s.appointmentRepo.Create(ctx, appointment)
	if err != nil {
		if errors.Is(err, appointmentRepo.ErrDuplicateProposal) {
			s.logger.Warn("CreateFromProposal: appointment for proposal id=%d already exists, returning existing", proposal.ID)
			return s.appointmentRepo.GetByProposalID(ctx, proposal.ID)
		}
		s.logger.Error("CreateFromProposal: repository error for proposal id=%d: %v", proposal.ID, err)
		return nil, fmt.Errorf("%w: CreateFromProposal - repository error: %v", ErrInternal, err)
	}

	// Best-effort: сбой побочных эффектов не отменяет созданную запись
	if err := s.reminders.ScheduleFor(ctx, created); err != nil {
		s.logger.Error("CreateFromProposal: failed to schedule reminders for appointment id=%d: %v", created.ID, err)
	}

	_, err = s.jobClient.EnsureJobForAppointment(ctx, jobservice.EnsureJobRequest{
		AppointmentID:  created.ID,
		ProfessionalID: created.ProfessionalID,
		CustomerID:     created.CustomerID,
		RequestID:      created.RequestID,
		ScheduledStart: created.ScheduledStart,
		ScheduledEnd:   created.ScheduledEnd,
	})
	if err != nil {
		s.logger.Error("CreateFromProposal: failed to ensure job for appointment id=%d: %v", created.ID, err)
	}

	s.logger.Info("CreateFromProposal: created appointment id=%d from proposal id=%d", created.ID, proposal.ID)
	return created, nil
}

// GetByID получает запись по ID.
// Запись видна только её участникам - клиенту и мастеру.
func (s *Service) GetByID(ctx context.Context, id int64, userID int64) (*models.AppointmentResponse, error) {
	s.logger.Info("GetByID: fetching appointment id=%d for user=%d", id, userID)

	appointment, err := s.appointmentRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			s.logger.Warn("GetByID: appointment id=%d not found", id)
			return nil, ErrAppointmentNotFound
		}
		s.logger.Error("GetByID: repository error for appointment id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %v", ErrInternal, err)
	}

	if !isParticipant(appointment, userID) {
		s.logger.Warn("GetByID: access denied for user=%d to appointment id=%d", userID, id)
		return nil, ErrAccessDenied
	}

	return models.FromDomainAppointment(appointment), nil
}

// List получает записи с фильтрацией.
// Пользователь может запрашивать только записи, где он сам является
// клиентом или мастером.
func (s *Service) List(ctx context.Context, req *models.ListAppointmentsRequest) (*models.AppointmentListResponse, error) {
	s.logger.Info("List: fetching appointments for user=%d", req.UserID)

	if req.ProfessionalID == nil && req.CustomerID == nil {
		return nil, fmt.Errorf("%w: either professionalId or customerId is required", ErrInvalidInput)
	}

	ownsProfessionalFilter := req.ProfessionalID != nil && *req.ProfessionalID == req.UserID
	ownsCustomerFilter := req.CustomerID != nil && *req.CustomerID == req.UserID
	if !ownsProfessionalFilter && !ownsCustomerFilter {
		s.logger.Warn("List: access denied for user=%d", req.UserID)
		return nil, ErrAccessDenied
	}

	filter, err := req.ToDomainFilter()
	if err != nil {
		s.logger.Warn("List: invalid filter for user=%d: %v", req.UserID, err)
		return nil, fmt.Errorf("%w: invalid status", ErrInvalidInput)
	}

	appointments, err := s.appointmentRepo.List(ctx, filter)
	if err != nil {
		s.logger.Error("List: repository error for user=%d: %v", req.UserID, err)
		return nil, fmt.Errorf("%w: List - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("List: successfully fetched %d appointments for user=%d", len(appointments), req.UserID)
	return models.FromDomainAppointmentList(appointments), nil
}

// Cancel отменяет запись. Статус отмены зависит от инициатора:
// клиент получает CANCELLED_BY_CUSTOMER, мастер - CANCELLED_BY_PROFESSIONAL.
// Все запланированные напоминания записи отменяются в той же транзакции.
func (s *Service) Cancel(ctx context.Context, appointmentID int64, req *models.CancelAppointmentRequest) error {
	s.logger.Info("Cancel: cancelling appointment id=%d by user=%d", appointmentID, req.UserID)

	var appointment *domain.Appointment

	err := s.txManager.Do(ctx, func(ctx context.Context) error {
		var err error
		appointment, err = s.appointmentRepo.GetByID(ctx, appointmentID)
		if err != nil {
			if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
				return ErrAppointmentNotFound
			}
			return fmt.Errorf("%w: Cancel - repository error: %v", ErrInternal, err)
		}

		var cancelStatus domain.AppointmentStatus
		switch req.UserID {
		case appointment.CustomerID:
			cancelStatus = domain.StatusCancelledByCustomer
		case appointment.ProfessionalID:
			cancelStatus = domain.StatusCancelledByProfessional
		default:
			return ErrAccessDenied
		}

		if !appointment.CanBeCancelled() {
			return ErrCannotCancel
		}

		if err := s.appointmentRepo.Cancel(ctx, appointmentID, cancelStatus, req.Reason, s.timeProvider.Now()); err != nil {
			return fmt.Errorf("%w: Cancel - repository error: %v", ErrInternal, err)
		}

		cancelled, err := s.reminders.CancelAll(ctx, appointmentID)
		if err != nil {
			return fmt.Errorf("%w: Cancel - cancel reminders: %v", ErrInternal, err)
		}

		s.logger.Info("Cancel: cancelled appointment id=%d, %d reminders cancelled", appointmentID, cancelled)
		return nil
	})
	if err != nil {
		s.logger.Warn("Cancel: failed for appointment id=%d: %v", appointmentID, err)
		return err
	}

	// Best-effort: продвижение джобы не откатывает отмену
	if err := s.jobClient.AdvanceJob(ctx, appointmentID, "cancelled"); err != nil {
		s.logger.Error("Cancel: failed to advance job for appointment id=%d: %v", appointmentID, err)
	}

	return nil
}

// Complete помечает запись завершённой. Доступно только мастеру.
// Завершить можно только CONFIRMED или RESCHEDULED запись.
func (s *Service) Complete(ctx context.Context, appointmentID int64, req *models.CompleteAppointmentRequest) error {
	s.logger.Info("Complete: completing appointment id=%d by user=%d", appointmentID, req.UserID)

	var appointment *domain.Appointment

	err := s.txManager.Do(ctx, func(ctx context.Context) error {
		var err error
		appointment, err = s.appointmentRepo.GetByID(ctx, appointmentID)
		if err != nil {
			if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
				return ErrAppointmentNotFound
			}
			return fmt.Errorf("%w: Complete - repository error: %v", ErrInternal, err)
		}

		if appointment.ProfessionalID != req.UserID {
			return ErrAccessDenied
		}

		if !appointment.CanBeCompleted() {
			return ErrCannotComplete
		}

		if err := s.appointmentRepo.Complete(ctx, appointmentID, s.timeProvider.Now(), req.Notes); err != nil {
			return fmt.Errorf("%w: Complete - repository error: %v", ErrInternal, err)
		}

		return nil
	})
	if err != nil {
		s.logger.Warn("Complete: failed for appointment id=%d: %v", appointmentID, err)
		return err
	}

	// Best-effort: продвижение джобы не откатывает завершение
	if err := s.jobClient.AdvanceJob(ctx, appointmentID, "completed"); err != nil {
		s.logger.Error("Complete: failed to advance job for appointment id=%d: %v", appointmentID, err)
	}

	s.logger.Info("Complete: successfully completed appointment id=%d", appointmentID)
	return nil
}

// MarkNoShow помечает запись как неявку клиента. Доступно только мастеру
// и только после наступления времени начала записи.
func (s *Service) MarkNoShow(ctx context.Context, appointmentID int64, userID int64) error {
	s.logger.Info("MarkNoShow: marking appointment id=%d as no-show by user=%d", appointmentID, userID)

	err := s.txManager.Do(ctx, func(ctx context.Context) error {
		appointment, err := s.appointmentRepo.GetByID(ctx, appointmentID)
		if err != nil {
			if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
				return ErrAppointmentNotFound
			}
			return fmt.Errorf("%w: MarkNoShow - repository error: %v", ErrInternal, err)
		}

		if appointment.ProfessionalID != userID {
			return ErrAccessDenied
		}

		if appointment.Status != domain.StatusConfirmed {
			return ErrCannotMarkNoShow
		}

		if s.timeProvider.Now().Before(appointment.ScheduledStart) {
			return ErrNotStartedYet
		}

		if err := s.appointmentRepo.UpdateStatus(ctx, appointmentID, domain.StatusNoShow); err != nil {
			return fmt.Errorf("%w: MarkNoShow - repository error: %v", ErrInternal, err)
		}

		return nil
	})
	if err != nil {
		s.logger.Warn("MarkNoShow: failed for appointment id=%d: %v", appointmentID, err)
		return err
	}

	s.logger.Info("MarkNoShow: successfully marked appointment id=%d as no-show", appointmentID)
	return nil
}

func isParticipant(appointment *domain.Appointment, userID int64) bool {
	return appointment.CustomerID == userID || appointment.ProfessionalID == userID
}

func minutes(n int) time.Duration {
	return time.Duration(n) * time.Minute
}
