package accept_proposal

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/mesterhub/MH-SchedulingService/internal/domain"
	proposalRepo "github.com/mesterhub/MH-SchedulingService/internal/infra/storage/proposal"
	threadClient "github.com/mesterhub/MH-SchedulingService/internal/integrations/threadservice"
)

// UseCase use case для принятия предложения клиентом.
// Принятие фиксируется в транзакции с блокировкой строки предложения;
// создание записи и продвижение заявки выполняются после фиксации
// как компенсируемые побочные эффекты.
type UseCase struct {
	proposalRepo  ProposalRepository
	quoteRepo     QuoteRepository
	outboxRepo    OutboxRepository
	appointments  AppointmentService
	calendar      CalendarService
	threadClient  ThreadServiceClient
	requestClient RequestServiceClient
	txManager     TransactionManager
	timeProvider  TimeProvider
	logger        Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	proposalRepo ProposalRepository,
	quoteRepo QuoteRepository,
	outboxRepo OutboxRepository,
	appointments AppointmentService,
	calendar CalendarService,
	threadClient ThreadServiceClient,
	requestClient RequestServiceClient,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		proposalRepo:  proposalRepo,
		quoteRepo:     quoteRepo,
		outboxRepo:    outboxRepo,
		appointments:  appointments,
		calendar:      calendar,
		threadClient:  threadClient,
		requestClient: requestClient,
		txManager:     txManager,
		timeProvider:  &RealTimeProvider{},
		logger:        logger,
	}
}

// Execute выполняет use case принятия предложения
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("AcceptProposal: proposal=%d, user=%d", req.ProposalID, req.UserID)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("AcceptProposal: validation failed: %v", err)
		return nil, err
	}

	var accepted *domain.Proposal

	// 2. Переход статуса под блокировкой строки: из двух конкурентных
	// принятий ровно одно увидит PROPOSED
	err := uc.txManager.Do(ctx, func(txCtx context.Context) error {
		proposal, err := uc.proposalRepo.GetByID(txCtx, req.ProposalID)
		if err != nil {
			if errors.Is(err, proposalRepo.ErrProposalNotFound) {
				return ErrProposalNotFound
			}
			return fmt.Errorf("%w: failed to get proposal: %v", ErrInternal, err)
		}

		if proposal.IsTerminal() {
			uc.logger.Warn("AcceptProposal: proposal id=%d already in terminal status=%s", proposal.ID, proposal.Status)
			return ErrInvalidTransition
		}

		now := uc.timeProvider.Now()

		// Ленивое истечение: просроченное предложение переводится
		// в EXPIRED прямо здесь, принятие отклоняется
		if proposal.IsExpiredAt(now) {
			if err := uc.proposalRepo.UpdateStatus(txCtx, proposal.ID, domain.ProposalStatusExpired); err != nil {
				return fmt.Errorf("%w: failed to apply lazy expiry: %v", ErrInternal, err)
			}
			if err := uc.quoteRepo.UpdateStatus(txCtx, proposal.QuoteID, domain.QuoteStatusWithdrawn); err != nil {
				return fmt.Errorf("%w: failed to withdraw expired quote: %v", ErrInternal, err)
			}
			uc.logger.Info("AcceptProposal: proposal id=%d lazily expired", proposal.ID)
			return ErrProposalExpired
		}

		if !proposal.ProposedStart.After(now) {
			uc.logger.Warn("AcceptProposal: proposed start of proposal id=%d is in the past", proposal.ID)
			return ErrStartInPast
		}

		// Принять предложение может только клиент переписки
		thread, err := uc.threadClient.GetThread(txCtx, proposal.ThreadID)
		if err != nil {
			if errors.Is(err, threadClient.ErrThreadNotFound) {
				return ErrThreadNotFound
			}
			return fmt.Errorf("%w: failed to get thread: %v", ErrInternal, err)
		}

		if thread.CustomerID == nil || *thread.CustomerID != req.UserID {
			return ErrAccessDenied
		}

		if err := uc.proposalRepo.MarkAccepted(txCtx, proposal.ID, req.UserID, req.ResponseMessage); err != nil {
			return fmt.Errorf("%w: failed to mark proposal accepted: %v", ErrInternal, err)
		}

		if err := uc.quoteRepo.UpdateStatus(txCtx, proposal.QuoteID, domain.QuoteStatusAccepted); err != nil {
			return fmt.Errorf("%w: failed to accept quote: %v", ErrInternal, err)
		}

		payload, err := json.Marshal(map[string]interface{}{
			"proposal_id":     proposal.ID,
			"thread_id":       proposal.ThreadID,
			"professional_id": proposal.ProfessionalID,
			"request_id":      proposal.RequestID,
			"customer_id":     req.UserID,
			"proposed_start":  proposal.ProposedStart.Format(time.RFC3339),
		})
		if err != nil {
			return fmt.Errorf("%w: failed to marshal event payload: %v", ErrInternal, err)
		}

		if err := uc.outboxRepo.Enqueue(txCtx, domain.EventProposalAccepted, payload); err != nil {
			return fmt.Errorf("%w: failed to enqueue event: %v", ErrInternal, err)
		}

		accepted = proposal
		accepted.Status = domain.ProposalStatusAccepted
		accepted.CustomerID = &req.UserID
		return nil
	})

	if err != nil {
		return nil, err
	}

	uc.logger.Info("AcceptProposal: successfully accepted proposal id=%d", accepted.ID)

	response := &Response{
		ProposalID:     accepted.ID,
		ProposalStatus: string(accepted.Status),
	}

	// 3. Побочные эффекты после фиксации принятия: сбой логируется
	// и не откатывает принятие, компенсация - идемпотентный повтор
	duration, err := uc.resolveDuration(ctx, accepted)
	if err != nil {
		uc.logger.Error("AcceptProposal: failed to resolve duration for proposal id=%d: %v", accepted.ID, err)
		return response, nil
	}

	appointment, err := uc.appointments.CreateFromProposal(ctx, accepted, req.UserID, duration)
	if err != nil {
		uc.logger.Error("AcceptProposal: failed to create appointment for proposal id=%d: %v", accepted.ID, err)
		return response, nil
	}

	response.AppointmentID = &appointment.ID
	response.ScheduledStart = &appointment.ScheduledStart
	response.ScheduledEnd = &appointment.ScheduledEnd
	response.DurationMinutes = &appointment.DurationMinutes

	if err := uc.requestClient.AdvanceToBooked(ctx, accepted.RequestID, appointment.ID, accepted.ProfessionalID); err != nil {
		uc.logger.Error("AcceptProposal: failed to advance request id=%d: %v", accepted.RequestID, err)
	}

	return response, nil
}

// resolveDuration возвращает длительность записи: из предложения,
// либо дефолтную из настроек календаря мастера
func (uc *UseCase) resolveDuration(ctx context.Context, proposal *domain.Proposal) (int, error) {
	if proposal.DurationMinutes != nil {
		return *proposal.DurationMinutes, nil
	}

	settings, err := uc.calendar.GetDomainSettings(ctx, proposal.ProfessionalID)
	if err != nil {
		return 0, err
	}

	return settings.DefaultDurationMinutes, nil
}
