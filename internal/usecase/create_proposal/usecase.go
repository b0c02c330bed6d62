package create_proposal

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/mesterhub/MH-SchedulingService/internal/domain"
	threadClient "github.com/mesterhub/MH-SchedulingService/internal/integrations/threadservice"
)

// UseCase use case для создания предложения времени и цены
type UseCase struct {
	proposalRepo ProposalRepository
	quoteRepo    QuoteRepository
	outboxRepo   OutboxRepository
	threadClient ThreadServiceClient
	leadClient   LeadServiceClient
	txManager    TransactionManager
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	proposalRepo ProposalRepository,
	quoteRepo QuoteRepository,
	outboxRepo OutboxRepository,
	threadClient ThreadServiceClient,
	leadClient LeadServiceClient,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		proposalRepo: proposalRepo,
		quoteRepo:    quoteRepo,
		outboxRepo:   outboxRepo,
		threadClient: threadClient,
		leadClient:   leadClient,
		txManager:    txManager,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute выполняет use case создания предложения.
// Предложение и квота создаются в одной транзакции вместе с outbox
// событием proposal.created.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateProposal: user=%d, thread=%d, start=%s",
		req.UserID, req.ThreadID, req.ProposedStart.Format(time.RFC3339))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateProposal: validation failed: %v", err)
		return nil, err
	}

	now := uc.timeProvider.Now()

	// 2. Предложенное время должно быть в будущем
	if !req.ProposedStart.After(now) {
		uc.logger.Warn("CreateProposal: proposed start %s is in the past", req.ProposedStart.Format(time.RFC3339))
		return nil, ErrStartInPast
	}

	// 3. Переписка должна существовать и принадлежать мастеру
	thread, err := uc.threadClient.GetThread(ctx, req.ThreadID)
	if err != nil {
		if errors.Is(err, threadClient.ErrThreadNotFound) {
			uc.logger.Warn("CreateProposal: thread id=%d not found", req.ThreadID)
			return nil, ErrThreadNotFound
		}
		uc.logger.Error("CreateProposal: failed to get thread id=%d: %v", req.ThreadID, err)
		return nil, fmt.Errorf("%w: failed to get thread: %v", ErrInternal, err)
	}

	if thread.ProfessionalID != req.UserID {
		uc.logger.Warn("CreateProposal: thread id=%d does not belong to professional id=%d", req.ThreadID, req.UserID)
		return nil, ErrAccessDenied
	}

	// 4. Монетизация: предложение доступно только после выкупа заявки
	purchased, err := uc.leadClient.HasPurchasedLead(ctx, req.UserID, thread.RequestID)
	if err != nil {
		uc.logger.Error("CreateProposal: failed to check lead access for professional=%d, request=%d: %v",
			req.UserID, thread.RequestID, err)
		return nil, fmt.Errorf("%w: failed to check lead access: %v", ErrInternal, err)
	}
	if !purchased {
		uc.logger.Warn("CreateProposal: lead not purchased by professional=%d for request=%d", req.UserID, thread.RequestID)
		return nil, ErrLeadNotPurchased
	}

	var result *domain.Proposal
	var quote *domain.Quote

	// 5. Квота, предложение и outbox событие в одной транзакции
	err = uc.txManager.Do(ctx, func(txCtx context.Context) error {
		quote, err = uc.quoteRepo.Create(txCtx, &domain.Quote{
			Price:    req.Price,
			Currency: req.Currency,
			Message:  req.QuoteMessage,
			Status:   domain.QuoteStatusPending,
		})
		if err != nil {
			uc.logger.Error("CreateProposal: failed to create quote: %v", err)
			return fmt.Errorf("%w: failed to create quote: %v", ErrInternal, err)
		}

		expiresAt := now.AddDate(0, 0, domain.ProposalExpiryDays)

		proposal := &domain.Proposal{
			ThreadID:        req.ThreadID,
			ProfessionalID:  req.UserID,
			RequestID:       thread.RequestID,
			CustomerID:      thread.CustomerID,
			ProposedStart:   req.ProposedStart,
			DurationMinutes: req.DurationMinutes,
			Location:        req.Location,
			Notes:           req.Notes,
			QuoteID:         quote.ID,
			Status:          domain.ProposalStatusProposed,
			ExpiresAt:       &expiresAt,
		}

		result, err = uc.proposalRepo.Create(txCtx, proposal)
		if err != nil {
			uc.logger.Error("CreateProposal: failed to create proposal: %v", err)
			return fmt.Errorf("%w: failed to create proposal: %v", ErrInternal, err)
		}

		payload, err := json.Marshal(map[string]interface{}{
			"proposal_id":     result.ID,
			"thread_id":       result.ThreadID,
			"professional_id": result.ProfessionalID,
			"request_id":      result.RequestID,
			"proposed_start":  result.ProposedStart.Format(time.RFC3339),
		})
		if err != nil {
			return fmt.Errorf("%w: failed to marshal event payload: %v", ErrInternal, err)
		}

		if err := uc.outboxRepo.Enqueue(txCtx, domain.EventProposalCreated, payload); err != nil {
			uc.logger.Error("CreateProposal: failed to enqueue event: %v", err)
			return fmt.Errorf("%w: failed to enqueue event: %v", ErrInternal, err)
		}

		return nil
	})

	if err != nil {
		return nil, err
	}

	uc.logger.Info("CreateProposal: successfully created proposal id=%d with quote id=%d", result.ID, quote.ID)

	return &Response{
		ID:              result.ID,
		ThreadID:        result.ThreadID,
		ProfessionalID:  result.ProfessionalID,
		RequestID:       result.RequestID,
		ProposedStart:   result.ProposedStart,
		DurationMinutes: result.DurationMinutes,
		Location:        result.Location,
		Notes:           result.Notes,
		QuoteID:         quote.ID,
		Price:           quote.Price,
		Currency:        quote.Currency,
		Status:          string(result.Status),
		ExpiresAt:       *result.ExpiresAt,
		CreatedAt:       result.CreatedAt,
	}, nil
}
