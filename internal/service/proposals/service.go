package proposals

import (
	"context"
	"errors"
	"fmt"

	"github.com/mesterhub/MH-SchedulingService/internal/domain"
	proposalRepo "github.com/mesterhub/MH-SchedulingService/internal/infra/storage/proposal"
	threadClient "github.com/mesterhub/MH-SchedulingService/internal/integrations/threadservice"
	"github.com/mesterhub/MH-SchedulingService/internal/service/proposals/models"
)

// Service сервис для работы с предложениями
type Service struct {
	proposalRepo ProposalRepository
	quoteRepo    QuoteRepository
	threadClient ThreadServiceClient
	txManager    TransactionManager
	timeProvider TimeProvider
	logger       Logger
}

// NewService создает новый экземпляр сервиса предложений
func NewService(
	proposalRepo ProposalRepository,
	quoteRepo QuoteRepository,
	threadClient ThreadServiceClient,
	txManager TransactionManager,
	timeProvider TimeProvider,
	logger Logger,
) *Service {
	return &Service{
		proposalRepo: proposalRepo,
		quoteRepo:    quoteRepo,
		threadClient: threadClient,
		txManager:    txManager,
		timeProvider: timeProvider,
		logger:       logger,
	}
}

// Reject отклоняет предложение. Доступно только клиенту переписки.
// Отклонение терминально: повторное принятие того же предложения невозможно.
func (s *Service) Reject(ctx context.Context, proposalID int64, req *models.RejectProposalRequest) error {
	s.logger.Info("Reject: rejecting proposal id=%d by user=%d", proposalID, req.UserID)

	err := s.txManager.Do(ctx, func(ctx context.Context) error {
		proposal, err := s.lockProposed(ctx, proposalID)
		if err != nil {
			return err
		}

		thread, err := s.threadClient.GetThread(ctx, proposal.ThreadID)
		if err != nil {
			if errors.Is(err, threadClient.ErrThreadNotFound) {
				return ErrThreadNotFound
			}
			return fmt.Errorf("%w: Reject - failed to get thread: %v", ErrInternal, err)
		}

		if thread.CustomerID == nil || *thread.CustomerID != req.UserID {
			return ErrAccessDenied
		}

		if err := s.proposalRepo.MarkResponded(ctx, proposalID, domain.ProposalStatusRejected, req.ResponseMessage); err != nil {
			return fmt.Errorf("%w: Reject - repository error: %v", ErrInternal, err)
		}

		if err := s.quoteRepo.UpdateStatus(ctx, proposal.QuoteID, domain.QuoteStatusWithdrawn); err != nil {
			return fmt.Errorf("%w: Reject - withdraw quote: %v", ErrInternal, err)
		}

		return nil
	})
	if err != nil {
		s.logger.Warn("Reject: failed for proposal id=%d: %v", proposalID, err)
		return err
	}

	s.logger.Info("Reject: successfully rejected proposal id=%d", proposalID)
	return nil
}

// Cancel отзывает предложение. Доступно только мастеру-автору,
// пока предложение остаётся PROPOSED.
func (s *Service) Cancel(ctx context.Context, proposalID int64, userID int64) error {
	s.logger.Info("Cancel: cancelling proposal id=%d by user=%d", proposalID, userID)

	err := s.txManager.Do(ctx, func(ctx context.Context) error {
		proposal, err := s.lockProposed(ctx, proposalID)
		if err != nil {
			return err
		}

		if proposal.ProfessionalID != userID {
			return ErrAccessDenied
		}

		if err := s.proposalRepo.UpdateStatus(ctx, proposalID, domain.ProposalStatusCancelled); err != nil {
			return fmt.Errorf("%w: Cancel - repository error: %v", ErrInternal, err)
		}

		if err := s.quoteRepo.UpdateStatus(ctx, proposal.QuoteID, domain.QuoteStatusWithdrawn); err != nil {
			return fmt.Errorf("%w: Cancel - withdraw quote: %v", ErrInternal, err)
		}

		return nil
	})
	if err != nil {
		s.logger.Warn("Cancel: failed for proposal id=%d: %v", proposalID, err)
		return err
	}

	s.logger.Info("Cancel: successfully cancelled proposal id=%d", proposalID)
	return nil
}

// List получает предложения с фильтрацией. Мастер видит свои предложения,
// участники переписки - предложения переписки.
func (s *Service) List(ctx context.Context, req *models.ListProposalsRequest) (*models.ProposalListResponse, error) {
	s.logger.Info("List: fetching proposals for user=%d", req.UserID)

	if req.ThreadID == nil && req.ProfessionalID == nil {
		return nil, fmt.Errorf("%w: either threadId or professionalId is required", ErrInvalidInput)
	}

	if err := s.checkListAccess(ctx, req); err != nil {
		s.logger.Warn("List: access denied for user=%d", req.UserID)
		return nil, err
	}

	filter, err := req.ToDomainFilter()
	if err != nil {
		s.logger.Warn("List: invalid filter for user=%d: %v", req.UserID, err)
		return nil, fmt.Errorf("%w: invalid status", ErrInvalidInput)
	}

	proposals, err := s.proposalRepo.List(ctx, filter)
	if err != nil {
		s.logger.Error("List: repository error for user=%d: %v", req.UserID, err)
		return nil, fmt.Errorf("%w: List - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("List: successfully fetched %d proposals for user=%d", len(proposals), req.UserID)
	return models.FromDomainProposalList(proposals), nil
}

// ExpireDue переводит все просроченные PROPOSED предложения в EXPIRED.
// Вызывается периодическим джобом; дополняет ленивое истечение, чтобы
// не оставлять вечные PROPOSED строки в никогда не читаемых переписках.
func (s *Service) ExpireDue(ctx context.Context) (int64, error) {
	now := s.timeProvider.Now()

	expired, err := s.proposalRepo.ExpireDue(ctx, now)
	if err != nil {
		s.logger.Error("ExpireDue: repository error: %v", err)
		return 0, fmt.Errorf("%w: ExpireDue - repository error: %v", ErrInternal, err)
	}

	if expired > 0 {
		s.logger.Info("ExpireDue: expired %d proposals", expired)
	}
	return expired, nil
}

// lockProposed получает предложение под блокировкой строки и проверяет,
// что оно всё ещё PROPOSED. Просроченное предложение лениво переводится
// в EXPIRED прямо здесь.
func (s *Service) lockProposed(ctx context.Context, proposalID int64) (*domain.Proposal, error) {
	proposal, err := s.proposalRepo.GetByID(ctx, proposalID)
	if err != nil {
		if errors.Is(err, proposalRepo.ErrProposalNotFound) {
			return nil, ErrProposalNotFound
		}
		return nil, fmt.Errorf("%w: lockProposed - repository error: %v", ErrInternal, err)
	}

	if proposal.IsTerminal() {
		return nil, ErrInvalidTransition
	}

	if proposal.IsExpiredAt(s.timeProvider.Now()) {
		if err := s.proposalRepo.UpdateStatus(ctx, proposalID, domain.ProposalStatusExpired); err != nil {
			return nil, fmt.Errorf("%w: lockProposed - apply lazy expiry: %v", ErrInternal, err)
		}
		if err := s.quoteRepo.UpdateStatus(ctx, proposal.QuoteID, domain.QuoteStatusWithdrawn); err != nil {
			return nil, fmt.Errorf("%w: lockProposed - withdraw expired quote: %v", ErrInternal, err)
		}
		s.logger.Info("lockProposed: proposal id=%d lazily expired", proposalID)
		return nil, ErrProposalExpired
	}

	return proposal, nil
}

func (s *Service) checkListAccess(ctx context.Context, req *models.ListProposalsRequest) error {
	if req.ProfessionalID != nil && *req.ProfessionalID == req.UserID {
		return nil
	}

	if req.ThreadID != nil {
		thread, err := s.threadClient.GetThread(ctx, *req.ThreadID)
		if err != nil {
			if errors.Is(err, threadClient.ErrThreadNotFound) {
				return ErrThreadNotFound
			}
			return fmt.Errorf("%w: checkListAccess - failed to get thread: %v", ErrInternal, err)
		}

		if thread.ProfessionalID == req.UserID {
			return nil
		}
		if thread.CustomerID != nil && *thread.CustomerID == req.UserID {
			return nil
		}
	}

	return ErrAccessDenied
}
