package outbox

import (
	"context"
	"fmt"
)

// DefaultDispatchLimit максимальный размер пачки за один проход доставки
const DefaultDispatchLimit = 100

// Service сервис доставки outbox событий
type Service struct {
	outboxRepo   OutboxRepository
	notifyClient NotifyServiceClient
	txManager    TransactionManager
	timeProvider TimeProvider
	logger       Logger
}

// NewService создает новый экземпляр сервиса доставки событий
func NewService(
	outboxRepo OutboxRepository,
	notifyClient NotifyServiceClient,
	txManager TransactionManager,
	timeProvider TimeProvider,
	logger Logger,
) *Service {
	return &Service{
		outboxRepo:   outboxRepo,
		notifyClient: notifyClient,
		txManager:    txManager,
		timeProvider: timeProvider,
		logger:       logger,
	}
}

// DispatchPending доставляет накопленные события в NotifyService.
// Сбой доставки увеличивает счётчик попыток, событие остаётся PENDING
// и будет повторено следующим проходом джоба.
func (s *Service) DispatchPending(ctx context.Context, limit uint64) (dispatched int, failed int, err error) {
	if limit == 0 {
		limit = DefaultDispatchLimit
	}

	err = s.txManager.Do(ctx, func(ctx context.Context) error {
		pending, err := s.outboxRepo.ListPending(ctx, limit)
		if err != nil {
			return fmt.Errorf("%w: DispatchPending - list pending events: %v", ErrInternal, err)
		}

		for _, event := range pending {
			if sendErr := s.notifyClient.SendEvent(ctx, event.EventType, event.Payload); sendErr != nil {
				s.logger.Error("DispatchPending: failed to deliver event id=%d type=%s: %v", event.ID, event.EventType, sendErr)
				if markErr := s.outboxRepo.MarkFailed(ctx, event.ID); markErr != nil {
					return fmt.Errorf("%w: DispatchPending - mark failed: %v", ErrInternal, markErr)
				}
				failed++
				continue
			}

			if markErr := s.outboxRepo.MarkDispatched(ctx, event.ID, s.timeProvider.Now()); markErr != nil {
				return fmt.Errorf("%w: DispatchPending - mark dispatched: %v", ErrInternal, markErr)
			}
			dispatched++
		}

		return nil
	})
	if err != nil {
		return 0, 0, err
	}

	if dispatched > 0 || failed > 0 {
		s.logger.Info("DispatchPending: dispatched %d events, %d failed", dispatched, failed)
	}
	return dispatched, failed, nil
}
