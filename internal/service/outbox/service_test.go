package outbox

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesterhub/MH-SchedulingService/internal/domain"
)

type stubOutboxRepo struct {
	pending []*domain.OutboxEvent

	dispatchedIDs []int64
	failedIDs     []int64
}

func (s *stubOutboxRepo) ListPending(_ context.Context, _ uint64) ([]*domain.OutboxEvent, error) {
	return s.pending, nil
}

func (s *stubOutboxRepo) MarkDispatched(_ context.Context, id int64, _ time.Time) error {
	s.dispatchedIDs = append(s.dispatchedIDs, id)
	return nil
}

func (s *stubOutboxRepo) MarkFailed(_ context.Context, id int64) error {
	s.failedIDs = append(s.failedIDs, id)
	return nil
}

type stubNotifyClient struct {
	failForEventID map[int64]bool
	sentTypes      []string
	events         []*domain.OutboxEvent
	idx            int
}

func (s *stubNotifyClient) SendEvent(_ context.Context, eventType string, _ []byte) error {
	event := s.events[s.idx]
	s.idx++
	if s.failForEventID[event.ID] {
		return errors.New("notify service unavailable")
	}
	s.sentTypes = append(s.sentTypes, eventType)
	return nil
}

type passthroughTxManager struct{}

func (passthroughTxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func (passthroughTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func (passthroughTxManager) DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fixedTimeProvider struct {
	now time.Time
}

func (p *fixedTimeProvider) Now() time.Time {
	return p.now
}

type nopLogger struct{}

func (nopLogger) Info(format string, v ...interface{})  {}
func (nopLogger) Warn(format string, v ...interface{})  {}
func (nopLogger) Error(format string, v ...interface{}) {}

func TestDispatchPending(t *testing.T) {
	pending := []*domain.OutboxEvent{
		{ID: 1, EventType: domain.EventProposalCreated, Payload: []byte(`{"proposal_id":7}`)},
		{ID: 2, EventType: domain.EventProposalAccepted, Payload: []byte(`{"proposal_id":7}`)},
		{ID: 3, EventType: domain.EventProposalCreated, Payload: []byte(`{"proposal_id":8}`)},
	}

	repo := &stubOutboxRepo{pending: pending}
	notify := &stubNotifyClient{
		events:         pending,
		failForEventID: map[int64]bool{2: true},
	}
	svc := NewService(repo, notify, passthroughTxManager{}, &fixedTimeProvider{now: time.Now()}, nopLogger{})

	dispatched, failed, err := svc.DispatchPending(context.Background(), 0)
	require.NoError(t, err)

	// Сбой доставки одного события не прерывает остальные
	assert.Equal(t, 2, dispatched)
	assert.Equal(t, 1, failed)
	assert.Equal(t, []int64{1, 3}, repo.dispatchedIDs)
	assert.Equal(t, []int64{2}, repo.failedIDs)
	assert.Equal(t, []string{domain.EventProposalCreated, domain.EventProposalCreated}, notify.sentTypes)
}

func TestDispatchPending_EmptyQueue(t *testing.T) {
	repo := &stubOutboxRepo{}
	svc := NewService(repo, &stubNotifyClient{}, passthroughTxManager{}, &fixedTimeProvider{now: time.Now()}, nopLogger{})

	dispatched, failed, err := svc.DispatchPending(context.Background(), 0)
	require.NoError(t, err)
	assert.Zero(t, dispatched)
	assert.Zero(t, failed)
	assert.Empty(t, repo.dispatchedIDs)
}
