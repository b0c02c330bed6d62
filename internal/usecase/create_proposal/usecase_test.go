package create_proposal

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesterhub/MH-SchedulingService/internal/domain"
	"github.com/mesterhub/MH-SchedulingService/internal/integrations/threadservice"
)

type stubProposalRepo struct {
	created *domain.Proposal
}

func (s *stubProposalRepo) Create(_ context.Context, proposal *domain.Proposal) (*domain.Proposal, error) {
	p := *proposal
	p.ID = 7
	p.CreatedAt = time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	s.created = &p
	return &p, nil
}

type stubQuoteRepo struct {
	created *domain.Quote
}

func (s *stubQuoteRepo) Create(_ context.Context, quote *domain.Quote) (*domain.Quote, error) {
	q := *quote
	q.ID = 5
	s.created = &q
	return &q, nil
}

type stubOutboxRepo struct {
	events []string
}

func (s *stubOutboxRepo) Enqueue(_ context.Context, eventType string, _ []byte) error {
	s.events = append(s.events, eventType)
	return nil
}

type stubThreadClient struct {
	thread *threadservice.Thread
	err    error
}

func (s *stubThreadClient) GetThread(_ context.Context, _ int64) (*threadservice.Thread, error) {
	return s.thread, s.err
}

type stubLeadClient struct {
	purchased bool
	err       error
}

func (s *stubLeadClient) HasPurchasedLead(_ context.Context, _, _ int64) (bool, error) {
	return s.purchased, s.err
}

type passthroughTxManager struct{}

func (passthroughTxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
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

var createNow = time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)

type createFixture struct {
	uc           *UseCase
	proposalRepo *stubProposalRepo
	quoteRepo    *stubQuoteRepo
	outboxRepo   *stubOutboxRepo
	threads      *stubThreadClient
	leads        *stubLeadClient
}

func newCreateFixture() *createFixture {
	customerID := int64(42)
	f := &createFixture{
		proposalRepo: &stubProposalRepo{},
		quoteRepo:    &stubQuoteRepo{},
		outboxRepo:   &stubOutboxRepo{},
		threads: &stubThreadClient{thread: &threadservice.Thread{
			ID:             20,
			ProfessionalID: 10,
			CustomerID:     &customerID,
			RequestID:      30,
		}},
		leads: &stubLeadClient{purchased: true},
	}

	f.uc = NewUseCase(
		f.proposalRepo,
		f.quoteRepo,
		f.outboxRepo,
		f.threads,
		f.leads,
		passthroughTxManager{},
		nopLogger{},
	)
	f.uc.timeProvider = &fixedTimeProvider{now: createNow}
	return f
}

func validRequest() *Request {
	return &Request{
		UserID:        10,
		ThreadID:      20,
		ProposedStart: createNow.AddDate(0, 0, 2),
		Price:         15000,
		Currency:      "HUF",
	}
}

func TestExecute_Success(t *testing.T) {
	f := newCreateFixture()

	resp, err := f.uc.Execute(context.Background(), validRequest())
	require.NoError(t, err)

	assert.Equal(t, int64(7), resp.ID)
	assert.Equal(t, int64(10), resp.ProfessionalID)
	assert.Equal(t, int64(30), resp.RequestID)
	assert.Equal(t, int64(5), resp.QuoteID)
	assert.Equal(t, string(domain.ProposalStatusProposed), resp.Status)

	// Срок жизни предложения: ровно 7 дней от текущего момента
	assert.Equal(t, createNow.AddDate(0, 0, domain.ProposalExpiryDays), resp.ExpiresAt)

	require.NotNil(t, f.quoteRepo.created)
	assert.Equal(t, domain.QuoteStatusPending, f.quoteRepo.created.Status)
	assert.Equal(t, float64(15000), f.quoteRepo.created.Price)

	// Клиент переписки копируется в предложение
	require.NotNil(t, f.proposalRepo.created.CustomerID)
	assert.Equal(t, int64(42), *f.proposalRepo.created.CustomerID)

	assert.Equal(t, []string{domain.EventProposalCreated}, f.outboxRepo.events)
}

func TestExecute_ThreadNotFound(t *testing.T) {
	f := newCreateFixture()
	f.threads.thread = nil
	f.threads.err = threadservice.ErrThreadNotFound

	_, err := f.uc.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrThreadNotFound)
}

func TestExecute_ThreadOwnedByAnotherProfessional(t *testing.T) {
	f := newCreateFixture()
	f.threads.thread.ProfessionalID = 99

	_, err := f.uc.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrAccessDenied)
	assert.Nil(t, f.proposalRepo.created)
}

func TestExecute_LeadNotPurchased(t *testing.T) {
	f := newCreateFixture()
	f.leads.purchased = false

	_, err := f.uc.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrLeadNotPurchased)
	assert.Nil(t, f.quoteRepo.created)
}

func TestExecute_StartInPast(t *testing.T) {
	f := newCreateFixture()

	req := validRequest()
	req.ProposedStart = createNow.Add(-time.Minute)

	_, err := f.uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrStartInPast)
}

func TestExecute_Validation(t *testing.T) {
	longNotes := make([]byte, domain.MaxNotesLength+1)
	for i := range longNotes {
		longNotes[i] = 'x'
	}
	notes := string(longNotes)
	shortDuration := 3

	tests := []struct {
		name   string
		mutate func(req *Request)
	}{
		{"zero thread", func(req *Request) { req.ThreadID = 0 }},
		{"negative price", func(req *Request) { req.Price = -1 }},
		{"bad currency", func(req *Request) { req.Currency = "FORINT" }},
		{"too short duration", func(req *Request) { req.DurationMinutes = &shortDuration }},
		{"too long notes", func(req *Request) { req.Notes = &notes }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newCreateFixture()

			req := validRequest()
			tt.mutate(req)

			_, err := f.uc.Execute(context.Background(), req)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}
