package accept_proposal

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesterhub/MH-SchedulingService/internal/domain"
	proposalStorage "github.com/mesterhub/MH-SchedulingService/internal/infra/storage/proposal"
	"github.com/mesterhub/MH-SchedulingService/internal/integrations/threadservice"
)

type stubProposalRepo struct {
	proposal *domain.Proposal
	getErr   error

	acceptedID     *int64
	statusUpdates  map[int64]domain.ProposalStatus
	markAcceptedBy int64
}

func (s *stubProposalRepo) GetByID(_ context.Context, _ int64) (*domain.Proposal, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	p := *s.proposal
	return &p, nil
}

func (s *stubProposalRepo) MarkAccepted(_ context.Context, id int64, customerID int64, _ *string) error {
	s.acceptedID = &id
	s.markAcceptedBy = customerID
	return nil
}

func (s *stubProposalRepo) UpdateStatus(_ context.Context, id int64, status domain.ProposalStatus) error {
	if s.statusUpdates == nil {
		s.statusUpdates = make(map[int64]domain.ProposalStatus)
	}
	s.statusUpdates[id] = status
	return nil
}

type stubQuoteRepo struct {
	statusUpdates map[int64]domain.QuoteStatus
}

func (s *stubQuoteRepo) UpdateStatus(_ context.Context, id int64, status domain.QuoteStatus) error {
	if s.statusUpdates == nil {
		s.statusUpdates = make(map[int64]domain.QuoteStatus)
	}
	s.statusUpdates[id] = status
	return nil
}

type stubOutboxRepo struct {
	events []string
}

func (s *stubOutboxRepo) Enqueue(_ context.Context, eventType string, _ []byte) error {
	s.events = append(s.events, eventType)
	return nil
}

type stubAppointmentService struct {
	appointment *domain.Appointment
	err         error

	gotDuration int
}

func (s *stubAppointmentService) CreateFromProposal(_ context.Context, _ *domain.Proposal, _ int64, durationMinutes int) (*domain.Appointment, error) {
	s.gotDuration = durationMinutes
	if s.err != nil {
		return nil, s.err
	}
	return s.appointment, nil
}

type stubCalendarService struct {
	settings *domain.CalendarSettings
}

func (s *stubCalendarService) GetDomainSettings(_ context.Context, _ int64) (*domain.CalendarSettings, error) {
	return s.settings, nil
}

type stubThreadClient struct {
	thread *threadservice.Thread
	err    error
}

func (s *stubThreadClient) GetThread(_ context.Context, _ int64) (*threadservice.Thread, error) {
	return s.thread, s.err
}

type stubRequestClient struct {
	advanced bool
	err      error
}

func (s *stubRequestClient) AdvanceToBooked(_ context.Context, _, _, _ int64) error {
	s.advanced = true
	return s.err
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

var acceptNow = time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)

func testProposal() *domain.Proposal {
	expiresAt := acceptNow.AddDate(0, 0, 3)
	return &domain.Proposal{
		ID:             7,
		ThreadID:       20,
		ProfessionalID: 10,
		RequestID:      30,
		ProposedStart:  acceptNow.AddDate(0, 0, 2),
		QuoteID:        5,
		Status:         domain.ProposalStatusProposed,
		ExpiresAt:      &expiresAt,
	}
}

type acceptFixture struct {
	uc           *UseCase
	proposalRepo *stubProposalRepo
	quoteRepo    *stubQuoteRepo
	outboxRepo   *stubOutboxRepo
	appointments *stubAppointmentService
	requests     *stubRequestClient
}

func newAcceptFixture(proposal *domain.Proposal) *acceptFixture {
	customerID := int64(42)
	f := &acceptFixture{
		proposalRepo: &stubProposalRepo{proposal: proposal},
		quoteRepo:    &stubQuoteRepo{},
		outboxRepo:   &stubOutboxRepo{},
		appointments: &stubAppointmentService{
			appointment: &domain.Appointment{
				ID:              100,
				ProposalID:      proposal.ID,
				ScheduledStart:  proposal.ProposedStart,
				ScheduledEnd:    proposal.ProposedStart.Add(time.Hour),
				DurationMinutes: 60,
				Status:          domain.StatusConfirmed,
			},
		},
		requests: &stubRequestClient{},
	}

	f.uc = NewUseCase(
		f.proposalRepo,
		f.quoteRepo,
		f.outboxRepo,
		f.appointments,
		&stubCalendarService{settings: domain.DefaultCalendarSettings(10)},
		&stubThreadClient{thread: &threadservice.Thread{
			ID:             20,
			ProfessionalID: 10,
			CustomerID:     &customerID,
			RequestID:      30,
		}},
		f.requests,
		passthroughTxManager{},
		nopLogger{},
	)
	f.uc.timeProvider = &fixedTimeProvider{now: acceptNow}
	return f
}

func TestExecute_Success(t *testing.T) {
	f := newAcceptFixture(testProposal())

	resp, err := f.uc.Execute(context.Background(), &Request{ProposalID: 7, UserID: 42})
	require.NoError(t, err)

	assert.Equal(t, int64(7), resp.ProposalID)
	assert.Equal(t, string(domain.ProposalStatusAccepted), resp.ProposalStatus)
	require.NotNil(t, resp.AppointmentID)
	assert.Equal(t, int64(100), *resp.AppointmentID)

	require.NotNil(t, f.proposalRepo.acceptedID)
	assert.Equal(t, int64(42), f.proposalRepo.markAcceptedBy)
	assert.Equal(t, domain.QuoteStatusAccepted, f.quoteRepo.statusUpdates[5])
	assert.Equal(t, []string{domain.EventProposalAccepted}, f.outboxRepo.events)
	assert.True(t, f.requests.advanced)
}

func TestExecute_DurationFromCalendarSettings(t *testing.T) {
	proposal := testProposal()
	proposal.DurationMinutes = nil

	f := newAcceptFixture(proposal)

	_, err := f.uc.Execute(context.Background(), &Request{ProposalID: 7, UserID: 42})
	require.NoError(t, err)

	assert.Equal(t, domain.DefaultDurationMinutes, f.appointments.gotDuration)
}

func TestExecute_LazyExpiry(t *testing.T) {
	proposal := testProposal()
	expired := acceptNow.Add(-time.Hour)
	proposal.ExpiresAt = &expired

	f := newAcceptFixture(proposal)

	_, err := f.uc.Execute(context.Background(), &Request{ProposalID: 7, UserID: 42})
	assert.ErrorIs(t, err, ErrProposalExpired)

	// Истечение применено лениво: предложение EXPIRED, квота отозвана
	assert.Equal(t, domain.ProposalStatusExpired, f.proposalRepo.statusUpdates[7])
	assert.Equal(t, domain.QuoteStatusWithdrawn, f.quoteRepo.statusUpdates[5])
	assert.Nil(t, f.proposalRepo.acceptedID)
}

func TestExecute_TerminalStatus(t *testing.T) {
	proposal := testProposal()
	proposal.Status = domain.ProposalStatusRejected

	f := newAcceptFixture(proposal)

	_, err := f.uc.Execute(context.Background(), &Request{ProposalID: 7, UserID: 42})
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestExecute_ProposalNotFound(t *testing.T) {
	f := newAcceptFixture(testProposal())
	f.proposalRepo.getErr = proposalStorage.ErrProposalNotFound

	_, err := f.uc.Execute(context.Background(), &Request{ProposalID: 7, UserID: 42})
	assert.ErrorIs(t, err, ErrProposalNotFound)
}

func TestExecute_AccessDenied(t *testing.T) {
	f := newAcceptFixture(testProposal())

	_, err := f.uc.Execute(context.Background(), &Request{ProposalID: 7, UserID: 99})
	assert.ErrorIs(t, err, ErrAccessDenied)
	assert.Nil(t, f.proposalRepo.acceptedID)
}

func TestExecute_StartInPast(t *testing.T) {
	proposal := testProposal()
	proposal.ProposedStart = acceptNow.Add(-time.Hour)

	f := newAcceptFixture(proposal)

	_, err := f.uc.Execute(context.Background(), &Request{ProposalID: 7, UserID: 42})
	assert.ErrorIs(t, err, ErrStartInPast)
}

func TestExecute_AppointmentFailureDoesNotRollBackAcceptance(t *testing.T) {
	f := newAcceptFixture(testProposal())
	f.appointments.err = errors.New("job queue is down")

	resp, err := f.uc.Execute(context.Background(), &Request{ProposalID: 7, UserID: 42})
	require.NoError(t, err)

	// Принятие зафиксировано, запись будет создана компенсирующим повтором
	assert.Equal(t, string(domain.ProposalStatusAccepted), resp.ProposalStatus)
	assert.Nil(t, resp.AppointmentID)
	assert.False(t, f.requests.advanced)
}
