package appointments

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesterhub/MH-SchedulingService/internal/domain"
	appointmentStorage "github.com/mesterhub/MH-SchedulingService/internal/infra/storage/appointment"
	"github.com/mesterhub/MH-SchedulingService/internal/integrations/jobservice"
	"github.com/mesterhub/MH-SchedulingService/internal/service/appointments/models"
)

type stubAppointmentRepo struct {
	appointment *domain.Appointment
	list        []*domain.Appointment
	getErr      error
	createErr   error
	listErr     error

	created         *domain.Appointment
	cancelledStatus *domain.AppointmentStatus
	completedID     *int64
	updatedStatus   *domain.AppointmentStatus
}

func (s *stubAppointmentRepo) Create(_ context.Context, appointment *domain.Appointment) (*domain.Appointment, error) {
	if s.createErr != nil {
		return nil, s.createErr
	}
	a := *appointment
	a.ID = 100
	s.created = &a
	return &a, nil
}

func (s *stubAppointmentRepo) GetByID(_ context.Context, _ int64) (*domain.Appointment, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	a := *s.appointment
	return &a, nil
}

func (s *stubAppointmentRepo) GetByProposalID(_ context.Context, _ int64) (*domain.Appointment, error) {
	a := *s.appointment
	return &a, nil
}

func (s *stubAppointmentRepo) List(_ context.Context, _ domain.AppointmentFilter) ([]*domain.Appointment, error) {
	return s.list, s.listErr
}

func (s *stubAppointmentRepo) Cancel(_ context.Context, _ int64, status domain.AppointmentStatus, _ *string, _ time.Time) error {
	s.cancelledStatus = &status
	return nil
}

func (s *stubAppointmentRepo) Complete(_ context.Context, id int64, _ time.Time, _ *string) error {
	s.completedID = &id
	return nil
}

func (s *stubAppointmentRepo) UpdateStatus(_ context.Context, _ int64, status domain.AppointmentStatus) error {
	s.updatedStatus = &status
	return nil
}

type stubReminderScheduler struct {
	scheduleErr  error
	scheduledFor []int64
	cancelledFor []int64
}

func (s *stubReminderScheduler) ScheduleFor(_ context.Context, appointment *domain.Appointment) error {
	if s.scheduleErr != nil {
		return s.scheduleErr
	}
	s.scheduledFor = append(s.scheduledFor, appointment.ID)
	return nil
}

func (s *stubReminderScheduler) CancelAll(_ context.Context, appointmentID int64) (int64, error) {
	s.cancelledFor = append(s.cancelledFor, appointmentID)
	return 2, nil
}

type stubJobClient struct {
	ensureErr  error
	advanceErr error

	ensured  []jobservice.EnsureJobRequest
	advanced []string
}

func (s *stubJobClient) EnsureJobForAppointment(_ context.Context, request jobservice.EnsureJobRequest) (*jobservice.Job, error) {
	if s.ensureErr != nil {
		return nil, s.ensureErr
	}
	s.ensured = append(s.ensured, request)
	return &jobservice.Job{ID: 1, AppointmentID: request.AppointmentID, Status: "scheduled"}, nil
}

func (s *stubJobClient) AdvanceJob(_ context.Context, _ int64, status string) error {
	if s.advanceErr != nil {
		return s.advanceErr
	}
	s.advanced = append(s.advanced, status)
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

var serviceNow = time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)

func confirmedAppointment() *domain.Appointment {
	return &domain.Appointment{
		ID:              50,
		ProposalID:      7,
		ThreadID:        20,
		ProfessionalID:  10,
		CustomerID:      42,
		RequestID:       30,
		ScheduledStart:  serviceNow.AddDate(0, 0, 2),
		ScheduledEnd:    serviceNow.AddDate(0, 0, 2).Add(time.Hour),
		DurationMinutes: 60,
		Status:          domain.StatusConfirmed,
	}
}

func acceptedProposal() *domain.Proposal {
	customerID := int64(42)
	return &domain.Proposal{
		ID:             7,
		ThreadID:       20,
		ProfessionalID: 10,
		RequestID:      30,
		CustomerID:     &customerID,
		ProposedStart:  serviceNow.AddDate(0, 0, 2),
		Status:         domain.ProposalStatusAccepted,
	}
}

func newTestService(repo *stubAppointmentRepo) (*Service, *stubReminderScheduler, *stubJobClient) {
	reminders := &stubReminderScheduler{}
	jobs := &stubJobClient{}
	svc := NewService(repo, reminders, jobs, passthroughTxManager{}, &fixedTimeProvider{now: serviceNow}, nopLogger{})
	return svc, reminders, jobs
}

func TestCreateFromProposal_Success(t *testing.T) {
	repo := &stubAppointmentRepo{}
	svc, reminders, jobs := newTestService(repo)

	created, err := svc.CreateFromProposal(context.Background(), acceptedProposal(), 42, 60)
	require.NoError(t, err)

	assert.Equal(t, int64(100), created.ID)
	assert.Equal(t, domain.StatusConfirmed, created.Status)
	assert.Equal(t, serviceNow.AddDate(0, 0, 2), created.ScheduledStart)
	assert.Equal(t, serviceNow.AddDate(0, 0, 2).Add(time.Hour), created.ScheduledEnd)
	require.NotNil(t, created.ConfirmedByCustomerAt)
	assert.Equal(t, serviceNow, *created.ConfirmedByCustomerAt)

	assert.Equal(t, []int64{100}, reminders.scheduledFor)
	require.Len(t, jobs.ensured, 1)
	assert.Equal(t, int64(100), jobs.ensured[0].AppointmentID)
}

func TestCreateFromProposal_RequiresAcceptedProposal(t *testing.T) {
	repo := &stubAppointmentRepo{}
	svc, _, _ := newTestService(repo)

	proposal := acceptedProposal()
	proposal.Status = domain.ProposalStatusProposed

	_, err := svc.CreateFromProposal(context.Background(), proposal, 42, 60)
	assert.ErrorIs(t, err, ErrProposalNotAccepted)
	assert.Nil(t, repo.created)
}

func TestCreateFromProposal_IdempotentOnDuplicate(t *testing.T) {
	existing := confirmedAppointment()
	repo := &stubAppointmentRepo{
		appointment: existing,
		createErr:   appointmentStorage.ErrDuplicateProposal,
	}
	svc, reminders, _ := newTestService(repo)

	created, err := svc.CreateFromProposal(context.Background(), acceptedProposal(), 42, 60)
	require.NoError(t, err)

	// Повторный вызов возвращает существующую запись без новых напоминаний
	assert.Equal(t, existing.ID, created.ID)
	assert.Empty(t, reminders.scheduledFor)
}

func TestCreateFromProposal_ReminderFailureDoesNotFail(t *testing.T) {
	repo := &stubAppointmentRepo{}
	svc, reminders, jobs := newTestService(repo)
	reminders.scheduleErr = errors.New("reminders table is locked")

	created, err := svc.CreateFromProposal(context.Background(), acceptedProposal(), 42, 60)
	require.NoError(t, err)
	assert.Equal(t, int64(100), created.ID)
	assert.Len(t, jobs.ensured, 1)
}

func TestGetByID_AccessControl(t *testing.T) {
	repo := &stubAppointmentRepo{appointment: confirmedAppointment()}
	svc, _, _ := newTestService(repo)

	resp, err := svc.GetByID(context.Background(), 50, 42)
	require.NoError(t, err)
	assert.Equal(t, int64(50), resp.ID)

	_, err = svc.GetByID(context.Background(), 50, 99)
	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestList_RequiresOwnFilter(t *testing.T) {
	repo := &stubAppointmentRepo{list: []*domain.Appointment{confirmedAppointment()}}
	svc, _, _ := newTestService(repo)

	professionalID := int64(10)

	resp, err := svc.List(context.Background(), &models.ListAppointmentsRequest{
		UserID:         10,
		ProfessionalID: &professionalID,
	})
	require.NoError(t, err)
	assert.Len(t, resp.Appointments, 1)

	// Чужой фильтр недоступен
	_, err = svc.List(context.Background(), &models.ListAppointmentsRequest{
		UserID:         99,
		ProfessionalID: &professionalID,
	})
	assert.ErrorIs(t, err, ErrAccessDenied)

	// Без фильтра участника запрос отклоняется
	_, err = svc.List(context.Background(), &models.ListAppointmentsRequest{UserID: 10})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestCancel_StatusDependsOnInitiator(t *testing.T) {
	tests := []struct {
		name       string
		userID     int64
		wantStatus domain.AppointmentStatus
	}{
		{"by customer", 42, domain.StatusCancelledByCustomer},
		{"by professional", 10, domain.StatusCancelledByProfessional},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &stubAppointmentRepo{appointment: confirmedAppointment()}
			svc, reminders, jobs := newTestService(repo)

			err := svc.Cancel(context.Background(), 50, &models.CancelAppointmentRequest{UserID: tt.userID})
			require.NoError(t, err)

			require.NotNil(t, repo.cancelledStatus)
			assert.Equal(t, tt.wantStatus, *repo.cancelledStatus)
			assert.Equal(t, []int64{50}, reminders.cancelledFor)
			assert.Equal(t, []string{"cancelled"}, jobs.advanced)
		})
	}
}

func TestCancel_Gates(t *testing.T) {
	t.Run("stranger", func(t *testing.T) {
		repo := &stubAppointmentRepo{appointment: confirmedAppointment()}
		svc, _, _ := newTestService(repo)

		err := svc.Cancel(context.Background(), 50, &models.CancelAppointmentRequest{UserID: 99})
		assert.ErrorIs(t, err, ErrAccessDenied)
	})

	t.Run("already completed", func(t *testing.T) {
		appointment := confirmedAppointment()
		appointment.Status = domain.StatusCompleted
		repo := &stubAppointmentRepo{appointment: appointment}
		svc, _, _ := newTestService(repo)

		err := svc.Cancel(context.Background(), 50, &models.CancelAppointmentRequest{UserID: 42})
		assert.ErrorIs(t, err, ErrCannotCancel)
	})

	t.Run("not found", func(t *testing.T) {
		repo := &stubAppointmentRepo{getErr: appointmentStorage.ErrAppointmentNotFound}
		svc, _, _ := newTestService(repo)

		err := svc.Cancel(context.Background(), 50, &models.CancelAppointmentRequest{UserID: 42})
		assert.ErrorIs(t, err, ErrAppointmentNotFound)
	})
}

func TestComplete(t *testing.T) {
	t.Run("professional completes confirmed appointment", func(t *testing.T) {
		repo := &stubAppointmentRepo{appointment: confirmedAppointment()}
		svc, _, jobs := newTestService(repo)

		err := svc.Complete(context.Background(), 50, &models.CompleteAppointmentRequest{UserID: 10})
		require.NoError(t, err)
		require.NotNil(t, repo.completedID)
		assert.Equal(t, []string{"completed"}, jobs.advanced)
	})

	t.Run("customer cannot complete", func(t *testing.T) {
		repo := &stubAppointmentRepo{appointment: confirmedAppointment()}
		svc, _, _ := newTestService(repo)

		err := svc.Complete(context.Background(), 50, &models.CompleteAppointmentRequest{UserID: 42})
		assert.ErrorIs(t, err, ErrAccessDenied)
	})

	t.Run("cancelled appointment cannot be completed", func(t *testing.T) {
		appointment := confirmedAppointment()
		appointment.Status = domain.StatusCancelledByCustomer
		repo := &stubAppointmentRepo{appointment: appointment}
		svc, _, _ := newTestService(repo)

		err := svc.Complete(context.Background(), 50, &models.CompleteAppointmentRequest{UserID: 10})
		assert.ErrorIs(t, err, ErrCannotComplete)
	})
}

func TestMarkNoShow(t *testing.T) {
	startedAppointment := func() *domain.Appointment {
		appointment := confirmedAppointment()
		appointment.ScheduledStart = serviceNow.Add(-time.Hour)
		appointment.ScheduledEnd = serviceNow
		return appointment
	}

	t.Run("success after start", func(t *testing.T) {
		repo := &stubAppointmentRepo{appointment: startedAppointment()}
		svc, _, _ := newTestService(repo)

		err := svc.MarkNoShow(context.Background(), 50, 10)
		require.NoError(t, err)
		require.NotNil(t, repo.updatedStatus)
		assert.Equal(t, domain.StatusNoShow, *repo.updatedStatus)
	})

	t.Run("before start", func(t *testing.T) {
		repo := &stubAppointmentRepo{appointment: confirmedAppointment()}
		svc, _, _ := newTestService(repo)

		err := svc.MarkNoShow(context.Background(), 50, 10)
		assert.ErrorIs(t, err, ErrNotStartedYet)
	})

	t.Run("customer cannot mark", func(t *testing.T) {
		repo := &stubAppointmentRepo{appointment: startedAppointment()}
		svc, _, _ := newTestService(repo)

		err := svc.MarkNoShow(context.Background(), 50, 42)
		assert.ErrorIs(t, err, ErrAccessDenied)
	})

	t.Run("rescheduled appointment cannot be marked", func(t *testing.T) {
		appointment := startedAppointment()
		appointment.Status = domain.StatusRescheduled
		repo := &stubAppointmentRepo{appointment: appointment}
		svc, _, _ := newTestService(repo)

		err := svc.MarkNoShow(context.Background(), 50, 10)
		assert.ErrorIs(t, err, ErrCannotMarkNoShow)
	})
}
