package reschedule_appointment

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesterhub/MH-SchedulingService/internal/domain"
	appointmentStorage "github.com/mesterhub/MH-SchedulingService/internal/infra/storage/appointment"
)

type stubAppointmentRepo struct {
	appointment *domain.Appointment
	getErr      error

	created         *domain.Appointment
	rescheduledID   *int64
	rescheduledToID int64
}

func (s *stubAppointmentRepo) GetByID(_ context.Context, _ int64) (*domain.Appointment, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	a := *s.appointment
	return &a, nil
}

func (s *stubAppointmentRepo) Create(_ context.Context, appointment *domain.Appointment) (*domain.Appointment, error) {
	// Воспроизводит частичный уникальный индекс uq_appointments_proposal:
	// конфликтуют только строки без rescheduled_from_id. Преемник наследует
	// proposal_id исходной записи и обязан пройти вставку без конфликта.
	if appointment.RescheduledFromID == nil && appointment.ProposalID == s.appointment.ProposalID {
		return nil, appointmentStorage.ErrDuplicateProposal
	}

	a := *appointment
	a.ID = 101
	s.created = &a
	return &a, nil
}

func (s *stubAppointmentRepo) MarkRescheduled(_ context.Context, id int64, rescheduledToID int64) error {
	s.rescheduledID = &id
	s.rescheduledToID = rescheduledToID
	return nil
}

type stubReminderScheduler struct {
	scheduledFor []int64
	cancelledFor []int64
}

func (s *stubReminderScheduler) ScheduleFor(_ context.Context, appointment *domain.Appointment) error {
	s.scheduledFor = append(s.scheduledFor, appointment.ID)
	return nil
}

func (s *stubReminderScheduler) CancelAll(_ context.Context, appointmentID int64) (int64, error) {
	s.cancelledFor = append(s.cancelledFor, appointmentID)
	return 4, nil
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

var rescheduleNow = time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)

func testAppointment() *domain.Appointment {
	address := "Budapest, Fő utca 1."
	return &domain.Appointment{
		ID:              50,
		ProposalID:      7,
		ThreadID:        20,
		ProfessionalID:  10,
		CustomerID:      42,
		RequestID:       30,
		ScheduledStart:  rescheduleNow.AddDate(0, 0, 2),
		ScheduledEnd:    rescheduleNow.AddDate(0, 0, 2).Add(time.Hour),
		DurationMinutes: 60,
		LocationAddress: &address,
		Status:          domain.StatusConfirmed,
	}
}

func newRescheduleFixture(appointment *domain.Appointment) (*UseCase, *stubAppointmentRepo, *stubReminderScheduler) {
	repo := &stubAppointmentRepo{appointment: appointment}
	reminders := &stubReminderScheduler{}

	uc := NewUseCase(repo, reminders, passthroughTxManager{}, nopLogger{})
	uc.timeProvider = &fixedTimeProvider{now: rescheduleNow}
	return uc, repo, reminders
}

func TestExecute_Success(t *testing.T) {
	uc, repo, reminders := newRescheduleFixture(testAppointment())

	newStart := rescheduleNow.AddDate(0, 0, 5)
	reason := "клиент попросил перенести"

	resp, err := uc.Execute(context.Background(), &Request{
		AppointmentID: 50,
		UserID:        42,
		NewStart:      newStart,
		Reason:        &reason,
	})
	require.NoError(t, err)

	assert.Equal(t, int64(101), resp.AppointmentID)
	assert.Equal(t, int64(50), resp.RescheduledFromID)
	assert.Equal(t, string(domain.StatusConfirmed), resp.Status)
	assert.Equal(t, newStart, resp.ScheduledStart)
	assert.Equal(t, newStart.Add(time.Hour), resp.ScheduledEnd)
	assert.Equal(t, 60, resp.DurationMinutes)

	// Новая строка наследует идентифицирующие поля и ссылается на старую
	require.NotNil(t, repo.created)
	assert.Equal(t, int64(7), repo.created.ProposalID)
	assert.Equal(t, int64(42), repo.created.CustomerID)
	require.NotNil(t, repo.created.RescheduledFromID)
	assert.Equal(t, int64(50), *repo.created.RescheduledFromID)
	require.NotNil(t, repo.created.InternalNotes)
	assert.Equal(t, reason, *repo.created.InternalNotes)

	// Старая строка помечена перенесённой на новую
	require.NotNil(t, repo.rescheduledID)
	assert.Equal(t, int64(50), *repo.rescheduledID)
	assert.Equal(t, int64(101), repo.rescheduledToID)

	// Напоминания переведены на новую строку
	assert.Equal(t, []int64{50}, reminders.cancelledFor)
	assert.Equal(t, []int64{101}, reminders.scheduledFor)
}

func TestExecute_NewDuration(t *testing.T) {
	uc, repo, _ := newRescheduleFixture(testAppointment())

	newStart := rescheduleNow.AddDate(0, 0, 5)
	duration := 90

	resp, err := uc.Execute(context.Background(), &Request{
		AppointmentID:   50,
		UserID:          10,
		NewStart:        newStart,
		DurationMinutes: &duration,
	})
	require.NoError(t, err)

	assert.Equal(t, 90, resp.DurationMinutes)
	assert.Equal(t, newStart.Add(90*time.Minute), repo.created.ScheduledEnd)
}

func TestExecute_NotFound(t *testing.T) {
	uc, repo, _ := newRescheduleFixture(testAppointment())
	repo.getErr = appointmentStorage.ErrAppointmentNotFound

	_, err := uc.Execute(context.Background(), &Request{
		AppointmentID: 50,
		UserID:        42,
		NewStart:      rescheduleNow.AddDate(0, 0, 5),
	})
	assert.ErrorIs(t, err, ErrAppointmentNotFound)
}

func TestExecute_Stranger(t *testing.T) {
	uc, repo, _ := newRescheduleFixture(testAppointment())

	_, err := uc.Execute(context.Background(), &Request{
		AppointmentID: 50,
		UserID:        99,
		NewStart:      rescheduleNow.AddDate(0, 0, 5),
	})
	assert.ErrorIs(t, err, ErrAccessDenied)
	assert.Nil(t, repo.created)
}

func TestExecute_NotChainHead(t *testing.T) {
	successorID := int64(60)

	tests := []struct {
		name   string
		mutate func(a *domain.Appointment)
	}{
		{"already rescheduled", func(a *domain.Appointment) {
			a.Status = domain.StatusRescheduled
			a.RescheduledToID = &successorID
		}},
		{"cancelled", func(a *domain.Appointment) { a.Status = domain.StatusCancelledByCustomer }},
		{"completed", func(a *domain.Appointment) { a.Status = domain.StatusCompleted }},
		{"confirmed with successor", func(a *domain.Appointment) { a.RescheduledToID = &successorID }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			appointment := testAppointment()
			tt.mutate(appointment)

			uc, _, _ := newRescheduleFixture(appointment)

			_, err := uc.Execute(context.Background(), &Request{
				AppointmentID: 50,
				UserID:        42,
				NewStart:      rescheduleNow.AddDate(0, 0, 5),
			})
			assert.ErrorIs(t, err, ErrNotChainHead)
		})
	}
}

func TestExecute_NewStartInPast(t *testing.T) {
	uc, _, _ := newRescheduleFixture(testAppointment())

	_, err := uc.Execute(context.Background(), &Request{
		AppointmentID: 50,
		UserID:        42,
		NewStart:      rescheduleNow.Add(-time.Minute),
	})
	assert.ErrorIs(t, err, ErrStartInPast)
}
