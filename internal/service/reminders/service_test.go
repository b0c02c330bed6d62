package reminders

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesterhub/MH-SchedulingService/internal/domain"
	"github.com/mesterhub/MH-SchedulingService/internal/integrations/notifyservice"
)

type stubReminderRepo struct {
	createdBatch []*domain.Reminder
	due          []*domain.Reminder

	sentIDs   []int64
	failedIDs []int64
	cancelled int64
}

func (s *stubReminderRepo) CreateBatch(_ context.Context, reminders []*domain.Reminder) error {
	s.createdBatch = reminders
	return nil
}

func (s *stubReminderRepo) CancelAllScheduled(_ context.Context, _ int64) (int64, error) {
	return s.cancelled, nil
}

func (s *stubReminderRepo) ListDue(_ context.Context, _ time.Time, _ uint64) ([]*domain.Reminder, error) {
	return s.due, nil
}

func (s *stubReminderRepo) MarkSent(_ context.Context, id int64, _ time.Time) error {
	s.sentIDs = append(s.sentIDs, id)
	return nil
}

func (s *stubReminderRepo) MarkFailed(_ context.Context, id int64, _ string) error {
	s.failedIDs = append(s.failedIDs, id)
	return nil
}

type stubNotifyClient struct {
	failForReminderID int64
	sent              []notifyservice.ReminderNotification
}

func (s *stubNotifyClient) SendReminder(_ context.Context, notification notifyservice.ReminderNotification) error {
	if s.failForReminderID != 0 && notification.ReminderID == s.failForReminderID {
		return errors.New("notify service unavailable")
	}
	s.sent = append(s.sent, notification)
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

var remindersNow = time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)

func appointmentStartingAt(start time.Time) *domain.Appointment {
	return &domain.Appointment{
		ID:             50,
		ProfessionalID: 10,
		CustomerID:     42,
		ScheduledStart: start,
		ScheduledEnd:   start.Add(time.Hour),
		Status:         domain.StatusConfirmed,
	}
}

func TestBuildReminders_FullSet(t *testing.T) {
	appointment := appointmentStartingAt(remindersNow.AddDate(0, 0, 10))

	reminders := BuildReminders(appointment, remindersNow)

	// Два смещения на двух получателей
	require.Len(t, reminders, 4)

	for _, reminder := range reminders {
		assert.Equal(t, int64(50), reminder.AppointmentID)
		assert.Equal(t, domain.ReminderStatusScheduled, reminder.Status)
		assert.True(t, reminder.SendEmail)
		assert.True(t, reminder.SendPush)
		assert.False(t, reminder.SendSMS)
		assert.Equal(t, appointment.ScheduledStart.Add(-time.Duration(reminder.MinutesBefore)*time.Minute), reminder.RemindAt)
	}

	assert.Equal(t, 1440, reminders[0].MinutesBefore)
	assert.Equal(t, domain.RecipientCustomer, reminders[0].RecipientType)
	assert.Equal(t, int64(42), reminders[0].RecipientID)
	assert.Equal(t, domain.RecipientProfessional, reminders[1].RecipientType)
	assert.Equal(t, int64(10), reminders[1].RecipientID)
	assert.Equal(t, 60, reminders[2].MinutesBefore)
}

func TestBuildReminders_SkipsPastOffsets(t *testing.T) {
	// Запись через 2 часа: суточное напоминание уже в прошлом
	appointment := appointmentStartingAt(remindersNow.Add(2 * time.Hour))

	reminders := BuildReminders(appointment, remindersNow)

	require.Len(t, reminders, 2)
	assert.Equal(t, 60, reminders[0].MinutesBefore)
	assert.Equal(t, 60, reminders[1].MinutesBefore)
}

func TestBuildReminders_ImminentAppointment(t *testing.T) {
	// Запись через полчаса: оба смещения в прошлом, пачка пустая
	appointment := appointmentStartingAt(remindersNow.Add(30 * time.Minute))

	reminders := BuildReminders(appointment, remindersNow)
	assert.Empty(t, reminders)
}

func TestScheduleFor(t *testing.T) {
	repo := &stubReminderRepo{}
	svc := NewService(repo, &stubNotifyClient{}, passthroughTxManager{}, &fixedTimeProvider{now: remindersNow}, nopLogger{})

	err := svc.ScheduleFor(context.Background(), appointmentStartingAt(remindersNow.AddDate(0, 0, 10)))
	require.NoError(t, err)
	assert.Len(t, repo.createdBatch, 4)
}

func TestCancelAll(t *testing.T) {
	repo := &stubReminderRepo{cancelled: 4}
	svc := NewService(repo, &stubNotifyClient{}, passthroughTxManager{}, &fixedTimeProvider{now: remindersNow}, nopLogger{})

	cancelled, err := svc.CancelAll(context.Background(), 50)
	require.NoError(t, err)
	assert.Equal(t, int64(4), cancelled)
}

func TestDispatchDue(t *testing.T) {
	due := []*domain.Reminder{
		{ID: 1, AppointmentID: 50, RecipientType: domain.RecipientCustomer, RecipientID: 42, MinutesBefore: 60, SendEmail: true, SendPush: true},
		{ID: 2, AppointmentID: 50, RecipientType: domain.RecipientProfessional, RecipientID: 10, MinutesBefore: 60, SendEmail: true, SendPush: true},
		{ID: 3, AppointmentID: 51, RecipientType: domain.RecipientCustomer, RecipientID: 43, MinutesBefore: 1440, SendEmail: true, SendPush: true},
	}

	repo := &stubReminderRepo{due: due}
	notify := &stubNotifyClient{failForReminderID: 2}
	svc := NewService(repo, notify, passthroughTxManager{}, &fixedTimeProvider{now: remindersNow}, nopLogger{})

	sent, failed, err := svc.DispatchDue(context.Background(), 0)
	require.NoError(t, err)

	// Сбой доставки одного напоминания не прерывает остальные
	assert.Equal(t, 2, sent)
	assert.Equal(t, 1, failed)
	assert.Equal(t, []int64{1, 3}, repo.sentIDs)
	assert.Equal(t, []int64{2}, repo.failedIDs)

	require.Len(t, notify.sent, 2)
	assert.Equal(t, int64(1), notify.sent[0].ReminderID)
	assert.Equal(t, "customer", notify.sent[0].RecipientType)
}
