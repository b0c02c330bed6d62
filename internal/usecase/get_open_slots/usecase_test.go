package get_open_slots

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesterhub/MH-SchedulingService/internal/domain"
)

type stubAppointmentRepo struct {
	appointments []*domain.Appointment
	err          error
}

func (s *stubAppointmentRepo) ListIntersecting(_ context.Context, _ int64, _, _ time.Time) ([]*domain.Appointment, error) {
	return s.appointments, s.err
}

type stubCalendarRepo struct {
	overrides []*domain.AvailabilityOverride
	err       error
}

func (s *stubCalendarRepo) ListOverrides(_ context.Context, _ int64, _, _ time.Time) ([]*domain.AvailabilityOverride, error) {
	return s.overrides, s.err
}

type stubCalendarService struct {
	settings *domain.CalendarSettings
	err      error
}

func (s *stubCalendarService) GetDomainSettings(_ context.Context, _ int64) (*domain.CalendarSettings, error) {
	return s.settings, s.err
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

func testSettings() *domain.CalendarSettings {
	return &domain.CalendarSettings{
		ID:                     1,
		ProfessionalID:         10,
		Timezone:               "UTC",
		WeeklyHours:            nil, // дефолтное окно 09:00-17:00
		BufferMinutes:          15,
		MinAdvanceHours:        24,
		MaxAdvanceDays:         90,
		DefaultDurationMinutes: 60,
		OnlineBookingEnabled:   true,
	}
}

func newTestUseCase(
	appointments []*domain.Appointment,
	overrides []*domain.AvailabilityOverride,
	settings *domain.CalendarSettings,
	now time.Time,
) *UseCase {
	uc := NewUseCase(
		&stubAppointmentRepo{appointments: appointments},
		&stubCalendarRepo{overrides: overrides},
		&stubCalendarService{settings: settings},
		nopLogger{},
	)
	uc.timeProvider = &fixedTimeProvider{now: now}
	return uc
}

// 2026-03-02 - понедельник
var (
	testNow  = time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	testDate = time.Date(2026, 3, 4, 0, 0, 0, 0, time.UTC)
)

func TestExecute_FreeDay(t *testing.T) {
	uc := newTestUseCase(nil, nil, testSettings(), testNow)

	resp, err := uc.Execute(context.Background(), &Request{ProfessionalID: 10, Date: testDate})
	require.NoError(t, err)

	// Окно 09:00-17:00, длительность 60, шаг 30: старты 09:00..16:00
	require.Len(t, resp.Slots, 15)
	assert.Equal(t, time.Date(2026, 3, 4, 9, 0, 0, 0, time.UTC), resp.Slots[0].Start)
	assert.Equal(t, time.Date(2026, 3, 4, 10, 0, 0, 0, time.UTC), resp.Slots[0].End)
	assert.Equal(t, time.Date(2026, 3, 4, 16, 0, 0, 0, time.UTC), resp.Slots[14].Start)
	assert.Equal(t, "2026-03-04", resp.Date)
	assert.Equal(t, 60, resp.DurationMinutes)
}

func TestExecute_AppointmentWithBufferBlocksSlots(t *testing.T) {
	appointments := []*domain.Appointment{
		{
			ID:             1,
			ProfessionalID: 10,
			ScheduledStart: time.Date(2026, 3, 4, 12, 0, 0, 0, time.UTC),
			ScheduledEnd:   time.Date(2026, 3, 4, 13, 0, 0, 0, time.UTC),
			Status:         domain.StatusConfirmed,
		},
	}

	uc := newTestUseCase(appointments, nil, testSettings(), testNow)

	resp, err := uc.Execute(context.Background(), &Request{ProfessionalID: 10, Date: testDate})
	require.NoError(t, err)

	// Запись 12:00-13:00 с буфером 15 занимает 11:45-13:15: выбывают
	// старты 11:00..13:00, первый слот после занятости начинается ровно
	// на её границе 13:15, дальше перебор продолжается шагом 30 минут
	require.Len(t, resp.Slots, 10)
	assert.Equal(t, time.Date(2026, 3, 4, 10, 30, 0, 0, time.UTC), resp.Slots[3].Start)
	assert.Equal(t, time.Date(2026, 3, 4, 13, 15, 0, 0, time.UTC), resp.Slots[4].Start)
	assert.Equal(t, time.Date(2026, 3, 4, 13, 45, 0, 0, time.UTC), resp.Slots[5].Start)
	assert.Equal(t, time.Date(2026, 3, 4, 15, 45, 0, 0, time.UTC), resp.Slots[9].Start)
}

func TestExecute_SlotStartsAtBusyBoundary(t *testing.T) {
	appointments := []*domain.Appointment{
		{
			ID:             1,
			ProfessionalID: 10,
			ScheduledStart: time.Date(2026, 3, 4, 10, 0, 0, 0, time.UTC),
			ScheduledEnd:   time.Date(2026, 3, 4, 11, 0, 0, 0, time.UTC),
			Status:         domain.StatusConfirmed,
		},
	}
	duration := 30

	uc := newTestUseCase(appointments, nil, testSettings(), testNow)

	resp, err := uc.Execute(context.Background(), &Request{
		ProfessionalID:  10,
		Date:            testDate,
		DurationMinutes: &duration,
	})
	require.NoError(t, err)

	// Запись 10:00-11:00 с буфером 15 занимает 09:45-11:15. Кандидат 09:30
	// пересекает занятость и передвигается на её конец: слот 11:15-11:45
	// не теряется, хотя 11:15 не лежит на 30-минутной сетке от начала окна
	require.Len(t, resp.Slots, 12)
	assert.Equal(t, time.Date(2026, 3, 4, 9, 0, 0, 0, time.UTC), resp.Slots[0].Start)
	assert.Equal(t, time.Date(2026, 3, 4, 11, 15, 0, 0, time.UTC), resp.Slots[1].Start)
	assert.Equal(t, time.Date(2026, 3, 4, 11, 45, 0, 0, time.UTC), resp.Slots[2].Start)
	assert.Equal(t, time.Date(2026, 3, 4, 16, 15, 0, 0, time.UTC), resp.Slots[11].Start)
}

func TestExecute_MinAdvanceCutsEarlySlots(t *testing.T) {
	// Завтра: earliest = now + 24h = 2026-03-03 10:00
	tomorrow := time.Date(2026, 3, 3, 0, 0, 0, 0, time.UTC)

	uc := newTestUseCase(nil, nil, testSettings(), testNow)

	resp, err := uc.Execute(context.Background(), &Request{ProfessionalID: 10, Date: tomorrow})
	require.NoError(t, err)

	require.Len(t, resp.Slots, 13)
	assert.Equal(t, time.Date(2026, 3, 3, 10, 0, 0, 0, time.UTC), resp.Slots[0].Start)
}

func TestExecute_ClosedWeekday(t *testing.T) {
	settings := testSettings()
	settings.WeeklyHours = domain.WeeklyHours{
		"wednesday": {Enabled: false},
	}

	uc := newTestUseCase(nil, nil, settings, testNow)

	resp, err := uc.Execute(context.Background(), &Request{ProfessionalID: 10, Date: testDate})
	require.NoError(t, err)
	assert.Empty(t, resp.Slots)
}

func TestExecute_UnavailableOverrideBlocksMorning(t *testing.T) {
	overrides := []*domain.AvailabilityOverride{
		{
			ID:             1,
			ProfessionalID: 10,
			StartAt:        time.Date(2026, 3, 4, 9, 0, 0, 0, time.UTC),
			EndAt:          time.Date(2026, 3, 4, 12, 0, 0, 0, time.UTC),
			IsAvailable:    false,
		},
	}

	uc := newTestUseCase(nil, overrides, testSettings(), testNow)

	resp, err := uc.Execute(context.Background(), &Request{ProfessionalID: 10, Date: testDate})
	require.NoError(t, err)

	// Блок без буфера: первый свободный старт ровно в 12:00
	require.Len(t, resp.Slots, 9)
	assert.Equal(t, time.Date(2026, 3, 4, 12, 0, 0, 0, time.UTC), resp.Slots[0].Start)
}

func TestExecute_AvailableOverrideIsIgnored(t *testing.T) {
	overrides := []*domain.AvailabilityOverride{
		{
			ID:             1,
			ProfessionalID: 10,
			StartAt:        time.Date(2026, 3, 4, 0, 0, 0, 0, time.UTC),
			EndAt:          time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC),
			IsAvailable:    true,
		},
	}

	uc := newTestUseCase(nil, overrides, testSettings(), testNow)

	resp, err := uc.Execute(context.Background(), &Request{ProfessionalID: 10, Date: testDate})
	require.NoError(t, err)

	// Блок доступности не расширяет рабочее окно и ничего не занимает
	assert.Len(t, resp.Slots, 15)
}

func TestExecute_DateBeyondHorizon(t *testing.T) {
	farDate := testNow.AddDate(0, 0, 91)

	uc := newTestUseCase(nil, nil, testSettings(), testNow)

	_, err := uc.Execute(context.Background(), &Request{ProfessionalID: 10, Date: farDate})
	assert.ErrorIs(t, err, ErrDateTooFarInFuture)
}

func TestExecute_PastDateReturnsNoSlots(t *testing.T) {
	yesterday := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	uc := newTestUseCase(nil, nil, testSettings(), testNow)

	resp, err := uc.Execute(context.Background(), &Request{ProfessionalID: 10, Date: yesterday})
	require.NoError(t, err)
	assert.Empty(t, resp.Slots)
}

func TestExecute_DurationDoesNotFitWindow(t *testing.T) {
	settings := testSettings()
	settings.WeeklyHours = domain.WeeklyHours{
		"wednesday": {Start: "09:00", End: "10:00", Enabled: true},
	}
	duration := 90

	uc := newTestUseCase(nil, nil, settings, testNow)

	resp, err := uc.Execute(context.Background(), &Request{
		ProfessionalID:  10,
		Date:            testDate,
		DurationMinutes: &duration,
	})
	require.NoError(t, err)
	assert.Empty(t, resp.Slots)
	assert.Equal(t, 90, resp.DurationMinutes)
}

func TestExecute_InvalidDuration(t *testing.T) {
	duration := 3

	uc := newTestUseCase(nil, nil, testSettings(), testNow)

	_, err := uc.Execute(context.Background(), &Request{
		ProfessionalID:  10,
		Date:            testDate,
		DurationMinutes: &duration,
	})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestExecute_UnknownTimezoneFallsBackToUTC(t *testing.T) {
	settings := testSettings()
	settings.Timezone = "Mars/Olympus"

	uc := newTestUseCase(nil, nil, settings, testNow)

	resp, err := uc.Execute(context.Background(), &Request{ProfessionalID: 10, Date: testDate})
	require.NoError(t, err)
	assert.Equal(t, "UTC", resp.Timezone)
	assert.Len(t, resp.Slots, 15)
}
