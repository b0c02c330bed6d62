package calendar

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesterhub/MH-SchedulingService/internal/domain"
	calendarStorage "github.com/mesterhub/MH-SchedulingService/internal/infra/storage/calendar"
	"github.com/mesterhub/MH-SchedulingService/internal/service/calendar/models"
)

type stubCalendarRepo struct {
	settings  *domain.CalendarSettings
	getErr    error
	deleteErr error

	createdSettings *domain.CalendarSettings
	updatedSettings *domain.CalendarSettings
	createdOverride *domain.AvailabilityOverride
	deletedOverride *int64
	overrides       []*domain.AvailabilityOverride
}

func (s *stubCalendarRepo) GetSettings(_ context.Context, _ int64) (*domain.CalendarSettings, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	settings := *s.settings
	return &settings, nil
}

func (s *stubCalendarRepo) CreateSettings(_ context.Context, settings *domain.CalendarSettings) (*domain.CalendarSettings, error) {
	created := *settings
	created.ID = 1
	s.createdSettings = &created
	return &created, nil
}

func (s *stubCalendarRepo) UpdateSettings(_ context.Context, settings *domain.CalendarSettings) error {
	s.updatedSettings = settings
	return nil
}

func (s *stubCalendarRepo) CreateOverride(_ context.Context, override *domain.AvailabilityOverride) (*domain.AvailabilityOverride, error) {
	created := *override
	created.ID = 3
	s.createdOverride = &created
	return &created, nil
}

func (s *stubCalendarRepo) DeleteOverride(_ context.Context, _ int64, overrideID int64) error {
	if s.deleteErr != nil {
		return s.deleteErr
	}
	s.deletedOverride = &overrideID
	return nil
}

func (s *stubCalendarRepo) ListOverrides(_ context.Context, _ int64, _, _ time.Time) ([]*domain.AvailabilityOverride, error) {
	return s.overrides, nil
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

var calendarNow = time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)

func newCalendarService(repo *stubCalendarRepo) *Service {
	return NewService(repo, &fixedTimeProvider{now: calendarNow}, nopLogger{})
}

func TestGetSettings_LazyDefaults(t *testing.T) {
	repo := &stubCalendarRepo{getErr: calendarStorage.ErrSettingsNotFound}
	svc := newCalendarService(repo)

	resp, err := svc.GetSettings(context.Background(), 10)
	require.NoError(t, err)

	// Настройки созданы лениво с дефолтными значениями
	require.NotNil(t, repo.createdSettings)
	assert.Equal(t, int64(10), resp.ProfessionalID)
	assert.Equal(t, domain.DefaultTimezone, resp.Timezone)
	assert.Equal(t, domain.DefaultBufferMinutes, resp.BufferMinutes)
	assert.Equal(t, domain.DefaultMinAdvanceHours, resp.MinAdvanceHours)
	assert.Equal(t, domain.DefaultMaxAdvanceDays, resp.MaxAdvanceDays)
	assert.Equal(t, domain.DefaultDurationMinutes, resp.DefaultDurationMinutes)
	assert.True(t, resp.OnlineBookingEnabled)
	assert.Nil(t, resp.WeeklyHours)
}

func TestGetSettings_Existing(t *testing.T) {
	settings := domain.DefaultCalendarSettings(10)
	settings.ID = 1
	settings.BufferMinutes = 30

	repo := &stubCalendarRepo{settings: settings}
	svc := newCalendarService(repo)

	resp, err := svc.GetSettings(context.Background(), 10)
	require.NoError(t, err)
	assert.Equal(t, 30, resp.BufferMinutes)
	assert.Nil(t, repo.createdSettings)
}

func TestUpdateSettings(t *testing.T) {
	t.Run("partial update keeps other fields", func(t *testing.T) {
		settings := domain.DefaultCalendarSettings(10)
		settings.ID = 1
		repo := &stubCalendarRepo{settings: settings}
		svc := newCalendarService(repo)

		buffer := 30
		resp, err := svc.UpdateSettings(context.Background(), 10, &models.UpdateSettingsRequest{
			UserID:        10,
			BufferMinutes: &buffer,
		})
		require.NoError(t, err)

		assert.Equal(t, 30, resp.BufferMinutes)
		assert.Equal(t, domain.DefaultTimezone, resp.Timezone)
		require.NotNil(t, repo.updatedSettings)
	})

	t.Run("only owner", func(t *testing.T) {
		repo := &stubCalendarRepo{settings: domain.DefaultCalendarSettings(10)}
		svc := newCalendarService(repo)

		_, err := svc.UpdateSettings(context.Background(), 10, &models.UpdateSettingsRequest{UserID: 99})
		assert.ErrorIs(t, err, ErrAccessDenied)
	})

	t.Run("unknown timezone", func(t *testing.T) {
		repo := &stubCalendarRepo{settings: domain.DefaultCalendarSettings(10)}
		svc := newCalendarService(repo)

		timezone := "Mars/Olympus"
		_, err := svc.UpdateSettings(context.Background(), 10, &models.UpdateSettingsRequest{
			UserID:   10,
			Timezone: &timezone,
		})
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("weekly hours validation", func(t *testing.T) {
		tests := []struct {
			name  string
			hours domain.WeeklyHours
		}{
			{"unknown weekday", domain.WeeklyHours{"someday": {Start: "09:00", End: "17:00", Enabled: true}}},
			{"invalid time", domain.WeeklyHours{"monday": {Start: "9 óra", End: "17:00", Enabled: true}}},
			{"start after end", domain.WeeklyHours{"monday": {Start: "18:00", End: "09:00", Enabled: true}}},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				repo := &stubCalendarRepo{settings: domain.DefaultCalendarSettings(10)}
				svc := newCalendarService(repo)

				_, err := svc.UpdateSettings(context.Background(), 10, &models.UpdateSettingsRequest{
					UserID:      10,
					WeeklyHours: tt.hours,
				})
				assert.ErrorIs(t, err, ErrInvalidInput)
			})
		}
	})

	t.Run("disabled day skips time validation", func(t *testing.T) {
		repo := &stubCalendarRepo{settings: domain.DefaultCalendarSettings(10)}
		svc := newCalendarService(repo)

		_, err := svc.UpdateSettings(context.Background(), 10, &models.UpdateSettingsRequest{
			UserID:      10,
			WeeklyHours: domain.WeeklyHours{"sunday": {Enabled: false}},
		})
		assert.NoError(t, err)
	})
}

func TestCreateOverride(t *testing.T) {
	repo := &stubCalendarRepo{settings: domain.DefaultCalendarSettings(10)}
	svc := newCalendarService(repo)

	reason := "szabadság"
	resp, err := svc.CreateOverride(context.Background(), 10, &models.CreateOverrideRequest{
		UserID:      10,
		StartAt:     calendarNow.AddDate(0, 0, 7),
		EndAt:       calendarNow.AddDate(0, 0, 14),
		IsAvailable: false,
		Reason:      &reason,
	})
	require.NoError(t, err)

	assert.Equal(t, int64(3), resp.ID)
	assert.False(t, resp.IsAvailable)
	require.NotNil(t, repo.createdOverride)
	assert.Equal(t, int64(10), repo.createdOverride.ProfessionalID)
}

func TestCreateOverride_InvalidPeriod(t *testing.T) {
	svc := newCalendarService(&stubCalendarRepo{})

	_, err := svc.CreateOverride(context.Background(), 10, &models.CreateOverrideRequest{
		UserID:  10,
		StartAt: calendarNow.AddDate(0, 0, 14),
		EndAt:   calendarNow.AddDate(0, 0, 7),
	})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestDeleteOverride(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		repo := &stubCalendarRepo{}
		svc := newCalendarService(repo)

		err := svc.DeleteOverride(context.Background(), 10, 3, 10)
		require.NoError(t, err)
		require.NotNil(t, repo.deletedOverride)
		assert.Equal(t, int64(3), *repo.deletedOverride)
	})

	t.Run("not found", func(t *testing.T) {
		repo := &stubCalendarRepo{deleteErr: calendarStorage.ErrOverrideNotFound}
		svc := newCalendarService(repo)

		err := svc.DeleteOverride(context.Background(), 10, 3, 10)
		assert.ErrorIs(t, err, ErrOverrideNotFound)
	})

	t.Run("only owner", func(t *testing.T) {
		svc := newCalendarService(&stubCalendarRepo{})

		err := svc.DeleteOverride(context.Background(), 10, 3, 99)
		assert.ErrorIs(t, err, ErrAccessDenied)
	})
}

func TestListOverrides(t *testing.T) {
	repo := &stubCalendarRepo{overrides: []*domain.AvailabilityOverride{
		{ID: 3, ProfessionalID: 10, StartAt: calendarNow, EndAt: calendarNow.Add(time.Hour)},
	}}
	svc := newCalendarService(repo)

	resp, err := svc.ListOverrides(context.Background(), 10, 10, calendarNow, calendarNow.AddDate(0, 0, 30))
	require.NoError(t, err)
	assert.Len(t, resp.Overrides, 1)

	_, err = svc.ListOverrides(context.Background(), 10, 10, calendarNow, calendarNow)
	assert.ErrorIs(t, err, ErrInvalidInput)
}
