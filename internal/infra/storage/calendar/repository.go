package calendar

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/mesterhub/MH-SchedulingService/internal/domain"
	"github.com/mesterhub/MH-SchedulingService/pkg/dbmetrics"
	"github.com/mesterhub/MH-SchedulingService/pkg/psqlbuilder"
)

var settingsColumns = []string{
	"id",
	"professional_id",
	"timezone",
	"weekly_hours",
	"buffer_minutes",
	"min_advance_hours",
	"max_advance_days",
	"default_duration_minutes",
	"online_booking_enabled",
	"external_calendar_provider",
	"external_calendar_id",
	"created_at",
	"updated_at",
}

var overrideColumns = []string{
	"id",
	"professional_id",
	"start_at",
	"end_at",
	"is_available",
	"reason",
	"notes",
	"is_recurring",
	"recurrence_rule",
	"created_at",
	"updated_at",
}

// Repository репозиторий для работы с настройками календаря
// и блоками доступности
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория календаря
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetSettings получает настройки календаря мастера
func (r *Repository) GetSettings(ctx context.Context, professionalID int64) (*domain.CalendarSettings, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(settingsColumns...).
		From("calendar_settings").
		Where(squirrel.Eq{"professional_id": professionalID}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetSettings - build select query: %v", ErrBuildQuery, err)
	}

	row := executor.QueryRowContext(ctx, query, args...)
	settings, err := scanSettingsRow(row)
	if err == sql.ErrNoRows {
		return nil, ErrSettingsNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetSettings - scan settings: %v", ErrScanRow, err)
	}

	return settings, nil
}

// CreateSettings вставляет настройки календаря мастера.
// ON CONFLICT DO NOTHING: при гонке двух ленивых созданий выигрывает
// первая вставка, проигравшая сторона перечитывает строку.
func (r *Repository) CreateSettings(ctx context.Context, settings *domain.CalendarSettings) (*domain.CalendarSettings, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	weeklyHours, err := marshalWeeklyHours(settings.WeeklyHours)
	if err != nil {
		return nil, err
	}

	query, args, err := psqlbuilder.Insert("calendar_settings").
		Columns(
			"professional_id",
			"timezone",
			"weekly_hours",
			"buffer_minutes",
			"min_advance_hours",
			"max_advance_days",
			"default_duration_minutes",
			"online_booking_enabled",
			"external_calendar_provider",
			"external_calendar_id",
		).
		Values(
			settings.ProfessionalID,
			settings.Timezone,
			weeklyHours,
			settings.BufferMinutes,
			settings.MinAdvanceHours,
			settings.MaxAdvanceDays,
			settings.DefaultDurationMinutes,
			settings.OnlineBookingEnabled,
			settings.ExternalCalendarProvider,
			settings.ExternalCalendarID,
		).
		Suffix("ON CONFLICT (professional_id) DO NOTHING RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: CreateSettings - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&settings.ID,
		&createdAt,
		&updatedAt,
	)
	if err == sql.ErrNoRows {
		// Конфликт вставки: строка уже существует, возвращаем её
		return r.GetSettings(ctx, settings.ProfessionalID)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: CreateSettings - execute insert: %v", ErrExecQuery, err)
	}

	settings.CreatedAt = createdAt.Time
	settings.UpdatedAt = updatedAt.Time

	return settings, nil
}

// UpdateSettings полностью перезаписывает изменяемые поля настроек
func (r *Repository) UpdateSettings(ctx context.Context, settings *domain.CalendarSettings) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	weeklyHours, err := marshalWeeklyHours(settings.WeeklyHours)
	if err != nil {
		return err
	}

	query, args, err := psqlbuilder.Update("calendar_settings").
		Set("timezone", settings.Timezone).
		Set("weekly_hours", weeklyHours).
		Set("buffer_minutes", settings.BufferMinutes).
		Set("min_advance_hours", settings.MinAdvanceHours).
		Set("max_advance_days", settings.MaxAdvanceDays).
		Set("default_duration_minutes", settings.DefaultDurationMinutes).
		Set("online_booking_enabled", settings.OnlineBookingEnabled).
		Set("external_calendar_provider", settings.ExternalCalendarProvider).
		Set("external_calendar_id", settings.ExternalCalendarID).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"professional_id": settings.ProfessionalID}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: UpdateSettings - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: UpdateSettings - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: UpdateSettings - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrSettingsNotFound
	}

	return nil
}

// CreateOverride создает блок доступности
func (r *Repository) CreateOverride(ctx context.Context, override *domain.AvailabilityOverride) (*domain.AvailabilityOverride, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("availability_overrides").
		Columns(
			"professional_id",
			"start_at",
			"end_at",
			"is_available",
			"reason",
			"notes",
			"is_recurring",
			"recurrence_rule",
		).
		Values(
			override.ProfessionalID,
			override.StartAt,
			override.EndAt,
			override.IsAvailable,
			override.Reason,
			override.Notes,
			override.IsRecurring,
			override.RecurrenceRule,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: CreateOverride - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&override.ID,
		&createdAt,
		&updatedAt,
	)

	if err != nil {
		return nil, fmt.Errorf("%w: CreateOverride - execute insert: %v", ErrExecQuery, err)
	}

	override.CreatedAt = createdAt.Time
	override.UpdatedAt = updatedAt.Time

	return override, nil
}

// DeleteOverride удаляет блок доступности мастера
func (r *Repository) DeleteOverride(ctx context.Context, professionalID, overrideID int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("availability_overrides").
		Where(squirrel.Eq{"id": overrideID}).
		Where(squirrel.Eq{"professional_id": professionalID}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: DeleteOverride - build delete query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: DeleteOverride - execute delete: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: DeleteOverride - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrOverrideNotFound
	}

	return nil
}

// ListOverrides получает блоки доступности мастера,
// пересекающиеся с интервалом [from, to)
func (r *Repository) ListOverrides(ctx context.Context, professionalID int64, from, to time.Time) ([]*domain.AvailabilityOverride, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(overrideColumns...).
		From("availability_overrides").
		Where(squirrel.Eq{"professional_id": professionalID}).
		Where(squirrel.Lt{"start_at": to}).
		Where(squirrel.Gt{"end_at": from}).
		OrderBy("start_at ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListOverrides - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListOverrides - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	overrides := make([]*domain.AvailabilityOverride, 0)
	for rows.Next() {
		var override domain.AvailabilityOverride
		var createdAt, updatedAt sql.NullTime

		err := rows.Scan(
			&override.ID,
			&override.ProfessionalID,
			&override.StartAt,
			&override.EndAt,
			&override.IsAvailable,
			&override.Reason,
			&override.Notes,
			&override.IsRecurring,
			&override.RecurrenceRule,
			&createdAt,
			&updatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: ListOverrides - scan row: %v", ErrScanRow, err)
		}

		override.CreatedAt = createdAt.Time
		override.UpdatedAt = updatedAt.Time
		overrides = append(overrides, &override)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListOverrides - rows error: %v", ErrScanRow, err)
	}

	return overrides, nil
}

// marshalWeeklyHours сериализует рабочие часы в JSONB.
// nil остаётся SQL NULL - "дефолтное окно на все дни".
func marshalWeeklyHours(hours domain.WeeklyHours) (interface{}, error) {
	if hours == nil {
		return nil, nil
	}

	data, err := json.Marshal(hours)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMarshalHours, err)
	}

	return data, nil
}

func scanSettingsRow(row *sql.Row) (*domain.CalendarSettings, error) {
	var settings domain.CalendarSettings
	var weeklyHours []byte
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&settings.ID,
		&settings.ProfessionalID,
		&settings.Timezone,
		&weeklyHours,
		&settings.BufferMinutes,
		&settings.MinAdvanceHours,
		&settings.MaxAdvanceDays,
		&settings.DefaultDurationMinutes,
		&settings.OnlineBookingEnabled,
		&settings.ExternalCalendarProvider,
		&settings.ExternalCalendarID,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	if len(weeklyHours) > 0 {
		if err := json.Unmarshal(weeklyHours, &settings.WeeklyHours); err != nil {
			return nil, fmt.Errorf("unmarshal weekly_hours: %v", err)
		}
	}

	settings.CreatedAt = createdAt.Time
	settings.UpdatedAt = updatedAt.Time

	return &settings, nil
}
