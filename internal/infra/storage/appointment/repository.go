package appointment

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"
	"github.com/mesterhub/MH-SchedulingService/internal/domain"
	"github.com/mesterhub/MH-SchedulingService/pkg/dbmetrics"
	"github.com/mesterhub/MH-SchedulingService/pkg/psqlbuilder"
)

// Код ошибки PostgreSQL для нарушения уникального ограничения
const pgUniqueViolation = "23505"

var appointmentColumns = []string{
	"id",
	"proposal_id",
	"thread_id",
	"professional_id",
	"customer_id",
	"request_id",
	"scheduled_start",
	"scheduled_end",
	"duration_minutes",
	"location_address",
	"location_lat",
	"location_lng",
	"professional_notes",
	"customer_notes",
	"internal_notes",
	"status",
	"cancelled_at",
	"cancellation_reason",
	"completed_at",
	"rescheduled_from_id",
	"rescheduled_to_id",
	"confirmed_by_customer_at",
	"external_calendar_uid",
	"created_at",
	"updated_at",
}

// Repository репозиторий для работы с записями
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория записей
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает запись. Частичный уникальный индекс по proposal_id
// (только строки без rescheduled_from_id) обеспечивает идемпотентность
// создания из предложения: повторная вставка по тому же предложению
// возвращает ErrDuplicateProposal, а преемники при переносе под индекс
// не попадают.
func (r *Repository) Create(ctx context.Context, appointment *domain.Appointment) (*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("appointments").
		Columns(
			"proposal_id",
			"thread_id",
			"professional_id",
			"customer_id",
			"request_id",
			"scheduled_start",
			"scheduled_end",
			"duration_minutes",
			"location_address",
			"location_lat",
			"location_lng",
			"professional_notes",
			"customer_notes",
			"internal_notes",
			"status",
			"rescheduled_from_id",
			"confirmed_by_customer_at",
			"external_calendar_uid",
		).
		Values(
			appointment.ProposalID,
			appointment.ThreadID,
			appointment.ProfessionalID,
			appointment.CustomerID,
			appointment.RequestID,
			appointment.ScheduledStart,
			appointment.ScheduledEnd,
			appointment.DurationMinutes,
			appointment.LocationAddress,
			appointment.LocationLat,
			appointment.LocationLng,
			appointment.ProfessionalNotes,
			appointment.CustomerNotes,
			appointment.InternalNotes,
			appointment.Status,
			appointment.RescheduledFromID,
			appointment.ConfirmedByCustomerAt,
			appointment.ExternalCalendarUID,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&appointment.ID,
		&createdAt,
		&updatedAt,
	)

	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == pgUniqueViolation {
			return nil, ErrDuplicateProposal
		}
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	appointment.CreatedAt = createdAt.Time
	appointment.UpdatedAt = updatedAt.Time

	return appointment, nil
}

// GetByID получает запись по ID. Внутри транзакции добавляет FOR UPDATE.
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(appointmentColumns...).
		From("appointments").
		Where(squirrel.Eq{"id": id})

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	row := executor.QueryRowContext(ctx, query, args...)
	appointment, err := scanAppointmentRow(row)
	if err == sql.ErrNoRows {
		return nil, ErrAppointmentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan appointment: %v", ErrScanRow, err)
	}

	return appointment, nil
}

// GetByProposalID получает ИСХОДНУЮ запись, созданную из указанного
// предложения (преемники при переносе наследуют proposal_id и отсекаются
// по rescheduled_from_id). Используется идемпотентным созданием:
// при конфликте вставки возвращается уже существующая запись.
func (r *Repository) GetByProposalID(ctx context.Context, proposalID int64) (*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(appointmentColumns...).
		From("appointments").
		Where(squirrel.Eq{"proposal_id": proposalID}).
		Where(squirrel.Eq{"rescheduled_from_id": nil}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByProposalID - build select query: %v", ErrBuildQuery, err)
	}

	row := executor.QueryRowContext(ctx, query, args...)
	appointment, err := scanAppointmentRow(row)
	if err == sql.ErrNoRows {
		return nil, ErrAppointmentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByProposalID - scan appointment: %v", ErrScanRow, err)
	}

	return appointment, nil
}

// List получает записи с фильтрацией, упорядоченные по времени начала
func (r *Repository) List(ctx context.Context, filter domain.AppointmentFilter) ([]*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(appointmentColumns...).
		From("appointments").
		OrderBy("scheduled_start ASC")

	if filter.ProfessionalID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"professional_id": *filter.ProfessionalID})
	}
	if filter.CustomerID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"customer_id": *filter.CustomerID})
	}
	if filter.Status != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": *filter.Status})
	}
	if filter.StartDate != nil {
		selectBuilder = selectBuilder.Where(squirrel.GtOrEq{"scheduled_start": *filter.StartDate})
	}
	if filter.EndDate != nil {
		selectBuilder = selectBuilder.Where(squirrel.LtOrEq{"scheduled_start": *filter.EndDate})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: List - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: List - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanAppointments(rows)
}

// ListIntersecting получает занимающие календарь записи мастера,
// пересекающиеся с интервалом [from, to). Используется расчётом слотов:
// касание границ пересечением не считается.
func (r *Repository) ListIntersecting(ctx context.Context, professionalID int64, from, to time.Time) ([]*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(appointmentColumns...).
		From("appointments").
		Where(squirrel.Eq{"professional_id": professionalID}).
		Where(squirrel.Eq{"status": domain.BusyStatuses}).
		Where(squirrel.Lt{"scheduled_start": to}).
		Where(squirrel.Gt{"scheduled_end": from}).
		OrderBy("scheduled_start ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListIntersecting - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListIntersecting - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanAppointments(rows)
}

// MarkRescheduled переводит запись в RESCHEDULED и связывает её с преемником
func (r *Repository) MarkRescheduled(ctx context.Context, id int64, rescheduledToID int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("appointments").
		Set("status", domain.StatusRescheduled).
		Set("rescheduled_to_id", rescheduledToID).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: MarkRescheduled - build update query: %v", ErrBuildQuery, err)
	}

	return r.execExpectingRow(ctx, executor, "MarkRescheduled", query, args)
}

// Cancel переводит запись в отменённый статус с фиксацией причины и момента
func (r *Repository) Cancel(ctx context.Context, id int64, status domain.AppointmentStatus, reason *string, cancelledAt time.Time) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("appointments").
		Set("status", status).
		Set("cancellation_reason", reason).
		Set("cancelled_at", cancelledAt).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Cancel - build update query: %v", ErrBuildQuery, err)
	}

	return r.execExpectingRow(ctx, executor, "Cancel", query, args)
}

// Complete переводит запись в COMPLETED с фиксацией момента завершения.
// Заметки мастера перезаписываются только если переданы.
func (r *Repository) Complete(ctx context.Context, id int64, completedAt time.Time, professionalNotes *string) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	updateBuilder := psqlbuilder.Update("appointments").
		Set("status", domain.StatusCompleted).
		Set("completed_at", completedAt).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id})

	if professionalNotes != nil {
		updateBuilder = updateBuilder.Set("professional_notes", professionalNotes)
	}

	query, args, err := updateBuilder.ToSql()

	if err != nil {
		return fmt.Errorf("%w: Complete - build update query: %v", ErrBuildQuery, err)
	}

	return r.execExpectingRow(ctx, executor, "Complete", query, args)
}

// UpdateStatus обновляет только статус записи (no-show)
func (r *Repository) UpdateStatus(ctx context.Context, id int64, status domain.AppointmentStatus) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("appointments").
		Set("status", status).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - build update query: %v", ErrBuildQuery, err)
	}

	return r.execExpectingRow(ctx, executor, "UpdateStatus", query, args)
}

func (r *Repository) execExpectingRow(ctx context.Context, executor DBExecutor, op string, query string, args []interface{}) error {
	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: %s - execute update: %v", ErrExecQuery, op, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %s - get rows affected: %v", ErrExecQuery, op, err)
	}

	if rowsAffected == 0 {
		return ErrAppointmentNotFound
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanAppointmentRow(row rowScanner) (*domain.Appointment, error) {
	var appointment domain.Appointment
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&appointment.ID,
		&appointment.ProposalID,
		&appointment.ThreadID,
		&appointment.ProfessionalID,
		&appointment.CustomerID,
		&appointment.RequestID,
		&appointment.ScheduledStart,
		&appointment.ScheduledEnd,
		&appointment.DurationMinutes,
		&appointment.LocationAddress,
		&appointment.LocationLat,
		&appointment.LocationLng,
		&appointment.ProfessionalNotes,
		&appointment.CustomerNotes,
		&appointment.InternalNotes,
		&appointment.Status,
		&appointment.CancelledAt,
		&appointment.CancellationReason,
		&appointment.CompletedAt,
		&appointment.RescheduledFromID,
		&appointment.RescheduledToID,
		&appointment.ConfirmedByCustomerAt,
		&appointment.ExternalCalendarUID,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	appointment.CreatedAt = createdAt.Time
	appointment.UpdatedAt = updatedAt.Time

	return &appointment, nil
}

func scanAppointments(rows *sql.Rows) ([]*domain.Appointment, error) {
	appointments := make([]*domain.Appointment, 0)

	for rows.Next() {
		appointment, err := scanAppointmentRow(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanAppointments - scan row: %v", ErrScanRow, err)
		}
		appointments = append(appointments, appointment)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanAppointments - rows error: %v", ErrScanRow, err)
	}

	return appointments, nil
}
