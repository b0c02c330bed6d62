package reminder

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/mesterhub/MH-SchedulingService/internal/domain"
	"github.com/mesterhub/MH-SchedulingService/pkg/dbmetrics"
	"github.com/mesterhub/MH-SchedulingService/pkg/psqlbuilder"
)

var reminderColumns = []string{
	"id",
	"appointment_id",
	"recipient_type",
	"recipient_id",
	"remind_at",
	"minutes_before",
	"send_email",
	"send_sms",
	"send_push",
	"status",
	"sent_at",
	"error_message",
	"created_at",
	"updated_at",
}

// Repository репозиторий для работы с напоминаниями
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория напоминаний
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// CreateBatch создает пачку напоминаний одним INSERT.
// Пустая пачка допустима: для записи в ближайшем будущем все
// моменты напоминаний могут оказаться в прошлом.
func (r *Repository) CreateBatch(ctx context.Context, reminders []*domain.Reminder) error {
	if len(reminders) == 0 {
		return nil
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	insertBuilder := psqlbuilder.Insert("reminders").
		Columns(
			"appointment_id",
			"recipient_type",
			"recipient_id",
			"remind_at",
			"minutes_before",
			"send_email",
			"send_sms",
			"send_push",
			"status",
		)

	for _, reminder := range reminders {
		insertBuilder = insertBuilder.Values(
			reminder.AppointmentID,
			reminder.RecipientType,
			reminder.RecipientID,
			reminder.RemindAt,
			reminder.MinutesBefore,
			reminder.SendEmail,
			reminder.SendSMS,
			reminder.SendPush,
			reminder.Status,
		)
	}

	query, args, err := insertBuilder.ToSql()
	if err != nil {
		return fmt.Errorf("%w: CreateBatch - build insert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: CreateBatch - execute insert: %v", ErrExecQuery, err)
	}

	return nil
}

// CancelAllScheduled переводит все SCHEDULED напоминания записи в CANCELLED.
// Уже отправленные и проваленные напоминания не трогаются.
func (r *Repository) CancelAllScheduled(ctx context.Context, appointmentID int64) (int64, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("reminders").
		Set("status", domain.ReminderStatusCancelled).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"appointment_id": appointmentID}).
		Where(squirrel.Eq{"status": domain.ReminderStatusScheduled}).
		ToSql()

	if err != nil {
		return 0, fmt.Errorf("%w: CancelAllScheduled - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("%w: CancelAllScheduled - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: CancelAllScheduled - get rows affected: %v", ErrExecQuery, err)
	}

	return rowsAffected, nil
}

// ListDue получает SCHEDULED напоминания, у которых наступил remind_at.
// FOR UPDATE SKIP LOCKED: конкурентные вызовы джоба доставки не блокируются
// и не берут одни и те же строки.
func (r *Repository) ListDue(ctx context.Context, now time.Time, limit uint64) ([]*domain.Reminder, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(reminderColumns...).
		From("reminders").
		Where(squirrel.Eq{"status": domain.ReminderStatusScheduled}).
		Where(squirrel.LtOrEq{"remind_at": now}).
		OrderBy("remind_at ASC").
		Limit(limit)

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE SKIP LOCKED")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListDue - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListDue - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanReminders(rows)
}

// ListByAppointment получает все напоминания записи
func (r *Repository) ListByAppointment(ctx context.Context, appointmentID int64) ([]*domain.Reminder, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(reminderColumns...).
		From("reminders").
		Where(squirrel.Eq{"appointment_id": appointmentID}).
		OrderBy("remind_at ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListByAppointment - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListByAppointment - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanReminders(rows)
}

// MarkSent переводит напоминание в SENT с фиксацией момента отправки
func (r *Repository) MarkSent(ctx context.Context, id int64, sentAt time.Time) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("reminders").
		Set("status", domain.ReminderStatusSent).
		Set("sent_at", sentAt).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: MarkSent - build update query: %v", ErrBuildQuery, err)
	}

	return r.execExpectingRow(ctx, executor, "MarkSent", query, args)
}

// MarkFailed переводит напоминание в FAILED с текстом ошибки доставки
func (r *Repository) MarkFailed(ctx context.Context, id int64, errorMessage string) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("reminders").
		Set("status", domain.ReminderStatusFailed).
		Set("error_message", errorMessage).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: MarkFailed - build update query: %v", ErrBuildQuery, err)
	}

	return r.execExpectingRow(ctx, executor, "MarkFailed", query, args)
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
		return ErrReminderNotFound
	}

	return nil
}

func scanReminders(rows *sql.Rows) ([]*domain.Reminder, error) {
	reminders := make([]*domain.Reminder, 0)

	for rows.Next() {
		var reminder domain.Reminder
		var createdAt, updatedAt sql.NullTime

		err := rows.Scan(
			&reminder.ID,
			&reminder.AppointmentID,
			&reminder.RecipientType,
			&reminder.RecipientID,
			&reminder.RemindAt,
			&reminder.MinutesBefore,
			&reminder.SendEmail,
			&reminder.SendSMS,
			&reminder.SendPush,
			&reminder.Status,
			&reminder.SentAt,
			&reminder.ErrorMessage,
			&createdAt,
			&updatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: scanReminders - scan row: %v", ErrScanRow, err)
		}

		reminder.CreatedAt = createdAt.Time
		reminder.UpdatedAt = updatedAt.Time
		reminders = append(reminders, &reminder)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanReminders - rows error: %v", ErrScanRow, err)
	}

	return reminders, nil
}
