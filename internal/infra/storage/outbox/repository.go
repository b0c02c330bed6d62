package outbox

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

// Repository репозиторий для работы с outbox событиями
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория outbox
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Enqueue записывает событие в outbox. Вызывается внутри транзакции
// основного перехода статуса: событие и переход фиксируются атомарно.
func (r *Repository) Enqueue(ctx context.Context, eventType string, payload []byte) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("outbox_events").
		Columns("event_type", "payload", "status").
		Values(eventType, payload, domain.OutboxStatusPending).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Enqueue - build insert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: Enqueue - execute insert: %v", ErrExecQuery, err)
	}

	return nil
}

// ListPending получает недоставленные события в порядке создания.
// FOR UPDATE SKIP LOCKED защищает от двойной доставки конкурентными
// вызовами джоба.
func (r *Repository) ListPending(ctx context.Context, limit uint64) ([]*domain.OutboxEvent, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(
		"id", "event_type", "payload", "status", "attempts", "created_at", "dispatched_at",
	).
		From("outbox_events").
		Where(squirrel.Eq{"status": domain.OutboxStatusPending}).
		OrderBy("created_at ASC").
		Limit(limit)

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE SKIP LOCKED")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListPending - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListPending - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	events := make([]*domain.OutboxEvent, 0)
	for rows.Next() {
		var event domain.OutboxEvent
		var createdAt sql.NullTime

		err := rows.Scan(
			&event.ID,
			&event.EventType,
			&event.Payload,
			&event.Status,
			&event.Attempts,
			&createdAt,
			&event.DispatchedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: ListPending - scan row: %v", ErrScanRow, err)
		}

		event.CreatedAt = createdAt.Time
		events = append(events, &event)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListPending - rows error: %v", ErrScanRow, err)
	}

	return events, nil
}

// MarkDispatched переводит событие в DISPATCHED
func (r *Repository) MarkDispatched(ctx context.Context, id int64, dispatchedAt time.Time) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("outbox_events").
		Set("status", domain.OutboxStatusDispatched).
		Set("dispatched_at", dispatchedAt).
		Set("attempts", squirrel.Expr("attempts + 1")).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: MarkDispatched - build update query: %v", ErrBuildQuery, err)
	}

	return r.execExpectingRow(ctx, executor, "MarkDispatched", query, args)
}

// MarkFailed увеличивает счётчик попыток; событие остаётся PENDING,
// чтобы следующий проход джоба повторил доставку
func (r *Repository) MarkFailed(ctx context.Context, id int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("outbox_events").
		Set("attempts", squirrel.Expr("attempts + 1")).
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
		return ErrEventNotFound
	}

	return nil
}
