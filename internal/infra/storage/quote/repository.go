package quote

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/mesterhub/MH-SchedulingService/internal/domain"
	"github.com/mesterhub/MH-SchedulingService/pkg/dbmetrics"
	"github.com/mesterhub/MH-SchedulingService/pkg/psqlbuilder"
)

// Repository репозиторий для работы с квотами
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория квот
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает квоту. Вызывается только внутри транзакции создания
// предложения, поэтому executor всегда берётся из контекста.
func (r *Repository) Create(ctx context.Context, quote *domain.Quote) (*domain.Quote, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("quotes").
		Columns("price", "currency", "message", "status").
		Values(quote.Price, quote.Currency, quote.Message, quote.Status).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&quote.ID,
		&createdAt,
		&updatedAt,
	)

	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	quote.CreatedAt = createdAt.Time
	quote.UpdatedAt = updatedAt.Time

	return quote, nil
}

// GetByID получает квоту по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Quote, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id", "price", "currency", "message", "status", "created_at", "updated_at",
	).
		From("quotes").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	var quote domain.Quote
	var createdAt, updatedAt sql.NullTime

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&quote.ID,
		&quote.Price,
		&quote.Currency,
		&quote.Message,
		&quote.Status,
		&createdAt,
		&updatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrQuoteNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan quote: %v", ErrScanRow, err)
	}

	quote.CreatedAt = createdAt.Time
	quote.UpdatedAt = updatedAt.Time

	return &quote, nil
}

// UpdateStatus обновляет статус квоты (accepted при принятии предложения,
// withdrawn при отзыве или истечении)
func (r *Repository) UpdateStatus(ctx context.Context, id int64, status domain.QuoteStatus) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("quotes").
		Set("status", status).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrQuoteNotFound
	}

	return nil
}
