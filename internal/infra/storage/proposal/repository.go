package proposal

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

var proposalColumns = []string{
	"id",
	"thread_id",
	"professional_id",
	"request_id",
	"customer_id",
	"proposed_start",
	"duration_minutes",
	"location",
	"notes",
	"quote_id",
	"status",
	"response_message",
	"responded_at",
	"expires_at",
	"created_at",
	"updated_at",
}

// Repository репозиторий для работы с предложениями
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория предложений
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает новое предложение.
// Если в контексте передана активная транзакция, использует её - предложение
// и связанная квота создаются в одной транзакции.
func (r *Repository) Create(ctx context.Context, proposal *domain.Proposal) (*domain.Proposal, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("proposals").
		Columns(
			"thread_id",
			"professional_id",
			"request_id",
			"customer_id",
			"proposed_start",
			"duration_minutes",
			"location",
			"notes",
			"quote_id",
			"status",
			"expires_at",
		).
		Values(
			proposal.ThreadID,
			proposal.ProfessionalID,
			proposal.RequestID,
			proposal.CustomerID,
			proposal.ProposedStart,
			proposal.DurationMinutes,
			proposal.Location,
			proposal.Notes,
			proposal.QuoteID,
			proposal.Status,
			proposal.ExpiresAt,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&proposal.ID,
		&createdAt,
		&updatedAt,
	)

	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	proposal.CreatedAt = createdAt.Time
	proposal.UpdatedAt = updatedAt.Time

	return proposal, nil
}

// GetByID получает предложение по ID.
// Внутри транзакции добавляет FOR UPDATE: операции перехода статуса
// (accept/reject/cancel) сериализуются на строке, поэтому из двух
// конкурентных переходов ровно один увидит статус PROPOSED.
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Proposal, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(proposalColumns...).
		From("proposals").
		Where(squirrel.Eq{"id": id})

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	row := executor.QueryRowContext(ctx, query, args...)
	proposal, err := scanProposalRow(row)
	if err == sql.ErrNoRows {
		return nil, ErrProposalNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan proposal: %v", ErrScanRow, err)
	}

	return proposal, nil
}

// List получает предложения с фильтрацией по переписке, мастеру и статусу
func (r *Repository) List(ctx context.Context, filter domain.ProposalFilter) ([]*domain.Proposal, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(proposalColumns...).
		From("proposals").
		OrderBy("created_at DESC")

	if filter.ThreadID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"thread_id": *filter.ThreadID})
	}
	if filter.ProfessionalID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"professional_id": *filter.ProfessionalID})
	}
	if filter.Status != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": *filter.Status})
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

	return scanProposals(rows)
}

// MarkAccepted переводит предложение в ACCEPTED и фиксирует ответ клиента.
// customer_id записывается в строку: до этого момента он мог быть NULL,
// если переписка ещё не была привязана к клиенту.
func (r *Repository) MarkAccepted(ctx context.Context, id int64, customerID int64, responseMessage *string) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("proposals").
		Set("status", domain.ProposalStatusAccepted).
		Set("customer_id", customerID).
		Set("response_message", responseMessage).
		Set("responded_at", squirrel.Expr("NOW()")).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: MarkAccepted - build update query: %v", ErrBuildQuery, err)
	}

	return r.execExpectingRow(ctx, executor, "MarkAccepted", query, args)
}

// MarkResponded переводит предложение в REJECTED с фиксацией ответа клиента
func (r *Repository) MarkResponded(ctx context.Context, id int64, status domain.ProposalStatus, responseMessage *string) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("proposals").
		Set("status", status).
		Set("response_message", responseMessage).
		Set("responded_at", squirrel.Expr("NOW()")).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: MarkResponded - build update query: %v", ErrBuildQuery, err)
	}

	return r.execExpectingRow(ctx, executor, "MarkResponded", query, args)
}

// UpdateStatus обновляет только статус предложения (cancel, ленивое истечение)
func (r *Repository) UpdateStatus(ctx context.Context, id int64, status domain.ProposalStatus) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("proposals").
		Set("status", status).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - build update query: %v", ErrBuildQuery, err)
	}

	return r.execExpectingRow(ctx, executor, "UpdateStatus", query, args)
}

// ExpireDue переводит в EXPIRED все предложения, оставшиеся PROPOSED
// после истечения expires_at. Вызывается внешним периодическим джобом.
func (r *Repository) ExpireDue(ctx context.Context, now time.Time) (int64, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("proposals").
		Set("status", domain.ProposalStatusExpired).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"status": domain.ProposalStatusProposed}).
		Where(squirrel.LtOrEq{"expires_at": now}).
		ToSql()

	if err != nil {
		return 0, fmt.Errorf("%w: ExpireDue - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("%w: ExpireDue - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: ExpireDue - get rows affected: %v", ErrExecQuery, err)
	}

	return rowsAffected, nil
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
		return ErrProposalNotFound
	}

	return nil
}

// rowScanner общий интерфейс для *sql.Row и *sql.Rows
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanProposalRow(row rowScanner) (*domain.Proposal, error) {
	var proposal domain.Proposal
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&proposal.ID,
		&proposal.ThreadID,
		&proposal.ProfessionalID,
		&proposal.RequestID,
		&proposal.CustomerID,
		&proposal.ProposedStart,
		&proposal.DurationMinutes,
		&proposal.Location,
		&proposal.Notes,
		&proposal.QuoteID,
		&proposal.Status,
		&proposal.ResponseMessage,
		&proposal.RespondedAt,
		&proposal.ExpiresAt,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	proposal.CreatedAt = createdAt.Time
	proposal.UpdatedAt = updatedAt.Time

	return &proposal, nil
}

func scanProposals(rows *sql.Rows) ([]*domain.Proposal, error) {
	proposals := make([]*domain.Proposal, 0)

	for rows.Next() {
		proposal, err := scanProposalRow(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanProposals - scan row: %v", ErrScanRow, err)
		}
		proposals = append(proposals, proposal)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanProposals - rows error: %v", ErrScanRow, err)
	}

	return proposals, nil
}
