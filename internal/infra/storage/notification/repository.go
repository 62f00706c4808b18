package notification

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-StaffBookingService/internal/domain"
	"github.com/m04kA/SMC-StaffBookingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-StaffBookingService/pkg/psqlbuilder"
)

// DefaultListLimit количество уведомлений по умолчанию в выдаче
const DefaultListLimit = 50

// Repository репозиторий уведомлений
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория уведомлений
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create сохраняет уведомление
func (r *Repository) Create(ctx context.Context, n *domain.Notification) (*domain.Notification, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("notifications").
		Columns("user_id", "title", "message", "type", "link").
		Values(n.UserID, n.Title, n.Message, n.Type, n.Link).
		Suffix("RETURNING id, created_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %w", ErrBuildQuery, err)
	}

	var createdAt sql.NullTime
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&n.ID, &createdAt); err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %w", ErrExecQuery, err)
	}

	n.CreatedAt = createdAt.Time

	return n, nil
}

func listByUserQuery(userID int64, unreadOnly bool, limit int) squirrel.SelectBuilder {
	if limit <= 0 {
		limit = DefaultListLimit
	}

	builder := psqlbuilder.Select("id", "user_id", "title", "message", "type", "link", "is_read", "created_at").
		From("notifications").
		Where(squirrel.Eq{"user_id": userID})

	if unreadOnly {
		builder = builder.Where(squirrel.Eq{"is_read": false})
	}

	return builder.OrderBy("created_at DESC", "id DESC").Limit(uint64(limit))
}

// ListByUser возвращает последние уведомления пользователя
func (r *Repository) ListByUser(ctx context.Context, userID int64, unreadOnly bool, limit int) ([]*domain.Notification, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := listByUserQuery(userID, unreadOnly, limit).ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListByUser - build select query: %w", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListByUser - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	result := make([]*domain.Notification, 0)
	for rows.Next() {
		var n domain.Notification
		var createdAt sql.NullTime
		if err := rows.Scan(&n.ID, &n.UserID, &n.Title, &n.Message, &n.Type, &n.Link, &n.IsRead, &createdAt); err != nil {
			return nil, fmt.Errorf("%w: ListByUser - scan row: %w", ErrScanRow, err)
		}
		n.CreatedAt = createdAt.Time
		result = append(result, &n)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListByUser - rows error: %w", ErrScanRow, err)
	}

	return result, nil
}

func markReadQuery(userID, id int64) squirrel.UpdateBuilder {
	return psqlbuilder.Update("notifications").
		Set("is_read", true).
		Where(squirrel.Eq{"id": id, "user_id": userID})
}

// MarkRead помечает уведомление пользователя прочитанным
// Если уведомления нет или оно принадлежит другому пользователю, возвращает ErrNotificationNotFound
func (r *Repository) MarkRead(ctx context.Context, userID, id int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := markReadQuery(userID, id).ToSql()
	if err != nil {
		return fmt.Errorf("%w: MarkRead - build update query: %w", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: MarkRead - execute update: %w", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: MarkRead - get rows affected: %w", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrNotificationNotFound
	}

	return nil
}
