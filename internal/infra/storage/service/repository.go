package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-StaffBookingService/internal/domain"
	"github.com/m04kA/SMC-StaffBookingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-StaffBookingService/pkg/psqlbuilder"
)

// Repository репозиторий услуг (только чтение)
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория услуг
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

func getByIDQuery(id int64) squirrel.SelectBuilder {
	return psqlbuilder.Select(
		"id",
		"business_user_id",
		"name",
		"duration_minutes",
		"is_active",
		"created_at",
	).
		From("services").
		Where(squirrel.Eq{"id": id})
}

// GetByID получает услугу по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Service, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := getByIDQuery(id).ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %w", ErrBuildQuery, err)
	}

	var service domain.Service
	var createdAt sql.NullTime

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&service.ID,
		&service.BusinessUserID,
		&service.Name,
		&service.DurationMinutes,
		&service.IsActive,
		&createdAt,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrServiceNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan service: %w", ErrScanRow, err)
	}

	service.CreatedAt = createdAt.Time

	return &service, nil
}
