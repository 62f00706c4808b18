package config

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

// DBExecutor исполнитель запросов (*dbmetrics.DB или транзакция)
type DBExecutor = dbmetrics.DBExecutor

// Repository репозиторий для работы с конфигурацией слотов бизнеса
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория конфигурации слотов
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetByBusiness получает конфигурацию бизнеса
// Если конфигурации нет, возвращает ErrConfigNotFound
func (r *Repository) GetByBusiness(ctx context.Context, businessUserID int64) (*domain.BusinessSlotConfig, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"business_user_id",
		"open_time",
		"close_time",
		"step_minutes",
		"created_at",
		"updated_at",
	).
		From("business_slot_config").
		Where(squirrel.Eq{"business_user_id": businessUserID}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByBusiness - build select query: %w", ErrBuildQuery, err)
	}

	var config domain.BusinessSlotConfig
	var createdAt, updatedAt sql.NullTime

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&config.BusinessUserID,
		&config.OpenTime,
		&config.CloseTime,
		&config.StepMinutes,
		&createdAt,
		&updatedAt,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrConfigNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByBusiness - scan config: %w", ErrScanRow, err)
	}

	config.CreatedAt = createdAt.Time
	config.UpdatedAt = updatedAt.Time

	return &config, nil
}

// upsertQuery вставляет конфигурацию или обновляет существующую
func upsertQuery(config *domain.BusinessSlotConfig) squirrel.InsertBuilder {
	return psqlbuilder.Insert("business_slot_config").
		Columns("business_user_id", "open_time", "close_time", "step_minutes").
		Values(config.BusinessUserID, config.OpenTime, config.CloseTime, config.StepMinutes).
		Suffix(`ON CONFLICT (business_user_id) DO UPDATE SET
			open_time = EXCLUDED.open_time,
			close_time = EXCLUDED.close_time,
			step_minutes = EXCLUDED.step_minutes,
			updated_at = NOW()
		RETURNING created_at, updated_at`)
}

// Upsert сохраняет конфигурацию бизнеса
func (r *Repository) Upsert(ctx context.Context, config *domain.BusinessSlotConfig) (*domain.BusinessSlotConfig, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := upsertQuery(config).ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Upsert - build insert query: %w", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&createdAt, &updatedAt); err != nil {
		return nil, fmt.Errorf("%w: Upsert - execute insert: %w", ErrExecQuery, err)
	}

	config.IsDefault = false
	config.CreatedAt = createdAt.Time
	config.UpdatedAt = updatedAt.Time

	return config, nil
}
