package staff

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

// Repository репозиторий профилей сотрудников и их услуг
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория сотрудников
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// eligibleStaffQuery активные сотрудники бизнеса, у которых есть связь с услугой
func eligibleStaffQuery(businessUserID, serviceID int64) squirrel.SelectBuilder {
	return psqlbuilder.Select("DISTINCT sp.staff_user_id").
		From("staff_profiles sp").
		Join("staff_services ss ON ss.staff_user_id = sp.staff_user_id").
		Where(squirrel.Eq{
			"sp.business_user_id": businessUserID,
			"sp.is_active":        true,
			"ss.service_id":       serviceID,
		}).
		OrderBy("sp.staff_user_id ASC")
}

// ListEligibleStaff возвращает ID сотрудников, которые могут выполнить услугу
func (r *Repository) ListEligibleStaff(ctx context.Context, businessUserID, serviceID int64) ([]int64, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := eligibleStaffQuery(businessUserID, serviceID).ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListEligibleStaff - build select query: %w", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListEligibleStaff - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	ids := make([]int64, 0)
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("%w: ListEligibleStaff - scan staff_user_id: %w", ErrScanRow, err)
		}
		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListEligibleStaff - rows error: %w", ErrScanRow, err)
	}

	return ids, nil
}

var profileColumns = []string{"staff_user_id", "business_user_id", "display_name", "is_active", "created_at"}

func profileQuery(staffUserID int64) squirrel.SelectBuilder {
	return psqlbuilder.Select(profileColumns...).
		From("staff_profiles").
		Where(squirrel.Eq{"staff_user_id": staffUserID})
}

// toggleActiveQuery переключает is_active одним UPDATE и возвращает новый профиль
func toggleActiveQuery(staffUserID int64) squirrel.UpdateBuilder {
	return psqlbuilder.Update("staff_profiles").
		Set("is_active", squirrel.Expr("NOT is_active")).
		Where(squirrel.Eq{"staff_user_id": staffUserID}).
		Suffix("RETURNING staff_user_id, business_user_id, display_name, is_active, created_at")
}

// GetProfile получает профиль сотрудника
// Если профиля нет, возвращает ErrStaffNotFound
func (r *Repository) GetProfile(ctx context.Context, staffUserID int64) (*domain.StaffProfile, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := profileQuery(staffUserID).ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetProfile - build select query: %w", ErrBuildQuery, err)
	}

	return scanProfile(executor.QueryRowContext(ctx, query, args...), "GetProfile")
}

// ToggleActive переключает доступность сотрудника для автоназначения
// Если профиля нет, возвращает ErrStaffNotFound
func (r *Repository) ToggleActive(ctx context.Context, staffUserID int64) (*domain.StaffProfile, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := toggleActiveQuery(staffUserID).ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ToggleActive - build update query: %w", ErrBuildQuery, err)
	}

	return scanProfile(executor.QueryRowContext(ctx, query, args...), "ToggleActive")
}

func scanProfile(row *sql.Row, op string) (*domain.StaffProfile, error) {
	var profile domain.StaffProfile
	var createdAt sql.NullTime

	err := row.Scan(
		&profile.StaffUserID,
		&profile.BusinessUserID,
		&profile.DisplayName,
		&profile.IsActive,
		&createdAt,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrStaffNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s - scan row: %w", ErrScanRow, op, err)
	}

	profile.CreatedAt = createdAt.Time

	return &profile, nil
}
