package config

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-StaffBookingService/internal/domain"
	configRepo "github.com/m04kA/SMC-StaffBookingService/internal/infra/storage/config"
	"github.com/m04kA/SMC-StaffBookingService/internal/service/config/models"
	"github.com/m04kA/SMC-StaffBookingService/pkg/logger"
	"github.com/m04kA/SMC-StaffBookingService/pkg/types"
)

type fakeConfigRepo struct {
	configs map[int64]domain.BusinessSlotConfig
	err     error
	upserts int
}

func (f *fakeConfigRepo) GetByBusiness(_ context.Context, businessUserID int64) (*domain.BusinessSlotConfig, error) {
	if f.err != nil {
		return nil, f.err
	}
	cfg, ok := f.configs[businessUserID]
	if !ok {
		return nil, configRepo.ErrConfigNotFound
	}
	return &cfg, nil
}

func (f *fakeConfigRepo) Upsert(_ context.Context, cfg *domain.BusinessSlotConfig) (*domain.BusinessSlotConfig, error) {
	f.upserts++
	f.configs[cfg.BusinessUserID] = *cfg
	return cfg, nil
}

func newService(repo *fakeConfigRepo) *Service {
	return NewService(repo, logger.Nop())
}

func TestGetSlotConfig_DefaultsWhenMissing(t *testing.T) {
	svc := newService(&fakeConfigRepo{configs: map[int64]domain.BusinessSlotConfig{}})

	cfg, err := svc.GetSlotConfig(context.Background(), 5)
	require.NoError(t, err)
	assert.True(t, cfg.IsDefault)
	assert.Equal(t, types.TimeString("09:00"), cfg.OpenTime)
	assert.Equal(t, types.TimeString("20:00"), cfg.CloseTime)
	assert.Equal(t, 30, cfg.StepMinutes)

	resp, err := svc.Get(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, 23, resp.SlotsPerDay)
}

func TestGetSlotConfig_InvalidStoredFallsBack(t *testing.T) {
	repo := &fakeConfigRepo{configs: map[int64]domain.BusinessSlotConfig{
		5: {BusinessUserID: 5, OpenTime: "20:00", CloseTime: "09:00", StepMinutes: 30},
	}}

	cfg, err := newService(repo).GetSlotConfig(context.Background(), 5)
	require.NoError(t, err)
	assert.True(t, cfg.IsDefault)
}

func TestGetSlotConfig_RepositoryError(t *testing.T) {
	repo := &fakeConfigRepo{err: errors.New("db down")}

	_, err := newService(repo).GetSlotConfig(context.Background(), 5)
	assert.ErrorIs(t, err, ErrInternal)
}

func TestUpdate(t *testing.T) {
	repo := &fakeConfigRepo{configs: map[int64]domain.BusinessSlotConfig{}}
	svc := newService(repo)
	ctx := context.Background()

	t.Run("owner updates", func(t *testing.T) {
		resp, err := svc.Update(ctx, &models.UpdateConfigRequest{
			UserID: 5, BusinessUserID: 5, OpenTime: "10:00", CloseTime: "12:00", StepMinutes: 60,
		})
		require.NoError(t, err)
		assert.False(t, resp.IsDefault)
		assert.Equal(t, 3, resp.SlotsPerDay)

		cfg, err := svc.GetSlotConfig(ctx, 5)
		require.NoError(t, err)
		assert.Equal(t, types.TimeString("10:00"), cfg.OpenTime)
	})

	t.Run("not owner", func(t *testing.T) {
		_, err := svc.Update(ctx, &models.UpdateConfigRequest{
			UserID: 6, BusinessUserID: 5, OpenTime: "10:00", CloseTime: "12:00", StepMinutes: 60,
		})
		assert.ErrorIs(t, err, ErrAccessDenied)
	})

	t.Run("invalid window", func(t *testing.T) {
		for _, req := range []*models.UpdateConfigRequest{
			{UserID: 5, BusinessUserID: 5, OpenTime: "ten", CloseTime: "12:00", StepMinutes: 60},
			{UserID: 5, BusinessUserID: 5, OpenTime: "12:00", CloseTime: "10:00", StepMinutes: 60},
			{UserID: 5, BusinessUserID: 5, OpenTime: "10:00", CloseTime: "12:00", StepMinutes: 2},
		} {
			_, err := svc.Update(ctx, req)
			assert.ErrorIs(t, err, ErrInvalidInput)
		}
	})

	assert.Equal(t, 1, repo.upserts)
}
