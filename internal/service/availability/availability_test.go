package availability

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-StaffBookingService/internal/domain"
	"github.com/m04kA/SMC-StaffBookingService/pkg/types"
)

const (
	businessID = int64(100)
	serviceID  = int64(10)
)

var (
	day      = time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	dayEarly = time.Date(2025, 3, 9, 8, 0, 0, 0, time.UTC)
)

func TestBuildTimeGrid_Default(t *testing.T) {
	grid := BuildTimeGrid("09:00", "20:00", 30)

	require.Len(t, grid, 23)
	assert.Equal(t, types.TimeString("09:00"), grid[0])
	assert.Equal(t, types.TimeString("20:00"), grid[len(grid)-1])
	for i := 1; i < len(grid); i++ {
		assert.True(t, grid[i-1].IsBefore(grid[i]), "grid must be strictly increasing at %d", i)
	}
}

func TestBuildTimeGrid_Invalid(t *testing.T) {
	assert.Empty(t, BuildTimeGrid("9am", "20:00", 30))
	assert.Empty(t, BuildTimeGrid("09:00", "25:00", 30))
	assert.Empty(t, BuildTimeGrid("09:00", "20:00", 0))
	assert.Empty(t, BuildTimeGrid("09:00", "20:00", -15))
	assert.Empty(t, BuildTimeGrid("20:00", "09:00", 30))
}

func TestBuildTimeGrid_StepNotDividingWindow(t *testing.T) {
	grid := BuildTimeGrid("09:00", "10:00", 25)
	assert.Equal(t, []types.TimeString{"09:00", "09:25", "09:50"}, grid)
}

func TestIsOnGrid(t *testing.T) {
	grid := BuildTimeGrid("09:00", "20:00", 30)
	assert.True(t, IsOnGrid(grid, "10:30"))
	assert.False(t, IsOnGrid(grid, "10:15"))
}

func TestScenario_CanceledBookingDoesNotBlock(t *testing.T) {
	store := newMemStore()
	store.addService(serviceID, businessID, 30, true)
	store.addStaff(1, businessID, true, serviceID)
	store.addStaff(2, businessID, true, serviceID)
	store.book(1, serviceID, day, "10:00", domain.StatusConfirmed)
	store.book(2, serviceID, day, "10:00", domain.StatusCanceled)

	svc := newTestService(store, dayEarly, domain.LoadScopeDay)
	ctx := context.Background()

	busy, err := svc.BusyStaff(ctx, day, domain.NewInterval("10:00", 30), []int64{1, 2}, 30)
	require.NoError(t, err)
	assert.Equal(t, map[int64]struct{}{1: {}}, busy)

	slots, err := svc.BuildSlots(ctx, serviceID, day)
	require.NoError(t, err)
	slot := slotAt(slots, "10:00")
	assert.Equal(t, 2, slot.Capacity)
	assert.Equal(t, 1, slot.Remaining)
	assert.False(t, slot.IsBooked)
	assert.False(t, slot.IsPast)

	staffID, found, err := svc.PickStaff(ctx, businessID, serviceID, day, "10:00", 30)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, int64(2), staffID)
}

func TestBuildSlots_PastSuppression(t *testing.T) {
	store := newMemStore()
	store.addService(serviceID, businessID, 30, true)
	store.addStaff(1, businessID, true, serviceID)

	now := time.Date(2025, 3, 10, 14, 31, 0, 0, time.UTC)
	svc := newTestService(store, now, domain.LoadScopeDay)

	slots, err := svc.BuildSlots(context.Background(), serviceID, day)
	require.NoError(t, err)
	require.Len(t, slots, 23)

	for _, s := range slots {
		if s.Time.Minutes() <= types.TimeString("14:30").Minutes() {
			assert.True(t, s.IsPast, "slot %s must be past", s.Time)
			assert.True(t, s.IsBooked, "slot %s must be booked", s.Time)
			assert.Equal(t, 0, s.Remaining)
		} else {
			assert.False(t, s.IsPast, "slot %s must not be past", s.Time)
			assert.Equal(t, 1, s.Remaining)
		}
	}
}

func TestBuildSlots_OtherDayIsNeverPast(t *testing.T) {
	store := newMemStore()
	store.addService(serviceID, businessID, 30, true)
	store.addStaff(1, businessID, true, serviceID)

	lateEvening := time.Date(2025, 3, 9, 23, 59, 0, 0, time.UTC)
	svc := newTestService(store, lateEvening, domain.LoadScopeDay)

	slots, err := svc.BuildSlots(context.Background(), serviceID, day)
	require.NoError(t, err)
	for _, s := range slots {
		assert.False(t, s.IsPast)
		assert.False(t, s.IsBooked)
	}
}

func TestBuildSlots_TodayUsesProviderTimezone(t *testing.T) {
	store := newMemStore()
	store.addService(serviceID, businessID, 30, true)
	store.addStaff(1, businessID, true, serviceID)

	// 23:30 UTC 9 марта это уже 10 марта 02:30 по UTC+3
	loc := time.FixedZone("UTC+3", 3*60*60)
	now := time.Date(2025, 3, 9, 23, 30, 0, 0, time.UTC).In(loc)
	svc := newTestService(store, now, domain.LoadScopeDay)

	assert.True(t, svc.Clock().IsToday(day))
	assert.False(t, svc.Clock().IsPastDate(day))
	assert.True(t, svc.Clock().IsPastDate(day.AddDate(0, 0, -1)))
}

func TestEmptyEligibility(t *testing.T) {
	store := newMemStore()
	store.addService(serviceID, businessID, 30, true)
	// Неактивный сотрудник и сотрудник без привязки к услуге не подходят
	store.addStaff(1, businessID, false, serviceID)
	store.addStaff(2, businessID, true)
	// Сотрудник другого бизнеса не подходит
	store.addStaff(3, businessID+1, true, serviceID)

	svc := newTestService(store, dayEarly, domain.LoadScopeDay)
	ctx := context.Background()

	eligible, err := svc.EligibleStaff(ctx, businessID, serviceID)
	require.NoError(t, err)
	assert.Empty(t, eligible)

	slots, err := svc.BuildSlots(ctx, serviceID, day)
	require.NoError(t, err)
	require.Len(t, slots, 23)
	for _, s := range slots {
		assert.Equal(t, 0, s.Capacity)
		assert.True(t, s.IsBooked)
	}

	_, found, err := svc.PickStaff(ctx, businessID, serviceID, day, "10:00", 30)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestBuildSlots_MissingOrInactiveService(t *testing.T) {
	store := newMemStore()
	store.addService(serviceID, businessID, 30, false)
	store.addStaff(1, businessID, true, serviceID)

	svc := newTestService(store, dayEarly, domain.LoadScopeDay)

	for _, id := range []int64{serviceID, 999} {
		slots, err := svc.BuildSlots(context.Background(), id, day)
		require.NoError(t, err)
		require.Len(t, slots, 23)
		for _, s := range slots {
			assert.True(t, s.IsBooked)
			assert.Equal(t, 0, s.Capacity)
		}
	}
}

func TestBuildSlots_CapacityMonotonicity(t *testing.T) {
	store := newMemStore()
	store.addService(serviceID, businessID, 60, true)
	for id := int64(1); id <= 3; id++ {
		store.addStaff(id, businessID, true, serviceID)
	}

	svc := newTestService(store, dayEarly, domain.LoadScopeDay)
	ctx := context.Background()

	remainingAt := func() int {
		slots, err := svc.BuildSlots(ctx, serviceID, day)
		require.NoError(t, err)
		return slotAt(slots, "11:00").Remaining
	}

	assert.Equal(t, 3, remainingAt())

	// 10:30-11:30 пересекается с 11:00-12:00
	store.book(1, serviceID, day, "10:30", domain.StatusPending)
	assert.Equal(t, 2, remainingAt())

	late := store.book(2, serviceID, day, "11:30", domain.StatusConfirmed)
	assert.Equal(t, 1, remainingAt())

	// 12:00 граничит с 11:00-12:00 и не занимает слот
	store.book(3, serviceID, day, "12:00", domain.StatusConfirmed)
	assert.Equal(t, 1, remainingAt())

	late.status = domain.StatusCanceled
	assert.Equal(t, 2, remainingAt())
}

func TestBuildSlots_ZeroDurationFallsBackToStep(t *testing.T) {
	store := newMemStore()
	store.addService(serviceID, businessID, 0, true)
	store.addStaff(1, businessID, true, serviceID)
	store.configs[businessID] = domain.BusinessSlotConfig{
		BusinessUserID: businessID, OpenTime: "09:00", CloseTime: "12:00", StepMinutes: 60,
	}
	store.book(1, serviceID, day, "10:00", domain.StatusConfirmed)

	svc := newTestService(store, dayEarly, domain.LoadScopeDay)

	slots, err := svc.BuildSlots(context.Background(), serviceID, day)
	require.NoError(t, err)
	require.Len(t, slots, 4)
	assert.False(t, slotAt(slots, "09:00").IsBooked)
	assert.True(t, slotAt(slots, "10:00").IsBooked)
	assert.False(t, slotAt(slots, "11:00").IsBooked)
}

func TestBuildSlots_ReadsStorageOnEveryCall(t *testing.T) {
	store := newMemStore()
	store.addService(serviceID, businessID, 30, true)
	store.addStaff(1, businessID, true, serviceID)

	svc := newTestService(store, dayEarly, domain.LoadScopeDay)
	ctx := context.Background()

	_, err := svc.BuildSlots(ctx, serviceID, day)
	require.NoError(t, err)
	_, err = svc.BuildSlots(ctx, serviceID, day)
	require.NoError(t, err)

	assert.Equal(t, 2, store.listCalls)
}

func TestPickStaff_TieBreakByLowerID(t *testing.T) {
	store := newMemStore()
	store.addService(serviceID, businessID, 30, true)
	store.addStaff(7, businessID, true, serviceID)
	store.addStaff(3, businessID, true, serviceID)
	store.addStaff(5, businessID, true, serviceID)

	svc := newTestService(store, dayEarly, domain.LoadScopeDay)

	for i := 0; i < 10; i++ {
		staffID, found, err := svc.PickStaff(context.Background(), businessID, serviceID, day, "15:00", 30)
		require.NoError(t, err)
		require.True(t, found)
		assert.Equal(t, int64(3), staffID)
	}
}

func TestPickStaff_PrefersLowerDailyLoad(t *testing.T) {
	store := newMemStore()
	store.addService(serviceID, businessID, 30, true)
	store.addStaff(1, businessID, true, serviceID)
	store.addStaff(2, businessID, true, serviceID)
	// Утренние брони сотрудника 1 не пересекаются с 15:00, но увеличивают его нагрузку
	store.book(1, serviceID, day, "09:00", domain.StatusConfirmed)
	store.book(1, serviceID, day, "09:30", domain.StatusPending)
	// Отмененные брони в нагрузку не входят
	store.book(2, serviceID, day, "11:00", domain.StatusCanceled)
	store.book(2, serviceID, day, "11:30", domain.StatusCanceled)
	store.book(2, serviceID, day, "12:00", domain.StatusCanceled)

	ctx := context.Background()

	staffID, found, err := newTestService(store, dayEarly, domain.LoadScopeDay).
		PickStaff(ctx, businessID, serviceID, day, "15:00", 30)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, int64(2), staffID)

	staffID, found, err = newTestService(store, dayEarly, domain.LoadScopeNone).
		PickStaff(ctx, businessID, serviceID, day, "15:00", 30)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, int64(1), staffID)
}

func TestPickStaff_RecheckSkipsStaffBookedConcurrently(t *testing.T) {
	store := newMemStore()
	store.addService(serviceID, businessID, 30, true)
	store.addStaff(1, businessID, true, serviceID)
	store.addStaff(2, businessID, true, serviceID)

	// Конкурентный запрос успевает занять сотрудника 1 между расчетом free и повторной проверкой
	injected := false
	store.beforeRecheck = func(staffID int64) {
		if staffID == 1 && !injected {
			injected = true
			store.book(1, serviceID, day, "10:00", domain.StatusPending)
		}
	}

	svc := newTestService(store, dayEarly, domain.LoadScopeDay)

	staffID, found, err := svc.PickStaff(context.Background(), businessID, serviceID, day, "10:00", 30)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, int64(2), staffID)
}

func TestPickStaff_AllBusy(t *testing.T) {
	store := newMemStore()
	store.addService(serviceID, businessID, 30, true)
	store.addStaff(1, businessID, true, serviceID)
	store.book(1, serviceID, day, "09:45", domain.StatusConfirmed)

	svc := newTestService(store, dayEarly, domain.LoadScopeDay)

	_, found, err := svc.PickStaff(context.Background(), businessID, serviceID, day, "10:00", 30)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestPickStaff_NoDoubleAssignment(t *testing.T) {
	store := newMemStore()
	// Длительность 45 минут при шаге 30: соседние слоты пересекаются
	store.addService(serviceID, businessID, 45, true)
	for id := int64(1); id <= 3; id++ {
		store.addStaff(id, businessID, true, serviceID)
	}

	svc := newTestService(store, dayEarly, domain.LoadScopeDay)
	ctx := context.Background()

	// Многократно бронируем каждый слот, пока сотрудники не закончатся
	for round := 0; round < 4; round++ {
		for _, slot := range BuildTimeGrid("09:00", "20:00", 30) {
			staffID, found, err := svc.PickStaff(ctx, businessID, serviceID, day, slot, 45)
			require.NoError(t, err)
			if found {
				store.book(staffID, serviceID, day, slot, domain.StatusPending)
			}
		}
	}

	require.NotEmpty(t, store.bookings)
	for i, a := range store.bookings {
		for j, b := range store.bookings {
			if i >= j || a.staffID != b.staffID {
				continue
			}
			assert.False(t, domain.NewInterval(a.start, 45).Overlaps(domain.NewInterval(b.start, 45)),
				"staff %d double booked at %s and %s", a.staffID, a.start, b.start)
		}
	}

	// После заполнения ни один слот не должен показываться свободным
	slots, err := svc.BuildSlots(ctx, serviceID, day)
	require.NoError(t, err)
	for _, s := range slots {
		assert.True(t, s.IsBooked, "slot %s still free after exhaustive booking", s.Time)
	}
}

func TestNormalizeIDs(t *testing.T) {
	assert.Equal(t, []int64{1, 2, 5}, normalizeIDs([]int64{5, 1, 2, 5, 1}))
	assert.Empty(t, normalizeIDs(nil))
}

func TestRankCandidates(t *testing.T) {
	ranked := rankCandidates([]int64{1, 2, 3, 4}, map[int64]int{1: 2, 2: 0, 3: 1, 4: 0})

	ids := make([]int64, 0, len(ranked))
	for _, c := range ranked {
		ids = append(ids, c.staffID)
	}
	assert.Equal(t, []int64{2, 4, 3, 1}, ids)
}
