package bookings

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-StaffBookingService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-StaffBookingService/internal/infra/storage/booking"
	"github.com/m04kA/SMC-StaffBookingService/internal/service/bookings/models"
	"github.com/m04kA/SMC-StaffBookingService/pkg/logger"
	"github.com/m04kA/SMC-StaffBookingService/pkg/ptr"
)

const (
	customerID = int64(100)
	ownerID    = int64(1)
	staffID    = int64(11)
	strangerID = int64(999)
)

type fakeRepo struct {
	bookings    map[int64]*domain.Booking
	lastFilter  domain.BusinessBookingsFilter
	updateErr   error
	getErr      error
	statusCalls int
}

func newFakeRepo(list ...*domain.Booking) *fakeRepo {
	repo := &fakeRepo{bookings: map[int64]*domain.Booking{}}
	for _, b := range list {
		repo.bookings[b.ID] = b
	}
	return repo
}

func (f *fakeRepo) GetByID(_ context.Context, id int64) (*domain.Booking, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	b, ok := f.bookings[id]
	if !ok {
		return nil, bookingRepo.ErrBookingNotFound
	}
	cp := *b
	return &cp, nil
}

func (f *fakeRepo) GetByCustomer(_ context.Context, customerUserID int64, status *domain.BookingStatus) ([]*domain.Booking, error) {
	var result []*domain.Booking
	for _, b := range f.bookings {
		if b.CustomerUserID == customerUserID && (status == nil || b.Status == *status) {
			result = append(result, b)
		}
	}
	return result, nil
}

func (f *fakeRepo) GetByBusinessWithFilter(_ context.Context, filter domain.BusinessBookingsFilter) ([]*domain.Booking, error) {
	f.lastFilter = filter
	var result []*domain.Booking
	for _, b := range f.bookings {
		if b.BusinessUserID == filter.BusinessUserID {
			result = append(result, b)
		}
	}
	return result, nil
}

func (f *fakeRepo) UpdateStatus(_ context.Context, id int64, from, to domain.BookingStatus) error {
	f.statusCalls++
	if f.updateErr != nil {
		return f.updateErr
	}
	b := f.bookings[id]
	if b.Status != from {
		return bookingRepo.ErrStatusConflict
	}
	b.Status = to
	return nil
}

func (f *fakeRepo) Cancel(_ context.Context, id int64, from domain.BookingStatus, reason *string) error {
	f.statusCalls++
	if f.updateErr != nil {
		return f.updateErr
	}
	b := f.bookings[id]
	if b.Status != from {
		return bookingRepo.ErrStatusConflict
	}
	b.Status = domain.StatusCanceled
	b.CancellationReason = reason
	return nil
}

type fakeTx struct{ calls int }

func (f *fakeTx) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	f.calls++
	return fn(ctx)
}

type fakeNotifier struct{ sent []*domain.Notification }

func (f *fakeNotifier) Notify(_ context.Context, list ...*domain.Notification) {
	f.sent = append(f.sent, list...)
}

func pendingBooking(id int64) *domain.Booking {
	return &domain.Booking{
		ID:             id,
		CustomerUserID: customerID,
		BusinessUserID: ownerID,
		ServiceID:      3,
		StaffUserID:    staffID,
		BookingDate:    time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
		StartTime:      "10:00",
		Status:         domain.StatusPending,
	}
}

func newTestService(repo *fakeRepo) (*Service, *fakeNotifier) {
	notifier := &fakeNotifier{}
	return NewService(repo, &fakeTx{}, notifier, logger.Nop()), notifier
}

func TestGetByID_Visibility(t *testing.T) {
	svc, _ := newTestService(newFakeRepo(pendingBooking(1)))
	ctx := context.Background()

	for _, userID := range []int64{customerID, ownerID, staffID} {
		resp, err := svc.GetByID(ctx, 1, userID)
		require.NoError(t, err)
		assert.Equal(t, "2025-03-10", resp.BookingDate)
	}

	_, err := svc.GetByID(ctx, 1, strangerID)
	assert.ErrorIs(t, err, ErrAccessDenied)

	_, err = svc.GetByID(ctx, 2, customerID)
	assert.ErrorIs(t, err, ErrBookingNotFound)
}

func TestGetByID_RepositoryError(t *testing.T) {
	repo := newFakeRepo()
	repo.getErr = errors.New("db down")
	svc, _ := newTestService(repo)

	_, err := svc.GetByID(context.Background(), 1, customerID)
	assert.ErrorIs(t, err, ErrInternal)
}

func TestGetUserBookings(t *testing.T) {
	confirmed := pendingBooking(2)
	confirmed.Status = domain.StatusConfirmed
	svc, _ := newTestService(newFakeRepo(pendingBooking(1), confirmed))
	ctx := context.Background()

	resp, err := svc.GetUserBookings(ctx, &models.GetUserBookingsRequest{ActorID: customerID, UserID: customerID})
	require.NoError(t, err)
	assert.Len(t, resp.Bookings, 2)

	resp, err = svc.GetUserBookings(ctx, &models.GetUserBookingsRequest{
		ActorID: customerID, UserID: customerID, Status: ptr.Ptr(" Confirmed "),
	})
	require.NoError(t, err)
	require.Len(t, resp.Bookings, 1)
	assert.Equal(t, "confirmed", resp.Bookings[0].Status)

	_, err = svc.GetUserBookings(ctx, &models.GetUserBookingsRequest{ActorID: customerID, UserID: customerID, Status: ptr.Ptr("lost")})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.GetUserBookings(ctx, &models.GetUserBookingsRequest{ActorID: strangerID, UserID: customerID})
	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestGetUserBookings_EmptyListIsNotNil(t *testing.T) {
	svc, _ := newTestService(newFakeRepo())

	resp, err := svc.GetUserBookings(context.Background(), &models.GetUserBookingsRequest{ActorID: customerID, UserID: customerID})
	require.NoError(t, err)
	assert.NotNil(t, resp.Bookings)
	assert.Empty(t, resp.Bookings)
}

func TestGetBusinessBookings(t *testing.T) {
	repo := newFakeRepo(pendingBooking(1))
	svc, _ := newTestService(repo)
	ctx := context.Background()

	from := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 0, 7)

	resp, err := svc.GetBusinessBookings(ctx, &models.GetBusinessBookingsRequest{
		ActorID:         ownerID,
		BusinessUserID:  ownerID,
		StartDate:       &from,
		EndDate:         &to,
		StaffUserID:     ptr.Ptr(staffID),
		Status:          ptr.Ptr("cancelled"),
		IncludeCanceled: true,
	})
	require.NoError(t, err)
	assert.Len(t, resp.Bookings, 1)
	require.NotNil(t, repo.lastFilter.Status)
	assert.Equal(t, domain.StatusCanceled, *repo.lastFilter.Status)
	assert.Equal(t, staffID, *repo.lastFilter.StaffUserID)

	_, err = svc.GetBusinessBookings(ctx, &models.GetBusinessBookingsRequest{ActorID: staffID, BusinessUserID: ownerID})
	assert.ErrorIs(t, err, ErrAccessDenied)

	_, err = svc.GetBusinessBookings(ctx, &models.GetBusinessBookingsRequest{
		ActorID: ownerID, BusinessUserID: ownerID, StartDate: &to, EndDate: &from,
	})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestLifecycle(t *testing.T) {
	repo := newFakeRepo(pendingBooking(1))
	svc, notifier := newTestService(repo)
	ctx := context.Background()

	_, err := svc.Complete(ctx, 1, ownerID)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	resp, err := svc.Confirm(ctx, 1, staffID)
	require.NoError(t, err)
	assert.Equal(t, "confirmed", resp.Status)

	resp, err = svc.UpdateStatus(ctx, 1, &models.UpdateStatusRequest{UserID: ownerID, Status: "completed"})
	require.NoError(t, err)
	assert.Equal(t, "completed", resp.Status)

	_, err = svc.Cancel(ctx, 1, &models.CancelBookingRequest{UserID: ownerID})
	assert.ErrorIs(t, err, ErrInvalidTransition)

	require.Len(t, notifier.sent, 2)
	for _, n := range notifier.sent {
		assert.Equal(t, customerID, n.UserID)
	}
}

func TestCancel(t *testing.T) {
	repo := newFakeRepo(pendingBooking(1))
	svc, notifier := newTestService(repo)
	ctx := context.Background()

	_, err := svc.Cancel(ctx, 1, &models.CancelBookingRequest{UserID: customerID})
	assert.ErrorIs(t, err, ErrAccessDenied)
	assert.Zero(t, repo.statusCalls)

	resp, err := svc.Cancel(ctx, 1, &models.CancelBookingRequest{UserID: ownerID, CancellationReason: "  мастер заболел "})
	require.NoError(t, err)
	assert.Equal(t, "canceled", resp.Status)
	require.NotNil(t, resp.CancellationReason)
	assert.Equal(t, "мастер заболел", *resp.CancellationReason)
	assert.Equal(t, domain.StatusCanceled, repo.bookings[1].Status)

	require.Len(t, notifier.sent, 1)
	assert.Equal(t, domain.NotificationWarning, notifier.sent[0].Type)
}

func TestUpdateStatus_RejectsUnsupportedTarget(t *testing.T) {
	svc, _ := newTestService(newFakeRepo(pendingBooking(1)))

	for _, status := range []string{"canceled", "pending", "unknown"} {
		_, err := svc.UpdateStatus(context.Background(), 1, &models.UpdateStatusRequest{UserID: ownerID, Status: status})
		assert.ErrorIs(t, err, ErrInvalidInput, status)
	}
}

func TestTransition_ConcurrentChangeIsConflict(t *testing.T) {
	repo := newFakeRepo(pendingBooking(1))
	repo.updateErr = bookingRepo.ErrStatusConflict
	svc, notifier := newTestService(repo)

	_, err := svc.Confirm(context.Background(), 1, ownerID)
	assert.ErrorIs(t, err, ErrInvalidTransition)
	assert.Empty(t, notifier.sent)
}

func TestTransition_RepositoryError(t *testing.T) {
	repo := newFakeRepo(pendingBooking(1))
	repo.updateErr = errors.New("db down")
	svc, notifier := newTestService(repo)

	_, err := svc.Confirm(context.Background(), 1, ownerID)
	assert.ErrorIs(t, err, ErrInternal)
	assert.Empty(t, notifier.sent)
}
