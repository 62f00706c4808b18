package get_staff_bookings

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-StaffBookingService/internal/api/middleware"
	"github.com/m04kA/SMC-StaffBookingService/internal/domain"
	"github.com/m04kA/SMC-StaffBookingService/internal/service/bookings/models"
	"github.com/m04kA/SMC-StaffBookingService/internal/service/staff"
	"github.com/m04kA/SMC-StaffBookingService/pkg/logger"
)

type fakeService struct {
	got  *staff.ScheduleRequest
	list []*domain.Booking
	err  error
}

func (f *fakeService) GetSchedule(_ context.Context, req *staff.ScheduleRequest) ([]*domain.Booking, error) {
	f.got = req
	return f.list, f.err
}

func doGet(svc *fakeService, id, query string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/staff/"+id+"/bookings"+query, nil)
	req = mux.SetURLVars(req, map[string]string{"staffId": id})
	req = req.WithContext(middleware.WithUserID(req.Context(), 11))

	rec := httptest.NewRecorder()
	NewHandler(svc, logger.Nop()).Handle(rec, req)
	return rec
}

func TestHandle_ReturnsSchedule(t *testing.T) {
	svc := &fakeService{list: []*domain.Booking{{
		ID:          7,
		StaffUserID: 11,
		BookingDate: time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
		StartTime:   "10:00",
		Status:      domain.StatusPending,
	}}}

	rec := doGet(svc, "11", "?from=2025-03-10&includeCanceled=true")
	require.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, int64(11), svc.got.ActorID)
	assert.Equal(t, int64(11), svc.got.StaffUserID)
	require.NotNil(t, svc.got.StartDate)
	assert.Nil(t, svc.got.EndDate)
	assert.True(t, svc.got.IncludeCanceled)

	var body models.BookingListResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	require.Len(t, body.Bookings, 1)
	assert.Equal(t, "2025-03-10", body.Bookings[0].BookingDate)
}

func TestHandle_BadRequest(t *testing.T) {
	for name, tc := range map[string]struct{ id, query string }{
		"invalid id":   {"abc", ""},
		"invalid from": {"11", "?from=10.03.2025"},
		"invalid flag": {"11", "?includeCanceled=maybe"},
	} {
		t.Run(name, func(t *testing.T) {
			svc := &fakeService{}
			assert.Equal(t, http.StatusBadRequest, doGet(svc, tc.id, tc.query).Code)
			assert.Nil(t, svc.got)
		})
	}
}

func TestHandle_ServiceErrors(t *testing.T) {
	cases := map[string]struct {
		err    error
		status int
	}{
		"foreign":   {staff.ErrAccessDenied, http.StatusForbidden},
		"not found": {staff.ErrStaffNotFound, http.StatusNotFound},
		"period":    {staff.ErrInvalidInput, http.StatusBadRequest},
		"internal":  {errors.New("boom"), http.StatusInternalServerError},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tc.status, doGet(&fakeService{err: tc.err}, "11", "").Code)
		})
	}
}
