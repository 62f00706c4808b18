package mark_notification_read

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"

	"github.com/m04kA/SMC-StaffBookingService/internal/api/middleware"
	"github.com/m04kA/SMC-StaffBookingService/internal/service/notifications"
	"github.com/m04kA/SMC-StaffBookingService/pkg/logger"
)

type fakeService struct {
	actorID, notificationID int64
	err                     error
}

func (f *fakeService) MarkRead(_ context.Context, actorID, notificationID int64) error {
	f.actorID = actorID
	f.notificationID = notificationID
	return f.err
}

func doMarkRead(svc *fakeService, id string, withUser bool) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPatch, "/api/v1/notifications/"+id+"/read", nil)
	req = mux.SetURLVars(req, map[string]string{"notificationId": id})
	if withUser {
		req = req.WithContext(middleware.WithUserID(req.Context(), 5))
	}

	rec := httptest.NewRecorder()
	NewHandler(svc, logger.Nop()).Handle(rec, req)
	return rec
}

func TestHandle_MarksRead(t *testing.T) {
	svc := &fakeService{}
	rec := doMarkRead(svc, "31", true)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, int64(5), svc.actorID)
	assert.Equal(t, int64(31), svc.notificationID)
}

func TestHandle_RequestErrors(t *testing.T) {
	assert.Equal(t, http.StatusUnauthorized, doMarkRead(&fakeService{}, "31", false).Code)

	svc := &fakeService{}
	assert.Equal(t, http.StatusBadRequest, doMarkRead(svc, "abc", true).Code)
	assert.Zero(t, svc.notificationID)
}

func TestHandle_ServiceErrors(t *testing.T) {
	cases := map[string]struct {
		err    error
		status int
	}{
		"not found": {notifications.ErrNotificationNotFound, http.StatusNotFound},
		"invalid":   {notifications.ErrInvalidInput, http.StatusBadRequest},
		"internal":  {errors.New("boom"), http.StatusInternalServerError},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			rec := doMarkRead(&fakeService{err: tc.err}, "31", true)
			assert.Equal(t, tc.status, rec.Code)
		})
	}
}
