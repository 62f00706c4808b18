package get_staff_bookings

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-StaffBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-StaffBookingService/internal/api/middleware"
	"github.com/m04kA/SMC-StaffBookingService/internal/service/bookings/models"
	"github.com/m04kA/SMC-StaffBookingService/internal/service/staff"
)

const (
	msgInvalidStaffID = "некорректный ID сотрудника"
	msgMissingUserID  = "отсутствует ID пользователя"
	msgInvalidQuery   = "некорректные параметры периода"
	msgAccessDenied   = "можно просматривать только свое расписание"
	msgStaffNotFound  = "профиль сотрудника не найден"
)

type Handler struct {
	service StaffService
	logger  Logger
}

func NewHandler(service StaffService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/staff/{staffId}/bookings
// Query params: from, to, includeCanceled (все опциональны, по умолчанию ближайшие 7 дней)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	actorID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("GET /staff/{id}/bookings - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	staffID, err := handlers.ParseID(mux.Vars(r)["staffId"])
	if err != nil {
		h.logger.Warn("GET /staff/{id}/bookings - Invalid staff ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidStaffID)
		return
	}

	req, err := ParseQuery(r.URL.Query(), actorID, staffID)
	if err != nil {
		h.logger.Warn("GET /staff/{id}/bookings - Invalid query: %v", err)
		handlers.RespondBadRequest(w, msgInvalidQuery)
		return
	}

	list, err := h.service.GetSchedule(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, staff.ErrAccessDenied):
			h.logger.Warn("GET /staff/{id}/bookings - Access denied: actor=%d, staff_id=%d", actorID, staffID)
			handlers.RespondForbidden(w, msgAccessDenied)

		case errors.Is(err, staff.ErrStaffNotFound):
			handlers.RespondNotFound(w, msgStaffNotFound)

		case errors.Is(err, staff.ErrInvalidInput):
			handlers.RespondBadRequest(w, msgInvalidQuery)

		default:
			h.logger.Error("GET /staff/{id}/bookings - Failed to get schedule: staff_id=%d, error=%v", staffID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /staff/{id}/bookings - Schedule retrieved: staff_id=%d, count=%d", staffID, len(list))
	handlers.RespondJSON(w, http.StatusOK, models.FromDomainBookingList(list))
}
