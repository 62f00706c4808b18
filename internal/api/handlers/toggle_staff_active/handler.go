package toggle_staff_active

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-StaffBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-StaffBookingService/internal/api/middleware"
	"github.com/m04kA/SMC-StaffBookingService/internal/service/staff"
)

const (
	msgInvalidStaffID = "некорректный ID сотрудника"
	msgMissingUserID  = "отсутствует ID пользователя"
	msgAccessDenied   = "можно менять только свой статус"
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

// Handle PATCH /api/v1/staff/{staffId}/active
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	actorID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("PATCH /staff/{id}/active - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	staffID, err := handlers.ParseID(mux.Vars(r)["staffId"])
	if err != nil {
		h.logger.Warn("PATCH /staff/{id}/active - Invalid staff ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidStaffID)
		return
	}

	profile, err := h.service.ToggleActive(r.Context(), actorID, staffID)
	if err != nil {
		switch {
		case errors.Is(err, staff.ErrAccessDenied):
			h.logger.Warn("PATCH /staff/{id}/active - Access denied: actor=%d, staff_id=%d", actorID, staffID)
			handlers.RespondForbidden(w, msgAccessDenied)

		case errors.Is(err, staff.ErrStaffNotFound):
			handlers.RespondNotFound(w, msgStaffNotFound)

		default:
			h.logger.Error("PATCH /staff/{id}/active - Failed to toggle: staff_id=%d, error=%v", staffID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PATCH /staff/{id}/active - Staff toggled: staff_id=%d, is_active=%t", staffID, profile.IsActive)
	handlers.RespondJSON(w, http.StatusOK, FromDomainProfile(profile))
}
