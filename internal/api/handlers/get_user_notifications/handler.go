package get_user_notifications

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-StaffBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-StaffBookingService/internal/api/middleware"
	"github.com/m04kA/SMC-StaffBookingService/internal/service/notifications"
)

const (
	msgInvalidUserID = "некорректный ID пользователя"
	msgMissingUserID = "отсутствует ID пользователя"
	msgAccessDenied  = "можно просматривать только свои уведомления"
	msgInvalidQuery  = "некорректные параметры unread или limit"
)

type Handler struct {
	service NotificationService
	logger  Logger
}

func NewHandler(service NotificationService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/users/{userId}/notifications
// Query params: unread (true/false), limit
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	actorID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("GET /users/{id}/notifications - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	userID, err := handlers.ParseID(mux.Vars(r)["userId"])
	if err != nil {
		h.logger.Warn("GET /users/{id}/notifications - Invalid user ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidUserID)
		return
	}

	query := r.URL.Query()
	unreadOnly := false
	if raw := query.Get("unread"); raw != "" {
		if unreadOnly, err = strconv.ParseBool(raw); err != nil {
			handlers.RespondBadRequest(w, msgInvalidQuery)
			return
		}
	}
	limit := 0
	if raw := query.Get("limit"); raw != "" {
		if limit, err = strconv.Atoi(raw); err != nil || limit < 0 {
			handlers.RespondBadRequest(w, msgInvalidQuery)
			return
		}
	}

	list, err := h.service.ListForUser(r.Context(), actorID, userID, unreadOnly, limit)
	if err != nil {
		switch {
		case errors.Is(err, notifications.ErrAccessDenied):
			h.logger.Warn("GET /users/{id}/notifications - Access denied: actor=%d, user_id=%d", actorID, userID)
			handlers.RespondForbidden(w, msgAccessDenied)

		case errors.Is(err, notifications.ErrInvalidInput):
			handlers.RespondBadRequest(w, msgInvalidQuery)

		default:
			h.logger.Error("GET /users/{id}/notifications - Failed to list notifications: user_id=%d, error=%v", userID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /users/{id}/notifications - Notifications retrieved: user_id=%d, count=%d", userID, len(list))
	handlers.RespondJSON(w, http.StatusOK, FromDomainNotifications(list))
}
