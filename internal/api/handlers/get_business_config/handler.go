package get_business_config

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-StaffBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-StaffBookingService/internal/service/config"
)

const msgInvalidBusinessID = "некорректный ID бизнеса"

type Handler struct {
	service ConfigService
	logger  Logger
}

func NewHandler(service ConfigService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/businesses/{businessId}/slot-config
// Если бизнес не настраивал окно, возвращаются значения по умолчанию
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	businessID, err := handlers.ParseID(mux.Vars(r)["businessId"])
	if err != nil {
		h.logger.Warn("GET /businesses/{id}/slot-config - Invalid business ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBusinessID)
		return
	}

	cfg, err := h.service.Get(r.Context(), businessID)
	if err != nil {
		if errors.Is(err, config.ErrInvalidInput) {
			handlers.RespondBadRequest(w, msgInvalidBusinessID)
			return
		}
		h.logger.Error("GET /businesses/{id}/slot-config - Failed to get config: business_id=%d, error=%v", businessID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /businesses/{id}/slot-config - Config retrieved: business_id=%d, default=%t", businessID, cfg.IsDefault)
	handlers.RespondJSON(w, http.StatusOK, cfg)
}
