package delete_availability

import (
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-AvailabilityService/internal/api/handlers"
	"github.com/m04kA/SMC-AvailabilityService/internal/service/availability"
)

const (
	msgInvalidID         = "некорректный ID записи"
	msgRecordNotFound    = "запись доступности не найдена"
	msgRecordHasBookings = "нельзя удалить запись с активными бронированиями"
)

type Handler struct {
	service AvailabilityService
	logger  Logger
}

func NewHandler(service AvailabilityService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle DELETE /api/v1/availability/{id}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(mux.Vars(r)["id"])
	if _, err := uuid.Parse(id); err != nil {
		h.logger.Warn("DELETE /availability/{id} - Invalid record ID: %q", id)
		handlers.RespondBadRequest(w, msgInvalidID)
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		switch {
		case errors.Is(err, availability.ErrRecordNotFound):
			h.logger.Warn("DELETE /availability/{id} - Record not found: id=%s", id)
			handlers.RespondNotFound(w, msgRecordNotFound)

		case errors.Is(err, availability.ErrRecordHasBookings):
			h.logger.Warn("DELETE /availability/{id} - Record has bookings: id=%s", id)
			handlers.RespondErrorWithDetails(w, http.StatusConflict, msgRecordHasBookings, "has_bookings", nil)

		case errors.Is(err, availability.ErrConcurrentModification):
			handlers.RespondEngineError(w, err)

		default:
			h.logger.Error("DELETE /availability/{id} - Failed to delete record: id=%s, error=%v", id, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("DELETE /availability/{id} - Record deleted: id=%s", id)
	w.WriteHeader(http.StatusNoContent)
}
