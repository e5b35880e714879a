package get_free_slots

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-AvailabilityService/internal/api/handlers"
	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
	"github.com/m04kA/SMC-AvailabilityService/internal/service/availability"
)

const (
	msgInvalidPath = "некорректный тип или ID сущности"
	msgInvalidDate = "некорректный формат даты, ожидается YYYY-MM-DD"
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

// Handle GET /api/v1/entities/{kind}/{entityId}/availability/{date}/free-slots
// Нет записи за день - пустой список
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	path, err := handlers.ParseEntityPath(r)
	if err != nil {
		h.logger.Warn("GET /availability/{date}/free-slots - Invalid path: %v", err)
		handlers.RespondBadRequest(w, msgInvalidPath)
		return
	}

	day, err := handlers.ParseDay(r)
	if err != nil {
		h.logger.Warn("GET /availability/{date}/free-slots - Invalid date: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	slots, err := h.service.GetFreeSlots(r.Context(), domain.NewNaturalKey(path.EntityID, path.Kind, day))
	if err != nil {
		switch {
		case errors.Is(err, availability.ErrInvalidInput):
			h.logger.Warn("GET /availability/{date}/free-slots - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidPath)

		default:
			h.logger.Error("GET /availability/{date}/free-slots - Failed to get free slots: entity=%s/%s, error=%v",
				path.Kind, path.EntityID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, FromDomainSlots(path, day, slots))
}
