package list_availability

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-AvailabilityService/internal/api/handlers"
	"github.com/m04kA/SMC-AvailabilityService/internal/service/availability"
)

const (
	msgInvalidPath   = "некорректный тип или ID сущности"
	msgInvalidParams = "некорректные параметры запроса"
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

// Handle GET /api/v1/entities/{kind}/{entityId}/availability
// Query params: from, to (YYYY-MM-DD), offset, limit (опционально)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	path, err := handlers.ParseEntityPath(r)
	if err != nil {
		h.logger.Warn("GET /availability - Invalid path: %v", err)
		handlers.RespondBadRequest(w, msgInvalidPath)
		return
	}

	filter, err := ToFilter(path, r.URL.Query())
	if err != nil {
		h.logger.Warn("GET /availability - Invalid parameters: %v", err)
		handlers.RespondBadRequest(w, msgInvalidParams)
		return
	}

	records, err := h.service.List(r.Context(), filter)
	if err != nil {
		switch {
		case errors.Is(err, availability.ErrInvalidInput):
			h.logger.Warn("GET /availability - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidParams)

		default:
			h.logger.Error("GET /availability - Failed to list records: entity=%s/%s, error=%v",
				path.Kind, path.EntityID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, FromDomainRecords(records, filter))
}
