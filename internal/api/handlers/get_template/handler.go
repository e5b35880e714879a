package get_template

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-AvailabilityService/internal/api/handlers"
	"github.com/m04kA/SMC-AvailabilityService/internal/service/templates"
)

const (
	msgInvalidPath = "некорректный тип или ID сущности"
	msgNotFound    = "шаблон не найден"
)

type Handler struct {
	service TemplateService
	logger  Logger
}

func NewHandler(service TemplateService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/entities/{kind}/{entityId}/template
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	path, err := handlers.ParseEntityPath(r)
	if err != nil {
		h.logger.Warn("GET /template - Invalid path: %v", err)
		handlers.RespondBadRequest(w, msgInvalidPath)
		return
	}

	result, err := h.service.Get(r.Context(), path.Kind, path.EntityID)
	if err != nil {
		switch {
		case errors.Is(err, templates.ErrTemplateNotFound):
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, templates.ErrInvalidInput):
			handlers.RespondBadRequest(w, msgInvalidPath)

		default:
			h.logger.Error("GET /template - Failed to get template: entity=%s/%s, error=%v", path.Kind, path.EntityID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}
