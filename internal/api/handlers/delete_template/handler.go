package delete_template

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

// Handle DELETE /api/v1/entities/{kind}/{entityId}/template
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	path, err := handlers.ParseEntityPath(r)
	if err != nil {
		h.logger.Warn("DELETE /template - Invalid path: %v", err)
		handlers.RespondBadRequest(w, msgInvalidPath)
		return
	}

	if err := h.service.Delete(r.Context(), path.Kind, path.EntityID); err != nil {
		switch {
		case errors.Is(err, templates.ErrTemplateNotFound):
			handlers.RespondNotFound(w, msgNotFound)

		default:
			h.logger.Error("DELETE /template - Failed to delete template: entity=%s/%s, error=%v", path.Kind, path.EntityID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("DELETE /template - Template deleted: entity=%s/%s", path.Kind, path.EntityID)
	w.WriteHeader(http.StatusNoContent)
}
