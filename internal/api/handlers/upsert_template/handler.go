package upsert_template

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-AvailabilityService/internal/api/handlers"
	"github.com/m04kA/SMC-AvailabilityService/internal/service/templates"
	"github.com/m04kA/SMC-AvailabilityService/internal/service/templates/models"
)

const (
	msgInvalidPath        = "некорректный тип или ID сущности"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidData        = "некорректные данные шаблона"
	msgEntityNotFound     = "сущность не найдена"
	msgEntityInactive     = "сущность недоступна для бронирования"
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

// Handle PUT /api/v1/entities/{kind}/{entityId}/template
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	path, err := handlers.ParseEntityPath(r)
	if err != nil {
		h.logger.Warn("PUT /template - Invalid path: %v", err)
		handlers.RespondBadRequest(w, msgInvalidPath)
		return
	}

	var req models.UpsertTemplateRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /template - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	if err := handlers.ValidateStruct(&req); err != nil {
		h.logger.Warn("PUT /template - Validation failed: %v", err)
		handlers.RespondBadRequest(w, handlers.ValidationMessage(err))
		return
	}

	// Сущность берем из пути, а не из тела
	req.EntityID = path.EntityID
	req.EntityKind = string(path.Kind)

	result, err := h.service.Upsert(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, templates.ErrInvalidInput):
			h.logger.Warn("PUT /template - Invalid data: %v", err)
			handlers.RespondBadRequest(w, msgInvalidData)

		case errors.Is(err, templates.ErrEntityNotFound):
			h.logger.Warn("PUT /template - Entity not found: %s/%s", path.Kind, path.EntityID)
			handlers.RespondNotFound(w, msgEntityNotFound)

		case errors.Is(err, templates.ErrEntityInactive):
			h.logger.Warn("PUT /template - Entity inactive: %s/%s", path.Kind, path.EntityID)
			handlers.RespondUnprocessable(w, msgEntityInactive)

		default:
			h.logger.Error("PUT /template - Failed to save template: entity=%s/%s, error=%v", path.Kind, path.EntityID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PUT /template - Template saved: id=%d, entity=%s/%s", result.ID, path.Kind, path.EntityID)
	handlers.RespondJSON(w, http.StatusOK, result)
}
