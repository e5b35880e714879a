package release_slot

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-AvailabilityService/internal/api/handlers"
	releaseSlot "github.com/m04kA/SMC-AvailabilityService/internal/usecase/release_slot"
)

const (
	msgInvalidPath    = "некорректный тип или ID сущности"
	msgInvalidDate    = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgInvalidBody    = "некорректное тело запроса"
	msgInvalidInput   = "некорректные данные запроса"
	msgEntityNotFound = "сущность не найдена"
)

type Handler struct {
	useCase ReleaseSlotUseCase
	logger  Logger
}

func NewHandler(useCase ReleaseSlotUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/entities/{kind}/{entityId}/availability/{date}/release
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	path, err := handlers.ParseEntityPath(r)
	if err != nil {
		h.logger.Warn("POST /availability/{date}/release - Invalid path: %v", err)
		handlers.RespondBadRequest(w, msgInvalidPath)
		return
	}

	day, err := handlers.ParseDay(r)
	if err != nil {
		h.logger.Warn("POST /availability/{date}/release - Invalid date: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	var req ReleaseSlotRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /availability/{date}/release - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBody)
		return
	}

	if err := handlers.ValidateStruct(&req); err != nil {
		h.logger.Warn("POST /availability/{date}/release - Validation failed: %v", err)
		handlers.RespondBadRequest(w, handlers.ValidationMessage(err))
		return
	}

	result, err := h.useCase.Execute(r.Context(), req.ToUseCaseRequest(path, day))
	if err != nil {
		if handlers.RespondEngineError(w, err) {
			h.logger.Warn("POST /availability/{date}/release - Rejected: entity=%s/%s: %v", path.Kind, path.EntityID, err)
			return
		}

		switch {
		case errors.Is(err, releaseSlot.ErrInvalidInput):
			h.logger.Warn("POST /availability/{date}/release - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		case errors.Is(err, releaseSlot.ErrEntityNotFound):
			h.logger.Warn("POST /availability/{date}/release - Entity not found: %s/%s", path.Kind, path.EntityID)
			handlers.RespondNotFound(w, msgEntityNotFound)

		default:
			h.logger.Error("POST /availability/{date}/release - Internal error: %v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
