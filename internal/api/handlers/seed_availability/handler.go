package seed_availability

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-AvailabilityService/internal/api/handlers"
	seedAvailability "github.com/m04kA/SMC-AvailabilityService/internal/usecase/seed_availability"
)

const (
	msgInvalidPath    = "некорректный тип или ID сущности"
	msgInvalidBody    = "некорректное тело запроса"
	msgInvalidRequest = "некорректная дата или день недели"
	msgInvalidInput   = "некорректные данные запроса"
	msgEntityNotFound = "сущность не найдена"
	msgEntityInactive = "сущность недоступна для бронирования"
)

type Handler struct {
	useCase SeedAvailabilityUseCase
	logger  Logger
}

func NewHandler(useCase SeedAvailabilityUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/entities/{kind}/{entityId}/availability/seed
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	path, err := handlers.ParseEntityPath(r)
	if err != nil {
		h.logger.Warn("POST /availability/seed - Invalid path: %v", err)
		handlers.RespondBadRequest(w, msgInvalidPath)
		return
	}

	var req SeedAvailabilityRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /availability/seed - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBody)
		return
	}

	if err := handlers.ValidateStruct(&req); err != nil {
		h.logger.Warn("POST /availability/seed - Validation failed: %v", err)
		handlers.RespondBadRequest(w, handlers.ValidationMessage(err))
		return
	}

	useCaseReq, err := req.ToUseCaseRequest(path)
	if err != nil {
		h.logger.Warn("POST /availability/seed - Invalid request: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequest)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, seedAvailability.ErrInvalidInput):
			h.logger.Warn("POST /availability/seed - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		case errors.Is(err, seedAvailability.ErrEntityNotFound):
			h.logger.Warn("POST /availability/seed - Entity not found: %s/%s", path.Kind, path.EntityID)
			handlers.RespondNotFound(w, msgEntityNotFound)

		case errors.Is(err, seedAvailability.ErrEntityInactive):
			h.logger.Warn("POST /availability/seed - Entity inactive: %s/%s", path.Kind, path.EntityID)
			handlers.RespondUnprocessable(w, msgEntityInactive)

		default:
			h.logger.Error("POST /availability/seed - Internal error: %v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	status := http.StatusOK
	if len(result.Created) > 0 {
		status = http.StatusCreated
	}

	h.logger.Info("POST /availability/seed - Seeded: entity=%s/%s, created=%d, skipped=%d",
		path.Kind, path.EntityID, len(result.Created), len(result.Skipped))
	handlers.RespondJSON(w, status, FromUseCaseResponse(result))
}
