package block_slot

import (
	"context"
	"errors"
	"net/http"

	"github.com/m04kA/SMC-AvailabilityService/internal/api/handlers"
	blockSlot "github.com/m04kA/SMC-AvailabilityService/internal/usecase/block_slot"
)

const (
	msgInvalidPath    = "некорректный тип или ID сущности"
	msgInvalidDate    = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgInvalidBody    = "некорректное тело запроса"
	msgInvalidInput   = "некорректные данные запроса"
	msgEntityNotFound = "сущность не найдена"
)

type Handler struct {
	useCase BlockSlotUseCase
	logger  Logger
}

func NewHandler(useCase BlockSlotUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// HandleBlock POST /api/v1/entities/{kind}/{entityId}/availability/{date}/block
func (h *Handler) HandleBlock(w http.ResponseWriter, r *http.Request) {
	h.handle(w, r, "POST /availability/{date}/block", h.useCase.Block)
}

// HandleUnblock POST /api/v1/entities/{kind}/{entityId}/availability/{date}/unblock
func (h *Handler) HandleUnblock(w http.ResponseWriter, r *http.Request) {
	h.handle(w, r, "POST /availability/{date}/unblock", h.useCase.Unblock)
}

func (h *Handler) handle(
	w http.ResponseWriter,
	r *http.Request,
	route string,
	execute func(ctx context.Context, req *blockSlot.Request) (*blockSlot.Response, error),
) {
	path, err := handlers.ParseEntityPath(r)
	if err != nil {
		h.logger.Warn("%s - Invalid path: %v", route, err)
		handlers.RespondBadRequest(w, msgInvalidPath)
		return
	}

	day, err := handlers.ParseDay(r)
	if err != nil {
		h.logger.Warn("%s - Invalid date: %v", route, err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	var req BlockSlotRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("%s - Invalid request body: %v", route, err)
		handlers.RespondBadRequest(w, msgInvalidBody)
		return
	}

	if err := handlers.ValidateStruct(&req); err != nil {
		h.logger.Warn("%s - Validation failed: %v", route, err)
		handlers.RespondBadRequest(w, handlers.ValidationMessage(err))
		return
	}

	result, err := execute(r.Context(), req.ToUseCaseRequest(path, day))
	if err != nil {
		if handlers.RespondEngineError(w, err) {
			h.logger.Warn("%s - Rejected: entity=%s/%s: %v", route, path.Kind, path.EntityID, err)
			return
		}

		switch {
		case errors.Is(err, blockSlot.ErrInvalidInput):
			h.logger.Warn("%s - Invalid input: %v", route, err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		case errors.Is(err, blockSlot.ErrEntityNotFound):
			h.logger.Warn("%s - Entity not found: %s/%s", route, path.Kind, path.EntityID)
			handlers.RespondNotFound(w, msgEntityNotFound)

		default:
			h.logger.Error("%s - Internal error: %v", route, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
