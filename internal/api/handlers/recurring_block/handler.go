package recurring_block

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-AvailabilityService/internal/api/handlers"
	recurringBlock "github.com/m04kA/SMC-AvailabilityService/internal/usecase/recurring_block"
)

const (
	msgInvalidPath    = "некорректный тип или ID сущности"
	msgInvalidBody    = "некорректное тело запроса"
	msgInvalidDate    = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgInvalidInput   = "некорректные данные запроса"
	msgEntityNotFound = "сущность не найдена"
	msgNothingBlocked = "ни один день диапазона не удалось заблокировать"
	msgInterrupted    = "обработка прервана, часть дней уже заблокирована"
)

type Handler struct {
	useCase RecurringBlockUseCase
	logger  Logger
}

func NewHandler(useCase RecurringBlockUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/entities/{kind}/{entityId}/recurring-blocks
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	path, err := handlers.ParseEntityPath(r)
	if err != nil {
		h.logger.Warn("POST /recurring-blocks - Invalid path: %v", err)
		handlers.RespondBadRequest(w, msgInvalidPath)
		return
	}

	var req RecurringBlockRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /recurring-blocks - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBody)
		return
	}

	if err := handlers.ValidateStruct(&req); err != nil {
		h.logger.Warn("POST /recurring-blocks - Validation failed: %v", err)
		handlers.RespondBadRequest(w, handlers.ValidationMessage(err))
		return
	}

	useCaseReq, err := req.ToUseCaseRequest(path)
	if err != nil {
		h.logger.Warn("POST /recurring-blocks - Invalid date: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		var batchErr *recurringBlock.BatchError
		switch {
		case errors.As(err, &batchErr):
			h.logger.Warn("POST /recurring-blocks - Nothing blocked: entity=%s/%s, failures=%d",
				path.Kind, path.EntityID, len(batchErr.Failures))
			handlers.RespondErrorWithDetails(w, http.StatusConflict, msgNothingBlocked, "nothing_blocked",
				FromDayFailures(batchErr.Failures))

		case errors.Is(err, recurringBlock.ErrInterrupted) && result != nil:
			h.logger.Warn("POST /recurring-blocks - Interrupted: entity=%s/%s, blocked=%d: %v",
				path.Kind, path.EntityID, len(result.Blocked), err)
			handlers.RespondErrorWithDetails(w, http.StatusServiceUnavailable, msgInterrupted, "interrupted",
				FromUseCaseResponse(result))

		case errors.Is(err, recurringBlock.ErrInvalidInput):
			h.logger.Warn("POST /recurring-blocks - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		case errors.Is(err, recurringBlock.ErrEntityNotFound):
			h.logger.Warn("POST /recurring-blocks - Entity not found: %s/%s", path.Kind, path.EntityID)
			handlers.RespondNotFound(w, msgEntityNotFound)

		default:
			h.logger.Error("POST /recurring-blocks - Internal error: %v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /recurring-blocks - Blocked %d of %d matching days: entity=%s/%s",
		len(result.Blocked), result.MatchingDays, path.Kind, path.EntityID)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
