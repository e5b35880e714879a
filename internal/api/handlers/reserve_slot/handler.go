package reserve_slot

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-AvailabilityService/internal/api/handlers"
	reserveSlot "github.com/m04kA/SMC-AvailabilityService/internal/usecase/reserve_slot"
)

const (
	msgInvalidPath     = "некорректный тип или ID сущности"
	msgInvalidDate     = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgInvalidBody     = "некорректное тело запроса"
	msgInvalidInput    = "некорректные данные запроса"
	msgEntityNotFound  = "сущность не найдена"
	msgEntityInactive  = "сущность недоступна для бронирования"
	msgBookingNotFound = "бронирование не найдено"
	msgBookingInactive = "бронирование не активно"
	msgBookingMismatch = "бронирование оформлено на другую сущность"
)

type Handler struct {
	useCase ReserveSlotUseCase
	logger  Logger
}

func NewHandler(useCase ReserveSlotUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/entities/{kind}/{entityId}/availability/{date}/reserve
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	path, err := handlers.ParseEntityPath(r)
	if err != nil {
		h.logger.Warn("POST /availability/{date}/reserve - Invalid path: %v", err)
		handlers.RespondBadRequest(w, msgInvalidPath)
		return
	}

	day, err := handlers.ParseDay(r)
	if err != nil {
		h.logger.Warn("POST /availability/{date}/reserve - Invalid date: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	var req ReserveSlotRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /availability/{date}/reserve - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBody)
		return
	}

	if err := handlers.ValidateStruct(&req); err != nil {
		h.logger.Warn("POST /availability/{date}/reserve - Validation failed: %v", err)
		handlers.RespondBadRequest(w, handlers.ValidationMessage(err))
		return
	}

	result, err := h.useCase.Execute(r.Context(), req.ToUseCaseRequest(path, day))
	if err != nil {
		if handlers.RespondEngineError(w, err) {
			h.logger.Warn("POST /availability/{date}/reserve - Rejected: entity=%s/%s, booking=%s: %v",
				path.Kind, path.EntityID, req.BookingRef, err)
			return
		}

		switch {
		case errors.Is(err, reserveSlot.ErrInvalidInput):
			h.logger.Warn("POST /availability/{date}/reserve - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		case errors.Is(err, reserveSlot.ErrEntityNotFound):
			h.logger.Warn("POST /availability/{date}/reserve - Entity not found: %s/%s", path.Kind, path.EntityID)
			handlers.RespondNotFound(w, msgEntityNotFound)

		case errors.Is(err, reserveSlot.ErrEntityInactive):
			h.logger.Warn("POST /availability/{date}/reserve - Entity inactive: %s/%s", path.Kind, path.EntityID)
			handlers.RespondUnprocessable(w, msgEntityInactive)

		case errors.Is(err, reserveSlot.ErrBookingNotFound):
			h.logger.Warn("POST /availability/{date}/reserve - Booking not found: booking=%s", req.BookingRef)
			handlers.RespondNotFound(w, msgBookingNotFound)

		case errors.Is(err, reserveSlot.ErrBookingInactive):
			h.logger.Warn("POST /availability/{date}/reserve - Booking inactive: booking=%s", req.BookingRef)
			handlers.RespondUnprocessable(w, msgBookingInactive)

		case errors.Is(err, reserveSlot.ErrBookingMismatch):
			h.logger.Warn("POST /availability/{date}/reserve - Booking mismatch: booking=%s, entity=%s/%s",
				req.BookingRef, path.Kind, path.EntityID)
			handlers.RespondForbidden(w, msgBookingMismatch)

		default:
			h.logger.Error("POST /availability/{date}/reserve - Internal error: %v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /availability/{date}/reserve - Reserved: record_id=%s, booking=%s", result.Record.ID, req.BookingRef)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
