package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
	"github.com/m04kA/SMC-AvailabilityService/pkg/types"
)

// HeaderRequestID заголовок с идентификатором запроса (выставляется middleware)
const HeaderRequestID = "X-Request-ID"

// maxBodySize ограничение размера тела запроса
const maxBodySize = 1 << 20

const (
	msgInternalError   = "внутренняя ошибка сервера"
	msgTooManyRequests = "слишком много запросов, попробуйте позже"
)

var (
	// ErrEmptyBody тело запроса отсутствует
	ErrEmptyBody = errors.New("request body is empty")

	// ErrInvalidPath некорректные параметры пути
	ErrInvalidPath = errors.New("invalid path parameters")
)

// ErrorResponse тело ответа с ошибкой
type ErrorResponse struct {
	Error     string      `json:"error"`
	Code      string      `json:"code,omitempty"`
	Details   interface{} `json:"details,omitempty"`
	RequestID string      `json:"requestId,omitempty"`
}

// RespondJSON пишет JSON-ответ с указанным статусом
func RespondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(data)
}

// RespondError пишет ошибку с сообщением
func RespondError(w http.ResponseWriter, status int, message string) {
	RespondJSON(w, status, ErrorResponse{Error: message, RequestID: w.Header().Get(HeaderRequestID)})
}

// RespondErrorWithDetails пишет ошибку с машиночитаемым кодом и деталями
func RespondErrorWithDetails(w http.ResponseWriter, status int, message, code string, details interface{}) {
	RespondJSON(w, status, ErrorResponse{
		Error:     message,
		Code:      code,
		Details:   details,
		RequestID: w.Header().Get(HeaderRequestID),
	})
}

func RespondBadRequest(w http.ResponseWriter, message string) {
	RespondError(w, http.StatusBadRequest, message)
}

func RespondNotFound(w http.ResponseWriter, message string) {
	RespondError(w, http.StatusNotFound, message)
}

func RespondForbidden(w http.ResponseWriter, message string) {
	RespondError(w, http.StatusForbidden, message)
}

func RespondUnprocessable(w http.ResponseWriter, message string) {
	RespondError(w, http.StatusUnprocessableEntity, message)
}

func RespondTooManyRequests(w http.ResponseWriter) {
	RespondError(w, http.StatusTooManyRequests, msgTooManyRequests)
}

// RespondInternalError отвечает 500 без деталей; клиент получает только request id
func RespondInternalError(w http.ResponseWriter) {
	RespondError(w, http.StatusInternalServerError, msgInternalError)
}

// DecodeJSON декодирует тело запроса в v
func DecodeJSON(r *http.Request, v interface{}) error {
	if r.Body == nil || r.Body == http.NoBody {
		return ErrEmptyBody
	}
	defer r.Body.Close()

	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodySize))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return ErrEmptyBody
		}
		return err
	}
	return nil
}

// EntityPath параметры пути /entities/{kind}/{entityId}
type EntityPath struct {
	Kind     domain.EntityKind
	EntityID string
}

// ParseEntityPath извлекает тип и идентификатор сущности из пути
func ParseEntityPath(r *http.Request) (EntityPath, error) {
	vars := mux.Vars(r)

	kind, err := domain.ParseEntityKind(vars["kind"])
	if err != nil {
		return EntityPath{}, fmt.Errorf("%w: kind=%q", ErrInvalidPath, vars["kind"])
	}

	entityID := strings.TrimSpace(vars["entityId"])
	if entityID == "" || len(entityID) > domain.MaxEntityIDLength {
		return EntityPath{}, fmt.Errorf("%w: entityId=%q", ErrInvalidPath, vars["entityId"])
	}

	return EntityPath{Kind: kind, EntityID: entityID}, nil
}

// ParseDay извлекает день {date} (YYYY-MM-DD) из пути
func ParseDay(r *http.Request) (time.Time, error) {
	return types.ParseDate(mux.Vars(r)["date"])
}

// ParseOptionalDate парсит необязательный query-параметр даты
func ParseOptionalDate(r *http.Request, name string) (*time.Time, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	d, err := types.ParseDate(raw)
	if err != nil {
		return nil, err
	}
	return &d, nil
}
