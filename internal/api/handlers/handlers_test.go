package handlers

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
	"github.com/m04kA/SMC-AvailabilityService/internal/service/availability"
)

type slotBody struct {
	Start  string   `json:"start" validate:"required,hhmm"`
	Kind   string   `json:"kind" validate:"required,entity_kind"`
	Days   []string `json:"days" validate:"omitempty,dive,weekday"`
	Ignore string   `json:"-"`
}

func TestValidateStruct_CustomTags(t *testing.T) {
	assert.NoError(t, ValidateStruct(&slotBody{Start: "09:00", Kind: "office", Days: []string{"Monday"}}))

	err := ValidateStruct(&slotBody{Start: "9:00", Kind: "garage", Days: []string{"funday"}})
	require.Error(t, err)

	msg := ValidationMessage(err)
	assert.Contains(t, msg, "start: ожидается время в формате HH:MM")
	assert.Contains(t, msg, "kind: неизвестный тип сущности")
	assert.Contains(t, msg, "days[0]: неизвестный день недели")
	assert.Contains(t, msg, "office, meeting_room, flex_desk")
}

func TestValidationMessage_HidesNonFieldErrors(t *testing.T) {
	err := ValidateStruct(nil)
	require.Error(t, err)

	msg := ValidationMessage(err)
	assert.Equal(t, msgInvalidRequest, msg)
	assert.NotContains(t, msg, "validator")
	assert.Equal(t, msgInvalidRequest, ValidationMessage(fmt.Errorf("pq: relation does not exist")))
}

func TestDecodeJSON(t *testing.T) {
	var v slotBody

	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"start":"09:00","kind":"office"}`))
	require.NoError(t, DecodeJSON(r, &v))
	assert.Equal(t, "09:00", v.Start)

	r = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"unknown":1}`))
	assert.Error(t, DecodeJSON(r, &v))

	r = httptest.NewRequest(http.MethodPost, "/", http.NoBody)
	assert.ErrorIs(t, DecodeJSON(r, &v), ErrEmptyBody)
}

func TestParseEntityPath(t *testing.T) {
	req := mux.SetURLVars(httptest.NewRequest(http.MethodGet, "/", nil),
		map[string]string{"kind": "meeting_room", "entityId": "R-1", "date": "2024-03-04"})

	path, err := ParseEntityPath(req)
	require.NoError(t, err)
	assert.Equal(t, domain.KindMeetingRoom, path.Kind)
	assert.Equal(t, "R-1", path.EntityID)

	day, err := ParseDay(req)
	require.NoError(t, err)
	assert.Equal(t, time.Monday, day.Weekday())

	req = mux.SetURLVars(httptest.NewRequest(http.MethodGet, "/", nil),
		map[string]string{"kind": "garage", "entityId": "R-1"})
	_, err = ParseEntityPath(req)
	assert.ErrorIs(t, err, ErrInvalidPath)
}

func TestRespondEngineError(t *testing.T) {
	day := time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{
			name:       "slot conflict",
			err:        fmt.Errorf("wrapped: %w", &availability.SlotError{Day: day, Start: "09:00", End: "10:00", Reason: availability.ErrSlotBlocked}),
			wantStatus: http.StatusConflict,
			wantCode:   "blocked",
		},
		{
			name:       "slot not found",
			err:        &availability.SlotError{Day: day, Start: "09:00", End: "10:00", Reason: availability.ErrSlotNotFound},
			wantStatus: http.StatusNotFound,
			wantCode:   "slot_not_found",
		},
		{
			name:       "record not found",
			err:        availability.ErrRecordNotFound,
			wantStatus: http.StatusNotFound,
			wantCode:   "record_not_found",
		},
		{
			name:       "concurrent modification",
			err:        availability.ErrConcurrentModification,
			wantStatus: http.StatusConflict,
			wantCode:   "concurrent_modification",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			require.True(t, RespondEngineError(rec, tt.err))
			assert.Equal(t, tt.wantStatus, rec.Code)

			var body ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.wantCode, body.Code)
			assert.NotEmpty(t, body.Error)
		})
	}

	assert.False(t, RespondEngineError(httptest.NewRecorder(), availability.ErrInternal))
}

func TestRespondEngineError_SlotDetails(t *testing.T) {
	rec := httptest.NewRecorder()
	err := &availability.SlotError{
		Day:    time.Date(2024, 3, 6, 0, 0, 0, 0, time.UTC),
		Start:  "10:00",
		End:    "11:00",
		Reason: availability.ErrSlotHasActiveBooking,
	}
	require.True(t, RespondEngineError(rec, err))

	var body struct {
		Code    string              `json:"code"`
		Details SlotConflictDetails `json:"details"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "has_active_booking", body.Code)
	assert.Equal(t, SlotConflictDetails{Day: "2024-03-06", Start: "10:00", End: "11:00"}, body.Details)
}
