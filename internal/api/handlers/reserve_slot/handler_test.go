package reserve_slot

import (
	"context"
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
	reserveSlot "github.com/m04kA/SMC-AvailabilityService/internal/usecase/reserve_slot"
	"github.com/m04kA/SMC-AvailabilityService/pkg/logger"
)

type fakeUseCase struct {
	got  *reserveSlot.Request
	resp *reserveSlot.Response
	err  error
}

func (f *fakeUseCase) Execute(_ context.Context, req *reserveSlot.Request) (*reserveSlot.Response, error) {
	f.got = req
	return f.resp, f.err
}

func newRouter(uc ReserveSlotUseCase) *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/api/v1/entities/{kind}/{entityId}/availability/{date}/reserve",
		NewHandler(uc, logger.NewNop()).Handle).Methods(http.MethodPost)
	return r
}

func doReserve(router *mux.Router, path, body string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, path, strings.NewReader(body)))
	return rec
}

const reservePath = "/api/v1/entities/meeting_room/R-1/availability/2024-03-04/reserve"

func TestHandle_Success(t *testing.T) {
	day := time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)
	slot := domain.NewReservedSlot("09:00", "10:00", "B-1")
	uc := &fakeUseCase{resp: &reserveSlot.Response{
		Record: &domain.AvailabilityRecord{
			ID: "rec-1", EntityID: "R-1", EntityKind: domain.KindMeetingRoom, Day: day,
			Slots: []domain.Slot{slot, domain.NewFreeSlot("10:00", "11:00")}, Version: 2,
		},
		Reserved: []domain.Slot{slot},
	}}

	rec := doReserve(newRouter(uc), reservePath, `{"start":"09:00","end":"10:00","bookingRef":"B-1"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	require.NotNil(t, uc.got)
	assert.Equal(t, domain.KindMeetingRoom, uc.got.EntityKind)
	assert.Equal(t, "R-1", uc.got.EntityID)
	assert.Equal(t, day, uc.got.Day)
	assert.Equal(t, "B-1", uc.got.BookingRef)

	var body ReserveSlotResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "2024-03-04", body.Record.Date)
	assert.Len(t, body.Record.Slots, 2)
	require.Len(t, body.Reserved, 1)
	assert.Equal(t, "B-1", *body.Reserved[0].BookingRef)
}

func TestHandle_BadRequests(t *testing.T) {
	uc := &fakeUseCase{}
	router := newRouter(uc)

	tests := []struct {
		name string
		path string
		body string
	}{
		{"unknown kind", "/api/v1/entities/garage/R-1/availability/2024-03-04/reserve", `{"start":"09:00","end":"10:00","bookingRef":"B-1"}`},
		{"bad date", "/api/v1/entities/office/R-1/availability/04.03.2024/reserve", `{"start":"09:00","end":"10:00","bookingRef":"B-1"}`},
		{"bad time", reservePath, `{"start":"9:00","end":"10:00","bookingRef":"B-1"}`},
		{"missing booking", reservePath, `{"start":"09:00","end":"10:00"}`},
		{"broken json", reservePath, `{"start":`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doReserve(router, tt.path, tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
	assert.Nil(t, uc.got, "use case must not be called on invalid input")
}

func TestHandle_ErrorMapping(t *testing.T) {
	day := time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"entity not found", reserveSlot.ErrEntityNotFound, http.StatusNotFound},
		{"entity inactive", reserveSlot.ErrEntityInactive, http.StatusUnprocessableEntity},
		{"booking not found", reserveSlot.ErrBookingNotFound, http.StatusNotFound},
		{"booking inactive", reserveSlot.ErrBookingInactive, http.StatusUnprocessableEntity},
		{"booking mismatch", reserveSlot.ErrBookingMismatch, http.StatusForbidden},
		{"invalid input", reserveSlot.ErrInvalidInput, http.StatusBadRequest},
		{"no record", availability.ErrRecordNotFound, http.StatusNotFound},
		{"already reserved", &availability.SlotError{Day: day, Start: "09:00", End: "10:00", Reason: availability.ErrSlotAlreadyReserved}, http.StatusConflict},
		{"concurrent", availability.ErrConcurrentModification, http.StatusConflict},
		{"internal", reserveSlot.ErrInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doReserve(newRouter(&fakeUseCase{err: tt.err}), reservePath,
				`{"start":"09:00","end":"10:00","bookingRef":"B-1"}`)
			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}
