package get_free_slots

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
	"github.com/m04kA/SMC-AvailabilityService/internal/service/availability"
	"github.com/m04kA/SMC-AvailabilityService/internal/service/availability/availabilitytest"
	"github.com/m04kA/SMC-AvailabilityService/pkg/logger"
)

func newRouter(t *testing.T) (*mux.Router, *availabilitytest.Repository) {
	t.Helper()
	repo := availabilitytest.NewRepository()
	svc := availability.NewService(repo, availabilitytest.NewStore(repo), availabilitytest.TxManager{}, nil, logger.NewNop(), 3)

	r := mux.NewRouter()
	r.HandleFunc("/api/v1/entities/{kind}/{entityId}/availability/{date}/free-slots",
		NewHandler(svc, logger.NewNop()).Handle).Methods(http.MethodGet)
	return r, repo
}

func get(router *mux.Router, path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestHandle_ReturnsOnlyAvailableSlots(t *testing.T) {
	router, repo := newRouter(t)
	repo.Put(&domain.AvailabilityRecord{
		EntityID:   "R-1",
		EntityKind: domain.KindMeetingRoom,
		Day:        time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC),
		Slots: []domain.Slot{
			domain.NewReservedSlot("09:00", "10:00", "B-1"),
			domain.NewFreeSlot("10:00", "11:00"),
			domain.NewBlockedSlot("11:00", "12:00", "maintenance"),
			domain.NewFreeSlot("12:00", "13:00"),
		},
	})

	rec := get(router, "/api/v1/entities/meeting_room/R-1/availability/2024-03-04/free-slots")
	require.Equal(t, http.StatusOK, rec.Code)

	var body FreeSlotsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "2024-03-04", body.Date)
	assert.Equal(t, []FreeSlotResponse{{Start: "10:00", End: "11:00"}, {Start: "12:00", End: "13:00"}}, body.Slots)
}

func TestHandle_NoRecordIsEmptyList(t *testing.T) {
	router, _ := newRouter(t)

	rec := get(router, "/api/v1/entities/office/O-1/availability/2024-03-05/free-slots")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"entityId":"O-1","entityKind":"office","date":"2024-03-05","slots":[]}`, rec.Body.String())
}

func TestHandle_InvalidPath(t *testing.T) {
	router, _ := newRouter(t)

	assert.Equal(t, http.StatusBadRequest, get(router, "/api/v1/entities/garage/O-1/availability/2024-03-05/free-slots").Code)
	assert.Equal(t, http.StatusBadRequest, get(router, "/api/v1/entities/office/O-1/availability/2024-13-05/free-slots").Code)
}
