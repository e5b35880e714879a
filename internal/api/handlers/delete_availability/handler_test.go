package delete_availability

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"

	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
	"github.com/m04kA/SMC-AvailabilityService/internal/service/availability"
	"github.com/m04kA/SMC-AvailabilityService/internal/service/availability/availabilitytest"
	"github.com/m04kA/SMC-AvailabilityService/pkg/logger"
)

func newRouter() (*mux.Router, *availabilitytest.Repository) {
	repo := availabilitytest.NewRepository()
	svc := availability.NewService(repo, availabilitytest.NewStore(repo), availabilitytest.TxManager{}, nil, logger.NewNop(), 3)

	r := mux.NewRouter()
	r.HandleFunc("/api/v1/availability/{id}", NewHandler(svc, logger.NewNop()).Handle).Methods(http.MethodDelete)
	return r, repo
}

func del(router *mux.Router, id string) int {
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/v1/availability/"+id, nil))
	return rec.Code
}

func record(slots ...domain.Slot) *domain.AvailabilityRecord {
	return &domain.AvailabilityRecord{
		EntityID:   "D-1",
		EntityKind: domain.KindFlexDesk,
		Day:        time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC),
		Slots:      slots,
	}
}

func TestHandle_DeletesFreeRecord(t *testing.T) {
	router, repo := newRouter()
	saved := repo.Put(record(domain.NewFreeSlot("09:00", "10:00")))

	assert.Equal(t, http.StatusNoContent, del(router, saved.ID))
	assert.Equal(t, 0, repo.Len())
	assert.Equal(t, http.StatusNotFound, del(router, saved.ID))
}

func TestHandle_RejectsRecordWithBookings(t *testing.T) {
	router, repo := newRouter()
	saved := repo.Put(record(domain.NewReservedSlot("09:00", "10:00", "B-1")))

	assert.Equal(t, http.StatusConflict, del(router, saved.ID))
	assert.Equal(t, 1, repo.Len())
}

func TestHandle_InvalidID(t *testing.T) {
	router, _ := newRouter()

	assert.Equal(t, http.StatusBadRequest, del(router, "not-a-uuid"))
	assert.Equal(t, http.StatusNotFound, del(router, uuid.NewString()))
}
