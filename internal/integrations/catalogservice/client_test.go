package catalogservice

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func newServer(t *testing.T) *httptest.Server {
	t.Helper()
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/internal/entities/meeting_room/E1":
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"id":"E1","kind":"meeting_room","name":"Blue room","is_active":true}`))
		case "/internal/entities/office/bad id":
			w.WriteHeader(http.StatusBadRequest)
		case "/internal/entities/office/boom":
			w.WriteHeader(http.StatusBadGateway)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv
}

func TestClient_GetEntity(t *testing.T) {
	c := NewClient(newServer(t).URL, time.Second, nopLogger{})

	entity, err := c.GetEntity(context.Background(), "meeting_room", "E1")
	require.NoError(t, err)
	assert.Equal(t, "Blue room", entity.Name)
	assert.True(t, entity.IsActive)
}

func TestClient_Exists(t *testing.T) {
	c := NewClient(newServer(t).URL, time.Second, nopLogger{})
	ctx := context.Background()

	found, _, err := c.Exists(ctx, "flex_desk", "nope")
	require.NoError(t, err)
	assert.False(t, found)

	_, _, err = c.Exists(ctx, "office", "bad id")
	assert.ErrorIs(t, err, ErrInvalidEntityID)

	_, _, err = c.Exists(ctx, "office", "boom")
	assert.ErrorIs(t, err, ErrInvalidResponse)
}
