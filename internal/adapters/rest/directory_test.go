package rest

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avdim/roomchat/internal/domain"
)

func newServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("GET /v1/chat/general", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"title":"General"}`))
	})
	mux.HandleFunc("GET /v1/chat/general/users", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"id":"1","username":"alice"},{"id":"2","username":"bob"}]`))
	})
	mux.HandleFunc("GET /v1/chat/broken", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	mux.HandleFunc("GET /v1/chat/broken/users", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	return httptest.NewServer(mux)
}

func TestRoomInfo(t *testing.T) {
	srv := newServer(t)
	defer srv.Close()

	c := NewClient(srv.URL, time.Second, zerolog.Nop())
	room, err := c.RoomInfo(context.Background(), "general")
	require.NoError(t, err)
	assert.Equal(t, domain.Room{ID: "general", Title: "General"}, room)
}

func TestRoster(t *testing.T) {
	srv := newServer(t)
	defer srv.Close()

	c := NewClient(srv.URL, time.Second, zerolog.Nop())
	users, err := c.Roster(context.Background(), "general")
	require.NoError(t, err)
	assert.Equal(t, []domain.User{
		{ID: "1", Username: "alice"},
		{ID: "2", Username: "bob"},
	}, users)
}

func TestErrorStatusSurfacesAsError(t *testing.T) {
	srv := newServer(t)
	defer srv.Close()

	c := NewClient(srv.URL, time.Second, zerolog.Nop())

	_, err := c.RoomInfo(context.Background(), "broken")
	assert.Error(t, err)

	_, err = c.Roster(context.Background(), "broken")
	assert.Error(t, err)
}

func TestUnreachableHost(t *testing.T) {
	c := NewClient("http://127.0.0.1:1", 200*time.Millisecond, zerolog.Nop())
	_, err := c.Roster(context.Background(), "general")
	assert.Error(t, err)
}
