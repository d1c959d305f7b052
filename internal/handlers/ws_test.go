package handlers

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tadikamesra/tadika-mesra/internal/broadcast"
	"github.com/tadikamesra/tadika-mesra/internal/models"
)

func dialEvents(t *testing.T, hub *broadcast.Hub) (*websocket.Conn, func()) {
	t.Helper()

	srv := httptest.NewServer(NewEventsHandler(hub))

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)

	return conn, func() {
		conn.Close()
		srv.Close()
	}
}

func TestEventsHandler_StreamsEvents(t *testing.T) {
	hub := broadcast.NewHub()

	conn, teardown := dialEvents(t, hub)
	defer teardown()

	// Wait for the subscriber to land in the hub before publishing
	for i := 0; i < 50 && hub.Len() == 0; i++ {
		time.Sleep(20 * time.Millisecond)
	}
	require.Equal(t, 1, hub.Len())

	ev, err := models.NewPostDeletedEvent(5)
	require.NoError(t, err)
	hub.Publish(ev)

	conn.SetReadDeadline(time.Now().Add(5 * time.Second))

	var got models.Event
	require.NoError(t, conn.ReadJSON(&got))
	assert.Equal(t, models.EventPostDeleted, got.Event)
	assert.JSONEq(t, `{"postId":5}`, string(got.Payload))
}

func TestEventsHandler_UnsubscribesOnDisconnect(t *testing.T) {
	hub := broadcast.NewHub()

	conn, teardown := dialEvents(t, hub)
	defer teardown()

	for i := 0; i < 50 && hub.Len() == 0; i++ {
		time.Sleep(20 * time.Millisecond)
	}
	require.Equal(t, 1, hub.Len())

	conn.Close()

	for i := 0; i < 50 && hub.Len() != 0; i++ {
		time.Sleep(20 * time.Millisecond)
	}
	assert.Equal(t, 0, hub.Len())
}

func TestEventsHandler_MultipleClients(t *testing.T) {
	hub := broadcast.NewHub()

	first, teardownFirst := dialEvents(t, hub)
	defer teardownFirst()
	second, teardownSecond := dialEvents(t, hub)
	defer teardownSecond()

	for i := 0; i < 50 && hub.Len() < 2; i++ {
		time.Sleep(20 * time.Millisecond)
	}
	require.Equal(t, 2, hub.Len())

	ev, err := models.NewPostDeletedEvent(9)
	require.NoError(t, err)
	hub.Publish(ev)

	for _, conn := range []*websocket.Conn{first, second} {
		conn.SetReadDeadline(time.Now().Add(5 * time.Second))

		var got models.Event
		require.NoError(t, conn.ReadJSON(&got))
		assert.Equal(t, models.EventPostDeleted, got.Event)
	}
}
