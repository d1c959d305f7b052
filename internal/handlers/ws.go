package handlers

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/tadikamesra/tadika-mesra/internal/broadcast"
	"github.com/tadikamesra/tadika-mesra/internal/logger"
)

const wsWriteTimeout = 10 * time.Second

// The frontend may be served from a different origin, so cross-origin
// upgrades are accepted.
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// NewEventsHandler upgrades the connection to a websocket and streams
// broadcast events to the client until it disconnects. The channel is
// server push only; client frames are read and discarded to service
// control messages and detect the close.
func NewEventsHandler(hub *broadcast.Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			logger.Log.Errorw("websocket upgrade failed", "err", err)
			return
		}

		sub := hub.Subscribe()
		defer hub.Unsubscribe(sub)
		defer conn.Close()

		closed := make(chan struct{})
		go func() {
			defer close(closed)
			for {
				if _, _, err := conn.ReadMessage(); err != nil {
					return
				}
			}
		}()

		for {
			select {
			case <-closed:
				return
			case <-r.Context().Done():
				return
			case ev, ok := <-sub.Events():
				if !ok {
					return
				}
				conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
				if err := conn.WriteJSON(ev); err != nil {
					logger.Log.Errorw("websocket write failed", "err", err)
					return
				}
			}
		}
	}
}
