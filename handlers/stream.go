package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

const writeWait = 10 * time.Second

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// StatusStream sends the current status over a websocket, then one message per
// transition until the client goes away.
func (h *Handler) StatusStream(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		slog.Error("websocket upgrade error", "error", err)
		return
	}
	defer conn.Close()

	sub := h.orchestrator.Subscribe()
	defer h.orchestrator.Unsubscribe(sub)

	// Reads only detect the client closing.
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	if err := writeStatus(conn, toStatusResponse(h.orchestrator.Snapshot())); err != nil {
		return
	}

	for {
		select {
		case <-closed:
			return
		case <-h.ctx.Done():
			conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"),
				time.Now().Add(writeWait))
			return
		case snap, ok := <-sub:
			if !ok {
				return
			}
			if err := writeStatus(conn, toStatusResponse(snap)); err != nil {
				slog.Debug("websocket write error", "error", err)
				return
			}
		}
	}
}

func writeStatus(conn *websocket.Conn, res StatusResponse) error {
	conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteJSON(res)
}
