package livefeed

import (
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"FishCast/pkg/logger"
)

// Path is where dashboards subscribe to completed runs.
const Path = "/ws/predictions"

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(*http.Request) bool { return true },
}

// ServeWS upgrades the request and attaches the connection to hub.
func ServeWS(hub *Hub) echo.HandlerFunc {
	return func(c echo.Context) error {
		conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
		if err != nil {
			// Upgrade has already written the error response.
			hub.log.Warn("websocket upgrade failed", logger.Error(err))
			return nil
		}
		client := NewClient(hub, conn)
		select {
		case hub.Register <- client:
		case <-hub.done:
			_ = conn.Close()
			return nil
		case <-c.Request().Context().Done():
			_ = conn.Close()
			return nil
		}
		client.Start()
		return nil
	}
}
