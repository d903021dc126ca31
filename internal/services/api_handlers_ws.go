package services

import (
	"strings"

	"github.com/charmbracelet/log"
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
)

func (a *Api) WsUpgrade() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(ctx) {
			return ctx.Next()
		}
		return fiber.ErrUpgradeRequired
	}
}

func (a *Api) Notifications() fiber.Handler {
	return websocket.New(func(conn *websocket.Conn) {

		clientId := strings.TrimSpace(conn.Params("id"))
		if clientId == "" {
			_ = conn.WriteMessage(websocket.CloseMessage, []byte("missing client id"))
			_ = conn.Close()
			return
		}

		logger := log.With("component", "ws", "clientId", clientId)
		logger.Debug("client connected")

		client := NewWSClient(clientId, conn)
		a.hub.Add(client)

		go client.writeLoop()
		client.readPump(func() {
			a.hub.Remove(client)
			logger.Debug("client disconnected")
		})
	})
}
