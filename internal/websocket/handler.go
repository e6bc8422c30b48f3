package websocket

import (
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
)

// ServeWs registers the upgraded connection with the hub and pumps it until
// it closes. readPump runs on the caller's goroutine: fiber's websocket
// handler must not return while the connection is live.
func ServeWs(hub *Hub, c *websocket.Conn, userID uuid.UUID) {
	client := &Client{Hub: hub, Conn: c, UserID: userID, Send: make(chan []byte, sendBufferSize)}
	client.Hub.register <- client

	go client.writePump()
	client.readPump()
}
