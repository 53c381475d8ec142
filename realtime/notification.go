package realtime

import (
	"fmt"
	"log"

	"docnet/authentication"
	"docnet/configuration"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// NotificationSocket pushes the caller's notifications as they are
// created. The stream is one-way: inbound frames are discarded.
func NotificationSocket(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Println("notification socket upgrade failed:", err)
		return
	}

	_, userID, err := authentication.AuthenticateSocketToken(c.Query("token"))
	if err != nil {
		rejectSocket(conn, CloseInvalidToken, "invalid token")
		return
	}

	defer conn.Close()

	sub := configuration.SubscribeRedis(fmt.Sprintf("notify:%d", userID))
	defer sub.Close()

	// Drain inbound frames so pings and closes are handled
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case msg, ok := <-sub.Channel():
			if !ok {
				return
			}
			if err := conn.WriteMessage(websocket.TextMessage, []byte(msg.Payload)); err != nil {
				return
			}
		case <-done:
			return
		}
	}
}
