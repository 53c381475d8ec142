package realtime

import (
	"encoding/json"
	"fmt"
	"log"
	"strconv"
	"sync"
	"time"

	"docnet/authentication"
	"docnet/configuration"
	"docnet/controllers"
	"docnet/models"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// chatFrame is what clients send on the chat socket. Typing events are
// relayed, messages are persisted first and fanned out by the publish
// in PersistChatMessage.
type chatFrame struct {
	Type          string `json:"type"` // message | typing
	Body          string `json:"body,omitempty"`
	AttachmentURL string `json:"attachment_url,omitempty"`
}

// ChatSocket streams a room's messages over redis pub/sub. Every
// instance of the service subscribes to the same channel, so two users
// on different instances still see each other's messages.
func ChatSocket(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Println("chat socket upgrade failed:", err)
		return
	}

	_, userID, err := authentication.AuthenticateSocketToken(c.Query("token"))
	if err != nil {
		rejectSocket(conn, CloseInvalidToken, "invalid token")
		return
	}

	roomID, err := strconv.ParseUint(c.Param("room_id"), 10, 32)
	if err != nil {
		rejectSocket(conn, CloseInvalidRecord, "unknown room")
		return
	}

	var room models.ChatRoom
	if err := configuration.DB.Where("room_id = ?", roomID).First(&room).Error; err != nil {
		rejectSocket(conn, CloseInvalidRecord, "room not found")
		return
	}
	if room.DoctorID != userID && room.PatientID != userID {
		rejectSocket(conn, CloseNotParticipant, "not a participant")
		return
	}
	if !controllers.RoomOpen(room.CreatedAt, time.Now()) {
		rejectSocket(conn, CloseInvalidRecord, "chat room has expired")
		return
	}

	defer conn.Close()

	// One writer lock per connection: the subscriber goroutine and the
	// read loop both write
	var writeMu sync.Mutex
	write := func(payload []byte) error {
		writeMu.Lock()
		defer writeMu.Unlock()
		return conn.WriteMessage(websocket.TextMessage, payload)
	}

	channel := fmt.Sprintf("chat:%d", roomID)
	sub := configuration.SubscribeRedis(channel)
	defer sub.Close()

	// Forward everything published for this room to the socket
	go func() {
		for msg := range sub.Channel() {
			if err := write([]byte(msg.Payload)); err != nil {
				return
			}
		}
	}()

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			break
		}

		var frame chatFrame
		if err := json.Unmarshal(raw, &frame); err != nil {
			log.Println("dropping malformed chat frame:", err)
			continue
		}

		switch frame.Type {
		case "message":
			if _, _, err := controllers.PersistChatMessage(uint(roomID), userID, frame.Body, frame.AttachmentURL); err != nil {
				errFrame, _ := json.Marshal(gin.H{"type": "error", "error": err.Error()})
				write(errFrame)
			}
		case "typing":
			// Relayed, never stored
			payload, _ := json.Marshal(gin.H{"type": "typing", "sender_id": userID})
			if err := configuration.PublishRedis(channel, payload); err != nil {
				log.Println("typing publish failed:", err)
			}
		default:
			log.Println("dropping unknown chat frame type:", frame.Type)
		}
	}
}
