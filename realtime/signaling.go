package realtime

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"strings"

	"docnet/authentication"
	"docnet/configuration"
	"docnet/models"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// Close codes sent when a socket is rejected
const (
	CloseInvalidToken   = 4401
	CloseNotParticipant = 4403
	CloseInvalidRecord  = 4404
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// callHub is the process-wide room registry for video calls
var callHub = NewHub()

// signalEnvelope is the frame format both directions use
type signalEnvelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// authorizeCallRoom checks that the caller belongs to the consultation
// behind the room name and that the consultation is in a joinable state.
// Room names are appointment_<id> or emergency_<id>.
func authorizeCallRoom(room, role string, userID uint) (closeCode int, reason string) {
	parts := strings.SplitN(room, "_", 2)
	if len(parts) != 2 {
		return CloseInvalidRecord, "unknown room"
	}
	id, err := strconv.ParseUint(parts[1], 10, 32)
	if err != nil {
		return CloseInvalidRecord, "unknown room"
	}

	switch parts[0] {
	case "appointment":
		var appointment models.Appointment
		if err := configuration.DB.Where("appointment_id = ?", id).First(&appointment).Error; err != nil {
			return CloseInvalidRecord, "appointment not found"
		}
		if appointment.Status != "scheduled" {
			return CloseInvalidRecord, "appointment is not active"
		}

		var payment models.Payment
		if err := configuration.DB.Where("payment_id = ?", appointment.PaymentID).First(&payment).Error; err != nil {
			return CloseInvalidRecord, "payment not found"
		}
		if payment.Status != models.PaymentSuccess {
			return CloseInvalidRecord, "appointment is not paid"
		}

		if role == models.RolePatient {
			if payment.PatientID != userID {
				return CloseNotParticipant, "not a participant"
			}
			return 0, ""
		}
		if payment.SlotID == nil {
			return CloseInvalidRecord, "appointment has no slot"
		}
		var slot models.DoctorSlot
		if err := configuration.DB.Where("slot_id = ?", *payment.SlotID).First(&slot).Error; err != nil {
			return CloseInvalidRecord, "slot not found"
		}
		if slot.DoctorID != userID {
			return CloseNotParticipant, "not a participant"
		}
		return 0, ""

	case "emergency":
		var emergency models.EmergencyPayment
		if err := configuration.DB.Where("emergency_id = ?", id).First(&emergency).Error; err != nil {
			return CloseInvalidRecord, "consultation not found"
		}
		if emergency.Status != models.PaymentSuccess || !emergency.ConsultationStarted || emergency.EndTime != nil {
			return CloseInvalidRecord, "consultation is not active"
		}
		if role == models.RolePatient && emergency.PatientID != userID {
			return CloseNotParticipant, "not a participant"
		}
		if role == models.RoleDoctor && emergency.DoctorID != userID {
			return CloseNotParticipant, "not a participant"
		}
		return 0, ""
	}

	return CloseInvalidRecord, "unknown room"
}

func rejectSocket(conn *websocket.Conn, code int, reason string) {
	conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(code, reason))
	conn.Close()
}

// CallSocket relays WebRTC signaling frames between the two sides of a
// paid consultation. The server never inspects SDP or ICE payloads, it
// only forwards them to the other room member.
func CallSocket(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Println("call socket upgrade failed:", err)
		return
	}

	role, userID, err := authentication.AuthenticateSocketToken(c.Query("token"))
	if err != nil {
		rejectSocket(conn, CloseInvalidToken, "invalid token")
		return
	}

	room := c.Param("room")
	if code, reason := authorizeCallRoom(room, role, userID); code != 0 {
		rejectSocket(conn, code, reason)
		return
	}

	client := NewClient(userID, role)
	offerer := callHub.Join(room, client)
	// Leave before closing the channel so the hub cannot broadcast into
	// a closed channel
	defer conn.Close()
	defer close(client.send)
	defer callHub.Leave(room, client)

	// Tell the new member whether it creates the offer
	joined, _ := json.Marshal(gin.H{"type": "joined", "offerer": offerer, "peers": callHub.RoomSize(room)})
	conn.WriteMessage(websocket.TextMessage, joined)

	// Writer pump: the hub pushes peer frames onto the send channel
	go func() {
		for payload := range client.send {
			if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}
		}
	}()

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			break
		}

		var frame signalEnvelope
		if err := json.Unmarshal(raw, &frame); err != nil {
			log.Println("dropping malformed signaling frame:", err)
			continue
		}

		switch frame.Type {
		case "offer", "answer", "ice-candidate", "chat":
			callHub.Broadcast(room, client, raw)
		case "ping":
			// Answered locally through the writer pump, never relayed
			pong, _ := json.Marshal(gin.H{"type": "pong"})
			select {
			case client.send <- pong:
			default:
			}
		default:
			log.Println("dropping unknown signaling frame type:", frame.Type)
		}
	}
}
