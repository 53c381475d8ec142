package controllers

import (
	"docnet/configuration"
	"docnet/models"
	"docnet/storage"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// ChatWindow is how long a room stays usable after creation
const ChatWindow = 7 * 24 * time.Hour

// RoomOpen reports whether a room created at the given time still accepts
// messages.
func RoomOpen(createdAt, now time.Time) bool {
	return now.Sub(createdAt) < ChatWindow
}

// callerID pulls the authenticated user id regardless of role
func callerID(c *gin.Context) (uint, bool) {
	if patientID, ok := c.Get("patientID"); ok {
		return patientID.(uint), true
	}
	if doctorID, ok := c.Get("doctor_id"); ok {
		return doctorID.(uint), true
	}
	return 0, false
}

// roomMember reports whether the user sits on either side of the room
func roomMember(room models.ChatRoom, userID uint) bool {
	return room.DoctorID == userID || room.PatientID == userID
}

// GetOrCreateChatRoom opens (or returns) the room between the logged-in
// patient and a doctor
func GetOrCreateChatRoom(c *gin.Context) {
	patientID, ok := c.Get("patientID")
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Patient not authenticated"})
		return
	}

	var req struct {
		DoctorID uint `json:"doctor_id" binding:"required"`
	}
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var doctor models.User
	if err := configuration.DB.Where("user_id = ? AND role = ?", req.DoctorID, models.RoleDoctor).First(&doctor).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Doctor not found"})
		return
	}

	var room models.ChatRoom
	err := configuration.DB.Where("doctor_id = ? AND patient_id = ?", req.DoctorID, patientID).First(&room).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		room = models.ChatRoom{DoctorID: req.DoctorID, PatientID: patientID.(uint)}
		if err := configuration.DB.Create(&room).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create chat room"})
			return
		}
	} else if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"Status": "Success", "data": room, "open": RoomOpen(room.CreatedAt, time.Now())})
}

// ListChatRooms returns the caller's rooms on either side
func ListChatRooms(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	var rooms []models.ChatRoom
	if err := configuration.DB.Where("doctor_id = ? OR patient_id = ?", userID, userID).Find(&rooms).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch rooms"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"Status": "Success", "data": rooms})
}

// GetChatHistory returns a room's persisted messages. Both send and read
// are gated by the 7-day window.
func GetChatHistory(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	var room models.ChatRoom
	if err := configuration.DB.Where("room_id = ?", c.Param("room_id")).First(&room).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Room not found"})
		return
	}

	if !roomMember(room, userID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "You are not part of this room"})
		return
	}

	if !RoomOpen(room.CreatedAt, time.Now()) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Chat room has expired"})
		return
	}

	var messages []models.Message
	if err := configuration.DB.Where("room_id = ?", room.RoomID).Order("created_at").Find(&messages).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch messages"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"Status": "Success", "data": messages})
}

// SendChatMessage persists a message and fans it out to the room's
// connected sockets over redis pub/sub
func SendChatMessage(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	var req struct {
		RoomID uint   `json:"room_id" binding:"required"`
		Body   string `json:"body" binding:"required"`
	}
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	message, status, err := PersistChatMessage(req.RoomID, userID, req.Body, "")
	if err != nil {
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"Status": "Success", "data": message})
}

// PersistChatMessage runs the room checks, stores the message and
// publishes it. Shared by the REST handler and the chat socket.
func PersistChatMessage(roomID, senderID uint, body, attachmentURL string) (*models.Message, int, error) {
	var room models.ChatRoom
	if err := configuration.DB.Where("room_id = ?", roomID).First(&room).Error; err != nil {
		return nil, http.StatusNotFound, errors.New("room not found")
	}

	if !roomMember(room, senderID) {
		return nil, http.StatusForbidden, errors.New("you are not part of this room")
	}

	if !RoomOpen(room.CreatedAt, time.Now()) {
		return nil, http.StatusBadRequest, errors.New("chat room has expired")
	}

	message := models.Message{
		RoomID:        roomID,
		SenderID:      senderID,
		Body:          body,
		AttachmentURL: attachmentURL,
	}
	if err := configuration.DB.Create(&message).Error; err != nil {
		return nil, http.StatusInternalServerError, errors.New("failed to store message")
	}

	// Fan out to connected sockets; persistence already succeeded so a
	// publish failure is only logged
	payload, _ := json.Marshal(message)
	if err := configuration.PublishRedis(fmt.Sprintf("chat:%d", roomID), payload); err != nil {
		log.Println("chat publish failed:", err)
	}

	// Notify the other side of the room
	receiver := room.DoctorID
	if senderID == room.DoctorID {
		receiver = room.PatientID
	}
	CreateNotification(senderID, receiver, "New chat message", "chat", roomID)

	return &message, http.StatusOK, nil
}

// UploadChatAttachment stores a file in S3 and sends it as a message
func UploadChatAttachment(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	roomID, err := strconv.ParseUint(c.PostForm("room_id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "room_id is required"})
		return
	}

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return
	}
	defer file.Close()

	key := fmt.Sprintf("chat/%d/%d_%s", roomID, time.Now().UnixNano(), header.Filename)
	url, err := storage.UploadFile(c.Request.Context(), key, file, header.Header.Get("Content-Type"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to upload file"})
		return
	}

	message, status, err := PersistChatMessage(uint(roomID), userID, c.PostForm("body"), url)
	if err != nil {
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"Status": "Success", "data": message})
}
