package controllers

import (
	"docnet/configuration"
	"docnet/models"
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

// CreateNotification persists a notification row and pushes it to the
// receiver's socket channel. Fan-out failures are logged, not surfaced.
func CreateNotification(senderID, receiverID uint, message, ntype string, targetID uint) {
	notification := models.Notification{
		SenderID:   senderID,
		ReceiverID: receiverID,
		Message:    message,
		Type:       ntype,
		TargetID:   targetID,
	}

	if err := configuration.DB.Create(&notification).Error; err != nil {
		log.Println("Failed to create notification:", err)
		return
	}

	payload, _ := json.Marshal(notification)
	if err := configuration.PublishRedis(fmt.Sprintf("notify:%d", receiverID), payload); err != nil {
		log.Println("notification publish failed:", err)
	}
}

// GetNotifications lists the caller's notifications, newest first
func GetNotifications(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	var notifications []models.Notification
	if err := configuration.DB.Where("receiver_id = ?", userID).Order("created_at desc").Find(&notifications).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch notifications"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"Status": "Success", "data": notifications})
}

// MarkNotificationRead flips one of the caller's notifications to read
func MarkNotificationRead(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	var notification models.Notification
	if err := configuration.DB.Where("notification_id = ? AND receiver_id = ?", c.Param("id"), userID).First(&notification).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Notification not found"})
		return
	}

	if err := configuration.DB.Model(&notification).Update("read", true).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update notification"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"Status": "Success", "Message": "Notification marked as read"})
}
