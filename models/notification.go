package models

import "time"

type Notification struct {
	NotificationID uint      `gorm:"primaryKey" json:"notification_id"`
	SenderID       uint      `json:"sender_id"`
	ReceiverID     uint      `json:"receiver_id" gorm:"index;not null"`
	Message        string    `json:"message" gorm:"not null"`
	Type           string    `json:"type"` // booking | emergency | chat | system
	TargetID       uint      `json:"target_id"`
	Read           bool      `json:"read" gorm:"default:false"`
	CreatedAt      time.Time `gorm:"autoCreateTime" json:"created_at"`
}
