package models

import "time"

// ChatRoom is usable for messaging only within 7 days of creation.
type ChatRoom struct {
	RoomID    uint      `gorm:"primaryKey" json:"room_id"`
	DoctorID  uint      `json:"doctor_id" gorm:"uniqueIndex:idx_doctor_patient;not null"`
	PatientID uint      `json:"patient_id" gorm:"uniqueIndex:idx_doctor_patient;not null"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

type Message struct {
	MessageID     uint      `gorm:"primaryKey" json:"message_id"`
	RoomID        uint      `json:"room_id" gorm:"index;not null"`
	SenderID      uint      `json:"sender_id" gorm:"not null"`
	Body          string    `json:"body" gorm:"type:text"`
	AttachmentURL string    `json:"attachment_url"`
	CreatedAt     time.Time `gorm:"autoCreateTime;index" json:"created_at"`
}
