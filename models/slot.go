package models

import "time"

// DoctorSlot is a doctor-defined bookable time interval. A slot is unique
// per (doctor, date, start_time) and flips to booked exactly once, on
// successful payment verification.
type DoctorSlot struct {
	SlotID           uint      `gorm:"primaryKey" json:"slot_id"`
	DoctorID         uint      `json:"doctor_id" gorm:"uniqueIndex:idx_doctor_date_time;not null"`
	Date             time.Time `json:"date" gorm:"uniqueIndex:idx_doctor_date_time;not null"`
	StartTime        string    `json:"start_time" gorm:"uniqueIndex:idx_doctor_date_time;not null"`
	Duration         int       `json:"duration"` // minutes
	Fee              float64   `json:"fee" gorm:"not null"`
	ConsultationType string    `json:"consultation_type"` // video | chat
	IsBooked         bool      `json:"is_booked" gorm:"default:false"`
	CreatedAt        time.Time `gorm:"autoCreateTime"`
}
