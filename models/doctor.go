package models

import "time"

// Approval states for a doctor profile. A null Approved means the admin
// has not looked at the registration yet.
type DoctorProfile struct {
	ProfileID              uint      `gorm:"primaryKey" json:"profile_id"`
	UserID                 uint      `json:"user_id" gorm:"uniqueIndex;not null"`
	RegistrationID         string    `json:"registration_id" gorm:"uniqueIndex;not null" validate:"required"`
	Specialization         string    `json:"specialization" gorm:"not null" validate:"required"`
	Experience             int       `json:"experience"`
	Gender                 string    `json:"gender"`
	Age                    int       `json:"age"`
	Approved               *bool     `json:"approved"`
	EmergencyStatus        bool      `json:"emergency_status" gorm:"default:false"`
	Prefer24HrConsultation bool      `json:"prefer_24hr_consultation" gorm:"default:false"`
	EmergencyFee           float64   `json:"emergency_fee"`
	CreatedAt              time.Time `gorm:"autoCreateTime"`
	UpdatedAt              time.Time `gorm:"autoUpdateTime"`
}
