package models

import "time"

// EmergencyPayment is an on-demand consultation with no slot behind it.
// At most one row per patient may be active (success + started + no end
// time) at a time.
type EmergencyPayment struct {
	EmergencyID         uint       `gorm:"primaryKey" json:"emergency_id"`
	DoctorID            uint       `json:"doctor_id" gorm:"not null"`
	PatientID           uint       `json:"patient_id" gorm:"not null"`
	Amount              float64    `json:"amount" gorm:"not null"`
	Status              string     `json:"status" gorm:"not null;default:pending"`
	ConsultationStarted bool       `json:"consultation_started" gorm:"default:false"`
	StartTime           *time.Time `json:"start_time"`
	EndTime             *time.Time `json:"end_time"`
	RazorpayOrderID     string     `json:"razorpay_order_id" gorm:"index"`
	RazorpayPaymentID   string     `json:"razorpay_payment_id"`
	RazorpaySignature   string     `json:"razorpay_signature"`
	CreatedAt           time.Time  `gorm:"autoCreateTime"`
	UpdatedAt           time.Time  `gorm:"autoUpdateTime"`
}
