package models

import "time"

// Payment statuses shared by slot bookings and emergency consultations
const (
	PaymentPending  = "pending"
	PaymentSuccess  = "success"
	PaymentFailed   = "failed"
	PaymentRefunded = "refunded"
)

type Payment struct {
	PaymentID         uint      `gorm:"primaryKey" json:"payment_id"`
	SlotID            *uint     `json:"slot_id"`
	PatientID         uint      `json:"patient_id" gorm:"not null"`
	Amount            float64   `json:"amount" gorm:"not null"`
	Status            string    `json:"status" gorm:"not null;default:pending"`
	RazorpayOrderID   string    `json:"razorpay_order_id" gorm:"index"`
	RazorpayPaymentID string    `json:"razorpay_payment_id"`
	RazorpaySignature string    `json:"razorpay_signature"`
	CreatedAt         time.Time `gorm:"autoCreateTime"`
	UpdatedAt         time.Time `gorm:"autoUpdateTime"`
}

// Appointment is created alongside the payment at order-creation time,
// before the gateway confirms anything.
type Appointment struct {
	AppointmentID    uint      `gorm:"primaryKey" json:"appointment_id"`
	PaymentID        uint      `json:"payment_id" gorm:"uniqueIndex;not null"`
	Status           string    `json:"status" gorm:"default:scheduled"` // scheduled | completed | cancelled
	NotificationSent bool      `json:"notification_sent" gorm:"default:false"`
	CreatedAt        time.Time `gorm:"autoCreateTime"`
	UpdatedAt        time.Time `gorm:"autoUpdateTime"`
}
