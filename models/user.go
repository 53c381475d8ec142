package models

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Roles a user row can carry
const (
	RolePatient = "patient"
	RoleDoctor  = "doctor"
	RoleAdmin   = "admin"
)

type User struct {
	UserID          uint      `gorm:"primaryKey" json:"user_id"`
	Role            string    `json:"role" gorm:"not null"`
	Name            string    `json:"name" validate:"required"`
	Email           string    `json:"email" gorm:"uniqueIndex" validate:"required,email"`
	Phone           string    `json:"phone" gorm:"uniqueIndex"`
	Password        string    `json:"password" validate:"required,min=6"`
	IsVerified      bool      `json:"is_verified" gorm:"default:false"`
	IsActive        bool      `json:"is_active" gorm:"default:true"`
	ProfilePhotoURL string    `json:"profile_photo_url"`
	CreatedAt       time.Time `gorm:"autoCreateTime"`
	UpdatedAt       time.Time `gorm:"autoUpdateTime"`
}

type VerifyOTP struct {
	Email string `json:"email"`
	Otp   string `json:"otp"`
}

type PatientClaims struct {
	PatientID uint   `json:"patient_id"`
	Email     string `json:"email"`
	jwt.RegisteredClaims
}

type DoctorClaims struct {
	Id          uint   `json:"id"`
	DoctorEmail string `json:"email"`
	jwt.RegisteredClaims
}

type AdminClaims struct {
	AdminID uint   `json:"admin_id"`
	Email   string `json:"email"`
	jwt.RegisteredClaims
}
