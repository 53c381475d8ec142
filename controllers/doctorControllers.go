package controllers

import (
	"docnet/authentication"
	"docnet/configuration"
	"docnet/models"
	"docnet/storage"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// doctorSignupRequest carries both the account and the profile fields
type doctorSignupRequest struct {
	Name           string  `json:"name" validate:"required"`
	Email          string  `json:"email" validate:"required,email"`
	Phone          string  `json:"phone"`
	Password       string  `json:"password" validate:"required,min=6"`
	RegistrationID string  `json:"registration_id" validate:"required"`
	Specialization string  `json:"specialization" validate:"required"`
	Experience     int     `json:"experience"`
	Gender         string  `json:"gender"`
	Age            int     `json:"age"`
	EmergencyFee   float64 `json:"emergency_fee"`
}

// DoctorSignup handles the registration of a new doctor. The account
// starts unverified and the profile waits for admin approval.
func DoctorSignup(c *gin.Context) {
	var req doctorSignupRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"Status":  "Failed",
			"message": "Binding error",
			"data":    err.Error(),
		})
		return
	}

	// Validate request fields
	if err := validate.Struct(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"Status":  "Failed",
			"message": "Please fill all the mandatory fields",
			"data":    err.Error(),
		})
		return
	}

	// Check if email is already in use
	var existingUser models.User
	if err := configuration.DB.Where("email = ?", req.Email).First(&existingUser).Error; err == nil {
		c.JSON(http.StatusConflict, gin.H{
			"status":  "Failed",
			"message": "Email already in use",
		})
		return
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "Failed", "message": "Database error"})
		return
	}

	// Check if registration id is already in use
	var existingProfile models.DoctorProfile
	if err := configuration.DB.Where("registration_id = ?", req.RegistrationID).First(&existingProfile).Error; err == nil {
		c.JSON(http.StatusConflict, gin.H{
			"status":  "Failed",
			"message": "Registration id already in use",
		})
		return
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "Failed", "message": "Database error"})
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "Failed", "message": "Failed to hash password"})
		return
	}

	user := models.User{
		Role:       models.RoleDoctor,
		Name:       req.Name,
		Email:      req.Email,
		Phone:      req.Phone,
		Password:   string(hashedPassword),
		IsVerified: false,
		IsActive:   true,
	}

	tx := configuration.DB.Begin()
	if err := tx.Create(&user).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"status": "Failed", "message": "Failed to create user"})
		return
	}

	profile := models.DoctorProfile{
		UserID:         user.UserID,
		RegistrationID: req.RegistrationID,
		Specialization: req.Specialization,
		Experience:     req.Experience,
		Gender:         req.Gender,
		Age:            req.Age,
		EmergencyFee:   req.EmergencyFee,
	}
	if err := tx.Create(&profile).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"status": "Failed", "message": "Failed to create doctor profile"})
		return
	}
	tx.Commit()

	// Generate OTP and send it via email
	otp := authentication.GenerateOTP(6)
	if err := authentication.StoreOTP(user.Email, otp); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "Failed", "message": "Redis error"})
		return
	}
	authentication.SendOTPByEmail(otp, user.Email)

	c.JSON(http.StatusOK, gin.H{
		"status":  "Success",
		"message": "Go to verfication page",
	})
}

// DoctorLogin
func DoctorLogin(c *gin.Context) {
	var loginReq struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.BindJSON(&loginReq); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"Error": err.Error()})
		return
	}

	// Finding doctor by email
	existingDoctor, err := authentication.GetDoctorByEmail(loginReq.Email)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
		return
	}

	// Comparing password hashes
	if err := bcrypt.CompareHashAndPassword([]byte(existingDoctor.Password), []byte(loginReq.Password)); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
		return
	}

	if !existingDoctor.IsVerified {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Account not verified. Verify OTP first"})
		return
	}
	if !existingDoctor.IsActive {
		c.JSON(http.StatusForbidden, gin.H{"error": "Account has been blocked"})
		return
	}

	// Checking if the doctor is approved
	var profile models.DoctorProfile
	if err := configuration.DB.Where("user_id = ?", existingDoctor.UserID).First(&profile).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Doctor profile missing"})
		return
	}
	if profile.Approved == nil || !*profile.Approved {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Doctor not approved yet"})
		return
	}

	// Generating JWT token for authenticated doctor
	token, err := authentication.GenerateDoctorToken(existingDoctor.Email, existingDoctor.UserID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Login successful", "token": token})
}

// GetDoctorProfile returns the logged-in doctor's account and profile
func GetDoctorProfile(c *gin.Context) {
	doctorID, ok := c.Get("doctor_id")
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Doctor not authenticated"})
		return
	}

	var user models.User
	if err := configuration.DB.Where("user_id = ?", doctorID).First(&user).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Doctor not found"})
		return
	}
	user.Password = ""

	var profile models.DoctorProfile
	if err := configuration.DB.Where("user_id = ?", doctorID).First(&profile).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Doctor profile missing"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"Status": "Success", "data": gin.H{"account": user, "profile": profile}})
}

// UpdateConsultationPreference flips the 24-hour consultation preference.
// Revoking the preference also clears emergency availability so a doctor
// cannot stay listed for emergencies they no longer serve.
func UpdateConsultationPreference(c *gin.Context) {
	doctorID, ok := c.Get("doctor_id")
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Doctor not authenticated"})
		return
	}

	var req struct {
		Prefer24HrConsultation bool `json:"prefer_24hr_consultation"`
	}
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updates := map[string]interface{}{"prefer24_hr_consultation": req.Prefer24HrConsultation}
	if !req.Prefer24HrConsultation {
		updates["emergency_status"] = false
	}

	if err := configuration.DB.Model(&models.DoctorProfile{}).Where("user_id = ?", doctorID).Updates(updates).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update preference"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"Status": "Success", "Message": "Preference updated"})
}

// UpdateEmergencyStatus toggles emergency availability. Only doctors who
// opted into 24-hour consultations may turn it on.
func UpdateEmergencyStatus(c *gin.Context) {
	doctorID, ok := c.Get("doctor_id")
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Doctor not authenticated"})
		return
	}

	var req struct {
		EmergencyStatus bool `json:"emergency_status"`
	}
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var profile models.DoctorProfile
	if err := configuration.DB.Where("user_id = ?", doctorID).First(&profile).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Doctor profile missing"})
		return
	}

	if req.EmergencyStatus && !profile.Prefer24HrConsultation {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Enable 24hr consultation preference before going on emergency duty"})
		return
	}

	if err := configuration.DB.Model(&profile).Update("emergency_status", req.EmergencyStatus).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update emergency status"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"Status": "Success", "Message": "Emergency status updated"})
}

// UploadProfilePhoto stores the doctor's photo in S3 and saves the URL
func UploadProfilePhoto(c *gin.Context) {
	doctorID, ok := c.Get("doctor_id")
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Doctor not authenticated"})
		return
	}

	file, header, err := c.Request.FormFile("photo")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "photo file is required"})
		return
	}
	defer file.Close()

	key := fmt.Sprintf("profiles/%v/%s", doctorID, header.Filename)
	url, err := storage.UploadFile(c.Request.Context(), key, file, header.Header.Get("Content-Type"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to upload photo"})
		return
	}

	if err := configuration.DB.Model(&models.User{}).Where("user_id = ?", doctorID).Update("profile_photo_url", url).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save photo url"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"Status": "Success", "url": url})
}

// Information about doctor exposed in the public directory
type DoctorInfo struct {
	DoctorID        uint    `json:"doctor_id"`
	Name            string  `json:"name"`
	Age             int     `json:"age"`
	Gender          string  `json:"gender"`
	Speciality      string  `json:"speciality"`
	Experience      int     `json:"experience"`
	EmergencyStatus bool    `json:"emergency_status"`
	EmergencyFee    float64 `json:"emergency_fee"`
	ProfilePhotoURL string  `json:"profile_photo_url"`
}

// Getting approved doctors by speciality
func GetDoctorsBySpeciality(c *gin.Context) {
	doctorSpeciality := c.Param("specialization")

	var profiles []models.DoctorProfile
	if err := configuration.DB.Where("specialization = ? AND approved = ?", doctorSpeciality, true).Find(&profiles).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"Error":   "Couldn't Get doctors details",
			"details": err.Error()})
		return
	}

	doctorInfoList := buildDoctorInfoList(profiles)
	if len(doctorInfoList) == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "No doctors found with the specified speciality"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"Status":  "Success",
		"Message": "Doctors details list fetched successfully",
		"data":    doctorInfoList,
	})
}

// GetEmergencyDoctors lists approved doctors currently on emergency duty
func GetEmergencyDoctors(c *gin.Context) {
	var profiles []models.DoctorProfile
	if err := configuration.DB.Where("approved = ? AND emergency_status = ?", true, true).Find(&profiles).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Couldn't Get doctors details"})
		return
	}

	doctorInfoList := buildDoctorInfoList(profiles)
	if len(doctorInfoList) == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "No doctors available for emergency consultation right now"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"Status":  "Success",
		"Message": "Emergency doctors fetched successfully",
		"data":    doctorInfoList,
	})
}

func buildDoctorInfoList(profiles []models.DoctorProfile) []DoctorInfo {
	var list []DoctorInfo
	for _, profile := range profiles {
		var user models.User
		if err := configuration.DB.Where("user_id = ? AND is_active = ?", profile.UserID, true).First(&user).Error; err != nil {
			continue
		}
		list = append(list, DoctorInfo{
			DoctorID:        user.UserID,
			Name:            user.Name,
			Age:             profile.Age,
			Gender:          profile.Gender,
			Speciality:      profile.Specialization,
			Experience:      profile.Experience,
			EmergencyStatus: profile.EmergencyStatus,
			EmergencyFee:    profile.EmergencyFee,
			ProfilePhotoURL: user.ProfilePhotoURL,
		})
	}
	return list
}

// DoctorLogout
func DoctorLogout(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "You are successfully logged out"})
}
