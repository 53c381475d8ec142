package controllers

import (
	"docnet/configuration"
	"docnet/models"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Emergency consultations credit the doctor a smaller share than slot
// bookings.
const EmergencyDoctorShare = 0.85

// hasActiveEmergency reports whether the patient already has a
// consultation in state success + started + no end time.
func hasActiveEmergency(patientID uint) (bool, error) {
	var existing models.EmergencyPayment
	err := configuration.DB.Where(
		"patient_id = ? AND status = ? AND consultation_started = ? AND end_time IS NULL",
		patientID, models.PaymentSuccess, true,
	).First(&existing).Error
	if err == nil {
		return true, nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	return false, err
}

// CreateEmergencyConsultation opens a pending emergency payment against a
// doctor on emergency duty. No slot is involved.
func CreateEmergencyConsultation(c *gin.Context) {
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

	// The doctor must be approved and on emergency duty
	var profile models.DoctorProfile
	if err := configuration.DB.Where("user_id = ?", req.DoctorID).First(&profile).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Doctor not found"})
		return
	}
	if profile.Approved == nil || !*profile.Approved || !profile.EmergencyStatus {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Doctor is not available for emergency consultation"})
		return
	}
	if profile.EmergencyFee <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Doctor has not set an emergency fee"})
		return
	}

	// One active consultation per patient at a time
	active, err := hasActiveEmergency(patientID.(uint))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check active consultations"})
		return
	}
	if active {
		c.JSON(http.StatusBadRequest, gin.H{"error": "You already have an active emergency consultation. End it first"})
		return
	}

	emergency := models.EmergencyPayment{
		DoctorID:  req.DoctorID,
		PatientID: patientID.(uint),
		Amount:    profile.EmergencyFee,
		Status:    models.PaymentPending,
	}

	orderID, err := createGatewayOrder(emergency.Amount, fmt.Sprintf("emergency_p%v", patientID))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"Error": "Failed to create razorpay order"})
		return
	}
	emergency.RazorpayOrderID = orderID

	if err := configuration.DB.Create(&emergency).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create emergency payment"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"Status":       "Success",
		"Message":      "Emergency consultation initiated. Complete the payment to start",
		"order_id":     orderID,
		"amount":       emergency.Amount,
		"emergency_id": emergency.EmergencyID,
	})
}

// VerifyEmergencyPayment checks the gateway signature and starts the
// consultation. The wallet credit and the start timestamp land in the
// same transaction. Re-verification is a no-op.
func VerifyEmergencyPayment(c *gin.Context) {
	patientID, ok := c.Get("patientID")
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Patient not authenticated"})
		return
	}

	var req gatewayVerifyRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var emergency models.EmergencyPayment
	if err := configuration.DB.Where("razorpay_order_id = ?", req.RazorpayOrderID).First(&emergency).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Payment not found for order"})
		return
	}

	if emergency.PatientID != patientID.(uint) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Payment does not belong to you"})
		return
	}

	if emergency.Status == models.PaymentSuccess {
		c.JSON(http.StatusOK, gin.H{"Status": "Success", "Message": "Payment already verified"})
		return
	}

	if !VerifyGatewaySignature(req.RazorpayOrderID, req.RazorpayPaymentID, req.RazorpaySignature, os.Getenv("RAZORPAY_KEY_SECRET")) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Payment signature verification failed"})
		return
	}

	tx := configuration.DB.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	// Guarded update so two concurrent verifies of the same order cannot
	// both start the consultation and double-credit the wallet
	now := time.Now()
	res := tx.Model(&models.EmergencyPayment{}).
		Where("emergency_id = ? AND status <> ?", emergency.EmergencyID, models.PaymentSuccess).
		Updates(map[string]interface{}{
			"status":               models.PaymentSuccess,
			"consultation_started": true,
			"start_time":           &now,
			"razorpay_payment_id":  req.RazorpayPaymentID,
			"razorpay_signature":   req.RazorpaySignature,
		})
	if res.Error != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update payment"})
		return
	}
	if res.RowsAffected == 0 {
		tx.Rollback()
		c.JSON(http.StatusOK, gin.H{"Status": "Success", "Message": "Payment already verified"})
		return
	}

	credit := DoctorShare(emergency.Amount, EmergencyDoctorShare)
	if err := creditDoctorWallet(tx, emergency.DoctorID, credit, fmt.Sprintf("emergency payment %d", emergency.EmergencyID)); err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to credit wallet"})
		return
	}

	if err := tx.Commit().Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to commit payment"})
		return
	}

	CreateNotification(emergency.PatientID, emergency.DoctorID,
		"An emergency consultation has started", "emergency", emergency.EmergencyID)

	c.JSON(http.StatusOK, gin.H{
		"Status":  "Success",
		"Message": "Payment verified. Consultation started",
		"room":    fmt.Sprintf("emergency_%d", emergency.EmergencyID),
	})
}

// EndEmergencyConsultation sets the end timestamp. Either side of the
// consultation may end it, exactly once.
func EndEmergencyConsultation(c *gin.Context) {
	var emergency models.EmergencyPayment
	if err := configuration.DB.Where("emergency_id = ?", c.Param("id")).First(&emergency).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Consultation not found"})
		return
	}

	// Caller must be the doctor or patient on the record
	if patientID, ok := c.Get("patientID"); ok {
		if emergency.PatientID != patientID.(uint) {
			c.JSON(http.StatusForbidden, gin.H{"error": "Consultation does not belong to you"})
			return
		}
	} else if doctorID, ok := c.Get("doctor_id"); ok {
		if emergency.DoctorID != doctorID.(uint) {
			c.JSON(http.StatusForbidden, gin.H{"error": "Consultation does not belong to you"})
			return
		}
	} else {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	if emergency.Status != models.PaymentSuccess || !emergency.ConsultationStarted {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Consultation has not started"})
		return
	}
	if emergency.EndTime != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Consultation has already ended"})
		return
	}

	now := time.Now()
	if err := configuration.DB.Model(&emergency).Update("end_time", &now).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to end consultation"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"Status": "Success", "Message": "Consultation ended"})
}

// GetActiveEmergency returns the patient's running consultation, if any
func GetActiveEmergency(c *gin.Context) {
	patientID, ok := c.Get("patientID")
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Patient not authenticated"})
		return
	}

	var emergency models.EmergencyPayment
	err := configuration.DB.Where(
		"patient_id = ? AND status = ? AND consultation_started = ? AND end_time IS NULL",
		patientID, models.PaymentSuccess, true,
	).First(&emergency).Error
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "No active emergency consultation"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"Status": "Success",
		"data":   emergency,
		"room":   fmt.Sprintf("emergency_%d", emergency.EmergencyID),
	})
}
