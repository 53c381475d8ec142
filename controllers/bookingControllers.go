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
	razorpay "github.com/razorpay/razorpay-go"
)

// Share of a booking payment credited to the doctor; the rest is the
// platform fee.
const BookingDoctorShare = 0.90

// createGatewayOrder opens a razorpay order for the given amount. The
// gateway expects paisa.
func createGatewayOrder(amount float64, receipt string) (string, error) {
	client := razorpay.NewClient(os.Getenv("RAZORPAY_KEY_ID"), os.Getenv("RAZORPAY_KEY_SECRET"))

	data := map[string]interface{}{
		"amount":   int64(amount * 100),
		"currency": "INR",
		"receipt":  receipt,
	}

	body, err := client.Order.Create(data, nil)
	if err != nil {
		return "", err
	}

	orderID, ok := body["id"].(string)
	if !ok {
		return "", errors.New("gateway response missing order id")
	}
	return orderID, nil
}

// CreateBooking opens a pending payment and an appointment against a free
// slot. The slot stays unbooked until the gateway confirms the payment.
func CreateBooking(c *gin.Context) {
	patientID, ok := c.Get("patientID")
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Patient not authenticated"})
		return
	}

	var req struct {
		SlotID uint `json:"slot_id" binding:"required"`
	}
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var slot models.DoctorSlot
	if err := configuration.DB.Where("slot_id = ?", req.SlotID).First(&slot).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Slot not found"})
		return
	}

	if slot.IsBooked {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Slot has already been booked"})
		return
	}

	// Booking a slot dated today at a past time is rejected
	if SlotInPast(slot.Date, slot.StartTime, time.Now()) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Slot time cannot be in the past"})
		return
	}

	// The doctor must still be approved and active
	var profile models.DoctorProfile
	if err := configuration.DB.Where("user_id = ?", slot.DoctorID).First(&profile).Error; err != nil || profile.Approved == nil || !*profile.Approved {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Doctor is not accepting bookings"})
		return
	}

	orderID, err := createGatewayOrder(slot.Fee, fmt.Sprintf("slot_%d", slot.SlotID))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"Error": "Failed to create razorpay order"})
		return
	}

	slotID := slot.SlotID
	payment := models.Payment{
		SlotID:          &slotID,
		PatientID:       patientID.(uint),
		Amount:          slot.Fee,
		Status:          models.PaymentPending,
		RazorpayOrderID: orderID,
	}

	tx := configuration.DB.Begin()
	if err := tx.Create(&payment).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create payment"})
		return
	}

	// The appointment exists before the gateway confirms anything
	appointment := models.Appointment{
		PaymentID: payment.PaymentID,
		Status:    "scheduled",
	}
	if err := tx.Create(&appointment).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create appointment"})
		return
	}
	tx.Commit()

	c.JSON(http.StatusOK, gin.H{
		"Status":         "Success",
		"Message":        "Booking initiated. Complete the payment to confirm",
		"order_id":       orderID,
		"amount":         slot.Fee,
		"payment_id":     payment.PaymentID,
		"appointment_id": appointment.AppointmentID,
	})
}

// gatewayVerifyRequest is what the client posts back after checkout
type gatewayVerifyRequest struct {
	RazorpayOrderID   string `json:"razorpay_order_id" binding:"required"`
	RazorpayPaymentID string `json:"razorpay_payment_id" binding:"required"`
	RazorpaySignature string `json:"razorpay_signature" binding:"required"`
}

// VerifyBooking checks the gateway signature and, in one transaction,
// marks the payment successful, books the slot and credits the doctor's
// wallet. Re-verifying an already successful payment is a no-op.
func VerifyBooking(c *gin.Context) {
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

	var payment models.Payment
	if err := configuration.DB.Where("razorpay_order_id = ?", req.RazorpayOrderID).First(&payment).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Payment not found for order"})
		return
	}

	if payment.PatientID != patientID.(uint) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Payment does not belong to you"})
		return
	}

	// Double verification must not double-credit the wallet
	if payment.Status == models.PaymentSuccess {
		c.JSON(http.StatusOK, gin.H{"Status": "Success", "Message": "Payment already verified"})
		return
	}

	if !VerifyGatewaySignature(req.RazorpayOrderID, req.RazorpayPaymentID, req.RazorpaySignature, os.Getenv("RAZORPAY_KEY_SECRET")) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Payment signature verification failed"})
		return
	}

	if payment.SlotID == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Payment has no slot"})
		return
	}

	var slot models.DoctorSlot
	if err := configuration.DB.Where("slot_id = ?", *payment.SlotID).First(&slot).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Slot not found"})
		return
	}

	// Payment success, slot booked and wallet credit are all-or-nothing
	tx := configuration.DB.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	// Guarded update: another pending payment on the same slot may have
	// verified first. Zero rows affected means the slot is gone.
	res := tx.Model(&models.DoctorSlot{}).
		Where("slot_id = ? AND is_booked = ?", slot.SlotID, false).
		Update("is_booked", true)
	if res.Error != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to book slot"})
		return
	}
	if res.RowsAffected == 0 {
		tx.Rollback()
		// The captured payment goes back to the patient
		configuration.DB.Model(&payment).Update("status", models.PaymentRefunded)
		configuration.DB.Model(&models.Appointment{}).Where("payment_id = ?", payment.PaymentID).Update("status", "cancelled")
		c.JSON(http.StatusConflict, gin.H{"error": "Slot was booked by another patient. Your payment will be refunded"})
		return
	}

	// Guarded as well so two concurrent verifies of the same order cannot
	// both flip the payment and double-credit the wallet
	res = tx.Model(&models.Payment{}).
		Where("payment_id = ? AND status <> ?", payment.PaymentID, models.PaymentSuccess).
		Updates(map[string]interface{}{
			"status":              models.PaymentSuccess,
			"razorpay_payment_id": req.RazorpayPaymentID,
			"razorpay_signature":  req.RazorpaySignature,
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

	credit := DoctorShare(payment.Amount, BookingDoctorShare)
	if err := creditDoctorWallet(tx, slot.DoctorID, credit, fmt.Sprintf("booking payment %d", payment.PaymentID)); err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to credit wallet"})
		return
	}

	if err := tx.Commit().Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to commit payment"})
		return
	}

	// Post-commit fan-out: confirmation mail and notifications. Failures
	// here are logged by the mail worker, never surfaced to the patient.
	var patient models.User
	if err := configuration.DB.Where("user_id = ?", payment.PatientID).First(&patient).Error; err == nil {
		body := fmt.Sprintf("Your appointment on %s at %s is confirmed.", slot.Date.Format("2006-01-02"), slot.StartTime)
		QueueEmail("Appointment confirmed", body, patient.Email)
	}

	var appointment models.Appointment
	if err := configuration.DB.Where("payment_id = ?", payment.PaymentID).First(&appointment).Error; err == nil {
		CreateNotification(payment.PatientID, slot.DoctorID,
			fmt.Sprintf("New appointment booked for %s %s", slot.Date.Format("2006-01-02"), slot.StartTime),
			"booking", appointment.AppointmentID)
		configuration.DB.Model(&appointment).Update("notification_sent", true)
	}

	c.JSON(http.StatusOK, gin.H{
		"Status":  "Success",
		"Message": "Payment verified and appointment confirmed",
	})
}

// CancelAppointment is a handler function for cancelling an appointment.
func CancelAppointment(c *gin.Context) {
	var appointment models.Appointment
	if err := configuration.DB.Where("appointment_id = ?", c.Param("id")).First(&appointment).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Appointment not found"})
		return
	}

	var payment models.Payment
	if err := configuration.DB.Where("payment_id = ?", appointment.PaymentID).First(&payment).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Payment not found"})
		return
	}

	// Only the patient on the appointment or the slot's doctor may cancel
	if patientID, ok := c.Get("patientID"); ok {
		if payment.PatientID != patientID.(uint) {
			c.JSON(http.StatusForbidden, gin.H{"error": "Appointment does not belong to you"})
			return
		}
	} else if doctorID, ok := c.Get("doctor_id"); ok {
		if payment.SlotID == nil {
			c.JSON(http.StatusForbidden, gin.H{"error": "Appointment does not belong to you"})
			return
		}
		var slot models.DoctorSlot
		if err := configuration.DB.Where("slot_id = ?", *payment.SlotID).First(&slot).Error; err != nil || slot.DoctorID != doctorID.(uint) {
			c.JSON(http.StatusForbidden, gin.H{"error": "Appointment does not belong to you"})
			return
		}
	} else {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	switch appointment.Status {
	case "cancelled":
		c.JSON(http.StatusBadRequest, gin.H{"Error": "Appointment has already been cancelled"})
		return
	case "completed":
		c.JSON(http.StatusBadRequest, gin.H{"Error": "This appointment has already been completed"})
		return
	}

	if err := configuration.DB.Model(&appointment).Update("status", "cancelled").Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"Error": "Failed to update appointment status"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Appointment Cancelled"})
}

// GetAppointmentHistory lists the logged-in patient's appointments
func GetAppointmentHistory(c *gin.Context) {
	patientID, ok := c.Get("patientID")
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Patient not authenticated"})
		return
	}

	var payments []models.Payment
	if err := configuration.DB.Where("patient_id = ?", patientID).Order("created_at desc").Find(&payments).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch history"})
		return
	}

	type historyRow struct {
		Appointment models.Appointment `json:"appointment"`
		Payment     models.Payment     `json:"payment"`
		Slot        *models.DoctorSlot `json:"slot,omitempty"`
	}

	var history []historyRow
	for _, payment := range payments {
		var appointment models.Appointment
		if err := configuration.DB.Where("payment_id = ?", payment.PaymentID).First(&appointment).Error; err != nil {
			continue
		}
		row := historyRow{Appointment: appointment, Payment: payment}
		if payment.SlotID != nil {
			var slot models.DoctorSlot
			if err := configuration.DB.Where("slot_id = ?", *payment.SlotID).First(&slot).Error; err == nil {
				row.Slot = &slot
			}
		}
		history = append(history, row)
	}

	if len(history) == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "No history found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"Status":  "Success",
		"Message": "Appointment history fetched successfully",
		"data":    history,
	})
}

// GetDoctorAppointments lists booked slots for the logged-in doctor,
// optionally filtered by date
func GetDoctorAppointments(c *gin.Context) {
	doctorID, ok := c.Get("doctor_id")
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Doctor not authenticated"})
		return
	}

	query := configuration.DB.Where("doctor_id = ? AND is_booked = ?", doctorID, true)
	if dateStr := c.Query("date"); dateStr != "" {
		date, err := time.Parse("2006-01-02", dateStr)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date format"})
			return
		}
		query = query.Where("date = ?", date)
	}

	var slots []models.DoctorSlot
	if err := query.Order("date, start_time").Find(&slots).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch appointments"})
		return
	}

	type bookedRow struct {
		Slot        models.DoctorSlot   `json:"slot"`
		Appointment *models.Appointment `json:"appointment,omitempty"`
		PatientID   uint                `json:"patient_id"`
	}

	var rows []bookedRow
	for _, slot := range slots {
		row := bookedRow{Slot: slot}
		var payment models.Payment
		if err := configuration.DB.Where("slot_id = ? AND status = ?", slot.SlotID, models.PaymentSuccess).First(&payment).Error; err == nil {
			row.PatientID = payment.PatientID
			var appointment models.Appointment
			if err := configuration.DB.Where("payment_id = ?", payment.PaymentID).First(&appointment).Error; err == nil {
				row.Appointment = &appointment
			}
		}
		rows = append(rows, row)
	}

	c.JSON(http.StatusOK, gin.H{"Status": "Success", "data": rows})
}
