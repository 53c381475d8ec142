package controllers

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"docnet/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// verifyRequest runs a gin handler with a JSON body and an authenticated
// patient set on the context
func verifyRequest(t *testing.T, handler gin.HandlerFunc, patientID uint, body string) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Set("patientID", patientID)
	handler(c)
	return w
}

func gatewayBody(orderID, paymentID, signature string) string {
	return fmt.Sprintf(`{"razorpay_order_id":%q,"razorpay_payment_id":%q,"razorpay_signature":%q}`, orderID, paymentID, signature)
}

func seedSlotAndPayment(t *testing.T, db *gorm.DB, booked bool, orderID string, patientID uint) (models.DoctorSlot, models.Payment, models.Appointment) {
	t.Helper()

	slot := models.DoctorSlot{
		DoctorID:  7,
		Date:      time.Now().AddDate(0, 0, 1),
		StartTime: "10:00",
		Duration:  30,
		Fee:       500,
		IsBooked:  booked,
	}
	if err := db.Create(&slot).Error; err != nil {
		t.Fatalf("seeding slot: %v", err)
	}

	slotID := slot.SlotID
	payment := models.Payment{
		SlotID:          &slotID,
		PatientID:       patientID,
		Amount:          slot.Fee,
		Status:          models.PaymentPending,
		RazorpayOrderID: orderID,
	}
	if err := db.Create(&payment).Error; err != nil {
		t.Fatalf("seeding payment: %v", err)
	}

	appointment := models.Appointment{PaymentID: payment.PaymentID, Status: "scheduled"}
	if err := db.Create(&appointment).Error; err != nil {
		t.Fatalf("seeding appointment: %v", err)
	}
	return slot, payment, appointment
}

func walletHistoryCount(db *gorm.DB) int64 {
	var count int64
	db.Model(&models.WalletHistory{}).Count(&count)
	return count
}

func TestVerifyBookingAlreadyVerifiedIsNoOp(t *testing.T) {
	db := setupTestDB(t)

	_, payment, _ := seedSlotAndPayment(t, db, true, "order_done", 2)
	db.Model(&payment).Update("status", models.PaymentSuccess)

	// The guard fires before any signature check, so a junk signature
	// must not matter
	w := verifyRequest(t, VerifyBooking, 2, gatewayBody("order_done", "pay_x", "junk"))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if !strings.Contains(w.Body.String(), "already verified") {
		t.Errorf("body = %s, want already-verified message", w.Body.String())
	}
	if count := walletHistoryCount(db); count != 0 {
		t.Errorf("ledger rows = %d, want 0 (no double credit)", count)
	}
}

func TestVerifyBookingRejectsTakenSlot(t *testing.T) {
	db := setupTestDB(t)
	t.Setenv("RAZORPAY_KEY_SECRET", "test_secret")

	// The slot was booked by another patient between order creation and
	// this verification
	_, payment, appointment := seedSlotAndPayment(t, db, true, "order_late", 2)

	sig := signPayload("order_late", "pay_1", "test_secret")
	w := verifyRequest(t, VerifyBooking, 2, gatewayBody("order_late", "pay_1", sig))
	if w.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409", w.Code)
	}

	db.First(&payment, payment.PaymentID)
	if payment.Status != models.PaymentRefunded {
		t.Errorf("payment status = %s, want %s", payment.Status, models.PaymentRefunded)
	}
	db.First(&appointment, appointment.AppointmentID)
	if appointment.Status != "cancelled" {
		t.Errorf("appointment status = %s, want cancelled", appointment.Status)
	}
	if count := walletHistoryCount(db); count != 0 {
		t.Errorf("ledger rows = %d, want 0 (loser must not credit the wallet)", count)
	}
}

func TestVerifyBookingRejectsBadSignature(t *testing.T) {
	db := setupTestDB(t)
	t.Setenv("RAZORPAY_KEY_SECRET", "test_secret")

	slot, payment, _ := seedSlotAndPayment(t, db, false, "order_bad", 2)

	w := verifyRequest(t, VerifyBooking, 2, gatewayBody("order_bad", "pay_1", "forged"))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}

	// Nothing may change on a failed signature
	db.First(&payment, payment.PaymentID)
	if payment.Status != models.PaymentPending {
		t.Errorf("payment status = %s, want pending", payment.Status)
	}
	db.First(&slot, slot.SlotID)
	if slot.IsBooked {
		t.Error("slot must stay unbooked after a failed signature")
	}
	if count := walletHistoryCount(db); count != 0 {
		t.Errorf("ledger rows = %d, want 0", count)
	}
}

func TestVerifyEmergencyPaymentAlreadyVerifiedIsNoOp(t *testing.T) {
	db := setupTestDB(t)

	now := time.Now()
	emergency := models.EmergencyPayment{
		DoctorID:            7,
		PatientID:           2,
		Amount:              600,
		Status:              models.PaymentSuccess,
		ConsultationStarted: true,
		StartTime:           &now,
		RazorpayOrderID:     "order_em",
	}
	if err := db.Create(&emergency).Error; err != nil {
		t.Fatalf("seeding emergency: %v", err)
	}

	w := verifyRequest(t, VerifyEmergencyPayment, 2, gatewayBody("order_em", "pay_x", "junk"))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if !strings.Contains(w.Body.String(), "already verified") {
		t.Errorf("body = %s, want already-verified message", w.Body.String())
	}
	if count := walletHistoryCount(db); count != 0 {
		t.Errorf("ledger rows = %d, want 0 (no double credit)", count)
	}
}

func TestHasActiveEmergency(t *testing.T) {
	db := setupTestDB(t)

	now := time.Now()
	emergency := models.EmergencyPayment{
		DoctorID:            7,
		PatientID:           2,
		Amount:              600,
		Status:              models.PaymentSuccess,
		ConsultationStarted: true,
		StartTime:           &now,
	}
	if err := db.Create(&emergency).Error; err != nil {
		t.Fatalf("seeding emergency: %v", err)
	}

	active, err := hasActiveEmergency(2)
	if err != nil {
		t.Fatalf("hasActiveEmergency: %v", err)
	}
	if !active {
		t.Error("running consultation should count as active")
	}

	// Another patient is unaffected
	active, err = hasActiveEmergency(3)
	if err != nil {
		t.Fatalf("hasActiveEmergency: %v", err)
	}
	if active {
		t.Error("patient 3 has no consultations")
	}

	// Ending the consultation frees the patient
	db.Model(&emergency).Update("end_time", &now)
	active, err = hasActiveEmergency(2)
	if err != nil {
		t.Fatalf("hasActiveEmergency: %v", err)
	}
	if active {
		t.Error("ended consultation should not count as active")
	}
}
