package controllers

import (
	"bytes"
	"docnet/configuration"
	"docnet/models"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jung-kurt/gofpdf"
)

// AddPrescription lets the doctor close out an appointment with a
// prescription. The PDF goes to the patient by mail and the appointment
// flips to completed.
func AddPrescription(c *gin.Context) {
	var prescription models.Prescription
	if err := c.BindJSON(&prescription); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	doctorID, ok := c.Get("doctor_id")
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Doctor not authenticated"})
		return
	}
	prescription.DoctorID = doctorID.(uint)

	var appointment models.Appointment
	if err := configuration.DB.Where("appointment_id = ?", prescription.AppointmentID).First(&appointment).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Appointment not found"})
		return
	}

	var payment models.Payment
	if err := configuration.DB.Where("payment_id = ?", appointment.PaymentID).First(&payment).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Payment not found"})
		return
	}

	// The appointment must be this doctor's, paid and still scheduled
	if payment.SlotID == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Appointment has no slot"})
		return
	}
	var slot models.DoctorSlot
	if err := configuration.DB.Where("slot_id = ?", *payment.SlotID).First(&slot).Error; err != nil || slot.DoctorID != prescription.DoctorID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Appointment does not belong to you"})
		return
	}
	if payment.Status != models.PaymentSuccess {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Appointment is not confirmed"})
		return
	}

	switch appointment.Status {
	case "completed":
		c.JSON(http.StatusBadRequest, gin.H{"error": "Prescription already added for this appointment"})
		return
	case "cancelled":
		c.JSON(http.StatusBadRequest, gin.H{"error": "Appointment has been cancelled"})
		return
	}

	prescription.PatientID = payment.PatientID
	if err := configuration.DB.Create(&prescription).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add prescription"})
		return
	}

	if err := configuration.DB.Model(&appointment).Update("status", "completed").Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update appointment status"})
		return
	}

	var doctor, patient models.User
	configuration.DB.Where("user_id = ?", prescription.DoctorID).First(&doctor)
	configuration.DB.Where("user_id = ?", prescription.PatientID).First(&patient)

	pdfData, err := GeneratePrescriptionPDF(slot, doctor, patient, prescription)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate PDF"})
		return
	}

	QueueEmailWithAttachment("Your prescription", "Prescription attachment", patient.Email, "prescription.pdf", pdfData)

	c.JSON(http.StatusOK, gin.H{
		"Status":       "Success",
		"Message":      "Prescription added sucessfully",
		"prescription": prescription,
	})
}

// GetMyPrescriptions lists prescriptions written for the logged-in patient
func GetMyPrescriptions(c *gin.Context) {
	patientID, ok := c.Get("patientID")
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Patient not authenticated"})
		return
	}

	var prescriptions []models.Prescription
	if err := configuration.DB.Where("patient_id = ?", patientID).Order("created_at desc").Find(&prescriptions).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch prescriptions"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"Status": "Success", "data": prescriptions})
}

// Generates a PDF prescription
func GeneratePrescriptionPDF(slot models.DoctorSlot, doctor, patient models.User, prescription models.Prescription) ([]byte, error) {
	// Initialize PDF document
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(10, 10, 10)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 14)
	pdf.SetTextColor(0, 0, 0)
	pdf.CellFormat(0, 10, "DOCNET Prescription", "", 1, "C", false, 0, "")

	// Doctor details section
	pdf.SetFont("Arial", "B", 12)
	addDetail(pdf, "Doctor Name:", doctor.Name, true)

	// Patient details section
	pdf.SetY(pdf.GetY() + 10)
	addDetail(pdf, "Patient Name:", patient.Name, true)

	// Appointment details section
	pdf.SetY(pdf.GetY() + 10)
	addDetail(pdf, "Appointment Date:", slot.Date.Format("2006-01-02"), true)
	addDetail(pdf, "Time Slot:", slot.StartTime, false)

	// Prescription details section
	pdf.SetY(pdf.GetY() + 10)
	addDetail(pdf, "Prescription ID:", fmt.Sprintf("%d", prescription.ID), true)
	addDetail(pdf, "Health Issue:", prescription.HealthIssue, false)
	addDetail(pdf, "Instructions:", prescription.PrescriptionText, false)

	// Prescription note
	pdf.SetFont("Arial", "", 10)
	pdf.SetY(pdf.GetY() + 10)
	pdf.MultiCell(0, 5, "Follow the instructions given by the doctor properly. Your health is all that matters!", "", "C", false)

	var pdfBuffer bytes.Buffer
	if err := pdf.Output(&pdfBuffer); err != nil {
		return nil, err
	}

	return pdfBuffer.Bytes(), nil
}

// addDetail adds a detail line to the PDF
func addDetail(pdf *gofpdf.Fpdf, label, value string, isHeader bool) {
	if isHeader {
		pdf.SetFont("Arial", "B", 12)
	} else {
		pdf.SetFont("Arial", "", 12)
	}
	pdf.CellFormat(0, 10, label, "", 1, "", false, 0, "")
	pdf.CellFormat(0, 10, value, "", 1, "", false, 0, "")
}
