package controllers

import (
	"bytes"
	"docnet/configuration"
	"docnet/models"
	"encoding/csv"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jung-kurt/gofpdf"
)

// Func to get booking status counts
func GetBookingStatusCounts(c *gin.Context) {
	var totalBookings int64
	result := configuration.DB.Model(&models.Appointment{}).Count(&totalBookings)
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"Error": "Failed to fetch total bookings"})
		return
	}

	var scheduledBookings int64
	if err := configuration.DB.Model(&models.Appointment{}).Where("status = ?", "scheduled").Count(&scheduledBookings).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"Error": "Failed to fetch scheduled bookings"})
		return
	}

	var completedBookings int64
	if err := configuration.DB.Model(&models.Appointment{}).Where("status = ?", "completed").Count(&completedBookings).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"Error": "Failed to fetch completed bookings"})
		return
	}

	var cancelledBookings int64
	if err := configuration.DB.Model(&models.Appointment{}).Where("status = ?", "cancelled").Count(&cancelledBookings).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"Error": "Failed to fetch cancelled bookings"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"Status":            "Sucess",
		"Message":           "Booking details fetched sucessfully",
		"TotalBookings":     totalBookings,
		"ScheduledBookings": scheduledBookings,
		"CompletedBookings": completedBookings,
		"CancelledBookings": cancelledBookings,
	})
}

// doctorRevenueRow is one line of the doctor-wise report
type doctorRevenueRow struct {
	DoctorID     uint    `json:"doctor_id"`
	BookingCount int     `json:"booking_count"`
	TotalRevenue float64 `json:"total_revenue"`
}

func fetchDoctorWiseRevenue() ([]doctorRevenueRow, error) {
	var rows []doctorRevenueRow
	result := configuration.DB.Table("payments").
		Select("doctor_slots.doctor_id, COUNT(*) as booking_count, SUM(payments.amount) as total_revenue").
		Joins("INNER JOIN doctor_slots ON payments.slot_id = doctor_slots.slot_id").
		Where("payments.status = ?", models.PaymentSuccess).
		Group("doctor_slots.doctor_id").
		Scan(&rows)
	return rows, result.Error
}

// Func to get doctor-wise bookings
func GetDoctorWiseBookings(c *gin.Context) {
	rows, err := fetchDoctorWiseRevenue()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch doctor-wise data"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":     "success",
		"message":    "Doctor-wise data fetched successfully",
		"doctorData": rows,
	})
}

// Func to get specialization-wise bookings
func GetSpecializationWiseBookings(c *gin.Context) {
	var specializationData []struct {
		Specialization string  `json:"specialization"`
		BookingCount   int     `json:"booking_count"`
		TotalRevenue   float64 `json:"total_revenue"`
	}

	result := configuration.DB.Table("payments").
		Select("doctor_profiles.specialization as specialization, COUNT(*) as booking_count, SUM(payments.amount) as total_revenue").
		Joins("JOIN doctor_slots ON payments.slot_id = doctor_slots.slot_id").
		Joins("JOIN doctor_profiles ON doctor_slots.doctor_id = doctor_profiles.user_id").
		Where("payments.status = ?", models.PaymentSuccess).
		Group("doctor_profiles.specialization").
		Scan(&specializationData)

	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch specialization-wise data"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":             "success",
		"message":            "Specialization-wise data fetched successfully",
		"specializationData": specializationData,
	})
}

// GetTotalRevenue sums successful booking and emergency payments
func GetTotalRevenue(c *gin.Context) {
	var bookingRevenue *float64
	if err := configuration.DB.Model(&models.Payment{}).Where("status = ?", models.PaymentSuccess).Select("SUM(amount)").Scan(&bookingRevenue).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch revenue"})
		return
	}

	var emergencyRevenue *float64
	if err := configuration.DB.Model(&models.EmergencyPayment{}).Where("status = ?", models.PaymentSuccess).Select("SUM(amount)").Scan(&emergencyRevenue).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch revenue"})
		return
	}

	total := 0.0
	if bookingRevenue != nil {
		total += *bookingRevenue
	}
	if emergencyRevenue != nil {
		total += *emergencyRevenue
	}

	c.JSON(http.StatusOK, gin.H{
		"status":            "success",
		"booking_revenue":   bookingRevenue,
		"emergency_revenue": emergencyRevenue,
		"total_revenue":     total,
	})
}

// GetRevenueByDateRange sums successful payments between two dates
func GetRevenueByDateRange(c *gin.Context) {
	startStr := c.Query("start")
	endStr := c.Query("end")

	start, err := time.Parse("2006-01-02", startStr)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid start date format"})
		return
	}
	end, err := time.Parse("2006-01-02", endStr)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid end date format"})
		return
	}
	end = end.AddDate(0, 0, 1) // inclusive end date

	var revenue *float64
	if err := configuration.DB.Model(&models.Payment{}).
		Where("status = ? AND created_at >= ? AND created_at < ?", models.PaymentSuccess, start, end).
		Select("SUM(amount)").Scan(&revenue).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch revenue"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"start":   startStr,
		"end":     endStr,
		"revenue": revenue,
	})
}

// ExportRevenueCSV streams the doctor-wise revenue report as CSV
func ExportRevenueCSV(c *gin.Context) {
	rows, err := fetchDoctorWiseRevenue()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch doctor-wise data"})
		return
	}

	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)
	writer.Write([]string{"doctor_id", "booking_count", "total_revenue"})
	for _, row := range rows {
		writer.Write([]string{
			fmt.Sprintf("%d", row.DoctorID),
			fmt.Sprintf("%d", row.BookingCount),
			fmt.Sprintf("%.2f", row.TotalRevenue),
		})
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to write CSV"})
		return
	}

	c.Header("Content-Disposition", "attachment; filename=revenue.csv")
	c.Data(http.StatusOK, "text/csv", buf.Bytes())
}

// ExportRevenuePDF streams the doctor-wise revenue report as PDF
func ExportRevenuePDF(c *gin.Context) {
	rows, err := fetchDoctorWiseRevenue()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch doctor-wise data"})
		return
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(10, 10, 10)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 14)
	pdf.CellFormat(0, 10, "DOCNET Revenue Report", "", 1, "C", false, 0, "")

	pdf.SetFont("Arial", "B", 11)
	pdf.CellFormat(40, 8, "Doctor ID", "1", 0, "", false, 0, "")
	pdf.CellFormat(40, 8, "Bookings", "1", 0, "", false, 0, "")
	pdf.CellFormat(50, 8, "Revenue", "1", 1, "", false, 0, "")

	pdf.SetFont("Arial", "", 11)
	var total float64
	for _, row := range rows {
		pdf.CellFormat(40, 8, fmt.Sprintf("%d", row.DoctorID), "1", 0, "", false, 0, "")
		pdf.CellFormat(40, 8, fmt.Sprintf("%d", row.BookingCount), "1", 0, "", false, 0, "")
		pdf.CellFormat(50, 8, fmt.Sprintf("%.2f", row.TotalRevenue), "1", 1, "", false, 0, "")
		total += row.TotalRevenue
	}

	pdf.SetFont("Arial", "B", 11)
	pdf.CellFormat(80, 8, "Total", "1", 0, "", false, 0, "")
	pdf.CellFormat(50, 8, fmt.Sprintf("%.2f", total), "1", 1, "", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate PDF"})
		return
	}

	c.Header("Content-Disposition", "attachment; filename=revenue.pdf")
	c.Data(http.StatusOK, "application/pdf", buf.Bytes())
}
