package controllers

import (
	"docnet/configuration"
	"docnet/models"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// SlotInPast reports whether a slot dated/timed like this has already
// started as of now. Start times use the "15:04" layout.
func SlotInPast(date time.Time, startTime string, now time.Time) bool {
	start, err := time.Parse("15:04", startTime)
	if err != nil {
		return true
	}
	slotStart := time.Date(date.Year(), date.Month(), date.Day(), start.Hour(), start.Minute(), 0, 0, now.Location())
	return !slotStart.After(now)
}

// CreateSlot lets a doctor publish a bookable interval
func CreateSlot(c *gin.Context) {
	var slot models.DoctorSlot

	if err := c.BindJSON(&slot); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	doctorID, ok := c.Get("doctor_id")
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Doctor not authenticated"})
		return
	}
	slot.DoctorID = doctorID.(uint)

	if _, err := time.Parse("15:04", slot.StartTime); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "start_time must be in HH:MM format"})
		return
	}
	if slot.Fee <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "fee must be positive"})
		return
	}
	if slot.Duration <= 0 {
		slot.Duration = 30
	}

	// Slots that already started cannot be published
	if SlotInPast(slot.Date, slot.StartTime, time.Now()) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Slot time cannot be in the past"})
		return
	}

	// Check if a slot for the same date and time already exists
	var existing models.DoctorSlot
	if err := configuration.DB.Where("doctor_id = ? AND date = ? AND start_time = ?", slot.DoctorID, slot.Date, slot.StartTime).First(&existing).Error; err == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Slot already exists for this date and time"})
		return
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check slot"})
		return
	}

	slot.IsBooked = false
	if err := configuration.DB.Create(&slot).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create slot"})
		return
	}

	c.JSON(http.StatusOK, slot)
}

// UpdateSlot edits an unbooked slot owned by the caller
func UpdateSlot(c *gin.Context) {
	doctorID, ok := c.Get("doctor_id")
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Doctor not authenticated"})
		return
	}

	var slot models.DoctorSlot
	if err := configuration.DB.Where("slot_id = ? AND doctor_id = ?", c.Param("id"), doctorID).First(&slot).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Slot not found"})
		return
	}

	if slot.IsBooked {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Booked slots cannot be edited"})
		return
	}

	var req struct {
		Date             *time.Time `json:"date"`
		StartTime        *string    `json:"start_time"`
		Duration         *int       `json:"duration"`
		Fee              *float64   `json:"fee"`
		ConsultationType *string    `json:"consultation_type"`
	}
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.Date != nil {
		slot.Date = *req.Date
	}
	if req.StartTime != nil {
		if _, err := time.Parse("15:04", *req.StartTime); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "start_time must be in HH:MM format"})
			return
		}
		slot.StartTime = *req.StartTime
	}
	if req.Duration != nil {
		slot.Duration = *req.Duration
	}
	if req.Fee != nil {
		slot.Fee = *req.Fee
	}
	if req.ConsultationType != nil {
		slot.ConsultationType = *req.ConsultationType
	}

	if SlotInPast(slot.Date, slot.StartTime, time.Now()) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Slot time cannot be in the past"})
		return
	}

	if err := configuration.DB.Save(&slot).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update slot"})
		return
	}

	c.JSON(http.StatusOK, slot)
}

// DeleteSlot removes an unbooked slot owned by the caller
func DeleteSlot(c *gin.Context) {
	doctorID, ok := c.Get("doctor_id")
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Doctor not authenticated"})
		return
	}

	var slot models.DoctorSlot
	if err := configuration.DB.Where("slot_id = ? AND doctor_id = ?", c.Param("id"), doctorID).First(&slot).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Slot not found"})
		return
	}

	if slot.IsBooked {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Booked slots cannot be deleted"})
		return
	}

	if err := configuration.DB.Delete(&slot).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete slot"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"Status": "Success", "Message": "Slot deleted"})
}

// ListMySlots returns all slots owned by the logged-in doctor
func ListMySlots(c *gin.Context) {
	doctorID, ok := c.Get("doctor_id")
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Doctor not authenticated"})
		return
	}

	var slots []models.DoctorSlot
	if err := configuration.DB.Where("doctor_id = ?", doctorID).Order("date, start_time").Find(&slots).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch slots"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"Status": "Success", "data": slots})
}

// Function to get available time slots for a doctor on a given date
func GetAvailableTimeSlots(c *gin.Context) {
	doctorID := c.Param("doctor_id")
	dateStr := c.Query("date")

	// Parse date string into time.Time object
	date, err := time.Parse("2006-01-02", dateStr)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date format"})
		return
	}

	// Check if the specified date is before the current date
	if date.Before(time.Now().Truncate(24 * time.Hour)) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Date cannot be in the past"})
		return
	}

	var slots []models.DoctorSlot
	if err := configuration.DB.Where("doctor_id = ? AND date = ? AND is_booked = ?", doctorID, date, false).Order("start_time").Find(&slots).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve slots"})
		return
	}

	// Slots earlier today that already started are not bookable
	now := time.Now()
	available := make([]models.DoctorSlot, 0)
	for _, slot := range slots {
		if !SlotInPast(slot.Date, slot.StartTime, now) {
			available = append(available, slot)
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"message":         "Time slots fetched successfully",
		"date":            dateStr,
		"available_slots": available,
	})
}
