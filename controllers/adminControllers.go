package controllers

import (
	"docnet/authentication"
	"docnet/configuration"
	"docnet/models"
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

// Admin login
func AdminLogin(c *gin.Context) {
	var loginReq struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.BindJSON(&loginReq); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var admin models.User
	if err := configuration.DB.Where("email = ? AND role = ?", loginReq.Email, models.RoleAdmin).First(&admin).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(admin.Password), []byte(loginReq.Password)); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
		return
	}

	token, err := authentication.GenerateAdminToken(admin.UserID, admin.Email)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Login successful", "token": token})
}

func AdminLogout(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "Successfully logged out"})
}

// ApproveDoctor sets the approval state on a doctor's profile
func ApproveDoctor(c *gin.Context) {
	var req struct {
		Approved bool `json:"approved"`
	}
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var profile models.DoctorProfile
	if err := configuration.DB.Where("user_id = ?", c.Param("id")).First(&profile).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Doctor profile not found"})
		return
	}

	if err := configuration.DB.Model(&profile).Update("approved", req.Approved).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update approval"})
		return
	}

	var doctor models.User
	if err := configuration.DB.Where("user_id = ?", profile.UserID).First(&doctor).Error; err == nil {
		if req.Approved {
			QueueEmail("DOCNET registration approved", "Your doctor registration has been approved. You can log in now.", doctor.Email)
		} else {
			QueueEmail("DOCNET registration rejected", "Your doctor registration has been rejected. Contact support for details.", doctor.Email)
		}
	}

	c.JSON(http.StatusOK, gin.H{"Status": "Success", "Message": "Doctor approval updated"})
}

// ViewPendingDoctors lists doctor profiles awaiting a decision
func ViewPendingDoctors(c *gin.Context) {
	var profiles []models.DoctorProfile
	if err := configuration.DB.Where("approved IS NULL").Find(&profiles).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch doctors"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"Status": "Success", "data": profiles})
}

// ViewDoctors lists all doctor profiles with their accounts
func ViewDoctors(c *gin.Context) {
	var profiles []models.DoctorProfile
	if err := configuration.DB.Find(&profiles).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch doctors"})
		return
	}

	type doctorRow struct {
		Account models.User          `json:"account"`
		Profile models.DoctorProfile `json:"profile"`
	}
	var rows []doctorRow
	for _, profile := range profiles {
		var user models.User
		if err := configuration.DB.Where("user_id = ?", profile.UserID).First(&user).Error; err != nil {
			continue
		}
		user.Password = ""
		rows = append(rows, doctorRow{Account: user, Profile: profile})
	}

	c.JSON(http.StatusOK, gin.H{"Status": "Success", "data": rows})
}

// ViewPatients lists all patient accounts
func ViewPatients(c *gin.Context) {
	var patients []models.User
	if err := configuration.DB.Where("role = ?", models.RolePatient).Find(&patients).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch patients"})
		return
	}
	for i := range patients {
		patients[i].Password = ""
	}

	c.JSON(http.StatusOK, gin.H{"Status": "Success", "data": patients})
}

// SetUserActive blocks or unblocks any non-admin account
func SetUserActive(c *gin.Context) {
	var req struct {
		IsActive bool `json:"is_active"`
	}
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var user models.User
	if err := configuration.DB.Where("user_id = ?", c.Param("id")).First(&user).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}
	if user.Role == models.RoleAdmin {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Admin accounts cannot be blocked"})
		return
	}

	if err := configuration.DB.Model(&user).Update("is_active", req.IsActive).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update user"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"Status": "Success", "Message": "User status updated"})
}

// ViewPayments lists all slot-booking payments
func ViewPayments(c *gin.Context) {
	var payments []models.Payment
	if err := configuration.DB.Order("created_at desc").Find(&payments).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error occured while receiving the payments"})
		return
	}
	c.JSON(http.StatusOK, payments)
}

// ViewEmergencyPayments lists all emergency consultations
func ViewEmergencyPayments(c *gin.Context) {
	var payments []models.EmergencyPayment
	if err := configuration.DB.Order("created_at desc").Find(&payments).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error occured while receiving the payments"})
		return
	}
	c.JSON(http.StatusOK, payments)
}

// ViewWithdrawals lists all withdrawal requests
func ViewWithdrawals(c *gin.Context) {
	var withdrawals []models.Withdrawal
	if err := configuration.DB.Order("created_at desc").Find(&withdrawals).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch withdrawals"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"Status": "Success", "data": withdrawals})
}

// RunWithdrawal triggers payout reconciliation for one request
func RunWithdrawal(c *gin.Context) {
	var withdrawal models.Withdrawal
	if err := configuration.DB.Where("withdrawal_id = ?", c.Param("id")).First(&withdrawal).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Withdrawal not found"})
		return
	}

	if err := ProcessWithdrawal(withdrawal.WithdrawalID); err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "Payout processing failed", "details": err.Error()})
		return
	}

	configuration.DB.Where("withdrawal_id = ?", withdrawal.WithdrawalID).First(&withdrawal)
	c.JSON(http.StatusOK, gin.H{"Status": "Success", "data": withdrawal})
}
