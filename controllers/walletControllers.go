package controllers

import (
	"docnet/configuration"
	"docnet/models"
	"docnet/payout"
	"errors"
	"fmt"
	"log"
	"math"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DoctorShare computes the doctor's cut of a payment, rounded to paise.
func DoctorShare(amount, share float64) float64 {
	return math.Round(amount*share*100) / 100
}

// creditDoctorWallet adds to a doctor's balance inside the caller's
// transaction, creating the wallet on first credit. Exactly one ledger
// row is appended with the resulting balance.
func creditDoctorWallet(tx *gorm.DB, doctorID uint, amount float64, reference string) error {
	var wallet models.Wallet
	err := tx.Where("doctor_id = ?", doctorID).First(&wallet).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		wallet = models.Wallet{DoctorID: doctorID, Balance: 0}
		if err := tx.Create(&wallet).Error; err != nil {
			return err
		}
	} else if err != nil {
		return err
	}

	wallet.Balance += amount
	if err := tx.Model(&models.Wallet{}).Where("wallet_id = ?", wallet.WalletID).Update("balance", wallet.Balance).Error; err != nil {
		return err
	}

	history := models.WalletHistory{
		WalletID:  wallet.WalletID,
		Type:      models.WalletCredit,
		Amount:    amount,
		Balance:   wallet.Balance,
		Reference: reference,
	}
	return tx.Create(&history).Error
}

// debitDoctorWallet removes from a doctor's balance inside the caller's
// transaction. Fails when the balance is insufficient.
func debitDoctorWallet(tx *gorm.DB, doctorID uint, amount float64, reference string) error {
	var wallet models.Wallet
	if err := tx.Where("doctor_id = ?", doctorID).First(&wallet).Error; err != nil {
		return err
	}

	if wallet.Balance < amount {
		return errors.New("insufficient balance")
	}

	wallet.Balance -= amount
	if err := tx.Model(&models.Wallet{}).Where("wallet_id = ?", wallet.WalletID).Update("balance", wallet.Balance).Error; err != nil {
		return err
	}

	history := models.WalletHistory{
		WalletID:  wallet.WalletID,
		Type:      models.WalletDebit,
		Amount:    amount,
		Balance:   wallet.Balance,
		Reference: reference,
	}
	return tx.Create(&history).Error
}

// GetWallet returns the logged-in doctor's balance
func GetWallet(c *gin.Context) {
	doctorID, ok := c.Get("doctor_id")
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Doctor not authenticated"})
		return
	}

	var wallet models.Wallet
	if err := configuration.DB.Where("doctor_id = ?", doctorID).First(&wallet).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusOK, gin.H{"Status": "Success", "Wallet Amount": 0.0})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"Error": "failed to fetch wallet"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"Status":        "Success",
		"Wallet Amount": wallet.Balance,
	})
}

// GetWalletHistory returns the doctor's ledger, newest first
func GetWalletHistory(c *gin.Context) {
	doctorID, ok := c.Get("doctor_id")
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Doctor not authenticated"})
		return
	}

	var wallet models.Wallet
	if err := configuration.DB.Where("doctor_id = ?", doctorID).First(&wallet).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Wallet not found"})
		return
	}

	var history []models.WalletHistory
	if err := configuration.DB.Where("wallet_id = ?", wallet.WalletID).Order("created_at desc").Find(&history).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch wallet history"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"Status": "Success", "balance": wallet.Balance, "history": history})
}

// RequestWithdrawal debits the wallet and queues a payout transfer. The
// transfer id is generated here so resubmissions stay idempotent on the
// provider side.
func RequestWithdrawal(c *gin.Context) {
	doctorID, ok := c.Get("doctor_id")
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Doctor not authenticated"})
		return
	}

	var req struct {
		Amount      float64 `json:"amount" binding:"required"`
		BankAccount string  `json:"bank_account" binding:"required"`
		IFSC        string  `json:"ifsc" binding:"required"`
	}
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Amount <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "amount must be positive"})
		return
	}

	withdrawal := models.Withdrawal{
		DoctorID:    doctorID.(uint),
		Amount:      req.Amount,
		Status:      models.WithdrawalPending,
		TransferID:  uuid.New().String(),
		BankAccount: req.BankAccount,
		IFSC:        req.IFSC,
	}

	tx := configuration.DB.Begin()
	if err := debitDoctorWallet(tx, withdrawal.DoctorID, withdrawal.Amount, "withdrawal "+withdrawal.TransferID); err != nil {
		tx.Rollback()
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := tx.Create(&withdrawal).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create withdrawal"})
		return
	}
	if err := tx.Commit().Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to commit withdrawal"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"Status":      "Success",
		"Message":     "Withdrawal requested",
		"transfer_id": withdrawal.TransferID,
	})
}

// ProcessWithdrawal reconciles one withdrawal against the payout
// provider: ensure the beneficiary exists, initiate the transfer, check
// its status. A failed transfer re-credits the wallet.
func ProcessWithdrawal(withdrawalID uint) error {
	var withdrawal models.Withdrawal
	if err := configuration.DB.Where("withdrawal_id = ?", withdrawalID).First(&withdrawal).Error; err != nil {
		return err
	}

	if withdrawal.Status == models.WithdrawalSuccess {
		return nil
	}

	var doctor models.User
	if err := configuration.DB.Where("user_id = ?", withdrawal.DoctorID).First(&doctor).Error; err != nil {
		return err
	}

	client := payout.NewClientFromEnv()

	beneficiaryID := withdrawal.BeneficiaryID
	if beneficiaryID == "" {
		beneficiaryID = fmt.Sprintf("doc_%d", withdrawal.DoctorID)
		if _, err := client.GetBeneficiary(beneficiaryID); err != nil {
			if !errors.Is(err, payout.ErrBeneficiaryNotFound) {
				return err
			}
			if err := client.CreateBeneficiary(payout.Beneficiary{
				BeneficiaryID: beneficiaryID,
				Name:          doctor.Name,
				Email:         doctor.Email,
				Phone:         doctor.Phone,
				BankAccount:   withdrawal.BankAccount,
				IFSC:          withdrawal.IFSC,
			}); err != nil {
				return err
			}
		}
		configuration.DB.Model(&withdrawal).Updates(map[string]interface{}{
			"beneficiary_id": beneficiaryID,
			"status":         models.WithdrawalProcessing,
		})
	}

	// The provider treats transfer ids as idempotency keys, so resending
	// the same withdrawal is safe.
	if err := client.CreateTransfer(payout.Transfer{
		TransferID:    withdrawal.TransferID,
		BeneficiaryID: beneficiaryID,
		Amount:        withdrawal.Amount,
	}); err != nil {
		return err
	}

	status, err := client.GetTransferStatus(withdrawal.TransferID)
	if err != nil {
		return err
	}

	switch status {
	case payout.TransferSuccess:
		return configuration.DB.Model(&withdrawal).Update("status", models.WithdrawalSuccess).Error
	case payout.TransferFailed:
		tx := configuration.DB.Begin()
		if err := creditDoctorWallet(tx, withdrawal.DoctorID, withdrawal.Amount, "withdrawal reversal "+withdrawal.TransferID); err != nil {
			tx.Rollback()
			return err
		}
		if err := tx.Model(&models.Withdrawal{}).Where("withdrawal_id = ?", withdrawal.WithdrawalID).Update("status", models.WithdrawalFailed).Error; err != nil {
			tx.Rollback()
			return err
		}
		return tx.Commit().Error
	default:
		// still pending at the provider, leave it processing
		log.Println("Transfer", withdrawal.TransferID, "still", status)
		return nil
	}
}

// GetWithdrawals lists the doctor's withdrawal requests
func GetWithdrawals(c *gin.Context) {
	doctorID, ok := c.Get("doctor_id")
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Doctor not authenticated"})
		return
	}

	var withdrawals []models.Withdrawal
	if err := configuration.DB.Where("doctor_id = ?", doctorID).Order("created_at desc").Find(&withdrawals).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch withdrawals"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"Status": "Success", "data": withdrawals})
}
