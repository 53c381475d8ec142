package controllers

import (
	"fmt"
	"testing"

	"docnet/configuration"
	"docnet/models"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB swaps the global DB for an in-memory sqlite database for
// the duration of one test. Each test gets its own named database so
// state never leaks between tests.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("opening test database: %v", err)
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.DoctorProfile{},
		&models.DoctorSlot{},
		&models.Payment{},
		&models.Appointment{},
		&models.EmergencyPayment{},
		&models.Wallet{},
		&models.WalletHistory{},
		&models.Withdrawal{},
		&models.Notification{},
	); err != nil {
		t.Fatalf("migrating test database: %v", err)
	}

	prev := configuration.DB
	configuration.DB = db
	t.Cleanup(func() { configuration.DB = prev })
	return db
}

func TestCreditDoctorWalletLedger(t *testing.T) {
	db := setupTestDB(t)

	tx := db.Begin()
	if err := creditDoctorWallet(tx, 7, 450, "booking payment 1"); err != nil {
		t.Fatalf("first credit: %v", err)
	}
	tx.Commit()

	tx = db.Begin()
	if err := creditDoctorWallet(tx, 7, 425, "emergency payment 2"); err != nil {
		t.Fatalf("second credit: %v", err)
	}
	tx.Commit()

	var wallet models.Wallet
	if err := db.Where("doctor_id = ?", 7).First(&wallet).Error; err != nil {
		t.Fatalf("wallet not created: %v", err)
	}
	if wallet.Balance != 875 {
		t.Errorf("balance = %v, want 875", wallet.Balance)
	}

	// Exactly one ledger row per credit, each carrying the resulting balance
	var history []models.WalletHistory
	if err := db.Where("wallet_id = ?", wallet.WalletID).Order("history_id").Find(&history).Error; err != nil {
		t.Fatalf("fetching history: %v", err)
	}
	if len(history) != 2 {
		t.Fatalf("ledger rows = %d, want 2", len(history))
	}
	if history[0].Type != models.WalletCredit || history[0].Amount != 450 || history[0].Balance != 450 {
		t.Errorf("first row = %+v, want credit 450 -> 450", history[0])
	}
	if history[1].Type != models.WalletCredit || history[1].Amount != 425 || history[1].Balance != 875 {
		t.Errorf("second row = %+v, want credit 425 -> 875", history[1])
	}
}

func TestDebitDoctorWallet(t *testing.T) {
	db := setupTestDB(t)

	tx := db.Begin()
	if err := creditDoctorWallet(tx, 7, 100, "booking payment 1"); err != nil {
		t.Fatalf("credit: %v", err)
	}
	tx.Commit()

	tx = db.Begin()
	if err := debitDoctorWallet(tx, 7, 60, "withdrawal 1"); err != nil {
		t.Fatalf("debit: %v", err)
	}
	tx.Commit()

	var wallet models.Wallet
	db.Where("doctor_id = ?", 7).First(&wallet)
	if wallet.Balance != 40 {
		t.Errorf("balance = %v, want 40", wallet.Balance)
	}

	var count int64
	db.Model(&models.WalletHistory{}).Where("wallet_id = ? AND type = ?", wallet.WalletID, models.WalletDebit).Count(&count)
	if count != 1 {
		t.Errorf("debit ledger rows = %d, want 1", count)
	}
}

func TestDebitDoctorWalletInsufficientBalance(t *testing.T) {
	db := setupTestDB(t)

	tx := db.Begin()
	if err := creditDoctorWallet(tx, 7, 100, "booking payment 1"); err != nil {
		t.Fatalf("credit: %v", err)
	}
	tx.Commit()

	tx = db.Begin()
	if err := debitDoctorWallet(tx, 7, 200, "withdrawal 1"); err == nil {
		t.Error("expected an error debiting more than the balance")
	}
	tx.Rollback()

	var wallet models.Wallet
	db.Where("doctor_id = ?", 7).First(&wallet)
	if wallet.Balance != 100 {
		t.Errorf("balance = %v, want 100 untouched", wallet.Balance)
	}

	var count int64
	db.Model(&models.WalletHistory{}).Where("wallet_id = ?", wallet.WalletID).Count(&count)
	if count != 1 {
		t.Errorf("ledger rows = %d, want only the original credit", count)
	}
}
