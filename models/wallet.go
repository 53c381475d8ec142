package models

import "time"

// Wallet keeps the denormalized running balance; the ledger is the
// WalletHistory table. The balance must equal the sum of ledger deltas.
type Wallet struct {
	WalletID  uint      `gorm:"primaryKey" json:"wallet_id"`
	DoctorID  uint      `json:"doctor_id" gorm:"uniqueIndex;not null"`
	Balance   float64   `json:"balance" gorm:"default:0"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

// Ledger entry types
const (
	WalletCredit = "credit"
	WalletDebit  = "debit"
)

// WalletHistory rows are append-only. Balance is the resulting balance
// after applying this entry.
type WalletHistory struct {
	HistoryID uint      `gorm:"primaryKey" json:"history_id"`
	WalletID  uint      `json:"wallet_id" gorm:"index;not null"`
	Type      string    `json:"type" gorm:"not null"`
	Amount    float64   `json:"amount" gorm:"not null"`
	Balance   float64   `json:"balance" gorm:"not null"`
	Reference string    `json:"reference"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

// Withdrawal statuses
const (
	WithdrawalPending    = "pending"
	WithdrawalProcessing = "processing"
	WithdrawalSuccess    = "success"
	WithdrawalFailed     = "failed"
)

type Withdrawal struct {
	WithdrawalID  uint      `gorm:"primaryKey" json:"withdrawal_id"`
	DoctorID      uint      `json:"doctor_id" gorm:"index;not null"`
	Amount        float64   `json:"amount" gorm:"not null"`
	Status        string    `json:"status" gorm:"not null;default:pending"`
	TransferID    string    `json:"transfer_id" gorm:"uniqueIndex"`
	BeneficiaryID string    `json:"beneficiary_id"`
	BankAccount   string    `json:"bank_account"`
	IFSC          string    `json:"ifsc"`
	CreatedAt     time.Time `gorm:"autoCreateTime"`
	UpdatedAt     time.Time `gorm:"autoUpdateTime"`
}
