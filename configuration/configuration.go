package configuration

import (
	"docnet/models"
	"log"
	"os"

	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// hold connection to db
var DB *gorm.DB

// initializing db connection
func ConfigDB() {

	err1 := godotenv.Load(".env")
	if err1 != nil {
		log.Println("No .env file found, relying on environment")
	}
	dsn := os.Getenv("DB")
	var err error

	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		panic("Failed to connect to the database")
	}

	DB.AutoMigrate(
		&models.User{},
		&models.DoctorProfile{},
		&models.DoctorSlot{},
		&models.Payment{},
		&models.Appointment{},
		&models.EmergencyPayment{},
		&models.Wallet{},
		&models.WalletHistory{},
		&models.Withdrawal{},
		&models.ChatRoom{},
		&models.Message{},
		&models.Notification{},
		&models.Prescription{},
	)
}
