package authentication

import (
	"docnet/configuration"
	"errors"
	"log"
	"math/rand"
	"net/smtp"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/twilio/twilio-go"
	verify "github.com/twilio/twilio-go/rest/verify/v2"
)

// OTP check outcomes. A missing redis key means the code outlived its TTL.
var (
	ErrOTPExpired = errors.New("otp expired")
	ErrOTPInvalid = errors.New("invalid otp")
)

// OTPExpiry is the validity window for a generated code
const OTPExpiry = 5 * time.Minute

// GenerateOTP
func GenerateOTP(length int) string {
	characters := "0123456789"
	// Create a byte slice to hold the OTP of the specified length.
	otp := make([]byte, length)

	for i := range otp {
		otp[i] = characters[rand.Intn(len(characters))]
	}
	return string(otp)
}

// StoreOTP keeps the code in redis under the user's email for the expiry window
func StoreOTP(email, otp string) error {
	return configuration.SetRedis("otp:"+email, otp, OTPExpiry)
}

// CheckOTP validates a submitted code. The stored code is consumed on
// success so it cannot be replayed.
func CheckOTP(email, otp string) error {
	stored, err := configuration.GetRedis("otp:" + email)
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return ErrOTPExpired
		}
		return err
	}
	if stored != otp {
		return ErrOTPInvalid
	}
	configuration.DelRedis("otp:" + email)
	return nil
}

// ValidateOTP compares a submitted code against the stored one
func ValidateOTP(otp, storedOTP string) bool {
	return otp == storedOTP
}

// SendOTPByEmail
func SendOTPByEmail(otp, email string) error {

	// Constructing the email message with the OTP included
	message := "Subject: DOCNET verification code\nHey, your OTP is " + otp

	SMTPemail := os.Getenv("Email")
	SMTPpass := os.Getenv("Password")

	// Authenticating with the SMTP server using the sender's credentials
	auth := smtp.PlainAuth("", SMTPemail, SMTPpass, "smtp.gmail.com")

	// Sending the email to the specified recipient's address
	err := smtp.SendMail("smtp.gmail.com:587", auth, SMTPemail, []string{email}, []byte(message))
	if err != nil {
		log.Println("Error sending email:", err)
		return err
	}

	return nil
}

// SendOTPBySMS delivers the code over twilio verify when the patient
// signed up with a phone number
func SendOTPBySMS(phone string) error {
	accountSID := os.Getenv("TWILIO_ACCOUNT_SID")
	authToken := os.Getenv("TWILIO_AUTHTOKEN")

	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: accountSID,
		Password: authToken,
	})

	params := verify.CreateVerificationParams{}
	params.SetTo(phone)
	params.SetChannel("sms")

	_, err := client.VerifyV2.CreateVerification(os.Getenv("TWILIO_SERVICE_ID"), &params)
	if err != nil {
		log.Println("Error sending sms otp:", err)
		return err
	}
	return nil
}
