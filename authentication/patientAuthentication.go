package authentication

import (
	"docnet/configuration"
	"docnet/models"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

var jwtKey = []byte("patientSecretKey")

// Generating jwt token for patient
func GeneratePatientToken(patientID uint, email string) (string, error) {
	claims := &models.PatientClaims{
		PatientID: patientID,
		Email:     email,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour * 24)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(jwtKey)
}

// AuthenticatePatient verifies a patient token and returns its claims
func AuthenticatePatient(signedStringToken string) (string, uint, error) {
	token, err := jwt.ParseWithClaims(signedStringToken, &models.PatientClaims{}, func(token *jwt.Token) (interface{}, error) {
		return jwtKey, nil
	})
	if err != nil {
		return "", 0, err
	}

	if claims, ok := token.Claims.(*models.PatientClaims); ok && token.Valid {
		return claims.Email, claims.PatientID, nil
	}
	return "", 0, errors.New("invalid token")
}

func PatientAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := c.GetHeader("Authorization")

		if tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "User Authorization is missing"})
			return
		}

		authHeader := strings.TrimSpace(strings.TrimPrefix(tokenString, "Bearer"))
		email, patientID, err := AuthenticatePatient(authHeader)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		}

		// Blocked accounts lose access even with a live token
		var user models.User
		if err := configuration.DB.Where("user_id = ? AND role = ?", patientID, models.RolePatient).First(&user).Error; err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Patient not found"})
			return
		}
		if !user.IsActive {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Account has been blocked"})
			return
		}

		c.Set("patientID", patientID)
		c.Set("email", email)
		c.Next()
	}
}
