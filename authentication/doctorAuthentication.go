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

var jwtkeyy = []byte("doctorSecretKey")

// Generating token
func GenerateDoctorToken(doctorEmail string, doctorId uint) (string, error) {
	claims := &models.DoctorClaims{
		Id:          doctorId,
		DoctorEmail: doctorEmail,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour * 24)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(jwtkeyy)
}

// verify Doctor Token
func AuthenticateDoctor(tokenString string) (string, uint, error) {
	token, err := jwt.ParseWithClaims(tokenString, &models.DoctorClaims{}, func(token *jwt.Token) (interface{}, error) {
		return jwtkeyy, nil
	})
	if err != nil {
		return "", 0, err
	}

	if claims, ok := token.Claims.(*models.DoctorClaims); ok && token.Valid {
		return claims.DoctorEmail, claims.Id, nil
	}
	return "", 0, errors.New("invalid token")
}

// Doctor Auth middleware
func DoctorAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := c.GetHeader("Authorization")

		if tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing the authorization header"})
			return
		}

		authHeader := strings.TrimSpace(strings.TrimPrefix(tokenString, "Bearer"))

		email, id, err := AuthenticateDoctor(authHeader)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		var user models.User
		if err := configuration.DB.Where("user_id = ? AND role = ?", id, models.RoleDoctor).First(&user).Error; err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Doctor not found"})
			return
		}
		if !user.IsActive {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Account has been blocked"})
			return
		}

		c.Set("email", email)
		c.Set("doctor_id", id)
		c.Next()
	}
}

// retrieves Doctor information from the database
func GetDoctorByEmail(email string) (*models.User, error) {
	var doctor models.User
	if err := configuration.DB.Where("email = ? AND role = ?", email, models.RoleDoctor).First(&doctor).Error; err != nil {
		return nil, err
	}
	return &doctor, nil
}
