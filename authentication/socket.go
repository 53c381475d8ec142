package authentication

import (
	"errors"

	"docnet/models"
)

// Socket connects carry the bearer token as a query parameter, and the
// same token may belong to either side of a consultation. Try the patient
// key first, then the doctor key.
func AuthenticateSocketToken(tokenString string) (string, uint, error) {
	if tokenString == "" {
		return "", 0, errors.New("missing token")
	}

	if _, patientID, err := AuthenticatePatient(tokenString); err == nil {
		return models.RolePatient, patientID, nil
	}

	if _, doctorID, err := AuthenticateDoctor(tokenString); err == nil {
		return models.RoleDoctor, doctorID, nil
	}

	return "", 0, errors.New("invalid token")
}
