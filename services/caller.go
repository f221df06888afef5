package services

import "derma-review-api/models"

// Caller is the structured identity of the user invoking a ledger read.
// It is resolved once at the workflow boundary; the ledger never branches
// on a raw role string.
type Caller struct {
	role   string
	userID uint
}

func PatientCaller(userID uint) Caller {
	return Caller{role: models.RolePatient, userID: userID}
}

func DermatologistCaller(userID uint) Caller {
	return Caller{role: models.RoleDermatologist, userID: userID}
}

// CallerForRole builds a Caller from an authenticated (userID, role) pair.
// Only patients and dermatologists may read the ledger; any other role
// yields ok == false.
func CallerForRole(role string, userID uint) (Caller, bool) {
	switch role {
	case models.RolePatient:
		return PatientCaller(userID), true
	case models.RoleDermatologist:
		return DermatologistCaller(userID), true
	default:
		return Caller{}, false
	}
}

func (c Caller) UserID() uint { return c.userID }

func (c Caller) IsPatient() bool { return c.role == models.RolePatient }
