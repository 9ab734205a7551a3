package handlers

import (
	"medbook-server/internal/middleware"
	"medbook-server/internal/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// canManageDoctorResources reports whether a caller may act on resources
// belonging to the given doctor profile: admins always, doctors only when the
// target profile is their own.
func canManageDoctorResources(role models.Role, callerProfile models.Doctor, doctorID string) bool {
	switch role {
	case models.RoleAdmin:
		return true
	case models.RoleDoctor:
		return callerProfile.ID == doctorID
	}
	return false
}

// doctorProfileForUser resolves the doctor profile backing a user account.
func doctorProfileForUser(db *gorm.DB, userID string) (models.Doctor, error) {
	var doctor models.Doctor
	err := db.First(&doctor, "user_id = ?", userID).Error
	return doctor, err
}

// callerManagesDoctor combines the token identity with a profile lookup.
// Admins pass without a lookup; doctors must own the target profile.
func callerManagesDoctor(c *gin.Context, db *gorm.DB, doctorID string) bool {
	userID, _ := middleware.GetUserIDFromContext(c)
	role, _ := middleware.GetUserRoleFromContext(c)
	if role == models.RoleAdmin {
		return true
	}
	if role != models.RoleDoctor {
		return false
	}
	profile, err := doctorProfileForUser(db, userID)
	if err != nil {
		return false
	}
	return canManageDoctorResources(role, profile, doctorID)
}

// doctorTreatsPatient reports whether the doctor user has at least one
// appointment with the patient.
func doctorTreatsPatient(db *gorm.DB, doctorUserID, patientID string) bool {
	var count int64
	err := db.Model(&models.Appointment{}).
		Joins("JOIN doctors ON doctors.id = appointments.doctor_id").
		Where("doctors.user_id = ? AND appointments.patient_id = ?", doctorUserID, patientID).
		Count(&count).Error
	return err == nil && count > 0
}
