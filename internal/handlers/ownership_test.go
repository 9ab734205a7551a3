package handlers

import (
	"testing"

	"medbook-server/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestCanManageDoctorResources(t *testing.T) {
	ownProfile := models.Doctor{BaseModel: models.BaseModel{ID: "doc-1"}, UserID: "user-1"}

	tests := []struct {
		name     string
		role     models.Role
		profile  models.Doctor
		doctorID string
		want     bool
	}{
		{"admin manages any doctor", models.RoleAdmin, models.Doctor{}, "doc-2", true},
		{"doctor manages own profile", models.RoleDoctor, ownProfile, "doc-1", true},
		{"doctor cannot manage another doctor", models.RoleDoctor, ownProfile, "doc-2", false},
		{"doctor without profile manages nothing", models.RoleDoctor, models.Doctor{}, "doc-1", false},
		{"patient manages nothing", models.RolePatient, ownProfile, "doc-1", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, canManageDoctorResources(tt.role, tt.profile, tt.doctorID))
		})
	}
}
