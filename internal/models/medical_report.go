package models

import (
	"time"
)

// MedicalReport represents the clinical report written after a completed
// appointment. At most one report exists per appointment; editing reuses the
// same report row.
type MedicalReport struct {
	BaseModel
	AppointmentID       string     `gorm:"size:36;uniqueIndex;not null" json:"appointmentId"`
	Diagnosis           string     `gorm:"type:text;not null" json:"diagnosis"`
	Symptoms            string     `gorm:"type:text" json:"symptoms"`
	PhysicalExamination string     `gorm:"type:text" json:"physicalExamination"`
	Investigations      string     `gorm:"type:text" json:"investigations"`
	Recommendations     string     `gorm:"type:text" json:"recommendations"`
	FollowUpDate        *time.Time `json:"followUpDate,omitempty"`
	AdditionalNotes     string     `gorm:"type:text" json:"additionalNotes"`
	CreatedDate         time.Time  `json:"createdDate"`

	// Relations
	Appointment   Appointment    `gorm:"foreignKey:AppointmentID" json:"appointment"`
	Prescriptions []Prescription `gorm:"foreignKey:MedicalReportID;constraint:OnDelete:CASCADE" json:"prescriptions"`
}

// Prescription is a single medication line of a medical report. Position keeps
// the order the doctor entered them in.
type Prescription struct {
	BaseModel
	MedicalReportID string `gorm:"size:36;index;not null" json:"medicalReportId"`
	Medication      string `gorm:"size:200;not null" json:"medication"`
	Dosage          string `gorm:"size:100" json:"dosage"`
	Frequency       string `gorm:"size:100" json:"frequency"`
	Duration        string `gorm:"size:100" json:"duration"`
	Position        int    `gorm:"default:0" json:"-"`
}
