package models

import (
	"time"
)

// AppointmentStatus represents the status of an appointment
type AppointmentStatus string

const (
	StatusPending   AppointmentStatus = "PENDING"
	StatusConfirmed AppointmentStatus = "CONFIRMED"
	StatusCompleted AppointmentStatus = "COMPLETED"
	StatusCancelled AppointmentStatus = "CANCELLED"
	StatusRejected  AppointmentStatus = "REJECTED"
)

// Appointment represents a scheduled medical appointment
type Appointment struct {
	BaseModel
	PatientID       string            `gorm:"size:36;index" json:"patientId"`
	DoctorID        string            `gorm:"size:36;index" json:"doctorId"`
	AppointmentDate time.Time         `json:"appointmentDate"`
	Status          AppointmentStatus `gorm:"size:20;default:'PENDING'" json:"status"`
	Notes           string            `gorm:"type:text" json:"notes"`
	Cost            float64           `gorm:"default:0" json:"cost"`

	// Relations
	Patient User   `gorm:"foreignKey:PatientID" json:"patient"`
	Doctor  Doctor `gorm:"foreignKey:DoctorID" json:"doctor"`
}
