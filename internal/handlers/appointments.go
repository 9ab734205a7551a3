package handlers

import (
	"errors"
	"fmt"
	"time"

	"medbook-server/internal/middleware"
	"medbook-server/internal/models"
	"medbook-server/internal/scheduling"
	"medbook-server/internal/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// appointmentDateLayout is the local-naive wire format for appointment dates.
const appointmentDateLayout = "2006-01-02T15:04"

// AppointmentHandler handles appointment related requests.
type AppointmentHandler struct {
	DB *gorm.DB
}

// NewAppointmentHandler creates a new AppointmentHandler.
func NewAppointmentHandler(db *gorm.DB) *AppointmentHandler {
	return &AppointmentHandler{DB: db}
}

// parseAppointmentDate parses an ISO-8601 local-naive datetime string
// (YYYY-MM-DDTHH:MM) in local time. Seconds are tolerated.
func parseAppointmentDate(value string) (time.Time, error) {
	if t, err := time.ParseInLocation(appointmentDateLayout, value, time.Local); err == nil {
		return t, nil
	}
	t, err := time.ParseInLocation("2006-01-02T15:04:05", value, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid appointment date %q, expected YYYY-MM-DDTHH:MM", value)
	}
	return t, nil
}

// CreateAppointmentRequest represents the request body for booking an appointment.
type CreateAppointmentRequest struct {
	DoctorID        string `json:"doctorId" binding:"required,uuid"`
	AppointmentDate string `json:"appointmentDate" binding:"required"`
	Notes           string `json:"notes"`
}

// CreateAppointment handles booking a new appointment. Initiated by a
// patient; the appointment starts in PENDING and waits for the doctor's
// confirmation (payment never gates the status).
func (h *AppointmentHandler) CreateAppointment(c *gin.Context) {
	var req CreateAppointmentRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	patientID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		utils.Unauthorized(c, "Patient ID not found in token")
		return
	}

	appointmentDate, err := parseAppointmentDate(req.AppointmentDate)
	if err != nil {
		utils.BadRequest(c, err.Error())
		return
	}
	if appointmentDate.Before(time.Now()) {
		utils.BadRequest(c, "Appointment date must be in the future.")
		return
	}

	var doctor models.Doctor
	if err := h.DB.First(&doctor, "id = ?", req.DoctorID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.NotFound(c, "Doctor not found")
		} else {
			utils.InternalServerError(c, "Database error verifying doctor: "+err.Error())
		}
		return
	}
	if !doctor.IsActive {
		utils.BadRequest(c, "This doctor is not currently accepting appointments.")
		return
	}

	appointment := models.Appointment{
		PatientID:       patientID,
		DoctorID:        doctor.ID,
		AppointmentDate: appointmentDate,
		Notes:           req.Notes,
		Status:          models.StatusPending,
		Cost:            doctor.ConsultationFee, // snapshot at booking time
	}

	if err := h.DB.Create(&appointment).Error; err != nil {
		utils.InternalServerError(c, "Failed to create appointment: "+err.Error())
		return
	}

	utils.Created(c, "Appointment booked successfully", appointment)
}

// GetAppointments handles fetching all appointments (admin).
func (h *AppointmentHandler) GetAppointments(c *gin.Context) {
	query := h.DB.Preload("Patient").Preload("Doctor.User").Preload("Doctor.Specialty").
		Order("appointment_date asc")

	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var appointments []models.Appointment
	if err := query.Find(&appointments).Error; err != nil {
		utils.InternalServerError(c, "Failed to fetch appointments: "+err.Error())
		return
	}
	utils.Success(c, "Appointments fetched successfully", appointments)
}

// GetAppointmentsForPatient handles fetching a patient's appointments, most
// recent first. Accessible by the patient themselves, doctors, and admins.
func (h *AppointmentHandler) GetAppointmentsForPatient(c *gin.Context) {
	patientID := c.Param("patientId")

	userID, _ := middleware.GetUserIDFromContext(c)
	userRole, _ := middleware.GetUserRoleFromContext(c)
	if userRole == models.RolePatient && userID != patientID {
		utils.Forbidden(c, "Patients can only view their own appointments.")
		return
	}
	if userRole == models.RoleDoctor && !doctorTreatsPatient(h.DB, userID, patientID) {
		utils.Forbidden(c, "Doctors can only view appointments of patients they treat.")
		return
	}

	var appointments []models.Appointment
	if err := h.DB.Preload("Patient").Preload("Doctor.User").Preload("Doctor.Specialty").
		Where("patient_id = ?", patientID).
		Order("appointment_date desc").
		Find(&appointments).Error; err != nil {
		utils.InternalServerError(c, "Failed to fetch appointments: "+err.Error())
		return
	}
	utils.Success(c, "Appointments fetched successfully", appointments)
}

// GetAppointmentsForDoctor handles fetching a doctor's appointments in
// chronological order. Doctors can only address their own profile.
func (h *AppointmentHandler) GetAppointmentsForDoctor(c *gin.Context) {
	doctorID := c.Param("doctorId")

	var doctor models.Doctor
	if err := h.DB.First(&doctor, "id = ?", doctorID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.NotFound(c, "Doctor not found")
		} else {
			utils.InternalServerError(c, "Database error: "+err.Error())
		}
		return
	}

	userID, _ := middleware.GetUserIDFromContext(c)
	userRole, _ := middleware.GetUserRoleFromContext(c)
	if userRole == models.RoleDoctor && doctor.UserID != userID {
		utils.Forbidden(c, "Doctors can only view their own appointments.")
		return
	}

	var appointments []models.Appointment
	if err := h.DB.Preload("Patient").Preload("Doctor.User").Preload("Doctor.Specialty").
		Where("doctor_id = ?", doctorID).
		Order("appointment_date asc").
		Find(&appointments).Error; err != nil {
		utils.InternalServerError(c, "Failed to fetch appointments: "+err.Error())
		return
	}
	utils.Success(c, "Appointments fetched successfully", appointments)
}

// GetAppointmentByID handles fetching a single appointment by its ID.
// Accessible by the involved patient, the treating doctor, or an admin.
func (h *AppointmentHandler) GetAppointmentByID(c *gin.Context) {
	appointment, ok := h.loadAppointment(c)
	if !ok {
		return
	}

	if !h.callerMayAccess(c, appointment) {
		utils.Forbidden(c, "You are not authorized to view this appointment")
		return
	}

	utils.Success(c, "Appointment fetched successfully", appointment)
}

// ConfirmAppointment moves a pending appointment to CONFIRMED (doctor/admin).
func (h *AppointmentHandler) ConfirmAppointment(c *gin.Context) {
	h.applyAction(c, scheduling.ActionConfirm)
}

// RejectAppointment moves a pending appointment to REJECTED (doctor/admin).
func (h *AppointmentHandler) RejectAppointment(c *gin.Context) {
	h.applyAction(c, scheduling.ActionReject)
}

// CancelAppointment moves a pending or confirmed appointment to CANCELLED
// (patient, doctor, or admin).
func (h *AppointmentHandler) CancelAppointment(c *gin.Context) {
	h.applyAction(c, scheduling.ActionCancel)
}

// CompleteAppointment moves a pending or confirmed appointment to COMPLETED
// (treating doctor). A completed appointment becomes eligible for a medical
// report.
func (h *AppointmentHandler) CompleteAppointment(c *gin.Context) {
	h.applyAction(c, scheduling.ActionComplete)
}

// MarkAppointmentPending reopens a completed appointment back to PENDING
// (treating doctor).
func (h *AppointmentHandler) MarkAppointmentPending(c *gin.Context) {
	h.applyAction(c, scheduling.ActionMarkPending)
}

// applyAction loads the appointment, checks actor permission and involvement,
// resolves the lifecycle transition, and persists the new status. Guard
// violations map to 409 and never change state.
func (h *AppointmentHandler) applyAction(c *gin.Context, action scheduling.Action) {
	appointment, ok := h.loadAppointment(c)
	if !ok {
		return
	}

	userID, _ := middleware.GetUserIDFromContext(c)
	userRole, _ := middleware.GetUserRoleFromContext(c)

	if !scheduling.ActorAllowed(action, userRole) {
		utils.Forbidden(c, fmt.Sprintf("Role %s is not permitted to %s appointments.", userRole, action))
		return
	}
	if !h.callerIsInvolved(userID, userRole, appointment) {
		utils.Forbidden(c, "You are not involved in this appointment.")
		return
	}

	newStatus, err := scheduling.Transition(appointment.Status, action)
	if err != nil {
		var invalid *scheduling.InvalidTransitionError
		if errors.As(err, &invalid) {
			utils.Conflict(c, invalid.Error())
		} else {
			utils.BadRequest(c, err.Error())
		}
		return
	}

	appointment.Status = newStatus
	if err := h.DB.Save(&appointment).Error; err != nil {
		utils.InternalServerError(c, "Failed to update appointment status: "+err.Error())
		return
	}

	utils.Success(c, fmt.Sprintf("Appointment %s successful", action), appointment)
}

// RescheduleAppointmentRequest represents the request body for rescheduling a
// cancelled or rejected appointment.
type RescheduleAppointmentRequest struct {
	DoctorID        string `json:"doctorId"` // blank keeps the previous doctor
	AppointmentDate string `json:"appointmentDate" binding:"required"`
	Notes           string `json:"notes"`
}

// RescheduleAppointment revives a cancelled or rejected appointment in
// place: same row and cost, new doctor/date/notes, status back to CONFIRMED.
// Only the owning patient may reschedule.
func (h *AppointmentHandler) RescheduleAppointment(c *gin.Context) {
	var req RescheduleAppointmentRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	appointment, ok := h.loadAppointment(c)
	if !ok {
		return
	}

	userID, _ := middleware.GetUserIDFromContext(c)
	userRole, _ := middleware.GetUserRoleFromContext(c)
	if !scheduling.ActorAllowed(scheduling.ActionReschedule, userRole) {
		utils.Forbidden(c, "Only patients can reschedule their appointments.")
		return
	}
	if appointment.PatientID != userID {
		utils.Forbidden(c, "You can only reschedule your own appointments.")
		return
	}

	newDate, err := parseAppointmentDate(req.AppointmentDate)
	if err != nil {
		utils.BadRequest(c, err.Error())
		return
	}
	if newDate.Before(time.Now()) {
		utils.BadRequest(c, "New appointment date must be in the future.")
		return
	}

	if req.DoctorID != "" && req.DoctorID != appointment.DoctorID {
		var doctor models.Doctor
		if err := h.DB.First(&doctor, "id = ?", req.DoctorID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				utils.NotFound(c, "Doctor not found")
			} else {
				utils.InternalServerError(c, "Database error verifying doctor: "+err.Error())
			}
			return
		}
		if !doctor.IsActive {
			utils.BadRequest(c, "This doctor is not currently accepting appointments.")
			return
		}
	}

	rescheduled, err := scheduling.Reschedule(appointment, scheduling.RescheduleRequest{
		DoctorID:        req.DoctorID,
		AppointmentDate: newDate,
		Notes:           req.Notes,
	})
	if err != nil {
		var invalid *scheduling.InvalidTransitionError
		if errors.As(err, &invalid) {
			utils.Conflict(c, invalid.Error())
		} else {
			utils.BadRequest(c, err.Error())
		}
		return
	}

	if err := h.DB.Save(&rescheduled).Error; err != nil {
		utils.InternalServerError(c, "Failed to reschedule appointment: "+err.Error())
		return
	}

	utils.Success(c, "Appointment rescheduled successfully", rescheduled)
}

// UpdateAppointmentRequest represents the admin-only generic replace body.
type UpdateAppointmentRequest struct {
	DoctorID        string  `json:"doctorId" binding:"required,uuid"`
	AppointmentDate string  `json:"appointmentDate" binding:"required"`
	Status          string  `json:"status" binding:"required,oneof=PENDING CONFIRMED COMPLETED CANCELLED REJECTED"`
	Notes           string  `json:"notes"`
	Cost            float64 `json:"cost" binding:"gte=0"`
}

// UpdateAppointment handles the admin-only full replace of an appointment.
// Lifecycle guards are deliberately bypassed here; this is the back-office
// escape hatch, not a patient/doctor flow.
func (h *AppointmentHandler) UpdateAppointment(c *gin.Context) {
	var req UpdateAppointmentRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	appointment, ok := h.loadAppointment(c)
	if !ok {
		return
	}

	appointmentDate, err := parseAppointmentDate(req.AppointmentDate)
	if err != nil {
		utils.BadRequest(c, err.Error())
		return
	}

	var doctor models.Doctor
	if err := h.DB.First(&doctor, "id = ?", req.DoctorID).Error; err != nil {
		utils.NotFound(c, "Doctor not found")
		return
	}

	appointment.DoctorID = req.DoctorID
	appointment.AppointmentDate = appointmentDate
	appointment.Status = models.AppointmentStatus(req.Status)
	appointment.Notes = req.Notes
	appointment.Cost = req.Cost

	if err := h.DB.Save(&appointment).Error; err != nil {
		utils.InternalServerError(c, "Failed to update appointment: "+err.Error())
		return
	}

	utils.Success(c, "Appointment updated successfully", appointment)
}

// DeleteAppointment handles deleting an appointment by ID (admin).
func (h *AppointmentHandler) DeleteAppointment(c *gin.Context) {
	appointment, ok := h.loadAppointment(c)
	if !ok {
		return
	}

	if err := h.DB.Delete(&appointment).Error; err != nil {
		utils.InternalServerError(c, "Failed to delete appointment: "+err.Error())
		return
	}

	utils.Success(c, "Appointment deleted successfully", nil)
}

// loadAppointment fetches the appointment addressed by the :id route param,
// writing the error response itself when the lookup fails.
func (h *AppointmentHandler) loadAppointment(c *gin.Context) (models.Appointment, bool) {
	appointmentID := c.Param("id")

	var appointment models.Appointment
	if err := h.DB.Preload("Patient").Preload("Doctor.User").Preload("Doctor.Specialty").
		First(&appointment, "id = ?", appointmentID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.NotFound(c, "Appointment not found")
		} else {
			utils.InternalServerError(c, "Database error: "+err.Error())
		}
		return models.Appointment{}, false
	}
	return appointment, true
}

// callerIsInvolved reports whether the authenticated user is a party to the
// appointment: the patient who booked it, or the doctor treating it. Admins
// are always involved.
func (h *AppointmentHandler) callerIsInvolved(userID string, role models.Role, appointment models.Appointment) bool {
	switch role {
	case models.RoleAdmin:
		return true
	case models.RolePatient:
		return appointment.PatientID == userID
	case models.RoleDoctor:
		// The token carries the user id; appointments reference the doctor
		// profile.
		if appointment.Doctor.UserID != "" {
			return appointment.Doctor.UserID == userID
		}
		var doctor models.Doctor
		if err := h.DB.First(&doctor, "id = ?", appointment.DoctorID).Error; err != nil {
			return false
		}
		return doctor.UserID == userID
	}
	return false
}

func (h *AppointmentHandler) callerMayAccess(c *gin.Context, appointment models.Appointment) bool {
	userID, _ := middleware.GetUserIDFromContext(c)
	userRole, _ := middleware.GetUserRoleFromContext(c)
	return h.callerIsInvolved(userID, userRole, appointment)
}
