package handlers

import (
	"time"

	"medbook-server/internal/middleware"
	"medbook-server/internal/models"
	"medbook-server/internal/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// MedicalReportHandler handles medical report related requests.
type MedicalReportHandler struct {
	DB *gorm.DB
}

// NewMedicalReportHandler creates a new MedicalReportHandler.
func NewMedicalReportHandler(db *gorm.DB) *MedicalReportHandler {
	return &MedicalReportHandler{DB: db}
}

// PrescriptionRequest is one medication line in a report request.
type PrescriptionRequest struct {
	Medication string `json:"medication" binding:"required"`
	Dosage     string `json:"dosage"`
	Frequency  string `json:"frequency"`
	Duration   string `json:"duration"`
}

// MedicalReportRequest represents the request body for creating or updating
// a medical report.
type MedicalReportRequest struct {
	AppointmentID       string                `json:"appointmentId" binding:"required,uuid"`
	Diagnosis           string                `json:"diagnosis" binding:"required"`
	Symptoms            string                `json:"symptoms"`
	PhysicalExamination string                `json:"physicalExamination"`
	Investigations      string                `json:"investigations"`
	Recommendations     string                `json:"recommendations"`
	FollowUpDate        *string               `json:"followUpDate"`
	AdditionalNotes     string                `json:"additionalNotes"`
	Prescriptions       []PrescriptionRequest `json:"prescriptions"`
}

// CreateMedicalReport handles writing a medical report for a completed
// appointment. The operation is an upsert: submitting a report for an
// appointment that already has one updates the existing report in place,
// keeping its id.
func (h *MedicalReportHandler) CreateMedicalReport(c *gin.Context) {
	var req MedicalReportRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	var appointment models.Appointment
	if err := h.DB.Preload("Doctor").First(&appointment, "id = ?", req.AppointmentID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.NotFound(c, "Appointment not found")
		} else {
			utils.InternalServerError(c, "Database error: "+err.Error())
		}
		return
	}

	if appointment.Status != models.StatusCompleted {
		utils.Conflict(c, "Medical reports can only be written for completed appointments.")
		return
	}

	userID, _ := middleware.GetUserIDFromContext(c)
	userRole, _ := middleware.GetUserRoleFromContext(c)
	if userRole == models.RoleDoctor && appointment.Doctor.UserID != userID {
		utils.Forbidden(c, "Only the treating doctor can write this report.")
		return
	}

	followUp, err := parseFollowUpDate(req.FollowUpDate)
	if err != nil {
		utils.BadRequest(c, err.Error())
		return
	}

	var report models.MedicalReport
	err = h.DB.First(&report, "appointment_id = ?", req.AppointmentID).Error
	isNew := err == gorm.ErrRecordNotFound
	if err != nil && !isNew {
		utils.InternalServerError(c, "Database error: "+err.Error())
		return
	}

	report.AppointmentID = req.AppointmentID
	report.Diagnosis = req.Diagnosis
	report.Symptoms = req.Symptoms
	report.PhysicalExamination = req.PhysicalExamination
	report.Investigations = req.Investigations
	report.Recommendations = req.Recommendations
	report.FollowUpDate = followUp
	report.AdditionalNotes = req.AdditionalNotes
	if isNew {
		report.CreatedDate = time.Now()
	}

	if err := h.saveReportWithPrescriptions(&report, req.Prescriptions, !isNew); err != nil {
		utils.InternalServerError(c, "Failed to save medical report: "+err.Error())
		return
	}

	if isNew {
		utils.Created(c, "Medical report created successfully", report)
	} else {
		utils.Success(c, "Medical report updated successfully", report)
	}
}

// GetMedicalReportByID handles fetching a medical report by its ID.
func (h *MedicalReportHandler) GetMedicalReportByID(c *gin.Context) {
	reportID := c.Param("id")

	var report models.MedicalReport
	if err := h.reportQuery().First(&report, "medical_reports.id = ?", reportID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.NotFound(c, "Medical report not found")
		} else {
			utils.InternalServerError(c, "Database error: "+err.Error())
		}
		return
	}

	if !h.callerMayReadReport(c, report) {
		utils.Forbidden(c, "You are not authorized to view this report")
		return
	}
	utils.Success(c, "Medical report fetched successfully", report)
}

// GetMedicalReportForAppointment handles fetching the report attached to an
// appointment, if any.
func (h *MedicalReportHandler) GetMedicalReportForAppointment(c *gin.Context) {
	appointmentID := c.Param("appointmentId")

	var report models.MedicalReport
	if err := h.reportQuery().First(&report, "medical_reports.appointment_id = ?", appointmentID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.NotFound(c, "No medical report exists for this appointment")
		} else {
			utils.InternalServerError(c, "Database error: "+err.Error())
		}
		return
	}

	if !h.callerMayReadReport(c, report) {
		utils.Forbidden(c, "You are not authorized to view this report")
		return
	}
	utils.Success(c, "Medical report fetched successfully", report)
}

// GetMedicalReportsForPatient handles fetching all reports for a patient,
// most recent first.
func (h *MedicalReportHandler) GetMedicalReportsForPatient(c *gin.Context) {
	patientID := c.Param("patientId")

	userID, _ := middleware.GetUserIDFromContext(c)
	userRole, _ := middleware.GetUserRoleFromContext(c)
	if userRole == models.RolePatient && userID != patientID {
		utils.Forbidden(c, "Patients can only view their own medical reports.")
		return
	}
	if userRole == models.RoleDoctor && !doctorTreatsPatient(h.DB, userID, patientID) {
		utils.Forbidden(c, "Doctors can only view reports of patients they treat.")
		return
	}

	var reports []models.MedicalReport
	if err := h.reportQuery().
		Joins("JOIN appointments ON appointments.id = medical_reports.appointment_id").
		Where("appointments.patient_id = ?", patientID).
		Order("medical_reports.created_date desc").
		Find(&reports).Error; err != nil {
		utils.InternalServerError(c, "Failed to fetch medical reports: "+err.Error())
		return
	}
	utils.Success(c, "Medical reports fetched successfully", reports)
}

// GetMedicalReportsForDoctor handles fetching the reports written for a
// doctor's appointments. Doctors can only address their own profile.
func (h *MedicalReportHandler) GetMedicalReportsForDoctor(c *gin.Context) {
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
		utils.Forbidden(c, "Doctors can only view reports for their own appointments.")
		return
	}

	var reports []models.MedicalReport
	if err := h.reportQuery().
		Joins("JOIN appointments ON appointments.id = medical_reports.appointment_id").
		Where("appointments.doctor_id = ?", doctorID).
		Order("medical_reports.created_date desc").
		Find(&reports).Error; err != nil {
		utils.InternalServerError(c, "Failed to fetch medical reports: "+err.Error())
		return
	}
	utils.Success(c, "Medical reports fetched successfully", reports)
}

// UpdateMedicalReport handles editing an existing report by its ID. The
// prescriptions list is replaced wholesale.
func (h *MedicalReportHandler) UpdateMedicalReport(c *gin.Context) {
	reportID := c.Param("id")

	var req MedicalReportRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	var report models.MedicalReport
	if err := h.DB.Preload("Appointment.Doctor").First(&report, "id = ?", reportID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.NotFound(c, "Medical report not found")
		} else {
			utils.InternalServerError(c, "Database error: "+err.Error())
		}
		return
	}

	userID, _ := middleware.GetUserIDFromContext(c)
	userRole, _ := middleware.GetUserRoleFromContext(c)
	if userRole == models.RoleDoctor && report.Appointment.Doctor.UserID != userID {
		utils.Forbidden(c, "Only the treating doctor can edit this report.")
		return
	}

	followUp, err := parseFollowUpDate(req.FollowUpDate)
	if err != nil {
		utils.BadRequest(c, err.Error())
		return
	}

	// The report stays attached to its original appointment.
	report.Diagnosis = req.Diagnosis
	report.Symptoms = req.Symptoms
	report.PhysicalExamination = req.PhysicalExamination
	report.Investigations = req.Investigations
	report.Recommendations = req.Recommendations
	report.FollowUpDate = followUp
	report.AdditionalNotes = req.AdditionalNotes
	report.Appointment = models.Appointment{}

	if err := h.saveReportWithPrescriptions(&report, req.Prescriptions, true); err != nil {
		utils.InternalServerError(c, "Failed to update medical report: "+err.Error())
		return
	}

	utils.Success(c, "Medical report updated successfully", report)
}

// DeleteMedicalReport handles deleting a report and its prescriptions.
func (h *MedicalReportHandler) DeleteMedicalReport(c *gin.Context) {
	reportID := c.Param("id")

	var report models.MedicalReport
	if err := h.DB.First(&report, "id = ?", reportID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.NotFound(c, "Medical report not found")
		} else {
			utils.InternalServerError(c, "Database error: "+err.Error())
		}
		return
	}

	err := h.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("medical_report_id = ?", report.ID).Delete(&models.Prescription{}).Error; err != nil {
			return err
		}
		return tx.Delete(&report).Error
	})
	if err != nil {
		utils.InternalServerError(c, "Failed to delete medical report: "+err.Error())
		return
	}

	utils.Success(c, "Medical report deleted successfully", nil)
}

// saveReportWithPrescriptions persists the report and replaces its
// prescription lines in one transaction, numbering them in request order.
func (h *MedicalReportHandler) saveReportWithPrescriptions(report *models.MedicalReport, lines []PrescriptionRequest, replace bool) error {
	return h.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(report).Error; err != nil {
			return err
		}
		if replace {
			if err := tx.Where("medical_report_id = ?", report.ID).Delete(&models.Prescription{}).Error; err != nil {
				return err
			}
		}
		prescriptions := make([]models.Prescription, 0, len(lines))
		for i, line := range lines {
			prescriptions = append(prescriptions, models.Prescription{
				MedicalReportID: report.ID,
				Medication:      line.Medication,
				Dosage:          line.Dosage,
				Frequency:       line.Frequency,
				Duration:        line.Duration,
				Position:        i,
			})
		}
		if len(prescriptions) > 0 {
			if err := tx.Create(&prescriptions).Error; err != nil {
				return err
			}
		}
		report.Prescriptions = prescriptions
		return nil
	})
}

// reportQuery preloads the relations every report response carries.
func (h *MedicalReportHandler) reportQuery() *gorm.DB {
	return h.DB.Preload("Appointment.Patient").
		Preload("Appointment.Doctor.User").
		Preload("Prescriptions", func(db *gorm.DB) *gorm.DB {
			return db.Order("position asc")
		})
}

// callerMayReadReport allows admins, the treating doctor, and the patient the
// report belongs to.
func (h *MedicalReportHandler) callerMayReadReport(c *gin.Context, report models.MedicalReport) bool {
	userID, _ := middleware.GetUserIDFromContext(c)
	userRole, _ := middleware.GetUserRoleFromContext(c)
	switch userRole {
	case models.RoleAdmin:
		return true
	case models.RolePatient:
		return report.Appointment.PatientID == userID
	case models.RoleDoctor:
		return report.Appointment.Doctor.UserID == userID
	}
	return false
}

// parseFollowUpDate parses an optional YYYY-MM-DD follow-up date.
func parseFollowUpDate(value *string) (*time.Time, error) {
	if value == nil || *value == "" {
		return nil, nil
	}
	t, err := time.ParseInLocation("2006-01-02", *value, time.Local)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
