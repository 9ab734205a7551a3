package handlers

import (
	"fmt"
	"strconv"
	"time"

	"medbook-server/internal/models"
	"medbook-server/internal/reporting"
	"medbook-server/internal/utils"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

// ReportHandler handles administrative reporting requests.
type ReportHandler struct {
	DB *gorm.DB
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(db *gorm.DB) *ReportHandler {
	return &ReportHandler{DB: db}
}

// GetMonthlyReport handles building the appointment report for one calendar
// month, addressed as /reports/monthly/:year/:month.
func (h *ReportHandler) GetMonthlyReport(c *gin.Context) {
	year, err := strconv.Atoi(c.Param("year"))
	if err != nil || year < 2000 || year > 2100 {
		utils.BadRequest(c, "Invalid year")
		return
	}
	month, err := strconv.Atoi(c.Param("month"))
	if err != nil || month < 1 || month > 12 {
		utils.BadRequest(c, "Month must be between 1 and 12")
		return
	}

	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.Local)
	end := start.AddDate(0, 1, 0)

	var appointments []models.Appointment
	if err := h.DB.Preload("Doctor.User").Preload("Doctor.Specialty").
		Where("appointment_date >= ? AND appointment_date < ?", start, end).
		Find(&appointments).Error; err != nil {
		utils.InternalServerError(c, "Failed to fetch appointments: "+err.Error())
		return
	}

	report := reporting.BuildMonthlyReport(year, month, appointments)
	utils.Success(c, fmt.Sprintf("Report for %04d-%02d generated successfully", year, month), report)
}

// OverviewResponse is the admin dashboard snapshot.
type OverviewResponse struct {
	TotalPatients         int64 `json:"totalPatients"`
	TotalDoctors          int64 `json:"totalDoctors"`
	ActiveDoctors         int64 `json:"activeDoctors"`
	TotalSpecialties      int64 `json:"totalSpecialties"`
	TotalAppointments     int64 `json:"totalAppointments"`
	PendingAppointments   int64 `json:"pendingAppointments"`
	ConfirmedAppointments int64 `json:"confirmedAppointments"`
	CompletedAppointments int64 `json:"completedAppointments"`
	CancelledAppointments int64 `json:"cancelledAppointments"`
	RejectedAppointments  int64 `json:"rejectedAppointments"`
}

// GetOverview handles the admin dashboard counters. The counts are
// independent, so they run concurrently; any failure fails the whole
// request rather than returning a partial snapshot.
func (h *ReportHandler) GetOverview(c *gin.Context) {
	var overview OverviewResponse

	g, ctx := errgroup.WithContext(c.Request.Context())
	db := h.DB.WithContext(ctx)

	g.Go(func() error {
		return db.Model(&models.User{}).Where("role = ?", models.RolePatient).Count(&overview.TotalPatients).Error
	})
	g.Go(func() error {
		return db.Model(&models.Doctor{}).Count(&overview.TotalDoctors).Error
	})
	g.Go(func() error {
		return db.Model(&models.Doctor{}).Where("is_active = ?", true).Count(&overview.ActiveDoctors).Error
	})
	g.Go(func() error {
		return db.Model(&models.Specialty{}).Count(&overview.TotalSpecialties).Error
	})
	g.Go(func() error {
		return db.Model(&models.Appointment{}).Count(&overview.TotalAppointments).Error
	})

	statusCounts := []struct {
		status models.AppointmentStatus
		dest   *int64
	}{
		{models.StatusPending, &overview.PendingAppointments},
		{models.StatusConfirmed, &overview.ConfirmedAppointments},
		{models.StatusCompleted, &overview.CompletedAppointments},
		{models.StatusCancelled, &overview.CancelledAppointments},
		{models.StatusRejected, &overview.RejectedAppointments},
	}
	for _, sc := range statusCounts {
		sc := sc
		g.Go(func() error {
			return db.Model(&models.Appointment{}).Where("status = ?", sc.status).Count(sc.dest).Error
		})
	}

	if err := g.Wait(); err != nil {
		utils.InternalServerError(c, "Failed to build overview: "+err.Error())
		return
	}

	utils.Success(c, "Overview generated successfully", overview)
}
