package reporting

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"medbook-server/internal/models"
)

func apt(doctorID, patientID string, date time.Time, status models.AppointmentStatus) models.Appointment {
	return models.Appointment{
		DoctorID:        doctorID,
		PatientID:       patientID,
		AppointmentDate: date,
		Status:          status,
	}
}

func TestBuildMonthlyReportCountsByStatus(t *testing.T) {
	jan := func(day int) time.Time {
		return time.Date(2026, 1, day, 10, 0, 0, 0, time.Local)
	}

	appointments := []models.Appointment{
		apt("d1", "p1", jan(5), models.StatusPending),
		apt("d1", "p2", jan(6), models.StatusConfirmed),
		apt("d1", "p2", jan(7), models.StatusCompleted),
		apt("d2", "p3", jan(8), models.StatusCancelled),
		apt("d2", "p4", jan(9), models.StatusRejected),
		// Outside the requested month, must be ignored.
		apt("d1", "p5", time.Date(2026, 2, 1, 10, 0, 0, 0, time.Local), models.StatusConfirmed),
		apt("d1", "p5", time.Date(2025, 1, 10, 10, 0, 0, 0, time.Local), models.StatusConfirmed),
	}

	report := BuildMonthlyReport(2026, 1, appointments)

	assert.Equal(t, 1, report.Month)
	assert.Equal(t, 2026, report.Year)
	assert.Equal(t, 5, report.TotalAppointments)
	assert.Equal(t, 1, report.PendingAppointments)
	assert.Equal(t, 1, report.ConfirmedAppointments)
	assert.Equal(t, 1, report.CompletedAppointments)
	assert.Equal(t, 1, report.CancelledAppointments)
	assert.Equal(t, 1, report.RejectedAppointments)
}

func TestBuildMonthlyReportDoctorStatistics(t *testing.T) {
	jan := func(day int) time.Time {
		return time.Date(2026, 1, day, 10, 0, 0, 0, time.Local)
	}

	appointments := []models.Appointment{
		apt("d1", "p1", jan(5), models.StatusConfirmed),
		apt("d1", "p1", jan(6), models.StatusCompleted),
		apt("d1", "p2", jan(7), models.StatusCancelled),
		apt("d2", "p3", jan(8), models.StatusConfirmed),
	}

	report := BuildMonthlyReport(2026, 1, appointments)
	assert.Len(t, report.DoctorStatistics, 2)

	// Busiest doctor first.
	d1 := report.DoctorStatistics[0]
	assert.Equal(t, "d1", d1.DoctorID)
	assert.Equal(t, 3, d1.TotalAppointments)
	assert.Equal(t, 2, d1.UniquePatients)
	assert.Equal(t, 1, d1.ConfirmedAppointments)
	assert.Equal(t, 1, d1.CompletedAppointments)
	assert.Equal(t, 1, d1.CancelledAppointments)

	d2 := report.DoctorStatistics[1]
	assert.Equal(t, "d2", d2.DoctorID)
	assert.Equal(t, 1, d2.TotalAppointments)
	assert.Equal(t, "N/A", d2.Specialty, "missing specialty falls back to N/A")
}

func TestBuildMonthlyReportEmpty(t *testing.T) {
	report := BuildMonthlyReport(2026, 3, nil)
	assert.Equal(t, 0, report.TotalAppointments)
	assert.Empty(t, report.DoctorStatistics)
}

func TestComputePopularity(t *testing.T) {
	doctors := []models.Doctor{
		{BaseModel: models.BaseModel{ID: "d1"}, ExperienceYears: 10},
		{BaseModel: models.BaseModel{ID: "d2"}, ExperienceYears: 5},
		{BaseModel: models.BaseModel{ID: "d3"}, ExperienceYears: 0},
	}
	counts := map[string]int64{"d1": 20, "d2": 10}

	scores := ComputePopularity(doctors, counts)

	// Max on both axes.
	assert.Equal(t, 100, scores["d1"])
	// 0.6*0.5 + 0.4*0.5 = 0.5
	assert.Equal(t, 50, scores["d2"])
	assert.Equal(t, 0, scores["d3"])
}

func TestComputePopularitySparseCounts(t *testing.T) {
	// Grouped count queries omit doctors with no appointments; absence from
	// the map must read as zero volume, not skew the score.
	doctors := []models.Doctor{
		{BaseModel: models.BaseModel{ID: "d1"}, ExperienceYears: 10},
		{BaseModel: models.BaseModel{ID: "d2"}, ExperienceYears: 10},
	}
	counts := map[string]int64{"d1": 8}

	scores := ComputePopularity(doctors, counts)

	assert.Equal(t, 100, scores["d1"])
	// Full experience, zero volume: 0.6*1 + 0.4*0 = 0.6
	assert.Equal(t, 60, scores["d2"])
}

func TestComputePopularityNoDoctors(t *testing.T) {
	assert.Empty(t, ComputePopularity(nil, nil))
}

func TestComputePopularityZeroMaxima(t *testing.T) {
	doctors := []models.Doctor{{BaseModel: models.BaseModel{ID: "d1"}}}
	scores := ComputePopularity(doctors, nil)
	assert.Equal(t, 0, scores["d1"])
}
