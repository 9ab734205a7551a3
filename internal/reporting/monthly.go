package reporting

import (
	"sort"

	"medbook-server/internal/models"
)

// DoctorStatistics summarizes one doctor's appointments within a report
// period.
type DoctorStatistics struct {
	DoctorID              string `json:"doctorId"`
	DoctorName            string `json:"doctorName"`
	Specialty             string `json:"specialty"`
	TotalAppointments     int    `json:"totalAppointments"`
	UniquePatients        int    `json:"uniquePatients"`
	ConfirmedAppointments int    `json:"confirmedAppointments"`
	CancelledAppointments int    `json:"cancelledAppointments"`
	CompletedAppointments int    `json:"completedAppointments"`
}

// MonthlyReport aggregates appointment activity for one calendar month.
type MonthlyReport struct {
	Month                 int                `json:"month"`
	Year                  int                `json:"year"`
	TotalAppointments     int                `json:"totalAppointments"`
	ConfirmedAppointments int                `json:"confirmedAppointments"`
	CancelledAppointments int                `json:"cancelledAppointments"`
	CompletedAppointments int                `json:"completedAppointments"`
	PendingAppointments   int                `json:"pendingAppointments"`
	RejectedAppointments  int                `json:"rejectedAppointments"`
	DoctorStatistics      []DoctorStatistics `json:"doctorStatistics"`
}

// BuildMonthlyReport aggregates the given appointments into per-status totals
// and per-doctor statistics for one calendar month. Appointments outside the
// month are ignored, so callers may pass a broader window. Doctor statistics
// are ordered by total appointments, descending.
func BuildMonthlyReport(year, month int, appointments []models.Appointment) MonthlyReport {
	report := MonthlyReport{Month: month, Year: year}

	byDoctor := make(map[string][]models.Appointment)
	var doctorOrder []string

	for _, apt := range appointments {
		if apt.AppointmentDate.Year() != year || int(apt.AppointmentDate.Month()) != month {
			continue
		}

		report.TotalAppointments++
		switch apt.Status {
		case models.StatusConfirmed:
			report.ConfirmedAppointments++
		case models.StatusCancelled:
			report.CancelledAppointments++
		case models.StatusCompleted:
			report.CompletedAppointments++
		case models.StatusPending:
			report.PendingAppointments++
		case models.StatusRejected:
			report.RejectedAppointments++
		}

		if _, seen := byDoctor[apt.DoctorID]; !seen {
			doctorOrder = append(doctorOrder, apt.DoctorID)
		}
		byDoctor[apt.DoctorID] = append(byDoctor[apt.DoctorID], apt)
	}

	stats := make([]DoctorStatistics, 0, len(byDoctor))
	for _, doctorID := range doctorOrder {
		stats = append(stats, buildDoctorStatistics(doctorID, byDoctor[doctorID]))
	}

	sort.SliceStable(stats, func(i, j int) bool {
		return stats[i].TotalAppointments > stats[j].TotalAppointments
	})

	report.DoctorStatistics = stats
	return report
}

func buildDoctorStatistics(doctorID string, appointments []models.Appointment) DoctorStatistics {
	stats := DoctorStatistics{
		DoctorID:          doctorID,
		TotalAppointments: len(appointments),
		Specialty:         "N/A",
	}

	patients := make(map[string]struct{})
	for _, apt := range appointments {
		patients[apt.PatientID] = struct{}{}

		switch apt.Status {
		case models.StatusConfirmed:
			stats.ConfirmedAppointments++
		case models.StatusCancelled:
			stats.CancelledAppointments++
		case models.StatusCompleted:
			stats.CompletedAppointments++
		}

		if stats.DoctorName == "" && apt.Doctor.User.ID != "" {
			stats.DoctorName = apt.Doctor.User.FullName()
		}
		if apt.Doctor.Specialty.Name != "" {
			stats.Specialty = apt.Doctor.Specialty.Name
		}
	}
	stats.UniquePatients = len(patients)

	return stats
}
