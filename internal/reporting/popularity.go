package reporting

import (
	"math"

	"medbook-server/internal/models"
)

// Popularity blends experience and consultation volume, both normalized
// against the current maximum across all doctors.
const (
	experienceWeight    = 0.6
	consultationsWeight = 0.4
)

// ComputePopularity returns a 0..100 popularity score per doctor id, derived
// from years of experience and the number of appointments each doctor has
// held. Maxima of zero are treated as one so a fresh installation scores
// everyone zero instead of dividing by zero.
func ComputePopularity(doctors []models.Doctor, appointmentCounts map[string]int64) map[string]int {
	scores := make(map[string]int, len(doctors))
	if len(doctors) == 0 {
		return scores
	}

	maxExperience := 0
	var maxConsultations int64
	for _, d := range doctors {
		if d.ExperienceYears > maxExperience {
			maxExperience = d.ExperienceYears
		}
		if c := appointmentCounts[d.ID]; c > maxConsultations {
			maxConsultations = c
		}
	}
	if maxExperience == 0 {
		maxExperience = 1
	}
	if maxConsultations == 0 {
		maxConsultations = 1
	}

	for _, d := range doctors {
		experienceScore := float64(d.ExperienceYears) / float64(maxExperience)
		consultationsScore := float64(appointmentCounts[d.ID]) / float64(maxConsultations)

		score := experienceScore*experienceWeight + consultationsScore*consultationsWeight
		scores[d.ID] = int(math.Round(score * 100.0))
	}

	return scores
}
