package scheduling

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"medbook-server/internal/models"
)

func rule(doctorID string, day int, start, end string, active bool) models.AvailabilityRule {
	return models.AvailabilityRule{
		DoctorID:  doctorID,
		DayOfWeek: day,
		StartTime: start,
		EndTime:   end,
		IsActive:  active,
	}
}

func TestParseClinicDate(t *testing.T) {
	d, err := ParseClinicDate("2026-01-05")
	assert.NoError(t, err)
	// Must be midnight local, and 2026-01-05 is a Monday everywhere when the
	// date is interpreted as a naive local calendar date.
	assert.Equal(t, time.Monday, d.Weekday())
	assert.Equal(t, 0, d.Hour())
	assert.Equal(t, 0, d.Minute())
	assert.Equal(t, time.Local, d.Location())
}

func TestParseClinicDateRejectsGarbage(t *testing.T) {
	for _, bad := range []string{"", "05-01-2026", "2026-1-5", "2026-01-05T10:00", "not-a-date"} {
		_, err := ParseClinicDate(bad)
		assert.Error(t, err, "expected %q to be rejected", bad)
	}
}

func TestResolveSlotsForDateMatchesWeekday(t *testing.T) {
	rules := []models.AvailabilityRule{
		rule("5", 1, "09:00", "09:45", true), // Monday
	}

	monday, _ := ParseClinicDate("2026-01-05")
	slots := ResolveSlotsForDate(rules, monday)
	assert.Equal(t, []Slot{{StartTime: "09:00", EndTime: "09:45"}}, slots)

	tuesday, _ := ParseClinicDate("2026-01-06")
	assert.Empty(t, ResolveSlotsForDate(rules, tuesday))
}

func TestResolveSlotsForDateFiltersInactive(t *testing.T) {
	rules := []models.AvailabilityRule{
		rule("5", 1, "09:00", "10:00", true),
		rule("5", 1, "10:00", "11:00", false),
		rule("5", 2, "09:00", "10:00", true),
	}

	monday, _ := ParseClinicDate("2026-01-05")
	slots := ResolveSlotsForDate(rules, monday)
	assert.Len(t, slots, 1)
	assert.Equal(t, "09:00", slots[0].StartTime)
}

func TestResolveSlotsForDateOrdersByStartTime(t *testing.T) {
	rules := []models.AvailabilityRule{
		rule("5", 1, "14:00", "15:00", true),
		rule("5", 1, "09:00", "10:00", true),
		rule("5", 1, "11:30", "12:00", true),
	}

	monday, _ := ParseClinicDate("2026-01-05")
	slots := ResolveSlotsForDate(rules, monday)
	assert.Equal(t, []Slot{
		{StartTime: "09:00", EndTime: "10:00"},
		{StartTime: "11:30", EndTime: "12:00"},
		{StartTime: "14:00", EndTime: "15:00"},
	}, slots)
}

func TestResolveSlotsForDateIsIdempotent(t *testing.T) {
	rules := []models.AvailabilityRule{
		rule("5", 1, "14:00", "15:00", true),
		rule("5", 1, "09:00", "10:00", true),
	}
	monday, _ := ParseClinicDate("2026-01-05")

	first := ResolveSlotsForDate(rules, monday)
	second := ResolveSlotsForDate(rules, monday)
	assert.Equal(t, first, second)
}

func TestResolveSlotsForDateEmptyRuleSet(t *testing.T) {
	monday, _ := ParseClinicDate("2026-01-05")
	assert.Empty(t, ResolveSlotsForDate(nil, monday))
	assert.Empty(t, ResolveSlotsForDate([]models.AvailabilityRule{}, monday))
}

func TestValidateRule(t *testing.T) {
	assert.NoError(t, ValidateRule(rule("5", 1, "09:00", "09:45", true)))

	// startTime == endTime is a zero-length window and must never reach the
	// resolver.
	assert.Error(t, ValidateRule(rule("5", 1, "09:00", "09:00", true)))
	assert.Error(t, ValidateRule(rule("5", 1, "10:00", "09:00", true)))
	assert.Error(t, ValidateRule(rule("5", 7, "09:00", "10:00", true)))
	assert.Error(t, ValidateRule(rule("5", -1, "09:00", "10:00", true)))
	assert.Error(t, ValidateRule(rule("5", 1, "9am", "10:00", true)))
	assert.Error(t, ValidateRule(rule("5", 1, "09:00", "25:00", true)))
}
