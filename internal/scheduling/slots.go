package scheduling

import (
	"fmt"
	"sort"
	"time"

	"medbook-server/internal/models"
)

// Slot is a concrete bookable time window on a specific date, derived from an
// availability rule.
type Slot struct {
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
}

// ParseClinicDate parses a bare "YYYY-MM-DD" string as a naive local calendar
// date pinned to midnight local time. Going through a UTC-based constructor
// instead can shift the day of week by one near UTC offsets, which would make
// the resolver pick the wrong weekday's rules.
func ParseClinicDate(value string) (time.Time, error) {
	t, err := time.ParseInLocation("2006-01-02", value, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD: %w", value, err)
	}
	return t, nil
}

// ResolveSlotsForDate returns the bookable time windows for the given calendar
// date, matching the doctor's recurring weekly rules against the date's
// weekday (0=Sunday .. 6=Saturday). Only active rules participate, and the
// result is ordered by ascending start time.
//
// The resolver answers "defined availability", not "open slots": it does not
// cross-reference existing appointments, so an already-booked time still
// appears here.
func ResolveSlotsForDate(rules []models.AvailabilityRule, date time.Time) []Slot {
	weekday := int(date.Weekday())

	slots := make([]Slot, 0)
	for _, rule := range rules {
		if rule.DayOfWeek != weekday || !rule.IsActive {
			continue
		}
		slots = append(slots, Slot{StartTime: rule.StartTime, EndTime: rule.EndTime})
	}

	sort.SliceStable(slots, func(i, j int) bool {
		return slots[i].StartTime < slots[j].StartTime
	})

	return slots
}

// ValidateRule checks an availability rule before it is persisted. The
// resolver assumes every stored rule already satisfies these invariants.
func ValidateRule(rule models.AvailabilityRule) error {
	if rule.DayOfWeek < 0 || rule.DayOfWeek > 6 {
		return fmt.Errorf("dayOfWeek must be between 0 (Sunday) and 6 (Saturday), got %d", rule.DayOfWeek)
	}
	if err := validateClockTime(rule.StartTime); err != nil {
		return fmt.Errorf("invalid startTime: %w", err)
	}
	if err := validateClockTime(rule.EndTime); err != nil {
		return fmt.Errorf("invalid endTime: %w", err)
	}
	// "HH:MM" compares correctly as a string once both sides are validated.
	if rule.StartTime >= rule.EndTime {
		return fmt.Errorf("startTime %s must be before endTime %s", rule.StartTime, rule.EndTime)
	}
	return nil
}

func validateClockTime(value string) error {
	if _, err := time.Parse("15:04", value); err != nil {
		return fmt.Errorf("%q is not a valid HH:MM time", value)
	}
	return nil
}
