package scheduling

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"medbook-server/internal/models"
)

func TestTransitionAllowedEdges(t *testing.T) {
	cases := []struct {
		from   models.AppointmentStatus
		action Action
		to     models.AppointmentStatus
	}{
		{models.StatusPending, ActionConfirm, models.StatusConfirmed},
		{models.StatusPending, ActionReject, models.StatusRejected},
		{models.StatusPending, ActionCancel, models.StatusCancelled},
		{models.StatusConfirmed, ActionCancel, models.StatusCancelled},
		{models.StatusPending, ActionComplete, models.StatusCompleted},
		{models.StatusConfirmed, ActionComplete, models.StatusCompleted},
		{models.StatusCompleted, ActionMarkPending, models.StatusPending},
		{models.StatusCancelled, ActionReschedule, models.StatusConfirmed},
		{models.StatusRejected, ActionReschedule, models.StatusConfirmed},
	}

	for _, tc := range cases {
		to, err := Transition(tc.from, tc.action)
		assert.NoError(t, err, "%s from %s", tc.action, tc.from)
		assert.Equal(t, tc.to, to)
	}
}

func TestTransitionGuardViolations(t *testing.T) {
	cases := []struct {
		from   models.AppointmentStatus
		action Action
	}{
		{models.StatusCompleted, ActionCancel},
		{models.StatusCancelled, ActionCancel},
		{models.StatusPending, ActionMarkPending},
		{models.StatusConfirmed, ActionMarkPending},
		{models.StatusCompleted, ActionComplete},
		{models.StatusCancelled, ActionComplete},
		{models.StatusPending, ActionReschedule},
		{models.StatusConfirmed, ActionReschedule},
		{models.StatusCompleted, ActionReschedule},
		{models.StatusConfirmed, ActionConfirm},
		{models.StatusCancelled, ActionReject},
	}

	for _, tc := range cases {
		_, err := Transition(tc.from, tc.action)
		assert.Error(t, err, "%s from %s should be rejected", tc.action, tc.from)

		var invalid *InvalidTransitionError
		assert.True(t, errors.As(err, &invalid), "%s from %s should be an InvalidTransitionError", tc.action, tc.from)
		assert.Equal(t, tc.from, invalid.From)
		assert.Equal(t, tc.action, invalid.Action)
	}
}

func TestTransitionUnknownAction(t *testing.T) {
	_, err := Transition(models.StatusPending, Action("teleport"))
	assert.Error(t, err)

	var invalid *InvalidTransitionError
	assert.False(t, errors.As(err, &invalid), "unknown actions are not guard violations")
}

func TestInvalidTransitionErrorMessage(t *testing.T) {
	err := &InvalidTransitionError{From: models.StatusCompleted, Action: ActionCancel}
	assert.Contains(t, err.Error(), "COMPLETED")
	assert.Contains(t, err.Error(), "cancel")
}

func TestActorAllowed(t *testing.T) {
	assert.True(t, ActorAllowed(ActionCancel, models.RolePatient))
	assert.True(t, ActorAllowed(ActionCancel, models.RoleDoctor))
	assert.True(t, ActorAllowed(ActionCancel, models.RoleAdmin))
	assert.True(t, ActorAllowed(ActionComplete, models.RoleDoctor))
	assert.False(t, ActorAllowed(ActionComplete, models.RolePatient))
	assert.False(t, ActorAllowed(ActionComplete, models.RoleAdmin))
	assert.True(t, ActorAllowed(ActionMarkPending, models.RoleDoctor))
	assert.False(t, ActorAllowed(ActionMarkPending, models.RoleAdmin))
	assert.True(t, ActorAllowed(ActionReschedule, models.RolePatient))
	assert.False(t, ActorAllowed(ActionReschedule, models.RoleDoctor))
	assert.True(t, ActorAllowed(ActionConfirm, models.RoleDoctor))
	assert.True(t, ActorAllowed(ActionConfirm, models.RoleAdmin))
	assert.False(t, ActorAllowed(ActionConfirm, models.RolePatient))
}

func TestRescheduleReplacesInPlace(t *testing.T) {
	prev := models.Appointment{
		BaseModel:       models.BaseModel{ID: "apt-1"},
		PatientID:       "patient-1",
		DoctorID:        "doctor-1",
		AppointmentDate: time.Date(2026, 1, 5, 9, 0, 0, 0, time.Local),
		Status:          models.StatusCancelled,
		Notes:           "knee pain",
		Cost:            120,
	}

	newDate := time.Date(2026, 1, 12, 10, 30, 0, 0, time.Local)
	next, err := Reschedule(prev, RescheduleRequest{
		DoctorID:        "doctor-2",
		AppointmentDate: newDate,
		Notes:           "",
	})
	assert.NoError(t, err)

	assert.Equal(t, "apt-1", next.ID, "reschedule must reuse the appointment identity")
	assert.Equal(t, models.StatusConfirmed, next.Status)
	assert.Equal(t, "doctor-2", next.DoctorID)
	assert.Equal(t, newDate, next.AppointmentDate)
	assert.Equal(t, 120.0, next.Cost, "cost is preserved across reschedule")
	assert.Equal(t, "patient-1", next.PatientID)
	assert.Equal(t, "knee pain", next.Notes, "blank notes fall back to the previous ones")
}

func TestRescheduleOverwritesNotesWhenSupplied(t *testing.T) {
	prev := models.Appointment{
		BaseModel: models.BaseModel{ID: "apt-1"},
		DoctorID:  "doctor-1",
		Status:    models.StatusRejected,
		Notes:     "old",
	}

	next, err := Reschedule(prev, RescheduleRequest{
		AppointmentDate: time.Now().Add(48 * time.Hour),
		Notes:           "new complaint",
	})
	assert.NoError(t, err)
	assert.Equal(t, "new complaint", next.Notes)
	assert.Equal(t, "doctor-1", next.DoctorID, "blank doctor keeps the previous one")
}

func TestRescheduleGuard(t *testing.T) {
	for _, status := range []models.AppointmentStatus{
		models.StatusPending, models.StatusConfirmed, models.StatusCompleted,
	} {
		prev := models.Appointment{Status: status}
		_, err := Reschedule(prev, RescheduleRequest{AppointmentDate: time.Now()})

		var invalid *InvalidTransitionError
		assert.True(t, errors.As(err, &invalid), "reschedule from %s must fail", status)
	}
}

func TestCompleteThenCancelScenario(t *testing.T) {
	// A doctor completes a pending appointment; a later cancel must be a
	// guard violation, never a silent no-op.
	status, err := Transition(models.StatusPending, ActionComplete)
	assert.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, status)

	_, err = Transition(status, ActionCancel)
	var invalid *InvalidTransitionError
	assert.True(t, errors.As(err, &invalid))
}
