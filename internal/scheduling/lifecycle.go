package scheduling

import (
	"fmt"
	"strings"
	"time"

	"medbook-server/internal/models"
)

// Action is a named lifecycle operation on an appointment.
type Action string

const (
	ActionBook        Action = "book"
	ActionConfirm     Action = "confirm"
	ActionReject      Action = "reject"
	ActionCancel      Action = "cancel"
	ActionComplete    Action = "complete"
	ActionMarkPending Action = "markPending"
	ActionReschedule  Action = "reschedule"
)

// InvalidTransitionError reports a lifecycle guard violation. It always names
// the current state and the requested action so the caller can surface a
// precise message instead of silently dropping the request.
type InvalidTransitionError struct {
	From   models.AppointmentStatus
	Action Action
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("cannot %s an appointment in state %s", e.Action, e.From)
}

// transition describes one permitted edge of the lifecycle state machine.
type transition struct {
	from   []models.AppointmentStatus
	to     models.AppointmentStatus
	actors []models.Role
}

var transitions = map[Action]transition{
	ActionConfirm: {
		from:   []models.AppointmentStatus{models.StatusPending},
		to:     models.StatusConfirmed,
		actors: []models.Role{models.RoleDoctor, models.RoleAdmin},
	},
	ActionReject: {
		from:   []models.AppointmentStatus{models.StatusPending},
		to:     models.StatusRejected,
		actors: []models.Role{models.RoleDoctor, models.RoleAdmin},
	},
	ActionCancel: {
		from:   []models.AppointmentStatus{models.StatusPending, models.StatusConfirmed},
		to:     models.StatusCancelled,
		actors: []models.Role{models.RolePatient, models.RoleDoctor, models.RoleAdmin},
	},
	ActionComplete: {
		from:   []models.AppointmentStatus{models.StatusPending, models.StatusConfirmed},
		to:     models.StatusCompleted,
		actors: []models.Role{models.RoleDoctor},
	},
	ActionMarkPending: {
		from:   []models.AppointmentStatus{models.StatusCompleted},
		to:     models.StatusPending,
		actors: []models.Role{models.RoleDoctor},
	},
	ActionReschedule: {
		from:   []models.AppointmentStatus{models.StatusCancelled, models.StatusRejected},
		to:     models.StatusConfirmed,
		actors: []models.Role{models.RolePatient},
	},
}

// Transition resolves the status an appointment moves to when the given
// action is applied from the given state. A guard violation returns
// *InvalidTransitionError and must not change any state.
func Transition(from models.AppointmentStatus, action Action) (models.AppointmentStatus, error) {
	tr, ok := transitions[action]
	if !ok {
		return "", fmt.Errorf("unknown lifecycle action %q", action)
	}
	for _, allowed := range tr.from {
		if from == allowed {
			return tr.to, nil
		}
	}
	return "", &InvalidTransitionError{From: from, Action: action}
}

// ActorAllowed reports whether the given role may perform the action at all.
// State guards are checked separately by Transition.
func ActorAllowed(action Action, role models.Role) bool {
	if role == models.RoleAdmin && action != ActionComplete && action != ActionMarkPending && action != ActionReschedule {
		// Admins cover the doctor/patient paths except the clinical ones
		// (complete/markPending belong to the treating doctor, reschedule to
		// the patient).
		return true
	}
	tr, ok := transitions[action]
	if !ok {
		return false
	}
	for _, actor := range tr.actors {
		if actor == role {
			return true
		}
	}
	return false
}

// RescheduleRequest carries the fields the reschedule form supplies. Anything
// left blank is repopulated from the prior appointment.
type RescheduleRequest struct {
	DoctorID        string
	AppointmentDate time.Time
	Notes           string
}

// Reschedule mutates a cancelled or rejected appointment back into a
// confirmed one, in place. The appointment keeps its identity and cost; the
// doctor, date and notes are overwritten from the request, with blank notes
// falling back to the previous ones. This is a full replace, not a patch:
// every persisted field must end up populated, or the replace loses data.
func Reschedule(prev models.Appointment, req RescheduleRequest) (models.Appointment, error) {
	status, err := Transition(prev.Status, ActionReschedule)
	if err != nil {
		return models.Appointment{}, err
	}

	next := prev
	next.Status = status
	next.AppointmentDate = req.AppointmentDate
	if req.DoctorID != "" {
		next.DoctorID = req.DoctorID
		next.Doctor = models.Doctor{}
	}
	if strings.TrimSpace(req.Notes) != "" {
		next.Notes = req.Notes
	}
	return next, nil
}
