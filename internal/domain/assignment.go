package domain

import "time"

type AssignmentLifecycle string

const (
	AssignmentActive     AssignmentLifecycle = "active"
	AssignmentSuperseded AssignmentLifecycle = "superseded"
	AssignmentReleased   AssignmentLifecycle = "released"
)

// RoomAssignment binds one room to a request detail for a time window. One
// assignment exists per unit of the detail's quantity. A room change never
// rewrites an assignment in place: it retires the old row as superseded and
// inserts a new active one, so the full history stays queryable.
type RoomAssignment struct {
	ID        string
	DetailID  string
	RoomID    string
	Window    Interval
	Lifecycle AssignmentLifecycle
	CreatedAt time.Time
}

func (a RoomAssignment) Active() bool {
	return a.Lifecycle == AssignmentActive
}

// Supersede retires the assignment in favour of a replacement room.
func (a RoomAssignment) Supersede() (RoomAssignment, error) {
	if a.Lifecycle != AssignmentActive {
		return RoomAssignment{}, ErrAssignmentNotActive
	}
	a.Lifecycle = AssignmentSuperseded
	return a, nil
}

// Release frees the room, used by the cancellation cascade.
func (a RoomAssignment) Release() (RoomAssignment, error) {
	if a.Lifecycle != AssignmentActive {
		return RoomAssignment{}, ErrAssignmentNotActive
	}
	a.Lifecycle = AssignmentReleased
	return a, nil
}
