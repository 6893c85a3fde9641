package domain

import "time"

type EventStatus string

const (
	EventStatusDraft           EventStatus = "draft"
	EventStatusPendingApproval EventStatus = "pending_approval"
	EventStatusApproved        EventStatus = "approved"
	EventStatusRejected        EventStatus = "rejected"
	EventStatusInProgress      EventStatus = "in_progress"
	EventStatusCompleted       EventStatus = "completed"
	EventStatusCancelled       EventStatus = "cancelled"
)

// Event is the scheduled activity requesting facilities. Room requests may
// only be created or allocated while the event is approved or in progress.
type Event struct {
	ID              string
	Title           string
	HostingUnit     string
	StartsAt        time.Time
	EndsAt          time.Time
	Status          EventStatus
	RejectionReason string
	CreatedBy       string
	CreatedAt       time.Time
}

// eventTransitions is the closed transition table. Cancellation is absent on
// purpose: events become cancelled only through an approved CancellationRequest.
var eventTransitions = map[EventStatus][]EventStatus{
	EventStatusDraft:           {EventStatusPendingApproval},
	EventStatusPendingApproval: {EventStatusApproved, EventStatusRejected},
	EventStatusApproved:        {EventStatusInProgress},
	EventStatusInProgress:      {EventStatusCompleted},
}

// Transition returns the event with the new status applied, or an
// InvalidTransitionError when the move is not in the transition table.
func (e Event) Transition(to EventStatus) (Event, error) {
	for _, allowed := range eventTransitions[e.Status] {
		if allowed == to {
			e.Status = to
			return e, nil
		}
	}
	return Event{}, &InvalidTransitionError{Entity: "event", From: string(e.Status), To: string(to)}
}

// Cancel moves the event to cancelled. Valid from any non-terminal state;
// callers reach this only through an approved cancellation request.
func (e Event) Cancel() (Event, error) {
	switch e.Status {
	case EventStatusDraft, EventStatusPendingApproval, EventStatusApproved, EventStatusInProgress:
		e.Status = EventStatusCancelled
		return e, nil
	}
	return Event{}, &InvalidTransitionError{Entity: "event", From: string(e.Status), To: string(EventStatusCancelled)}
}

// AcceptsBookings reports whether room requests may be created or allocated
// against this event.
func (e Event) AcceptsBookings() bool {
	return e.Status == EventStatusApproved || e.Status == EventStatusInProgress
}
