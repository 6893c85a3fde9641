package domain

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidRange           = errors.New("invalid time range")
	ErrInvalidInput           = errors.New("invalid input")
	ErrReasonRequired         = errors.New("reason required")
	ErrQuantityMismatch       = errors.New("room count does not match requested quantity")
	ErrRoomConflict           = errors.New("room conflict")
	ErrAssignmentNotActive    = errors.New("assignment not active")
	ErrDuplicateCancellation  = errors.New("cancellation request already pending")
	ErrInvalidStateTransition = errors.New("invalid state transition")
	ErrEventNotApproved       = errors.New("event not approved")
	ErrForbidden              = errors.New("forbidden")
	ErrEventNotFound          = errors.New("event not found")
	ErrRoomNotFound           = errors.New("room not found")
	ErrHeaderNotFound         = errors.New("booking request not found")
	ErrDetailNotFound         = errors.New("booking request detail not found")
	ErrAssignmentNotFound     = errors.New("room assignment not found")
	ErrChangeRequestNotFound  = errors.New("room change request not found")
	ErrCancellationNotFound   = errors.New("cancellation request not found")
	ErrInvalidID              = errors.New("invalid id")
	ErrStoreTransient         = errors.New("transient store failure")
)

// RoomConflictError identifies which room made an allocation fail. The whole
// group rolls back, so the caller retries with a different room, not a subset.
type RoomConflictError struct {
	RoomID string
}

func (e *RoomConflictError) Error() string {
	return fmt.Sprintf("room %s already assigned in the requested window", e.RoomID)
}

func (e *RoomConflictError) Unwrap() error {
	return ErrRoomConflict
}

// InvalidTransitionError reports the transition an entity refused.
type InvalidTransitionError struct {
	Entity string
	From   string
	To     string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("%s cannot transition from %s to %s", e.Entity, e.From, e.To)
}

func (e *InvalidTransitionError) Unwrap() error {
	return ErrInvalidStateTransition
}
