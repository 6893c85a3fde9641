package domain

import "time"

type ChangeStatus string

const (
	ChangeStatusPending  ChangeStatus = "pending"
	ChangeStatusApproved ChangeStatus = "approved"
	ChangeStatusRejected ChangeStatus = "rejected"
)

// RoomChangeRequest asks to replace one active assignment with another room.
// DesiredRoomID is a hint; the approver's choice wins.
type RoomChangeRequest struct {
	ID               string
	DetailID         string
	FromAssignmentID string
	Reason           string
	DesiredRoomID    string
	Status           ChangeStatus
	RejectionReason  string
	RequestedBy      string
	CreatedAt        time.Time
}

func (c RoomChangeRequest) Approve() (RoomChangeRequest, error) {
	if c.Status != ChangeStatusPending {
		return RoomChangeRequest{}, &InvalidTransitionError{Entity: "room change request", From: string(c.Status), To: string(ChangeStatusApproved)}
	}
	c.Status = ChangeStatusApproved
	return c, nil
}

func (c RoomChangeRequest) Reject(reason string) (RoomChangeRequest, error) {
	if reason == "" {
		return RoomChangeRequest{}, ErrReasonRequired
	}
	if c.Status != ChangeStatusPending {
		return RoomChangeRequest{}, &InvalidTransitionError{Entity: "room change request", From: string(c.Status), To: string(ChangeStatusRejected)}
	}
	c.Status = ChangeStatusRejected
	c.RejectionReason = reason
	return c, nil
}
