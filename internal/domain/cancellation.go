package domain

import "time"

type CancellationStatus string

const (
	CancellationStatusPending  CancellationStatus = "pending"
	CancellationStatusApproved CancellationStatus = "approved"
	CancellationStatusRejected CancellationStatus = "rejected"
)

// CancellationRequest asks senior management to cancel an approved event.
// At most one pending request exists per event. Approval cancels the event
// and releases every active room assignment under it in one transaction.
type CancellationRequest struct {
	ID           string
	EventID      string
	Reason       string
	Status       CancellationStatus
	ApproverNote string
	RequestedBy  string
	CreatedAt    time.Time
}

func (c CancellationRequest) Approve(note string) (CancellationRequest, error) {
	if c.Status != CancellationStatusPending {
		return CancellationRequest{}, &InvalidTransitionError{Entity: "cancellation request", From: string(c.Status), To: string(CancellationStatusApproved)}
	}
	c.Status = CancellationStatusApproved
	c.ApproverNote = note
	return c, nil
}

func (c CancellationRequest) Reject(reason string) (CancellationRequest, error) {
	if reason == "" {
		return CancellationRequest{}, ErrReasonRequired
	}
	if c.Status != CancellationStatusPending {
		return CancellationRequest{}, &InvalidTransitionError{Entity: "cancellation request", From: string(c.Status), To: string(CancellationStatusRejected)}
	}
	c.Status = CancellationStatusRejected
	c.ApproverNote = reason
	return c, nil
}
