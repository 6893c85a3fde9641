package domain

import "time"

type DetailStatus string

const (
	DetailStatusPending  DetailStatus = "pending"
	DetailStatusApproved DetailStatus = "approved"
	DetailStatusRejected DetailStatus = "rejected"
)

// Terminal reports whether the detail can no longer change state. Approved
// and rejected are final; later room swaps go through change requests on the
// resulting assignments, never by reopening the detail.
func (s DetailStatus) Terminal() bool {
	return s == DetailStatusApproved || s == DetailStatusRejected
}

type HeaderStatus string

const (
	HeaderStatusPending            HeaderStatus = "pending"
	HeaderStatusFullyAllocated     HeaderStatus = "fully_allocated"
	HeaderStatusPartiallyAllocated HeaderStatus = "partially_allocated"
	HeaderStatusRejected           HeaderStatus = "rejected"
)

// RequestHeader is a booking request covering one event. Its status is a
// projection over the detail statuses, recomputed on every read.
type RequestHeader struct {
	ID        string
	EventID   string
	Requester string
	Note      string
	CreatedAt time.Time
}

// RequestDetail is one room-group line item of a request: "quantity" rooms
// for one time window. Room type, capacity and equipment hints are advisory.
type RequestDetail struct {
	ID              string
	HeaderID        string
	GroupName       string
	Quantity        int
	RoomTypeHint    string
	CapacityHint    int
	EquipmentHint   string
	Window          Interval
	Status          DetailStatus
	RejectionReason string
	CreatedAt       time.Time
}

// Approve marks the detail approved. Assignment creation happens alongside in
// the same transaction; this only guards the state change.
func (d RequestDetail) Approve() (RequestDetail, error) {
	if d.Status != DetailStatusPending {
		return RequestDetail{}, &InvalidTransitionError{Entity: "request detail", From: string(d.Status), To: string(DetailStatusApproved)}
	}
	d.Status = DetailStatusApproved
	return d, nil
}

func (d RequestDetail) Reject(reason string) (RequestDetail, error) {
	if reason == "" {
		return RequestDetail{}, ErrReasonRequired
	}
	if d.Status != DetailStatusPending {
		return RequestDetail{}, &InvalidTransitionError{Entity: "request detail", From: string(d.Status), To: string(DetailStatusRejected)}
	}
	d.Status = DetailStatusRejected
	d.RejectionReason = reason
	return d, nil
}

// AggregateHeaderStatus derives the header-level status from its details.
// Never persisted: detail rows stay the single source of truth.
func AggregateHeaderStatus(details []DetailStatus) HeaderStatus {
	if len(details) == 0 {
		return HeaderStatusPending
	}
	approved, rejected := 0, 0
	for _, s := range details {
		switch s {
		case DetailStatusPending:
			return HeaderStatusPending
		case DetailStatusApproved:
			approved++
		case DetailStatusRejected:
			rejected++
		}
	}
	switch {
	case rejected == 0:
		return HeaderStatusFullyAllocated
	case approved == 0:
		return HeaderStatusRejected
	default:
		return HeaderStatusPartiallyAllocated
	}
}
