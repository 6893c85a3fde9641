package app

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
)

// WorkflowEvent is emitted after a workflow transition commits. The excluded
// notification service subscribes to these; a delivery failure never rolls
// back the transaction that produced the event.
type WorkflowEvent struct {
	Kind         string
	EventID      string
	HeaderID     string
	DetailID     string
	AssignmentID string
	RoomID       string
	At           time.Time
}

const (
	NotifyEventSubmitted        = "event.submitted"
	NotifyEventApproved         = "event.approved"
	NotifyEventRejected         = "event.rejected"
	NotifyEventCancelled        = "event.cancelled"
	NotifyDetailApproved        = "detail.approved"
	NotifyDetailRejected        = "detail.rejected"
	NotifyAssignmentSuperseded  = "assignment.superseded"
	NotifyChangeRequestRejected = "change.rejected"
)

type Notifier interface {
	Notify(ctx context.Context, ev WorkflowEvent) error
}

// LogNotifier writes workflow events to the structured log. It stands in for
// the external notification service in development and tests.
type LogNotifier struct {
	log *logrus.Logger
}

func NewLogNotifier(log *logrus.Logger) *LogNotifier {
	return &LogNotifier{log: log}
}

func (n *LogNotifier) Notify(_ context.Context, ev WorkflowEvent) error {
	n.log.WithFields(logrus.Fields{
		"kind":          ev.Kind,
		"event_id":      ev.EventID,
		"header_id":     ev.HeaderID,
		"detail_id":     ev.DetailID,
		"assignment_id": ev.AssignmentID,
		"room_id":       ev.RoomID,
	}).Info("workflow event")
	return nil
}

// emit delivers a notification outside the transaction and swallows failures.
func emit(ctx context.Context, log *logrus.Logger, n Notifier, ev WorkflowEvent) {
	if n == nil {
		return
	}
	if err := n.Notify(ctx, ev); err != nil {
		log.WithError(err).WithField("kind", ev.Kind).Warn("notification delivery failed")
	}
}
