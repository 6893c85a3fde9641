package app

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/openuni/facility-booking/internal/auth"
	"github.com/openuni/facility-booking/internal/clock"
	"github.com/openuni/facility-booking/internal/domain"
)

type EventRepository interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
	CreateEvent(ctx context.Context, event domain.Event) error
	GetEvent(ctx context.Context, eventID string) (domain.Event, error)
	GetEventForUpdate(ctx context.Context, eventID string) (domain.Event, error)
	UpdateEvent(ctx context.Context, event domain.Event) error
}

// EventService runs the event approval workflow that gates all room booking:
// draft -> pending_approval -> approved|rejected, approved -> in_progress ->
// completed. Cancellation is owned by CancellationService.
type EventService struct {
	repo     EventRepository
	clock    clock.Clock
	notifier Notifier
	log      *logrus.Logger
}

func NewEventService(repo EventRepository, clk clock.Clock, notifier Notifier, log *logrus.Logger) *EventService {
	return &EventService{
		repo:     repo,
		clock:    clk,
		notifier: notifier,
		log:      log,
	}
}

type CreateEventInput struct {
	Title       string
	HostingUnit string
	StartsAt    time.Time
	EndsAt      time.Time
}

func (s *EventService) CreateEvent(ctx context.Context, in CreateEventInput) (domain.Event, error) {
	id, err := requireRole(ctx, auth.RoleOrganizer)
	if err != nil {
		return domain.Event{}, err
	}
	if in.Title == "" {
		return domain.Event{}, domain.ErrInvalidInput
	}
	if _, err := domain.NewInterval(in.StartsAt, in.EndsAt); err != nil {
		return domain.Event{}, err
	}

	event := domain.Event{
		ID:          newID(),
		Title:       in.Title,
		HostingUnit: in.HostingUnit,
		StartsAt:    in.StartsAt.UTC(),
		EndsAt:      in.EndsAt.UTC(),
		Status:      domain.EventStatusDraft,
		CreatedBy:   id.Subject,
		CreatedAt:   s.clock.Now(),
	}
	if err := s.repo.CreateEvent(ctx, event); err != nil {
		return domain.Event{}, err
	}
	return event, nil
}

func (s *EventService) GetEvent(ctx context.Context, eventID string) (domain.Event, error) {
	return s.repo.GetEvent(ctx, eventID)
}

// Submit moves a draft event into the approval queue.
func (s *EventService) Submit(ctx context.Context, eventID string) (domain.Event, error) {
	if _, err := requireRole(ctx, auth.RoleOrganizer); err != nil {
		return domain.Event{}, err
	}
	event, err := s.transition(ctx, eventID, domain.EventStatusPendingApproval, "")
	if err != nil {
		return domain.Event{}, err
	}
	emit(ctx, s.log, s.notifier, WorkflowEvent{Kind: NotifyEventSubmitted, EventID: event.ID, At: s.clock.Now()})
	return event, nil
}

func (s *EventService) Approve(ctx context.Context, eventID string) (domain.Event, error) {
	if _, err := requireRole(ctx, auth.RoleManagement); err != nil {
		return domain.Event{}, err
	}
	event, err := s.transition(ctx, eventID, domain.EventStatusApproved, "")
	if err != nil {
		return domain.Event{}, err
	}
	emit(ctx, s.log, s.notifier, WorkflowEvent{Kind: NotifyEventApproved, EventID: event.ID, At: s.clock.Now()})
	return event, nil
}

func (s *EventService) Reject(ctx context.Context, eventID, reason string) (domain.Event, error) {
	if _, err := requireRole(ctx, auth.RoleManagement); err != nil {
		return domain.Event{}, err
	}
	if reason == "" {
		return domain.Event{}, domain.ErrReasonRequired
	}
	event, err := s.transition(ctx, eventID, domain.EventStatusRejected, reason)
	if err != nil {
		return domain.Event{}, err
	}
	emit(ctx, s.log, s.notifier, WorkflowEvent{Kind: NotifyEventRejected, EventID: event.ID, At: s.clock.Now()})
	return event, nil
}

func (s *EventService) Start(ctx context.Context, eventID string) (domain.Event, error) {
	if _, err := requireRole(ctx, auth.RoleOrganizer); err != nil {
		return domain.Event{}, err
	}
	return s.transition(ctx, eventID, domain.EventStatusInProgress, "")
}

func (s *EventService) Complete(ctx context.Context, eventID string) (domain.Event, error) {
	if _, err := requireRole(ctx, auth.RoleOrganizer); err != nil {
		return domain.Event{}, err
	}
	return s.transition(ctx, eventID, domain.EventStatusCompleted, "")
}

func (s *EventService) transition(ctx context.Context, eventID string, to domain.EventStatus, reason string) (domain.Event, error) {
	var result domain.Event
	err := s.repo.WithTx(ctx, func(txCtx context.Context) error {
		event, err := s.repo.GetEventForUpdate(txCtx, eventID)
		if err != nil {
			return err
		}
		next, err := event.Transition(to)
		if err != nil {
			return err
		}
		next.RejectionReason = reason
		if err := s.repo.UpdateEvent(txCtx, next); err != nil {
			return err
		}
		result = next
		return nil
	})
	if err != nil {
		return domain.Event{}, err
	}
	return result, nil
}
