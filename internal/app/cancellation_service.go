package app

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/openuni/facility-booking/internal/auth"
	"github.com/openuni/facility-booking/internal/clock"
	"github.com/openuni/facility-booking/internal/domain"
)

type CancellationRepository interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
	CreateCancellation(ctx context.Context, req domain.CancellationRequest) error
	GetCancellation(ctx context.Context, requestID string) (domain.CancellationRequest, error)
	GetCancellationForUpdate(ctx context.Context, requestID string) (domain.CancellationRequest, error)
	UpdateCancellation(ctx context.Context, req domain.CancellationRequest) error
	HasPendingCancellation(ctx context.Context, eventID string) (bool, error)
	GetEventForUpdate(ctx context.Context, eventID string) (domain.Event, error)
	UpdateEvent(ctx context.Context, event domain.Event) error
	// LockActiveAssignmentsByEvent takes row locks on every active assignment
	// under the event so the release cascade cannot interleave with a
	// concurrent allocation or room change.
	LockActiveAssignmentsByEvent(ctx context.Context, eventID string) ([]string, error)
	ReleaseAssignmentsByEvent(ctx context.Context, eventID string) (int, error)
}

// CancellationService handles requests to cancel an event. Approval is a
// cascading bulk operation: the event flips to cancelled and every active
// room assignment under it is released, all in one transaction.
type CancellationService struct {
	repo     CancellationRepository
	clock    clock.Clock
	notifier Notifier
	log      *logrus.Logger
}

func NewCancellationService(repo CancellationRepository, clk clock.Clock, notifier Notifier, log *logrus.Logger) *CancellationService {
	return &CancellationService{
		repo:     repo,
		clock:    clk,
		notifier: notifier,
		log:      log,
	}
}

type CreateCancellationInput struct {
	EventID string
	Reason  string
}

// CreateCancellation opens a cancellation request. At most one may be pending
// per event; the in-transaction check is backed by a partial unique index for
// racing creators.
func (s *CancellationService) CreateCancellation(ctx context.Context, in CreateCancellationInput) (domain.CancellationRequest, error) {
	caller, err := requireRole(ctx, auth.RoleOrganizer)
	if err != nil {
		return domain.CancellationRequest{}, err
	}
	if in.Reason == "" {
		return domain.CancellationRequest{}, domain.ErrReasonRequired
	}

	var req domain.CancellationRequest
	err = s.repo.WithTx(ctx, func(txCtx context.Context) error {
		event, err := s.repo.GetEventForUpdate(txCtx, in.EventID)
		if err != nil {
			return err
		}
		if _, err := event.Cancel(); err != nil {
			return err
		}
		pending, err := s.repo.HasPendingCancellation(txCtx, in.EventID)
		if err != nil {
			return err
		}
		if pending {
			return domain.ErrDuplicateCancellation
		}
		req = domain.CancellationRequest{
			ID:          newID(),
			EventID:     in.EventID,
			Reason:      in.Reason,
			Status:      domain.CancellationStatusPending,
			RequestedBy: caller.Subject,
			CreatedAt:   s.clock.Now(),
		}
		return s.repo.CreateCancellation(txCtx, req)
	})
	if err != nil {
		return domain.CancellationRequest{}, err
	}
	return req, nil
}

func (s *CancellationService) GetCancellation(ctx context.Context, requestID string) (domain.CancellationRequest, error) {
	return s.repo.GetCancellation(ctx, requestID)
}

// ApproveCancellationResult reports the cascade outcome.
type ApproveCancellationResult struct {
	Request       domain.CancellationRequest
	Event         domain.Event
	ReleasedRooms int
}

func (s *CancellationService) ApproveCancellation(ctx context.Context, requestID, note string) (ApproveCancellationResult, error) {
	if _, err := requireRole(ctx, auth.RoleManagement); err != nil {
		return ApproveCancellationResult{}, err
	}

	var result ApproveCancellationResult
	cascade := func(txCtx context.Context) error {
		req, err := s.repo.GetCancellationForUpdate(txCtx, requestID)
		if err != nil {
			return err
		}
		approved, err := req.Approve(note)
		if err != nil {
			return err
		}

		event, err := s.repo.GetEventForUpdate(txCtx, req.EventID)
		if err != nil {
			return err
		}
		cancelled, err := event.Cancel()
		if err != nil {
			return err
		}

		locked, err := s.repo.LockActiveAssignmentsByEvent(txCtx, req.EventID)
		if err != nil {
			return err
		}
		released, err := s.repo.ReleaseAssignmentsByEvent(txCtx, req.EventID)
		if err != nil {
			return err
		}
		if released != len(locked) {
			// A row changed lifecycle between lock and update; only possible
			// if the locking query missed it, so treat as transient.
			return domain.ErrStoreTransient
		}

		if err := s.repo.UpdateEvent(txCtx, cancelled); err != nil {
			return err
		}
		if err := s.repo.UpdateCancellation(txCtx, approved); err != nil {
			return err
		}

		result = ApproveCancellationResult{Request: approved, Event: cancelled, ReleasedRooms: released}
		return nil
	}

	err := s.repo.WithTx(ctx, cascade)
	if errors.Is(err, domain.ErrStoreTransient) {
		// One more attempt picks up assignments that slipped past the
		// locking query, such as a room change committing concurrently.
		err = s.repo.WithTx(ctx, cascade)
	}
	if err != nil {
		return ApproveCancellationResult{}, err
	}

	emit(ctx, s.log, s.notifier, WorkflowEvent{Kind: NotifyEventCancelled, EventID: result.Event.ID, At: s.clock.Now()})
	return result, nil
}

func (s *CancellationService) RejectCancellation(ctx context.Context, requestID, reason string) (domain.CancellationRequest, error) {
	if _, err := requireRole(ctx, auth.RoleManagement); err != nil {
		return domain.CancellationRequest{}, err
	}
	if reason == "" {
		return domain.CancellationRequest{}, domain.ErrReasonRequired
	}

	var result domain.CancellationRequest
	err := s.repo.WithTx(ctx, func(txCtx context.Context) error {
		req, err := s.repo.GetCancellationForUpdate(txCtx, requestID)
		if err != nil {
			return err
		}
		rejected, err := req.Reject(reason)
		if err != nil {
			return err
		}
		if err := s.repo.UpdateCancellation(txCtx, rejected); err != nil {
			return err
		}
		result = rejected
		return nil
	})
	if err != nil {
		return domain.CancellationRequest{}, err
	}
	return result, nil
}
