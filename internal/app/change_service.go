package app

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/openuni/facility-booking/internal/auth"
	"github.com/openuni/facility-booking/internal/clock"
	"github.com/openuni/facility-booking/internal/domain"
)

type ChangeRepository interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
	CreateChange(ctx context.Context, change domain.RoomChangeRequest) error
	GetChange(ctx context.Context, changeID string) (domain.RoomChangeRequest, error)
	GetChangeForUpdate(ctx context.Context, changeID string) (domain.RoomChangeRequest, error)
	UpdateChange(ctx context.Context, change domain.RoomChangeRequest) error
	GetAssignment(ctx context.Context, assignmentID string) (domain.RoomAssignment, error)
	GetAssignmentForUpdate(ctx context.Context, assignmentID string) (domain.RoomAssignment, error)
	UpdateAssignment(ctx context.Context, assignment domain.RoomAssignment) error
	GetRoomForUpdate(ctx context.Context, roomID string) (domain.Room, error)
	HasConflict(ctx context.Context, roomID string, window domain.Interval, excludeAssignmentID string) (bool, error)
	CreateAssignment(ctx context.Context, assignment domain.RoomAssignment) error
}

// ChangeService swaps the room behind an active assignment. The old
// assignment is never rewritten: approval inserts a replacement and retires
// the original as superseded, keeping the full change history.
type ChangeService struct {
	repo     ChangeRepository
	clock    clock.Clock
	notifier Notifier
	log      *logrus.Logger
}

func NewChangeService(repo ChangeRepository, clk clock.Clock, notifier Notifier, log *logrus.Logger) *ChangeService {
	return &ChangeService{
		repo:     repo,
		clock:    clk,
		notifier: notifier,
		log:      log,
	}
}

type CreateChangeInput struct {
	FromAssignmentID string
	Reason           string
	DesiredRoomID    string
}

func (s *ChangeService) CreateChange(ctx context.Context, in CreateChangeInput) (domain.RoomChangeRequest, error) {
	caller, err := requireRole(ctx, auth.RoleOrganizer)
	if err != nil {
		return domain.RoomChangeRequest{}, err
	}
	if in.Reason == "" {
		return domain.RoomChangeRequest{}, domain.ErrReasonRequired
	}

	var change domain.RoomChangeRequest
	err = s.repo.WithTx(ctx, func(txCtx context.Context) error {
		from, err := s.repo.GetAssignment(txCtx, in.FromAssignmentID)
		if err != nil {
			return err
		}
		if !from.Active() {
			return domain.ErrAssignmentNotActive
		}
		change = domain.RoomChangeRequest{
			ID:               newID(),
			DetailID:         from.DetailID,
			FromAssignmentID: from.ID,
			Reason:           in.Reason,
			DesiredRoomID:    in.DesiredRoomID,
			Status:           domain.ChangeStatusPending,
			RequestedBy:      caller.Subject,
			CreatedAt:        s.clock.Now(),
		}
		return s.repo.CreateChange(txCtx, change)
	})
	if err != nil {
		return domain.RoomChangeRequest{}, err
	}
	return change, nil
}

func (s *ChangeService) GetChange(ctx context.Context, changeID string) (domain.RoomChangeRequest, error) {
	return s.repo.GetChange(ctx, changeID)
}

// ApproveChangeResult carries both sides of the swap.
type ApproveChangeResult struct {
	Change        domain.RoomChangeRequest
	NewAssignment domain.RoomAssignment
	OldAssignment domain.RoomAssignment
}

// ApproveChange re-checks availability of the target room over the outgoing
// assignment's window (excluding that assignment, which is about to retire)
// and performs the three writes of the swap in one transaction.
func (s *ChangeService) ApproveChange(ctx context.Context, changeID, newRoomID string) (ApproveChangeResult, error) {
	if _, err := requireRole(ctx, auth.RoleFacilities); err != nil {
		return ApproveChangeResult{}, err
	}

	now := s.clock.Now()
	var result ApproveChangeResult

	err := s.repo.WithTx(ctx, func(txCtx context.Context) error {
		change, err := s.repo.GetChangeForUpdate(txCtx, changeID)
		if err != nil {
			return err
		}
		approved, err := change.Approve()
		if err != nil {
			return err
		}

		roomID := newRoomID
		if roomID == "" {
			roomID = change.DesiredRoomID
		}
		if roomID == "" {
			return domain.ErrRoomNotFound
		}

		from, err := s.repo.GetAssignmentForUpdate(txCtx, change.FromAssignmentID)
		if err != nil {
			return err
		}
		if !from.Active() {
			return domain.ErrAssignmentNotActive
		}

		if _, err := s.repo.GetRoomForUpdate(txCtx, roomID); err != nil {
			return err
		}
		conflict, err := s.repo.HasConflict(txCtx, roomID, from.Window, from.ID)
		if err != nil {
			return err
		}
		if conflict {
			return &domain.RoomConflictError{RoomID: roomID}
		}

		replacement := domain.RoomAssignment{
			ID:        newID(),
			DetailID:  from.DetailID,
			RoomID:    roomID,
			Window:    from.Window,
			Lifecycle: domain.AssignmentActive,
			CreatedAt: now,
		}
		if err := s.repo.CreateAssignment(txCtx, replacement); err != nil {
			return err
		}

		superseded, err := from.Supersede()
		if err != nil {
			return err
		}
		if err := s.repo.UpdateAssignment(txCtx, superseded); err != nil {
			return err
		}
		if err := s.repo.UpdateChange(txCtx, approved); err != nil {
			return err
		}

		result = ApproveChangeResult{Change: approved, NewAssignment: replacement, OldAssignment: superseded}
		return nil
	})
	if err != nil {
		return ApproveChangeResult{}, err
	}

	emit(ctx, s.log, s.notifier, WorkflowEvent{
		Kind:         NotifyAssignmentSuperseded,
		DetailID:     result.OldAssignment.DetailID,
		AssignmentID: result.OldAssignment.ID,
		RoomID:       result.NewAssignment.RoomID,
		At:           now,
	})
	return result, nil
}

func (s *ChangeService) RejectChange(ctx context.Context, changeID, reason string) (domain.RoomChangeRequest, error) {
	if _, err := requireRole(ctx, auth.RoleFacilities); err != nil {
		return domain.RoomChangeRequest{}, err
	}
	if reason == "" {
		return domain.RoomChangeRequest{}, domain.ErrReasonRequired
	}

	var result domain.RoomChangeRequest
	err := s.repo.WithTx(ctx, func(txCtx context.Context) error {
		change, err := s.repo.GetChangeForUpdate(txCtx, changeID)
		if err != nil {
			return err
		}
		rejected, err := change.Reject(reason)
		if err != nil {
			return err
		}
		if err := s.repo.UpdateChange(txCtx, rejected); err != nil {
			return err
		}
		result = rejected
		return nil
	})
	if err != nil {
		return domain.RoomChangeRequest{}, err
	}

	emit(ctx, s.log, s.notifier, WorkflowEvent{Kind: NotifyChangeRequestRejected, DetailID: result.DetailID, At: s.clock.Now()})
	return result, nil
}
