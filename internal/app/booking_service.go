package app

import (
	"context"
	"sort"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/openuni/facility-booking/internal/auth"
	"github.com/openuni/facility-booking/internal/clock"
	"github.com/openuni/facility-booking/internal/domain"
)

type BookingRepository interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
	// GetEventForUpdate locks the event row so the status gate serializes
	// with a cancellation cascade holding the same lock.
	GetEventForUpdate(ctx context.Context, eventID string) (domain.Event, error)
	CreateHeader(ctx context.Context, header domain.RequestHeader) error
	CreateDetail(ctx context.Context, detail domain.RequestDetail) error
	GetHeader(ctx context.Context, headerID string) (domain.RequestHeader, error)
	ListDetailsByHeader(ctx context.Context, headerID string) ([]domain.RequestDetail, error)
	GetDetailForUpdate(ctx context.Context, detailID string) (domain.RequestDetail, error)
	UpdateDetail(ctx context.Context, detail domain.RequestDetail) error
	// GetRoomForUpdate locks the catalog row so concurrent allocators for the
	// same room serialize on it before scanning active assignments.
	GetRoomForUpdate(ctx context.Context, roomID string) (domain.Room, error)
	HasConflict(ctx context.Context, roomID string, window domain.Interval, excludeAssignmentID string) (bool, error)
	CreateAssignment(ctx context.Context, assignment domain.RoomAssignment) error
	ListAssignmentsByDetail(ctx context.Context, detailID string) ([]domain.RoomAssignment, error)
}

// BookingService owns booking requests: creating a header with its detail
// lines and resolving each detail to approved-with-rooms or rejected.
type BookingService struct {
	repo     BookingRepository
	clock    clock.Clock
	notifier Notifier
	log      *logrus.Logger
}

func NewBookingService(repo BookingRepository, clk clock.Clock, notifier Notifier, log *logrus.Logger) *BookingService {
	return &BookingService{
		repo:     repo,
		clock:    clk,
		notifier: notifier,
		log:      log,
	}
}

type CreateDetailInput struct {
	GroupName     string
	Quantity      int
	RoomTypeHint  string
	CapacityHint  int
	EquipmentHint string
	StartsAt      time.Time
	EndsAt        time.Time
}

type CreateRequestInput struct {
	EventID string
	Note    string
	Details []CreateDetailInput
}

// CreateRequest creates a request header and its detail lines atomically.
// The owning event must already be approved (or in progress).
func (s *BookingService) CreateRequest(ctx context.Context, in CreateRequestInput) (RequestView, error) {
	caller, err := requireRole(ctx, auth.RoleOrganizer)
	if err != nil {
		return RequestView{}, err
	}
	if len(in.Details) == 0 {
		return RequestView{}, domain.ErrInvalidInput
	}

	now := s.clock.Now()
	header := domain.RequestHeader{
		ID:        newID(),
		EventID:   in.EventID,
		Requester: caller.Subject,
		Note:      in.Note,
		CreatedAt: now,
	}

	details := make([]domain.RequestDetail, 0, len(in.Details))
	for _, d := range in.Details {
		window, err := domain.NewInterval(d.StartsAt, d.EndsAt)
		if err != nil {
			return RequestView{}, err
		}
		if d.Quantity <= 0 {
			return RequestView{}, domain.ErrInvalidInput
		}
		details = append(details, domain.RequestDetail{
			ID:            newID(),
			HeaderID:      header.ID,
			GroupName:     d.GroupName,
			Quantity:      d.Quantity,
			RoomTypeHint:  d.RoomTypeHint,
			CapacityHint:  d.CapacityHint,
			EquipmentHint: d.EquipmentHint,
			Window:        window,
			Status:        domain.DetailStatusPending,
			CreatedAt:     now,
		})
	}

	err = s.repo.WithTx(ctx, func(txCtx context.Context) error {
		event, err := s.repo.GetEventForUpdate(txCtx, in.EventID)
		if err != nil {
			return err
		}
		if !event.AcceptsBookings() {
			return domain.ErrEventNotApproved
		}
		if err := s.repo.CreateHeader(txCtx, header); err != nil {
			return err
		}
		for _, d := range details {
			if err := s.repo.CreateDetail(txCtx, d); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return RequestView{}, err
	}

	return s.GetRequest(ctx, header.ID)
}

// ApproveDetail assigns concrete rooms to a pending detail. One room id per
// unit of quantity; every room is conflict-checked against the detail's
// window under a locking read, and either all assignments are created or
// none are.
func (s *BookingService) ApproveDetail(ctx context.Context, detailID string, roomIDs []string) (DetailView, error) {
	if _, err := requireRole(ctx, auth.RoleFacilities); err != nil {
		return DetailView{}, err
	}
	if len(roomIDs) == 0 {
		return DetailView{}, domain.ErrQuantityMismatch
	}

	now := s.clock.Now()
	var view DetailView

	err := s.repo.WithTx(ctx, func(txCtx context.Context) error {
		detail, err := s.repo.GetDetailForUpdate(txCtx, detailID)
		if err != nil {
			return err
		}
		approved, err := detail.Approve()
		if err != nil {
			return err
		}
		if len(roomIDs) != detail.Quantity {
			return domain.ErrQuantityMismatch
		}

		header, err := s.repo.GetHeader(txCtx, detail.HeaderID)
		if err != nil {
			return err
		}
		event, err := s.repo.GetEventForUpdate(txCtx, header.EventID)
		if err != nil {
			return err
		}
		if !event.AcceptsBookings() {
			return domain.ErrEventNotApproved
		}

		// Lock rooms in a stable order so two concurrent group approvals
		// touching the same rooms cannot deadlock. Inserting inside the loop
		// also makes a duplicate room id in one group conflict with itself.
		ordered := append([]string(nil), roomIDs...)
		sort.Strings(ordered)

		assignments := make([]domain.RoomAssignment, 0, len(ordered))
		for _, roomID := range ordered {
			if _, err := s.repo.GetRoomForUpdate(txCtx, roomID); err != nil {
				return err
			}
			conflict, err := s.repo.HasConflict(txCtx, roomID, detail.Window, "")
			if err != nil {
				return err
			}
			if conflict {
				return &domain.RoomConflictError{RoomID: roomID}
			}
			assignment := domain.RoomAssignment{
				ID:        newID(),
				DetailID:  detail.ID,
				RoomID:    roomID,
				Window:    detail.Window,
				Lifecycle: domain.AssignmentActive,
				CreatedAt: now,
			}
			if err := s.repo.CreateAssignment(txCtx, assignment); err != nil {
				return err
			}
			assignments = append(assignments, assignment)
		}

		if err := s.repo.UpdateDetail(txCtx, approved); err != nil {
			return err
		}

		view = DetailView{Detail: approved, Assignments: assignments}
		return nil
	})
	if err != nil {
		return DetailView{}, err
	}

	emit(ctx, s.log, s.notifier, WorkflowEvent{Kind: NotifyDetailApproved, DetailID: detailID, At: now})
	return view, nil
}

// RejectDetail resolves a pending detail without allocating rooms.
func (s *BookingService) RejectDetail(ctx context.Context, detailID, reason string) (DetailView, error) {
	if _, err := requireRole(ctx, auth.RoleFacilities); err != nil {
		return DetailView{}, err
	}
	if reason == "" {
		return DetailView{}, domain.ErrReasonRequired
	}

	var view DetailView
	err := s.repo.WithTx(ctx, func(txCtx context.Context) error {
		detail, err := s.repo.GetDetailForUpdate(txCtx, detailID)
		if err != nil {
			return err
		}
		rejected, err := detail.Reject(reason)
		if err != nil {
			return err
		}
		if err := s.repo.UpdateDetail(txCtx, rejected); err != nil {
			return err
		}
		view = DetailView{Detail: rejected}
		return nil
	})
	if err != nil {
		return DetailView{}, err
	}

	emit(ctx, s.log, s.notifier, WorkflowEvent{Kind: NotifyDetailRejected, DetailID: detailID, At: s.clock.Now()})
	return view, nil
}

// RequestView is a booking request with its derived header status.
type RequestView struct {
	Header  domain.RequestHeader
	Status  domain.HeaderStatus
	Details []DetailView
}

type DetailView struct {
	Detail      domain.RequestDetail
	Assignments []domain.RoomAssignment
}

// GetRequest loads a request with details, assignments and the header status
// recomputed from the detail rows.
func (s *BookingService) GetRequest(ctx context.Context, headerID string) (RequestView, error) {
	header, err := s.repo.GetHeader(ctx, headerID)
	if err != nil {
		return RequestView{}, err
	}
	details, err := s.repo.ListDetailsByHeader(ctx, headerID)
	if err != nil {
		return RequestView{}, err
	}

	view := RequestView{Header: header, Details: make([]DetailView, 0, len(details))}
	statuses := make([]domain.DetailStatus, 0, len(details))
	for _, d := range details {
		assignments, err := s.repo.ListAssignmentsByDetail(ctx, d.ID)
		if err != nil {
			return RequestView{}, err
		}
		view.Details = append(view.Details, DetailView{Detail: d, Assignments: assignments})
		statuses = append(statuses, d.Status)
	}
	view.Status = domain.AggregateHeaderStatus(statuses)
	return view, nil
}
