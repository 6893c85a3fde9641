package app

import (
	"context"
	"io"

	"github.com/sirupsen/logrus"

	"github.com/openuni/facility-booking/internal/auth"
	"github.com/openuni/facility-booking/internal/domain"
)

func newTestLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

// fakeStore is an in-memory stand-in for the postgres repositories. WithTx
// snapshots the maps and restores them when fn fails, so the all-or-nothing
// behaviour of the real transactions holds in service tests too.
type fakeStore struct {
	rooms         map[string]domain.Room
	events        map[string]domain.Event
	headers       map[string]domain.RequestHeader
	details       map[string]domain.RequestDetail
	assignments   map[string]domain.RoomAssignment
	assignmentIDs []string
	changes       map[string]domain.RoomChangeRequest
	cancellations map[string]domain.CancellationRequest
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		rooms:         make(map[string]domain.Room),
		events:        make(map[string]domain.Event),
		headers:       make(map[string]domain.RequestHeader),
		details:       make(map[string]domain.RequestDetail),
		assignments:   make(map[string]domain.RoomAssignment),
		changes:       make(map[string]domain.RoomChangeRequest),
		cancellations: make(map[string]domain.CancellationRequest),
	}
}

func (f *fakeStore) addRoom(id string) {
	f.rooms[id] = domain.Room{ID: id, Name: id, Capacity: 50}
}

func (f *fakeStore) snapshot() *fakeStore {
	c := newFakeStore()
	for k, v := range f.rooms {
		c.rooms[k] = v
	}
	for k, v := range f.events {
		c.events[k] = v
	}
	for k, v := range f.headers {
		c.headers[k] = v
	}
	for k, v := range f.details {
		c.details[k] = v
	}
	for k, v := range f.assignments {
		c.assignments[k] = v
	}
	c.assignmentIDs = append([]string(nil), f.assignmentIDs...)
	for k, v := range f.changes {
		c.changes[k] = v
	}
	for k, v := range f.cancellations {
		c.cancellations[k] = v
	}
	return c
}

func (f *fakeStore) restore(snap *fakeStore) {
	*f = *snap
}

func (f *fakeStore) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	snap := f.snapshot()
	if err := fn(ctx); err != nil {
		f.restore(snap)
		return err
	}
	return nil
}

func (f *fakeStore) GetRoomForUpdate(_ context.Context, roomID string) (domain.Room, error) {
	room, ok := f.rooms[roomID]
	if !ok {
		return domain.Room{}, domain.ErrRoomNotFound
	}
	return room, nil
}

func (f *fakeStore) HasConflict(_ context.Context, roomID string, window domain.Interval, excludeAssignmentID string) (bool, error) {
	if err := window.Validate(); err != nil {
		return false, err
	}
	for _, a := range f.assignments {
		if a.RoomID != roomID || !a.Active() || a.ID == excludeAssignmentID {
			continue
		}
		if a.Window.Overlaps(window) {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeStore) CreateAssignment(_ context.Context, a domain.RoomAssignment) error {
	f.assignments[a.ID] = a
	f.assignmentIDs = append(f.assignmentIDs, a.ID)
	return nil
}

func (f *fakeStore) GetAssignment(_ context.Context, assignmentID string) (domain.RoomAssignment, error) {
	a, ok := f.assignments[assignmentID]
	if !ok {
		return domain.RoomAssignment{}, domain.ErrAssignmentNotFound
	}
	return a, nil
}

func (f *fakeStore) GetAssignmentForUpdate(ctx context.Context, assignmentID string) (domain.RoomAssignment, error) {
	return f.GetAssignment(ctx, assignmentID)
}

func (f *fakeStore) UpdateAssignment(_ context.Context, a domain.RoomAssignment) error {
	if _, ok := f.assignments[a.ID]; !ok {
		return domain.ErrAssignmentNotFound
	}
	f.assignments[a.ID] = a
	return nil
}

func (f *fakeStore) ListAssignmentsByDetail(_ context.Context, detailID string) ([]domain.RoomAssignment, error) {
	var out []domain.RoomAssignment
	for _, id := range f.assignmentIDs {
		if a := f.assignments[id]; a.DetailID == detailID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeStore) activeAssignments(detailID string) []domain.RoomAssignment {
	var out []domain.RoomAssignment
	for _, id := range f.assignmentIDs {
		if a := f.assignments[id]; a.DetailID == detailID && a.Active() {
			out = append(out, a)
		}
	}
	return out
}

func (f *fakeStore) CreateEvent(_ context.Context, e domain.Event) error {
	f.events[e.ID] = e
	return nil
}

func (f *fakeStore) GetEvent(_ context.Context, eventID string) (domain.Event, error) {
	e, ok := f.events[eventID]
	if !ok {
		return domain.Event{}, domain.ErrEventNotFound
	}
	return e, nil
}

func (f *fakeStore) GetEventForUpdate(ctx context.Context, eventID string) (domain.Event, error) {
	return f.GetEvent(ctx, eventID)
}

func (f *fakeStore) UpdateEvent(_ context.Context, e domain.Event) error {
	if _, ok := f.events[e.ID]; !ok {
		return domain.ErrEventNotFound
	}
	f.events[e.ID] = e
	return nil
}

func (f *fakeStore) CreateHeader(_ context.Context, h domain.RequestHeader) error {
	f.headers[h.ID] = h
	return nil
}

func (f *fakeStore) GetHeader(_ context.Context, headerID string) (domain.RequestHeader, error) {
	h, ok := f.headers[headerID]
	if !ok {
		return domain.RequestHeader{}, domain.ErrHeaderNotFound
	}
	return h, nil
}

func (f *fakeStore) CreateDetail(_ context.Context, d domain.RequestDetail) error {
	f.details[d.ID] = d
	return nil
}

func (f *fakeStore) GetDetailForUpdate(_ context.Context, detailID string) (domain.RequestDetail, error) {
	d, ok := f.details[detailID]
	if !ok {
		return domain.RequestDetail{}, domain.ErrDetailNotFound
	}
	return d, nil
}

func (f *fakeStore) UpdateDetail(_ context.Context, d domain.RequestDetail) error {
	if _, ok := f.details[d.ID]; !ok {
		return domain.ErrDetailNotFound
	}
	f.details[d.ID] = d
	return nil
}

func (f *fakeStore) ListDetailsByHeader(_ context.Context, headerID string) ([]domain.RequestDetail, error) {
	var out []domain.RequestDetail
	for _, d := range f.details {
		if d.HeaderID == headerID {
			out = append(out, d)
		}
	}
	return out, nil
}

func (f *fakeStore) CreateChange(_ context.Context, c domain.RoomChangeRequest) error {
	f.changes[c.ID] = c
	return nil
}

func (f *fakeStore) GetChange(_ context.Context, changeID string) (domain.RoomChangeRequest, error) {
	c, ok := f.changes[changeID]
	if !ok {
		return domain.RoomChangeRequest{}, domain.ErrChangeRequestNotFound
	}
	return c, nil
}

func (f *fakeStore) GetChangeForUpdate(ctx context.Context, changeID string) (domain.RoomChangeRequest, error) {
	return f.GetChange(ctx, changeID)
}

func (f *fakeStore) UpdateChange(_ context.Context, c domain.RoomChangeRequest) error {
	if _, ok := f.changes[c.ID]; !ok {
		return domain.ErrChangeRequestNotFound
	}
	f.changes[c.ID] = c
	return nil
}

func (f *fakeStore) CreateCancellation(_ context.Context, c domain.CancellationRequest) error {
	f.cancellations[c.ID] = c
	return nil
}

func (f *fakeStore) GetCancellation(_ context.Context, requestID string) (domain.CancellationRequest, error) {
	c, ok := f.cancellations[requestID]
	if !ok {
		return domain.CancellationRequest{}, domain.ErrCancellationNotFound
	}
	return c, nil
}

func (f *fakeStore) GetCancellationForUpdate(ctx context.Context, requestID string) (domain.CancellationRequest, error) {
	return f.GetCancellation(ctx, requestID)
}

func (f *fakeStore) UpdateCancellation(_ context.Context, c domain.CancellationRequest) error {
	if _, ok := f.cancellations[c.ID]; !ok {
		return domain.ErrCancellationNotFound
	}
	f.cancellations[c.ID] = c
	return nil
}

func (f *fakeStore) HasPendingCancellation(_ context.Context, eventID string) (bool, error) {
	for _, c := range f.cancellations {
		if c.EventID == eventID && c.Status == domain.CancellationStatusPending {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeStore) LockActiveAssignmentsByEvent(_ context.Context, eventID string) ([]string, error) {
	var ids []string
	for _, id := range f.assignmentIDs {
		a := f.assignments[id]
		if !a.Active() {
			continue
		}
		d, ok := f.details[a.DetailID]
		if !ok {
			continue
		}
		h, ok := f.headers[d.HeaderID]
		if !ok || h.EventID != eventID {
			continue
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func (f *fakeStore) ReleaseAssignmentsByEvent(ctx context.Context, eventID string) (int, error) {
	ids, err := f.LockActiveAssignmentsByEvent(ctx, eventID)
	if err != nil {
		return 0, err
	}
	for _, id := range ids {
		a := f.assignments[id]
		a.Lifecycle = domain.AssignmentReleased
		f.assignments[id] = a
	}
	return len(ids), nil
}

// fakeNotifier records workflow events and can be told to fail delivery.
type fakeNotifier struct {
	events []WorkflowEvent
	err    error
}

func (n *fakeNotifier) Notify(_ context.Context, ev WorkflowEvent) error {
	n.events = append(n.events, ev)
	return n.err
}

func asRole(roles ...auth.Role) context.Context {
	return auth.WithIdentity(context.Background(), auth.Identity{Subject: "user-1", Roles: roles})
}
