package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/openuni/facility-booking/internal/domain"
)

// ChangeRepository persists room change requests. Assignment and room access
// comes from the shared store methods.
type ChangeRepository struct {
	store
}

func NewChangeRepository(pool *pgxpool.Pool, opts ...StoreOption) *ChangeRepository {
	return &ChangeRepository{store: newStore(pool, opts...)}
}

const changeColumns = `id, detail_id, from_assignment_id, reason, desired_room_id, status, rejection_reason, requested_by, created_at`

func (r *ChangeRepository) CreateChange(ctx context.Context, c domain.RoomChangeRequest) error {
	const stmt = `
INSERT INTO room_change_requests (id, detail_id, from_assignment_id, reason, desired_room_id, status, rejection_reason, requested_by, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	var desired any
	if c.DesiredRoomID != "" {
		desired = c.DesiredRoomID
	}
	_, err := r.exec(ctx, stmt, c.ID, c.DetailID, c.FromAssignmentID, c.Reason, desired,
		c.Status, c.RejectionReason, c.RequestedBy, c.CreatedAt)
	if err != nil {
		if isInvalidUUID(err) {
			return domain.ErrInvalidID
		}
		return fmt.Errorf("create change request: %w", err)
	}
	return nil
}

func (r *ChangeRepository) GetChange(ctx context.Context, changeID string) (domain.RoomChangeRequest, error) {
	query := `SELECT ` + changeColumns + ` FROM room_change_requests WHERE id = $1`
	return r.getChange(ctx, query, changeID)
}

func (r *ChangeRepository) GetChangeForUpdate(ctx context.Context, changeID string) (domain.RoomChangeRequest, error) {
	query := `SELECT ` + changeColumns + ` FROM room_change_requests WHERE id = $1 FOR UPDATE`
	return r.getChange(ctx, query, changeID)
}

func (r *ChangeRepository) getChange(ctx context.Context, query, changeID string) (domain.RoomChangeRequest, error) {
	var c domain.RoomChangeRequest
	var status string
	var desired *string
	err := r.queryRow(ctx, query, changeID).
		Scan(&c.ID, &c.DetailID, &c.FromAssignmentID, &c.Reason, &desired,
			&status, &c.RejectionReason, &c.RequestedBy, &c.CreatedAt)
	if err != nil {
		if isInvalidUUID(err) {
			return domain.RoomChangeRequest{}, domain.ErrInvalidID
		}
		if err == pgx.ErrNoRows {
			return domain.RoomChangeRequest{}, domain.ErrChangeRequestNotFound
		}
		return domain.RoomChangeRequest{}, fmt.Errorf("get change request: %w", err)
	}
	c.Status = domain.ChangeStatus(status)
	if desired != nil {
		c.DesiredRoomID = *desired
	}
	return c, nil
}

func (r *ChangeRepository) UpdateChange(ctx context.Context, c domain.RoomChangeRequest) error {
	const stmt = `UPDATE room_change_requests SET status = $2, rejection_reason = $3 WHERE id = $1`

	tag, err := r.exec(ctx, stmt, c.ID, c.Status, c.RejectionReason)
	if err != nil {
		return fmt.Errorf("update change request: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrChangeRequestNotFound
	}
	return nil
}
