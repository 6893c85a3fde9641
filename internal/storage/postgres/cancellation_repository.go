package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/openuni/facility-booking/internal/domain"
)

// CancellationRepository persists cancellation requests and runs the release
// cascade over an event's assignments.
type CancellationRepository struct {
	store
}

func NewCancellationRepository(pool *pgxpool.Pool, opts ...StoreOption) *CancellationRepository {
	return &CancellationRepository{store: newStore(pool, opts...)}
}

const cancellationColumns = `id, event_id, reason, status, approver_note, requested_by, created_at`

func scanCancellation(row pgx.Row) (domain.CancellationRequest, error) {
	var c domain.CancellationRequest
	var status string
	err := row.Scan(&c.ID, &c.EventID, &c.Reason, &status, &c.ApproverNote, &c.RequestedBy, &c.CreatedAt)
	if err != nil {
		return domain.CancellationRequest{}, err
	}
	c.Status = domain.CancellationStatus(status)
	return c, nil
}

func (r *CancellationRepository) CreateCancellation(ctx context.Context, c domain.CancellationRequest) error {
	const stmt = `
INSERT INTO cancellation_requests (id, event_id, reason, status, approver_note, requested_by, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := r.exec(ctx, stmt, c.ID, c.EventID, c.Reason, c.Status, c.ApproverNote, c.RequestedBy, c.CreatedAt)
	if err != nil {
		// Partial unique index on (event_id) WHERE status = 'pending' backs
		// the one-open-request rule against racing creators.
		if isUniqueViolation(err) {
			return domain.ErrDuplicateCancellation
		}
		if isInvalidUUID(err) {
			return domain.ErrInvalidID
		}
		return fmt.Errorf("create cancellation request: %w", err)
	}
	return nil
}

func (r *CancellationRepository) GetCancellation(ctx context.Context, requestID string) (domain.CancellationRequest, error) {
	query := `SELECT ` + cancellationColumns + ` FROM cancellation_requests WHERE id = $1`
	return r.getCancellation(ctx, query, requestID)
}

func (r *CancellationRepository) GetCancellationForUpdate(ctx context.Context, requestID string) (domain.CancellationRequest, error) {
	query := `SELECT ` + cancellationColumns + ` FROM cancellation_requests WHERE id = $1 FOR UPDATE`
	return r.getCancellation(ctx, query, requestID)
}

func (r *CancellationRepository) getCancellation(ctx context.Context, query, requestID string) (domain.CancellationRequest, error) {
	c, err := scanCancellation(r.queryRow(ctx, query, requestID))
	if err != nil {
		if isInvalidUUID(err) {
			return domain.CancellationRequest{}, domain.ErrInvalidID
		}
		if err == pgx.ErrNoRows {
			return domain.CancellationRequest{}, domain.ErrCancellationNotFound
		}
		return domain.CancellationRequest{}, fmt.Errorf("get cancellation request: %w", err)
	}
	return c, nil
}

func (r *CancellationRepository) UpdateCancellation(ctx context.Context, c domain.CancellationRequest) error {
	const stmt = `UPDATE cancellation_requests SET status = $2, approver_note = $3 WHERE id = $1`

	tag, err := r.exec(ctx, stmt, c.ID, c.Status, c.ApproverNote)
	if err != nil {
		return fmt.Errorf("update cancellation request: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrCancellationNotFound
	}
	return nil
}

func (r *CancellationRepository) HasPendingCancellation(ctx context.Context, eventID string) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM cancellation_requests WHERE event_id = $1 AND status = 'pending')`

	var pending bool
	if err := r.queryRow(ctx, query, eventID).Scan(&pending); err != nil {
		if isInvalidUUID(err) {
			return false, domain.ErrInvalidID
		}
		return false, fmt.Errorf("check pending cancellation: %w", err)
	}
	return pending, nil
}

// LockActiveAssignmentsByEvent takes FOR UPDATE locks on every active
// assignment under the event and returns their ids, so the release cascade
// cannot interleave with a concurrent allocation or room change.
func (r *CancellationRepository) LockActiveAssignmentsByEvent(ctx context.Context, eventID string) ([]string, error) {
	const query = `
SELECT ra.id
FROM room_assignments ra
JOIN request_details rd ON rd.id = ra.detail_id
JOIN request_headers rh ON rh.id = rd.header_id
WHERE rh.event_id = $1 AND ra.lifecycle = 'active'
ORDER BY ra.id
FOR UPDATE OF ra`

	rows, err := r.query(ctx, query, eventID)
	if err != nil {
		if isInvalidUUID(err) {
			return nil, domain.ErrInvalidID
		}
		return nil, fmt.Errorf("lock active assignments: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan assignment id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		if isInvalidUUID(err) {
			return nil, domain.ErrInvalidID
		}
		return nil, fmt.Errorf("lock active assignments: %w", err)
	}
	return ids, nil
}

// ReleaseAssignmentsByEvent is the bulk half of the cascade: one statement
// flips every active assignment under the event to released.
func (r *CancellationRepository) ReleaseAssignmentsByEvent(ctx context.Context, eventID string) (int, error) {
	const stmt = `
UPDATE room_assignments ra
SET lifecycle = 'released'
FROM request_details rd
JOIN request_headers rh ON rh.id = rd.header_id
WHERE ra.detail_id = rd.id
  AND rh.event_id = $1
  AND ra.lifecycle = 'active'`

	tag, err := r.exec(ctx, stmt, eventID)
	if err != nil {
		return 0, fmt.Errorf("release assignments: %w", err)
	}
	return int(tag.RowsAffected()), nil
}
