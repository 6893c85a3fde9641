package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/openuni/facility-booking/internal/domain"
)

// Assignment accessors shared by the booking, change and cancellation
// repositories. All live on store so each repository facet inherits them.

// HasConflict reports whether any active assignment for the room overlaps the
// half-open window. Callers must hold the room's catalog row lock in the same
// transaction; the scan itself takes no locks.
func (s store) HasConflict(ctx context.Context, roomID string, window domain.Interval, excludeAssignmentID string) (bool, error) {
	if err := window.Validate(); err != nil {
		return false, err
	}

	const query = `
SELECT EXISTS (
	SELECT 1
	FROM room_assignments
	WHERE room_id = $1
	  AND lifecycle = 'active'
	  AND starts_at < $3
	  AND ends_at > $2
	  AND ($4::uuid IS NULL OR id <> $4::uuid)
)`

	var exclude any
	if excludeAssignmentID != "" {
		exclude = excludeAssignmentID
	}

	var conflict bool
	if err := s.queryRow(ctx, query, roomID, window.Start, window.End, exclude).Scan(&conflict); err != nil {
		if isInvalidUUID(err) {
			return false, domain.ErrInvalidID
		}
		return false, fmt.Errorf("conflict scan: %w", err)
	}
	return conflict, nil
}

func (s store) CreateAssignment(ctx context.Context, a domain.RoomAssignment) error {
	const stmt = `
INSERT INTO room_assignments (id, detail_id, room_id, starts_at, ends_at, lifecycle, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := s.exec(ctx, stmt, a.ID, a.DetailID, a.RoomID, a.Window.Start, a.Window.End, a.Lifecycle, a.CreatedAt)
	if err != nil {
		if isInvalidUUID(err) {
			return domain.ErrInvalidID
		}
		return fmt.Errorf("create assignment: %w", err)
	}
	return nil
}

const assignmentColumns = `id, detail_id, room_id, starts_at, ends_at, lifecycle, created_at`

func scanAssignment(row pgx.Row) (domain.RoomAssignment, error) {
	var a domain.RoomAssignment
	var lifecycle string
	err := row.Scan(&a.ID, &a.DetailID, &a.RoomID, &a.Window.Start, &a.Window.End, &lifecycle, &a.CreatedAt)
	if err != nil {
		return domain.RoomAssignment{}, err
	}
	a.Lifecycle = domain.AssignmentLifecycle(lifecycle)
	return a, nil
}

func (s store) GetAssignment(ctx context.Context, assignmentID string) (domain.RoomAssignment, error) {
	query := `SELECT ` + assignmentColumns + ` FROM room_assignments WHERE id = $1`
	return s.getAssignment(ctx, query, assignmentID)
}

func (s store) GetAssignmentForUpdate(ctx context.Context, assignmentID string) (domain.RoomAssignment, error) {
	query := `SELECT ` + assignmentColumns + ` FROM room_assignments WHERE id = $1 FOR UPDATE`
	return s.getAssignment(ctx, query, assignmentID)
}

func (s store) getAssignment(ctx context.Context, query, assignmentID string) (domain.RoomAssignment, error) {
	a, err := scanAssignment(s.queryRow(ctx, query, assignmentID))
	if err != nil {
		if isInvalidUUID(err) {
			return domain.RoomAssignment{}, domain.ErrInvalidID
		}
		if err == pgx.ErrNoRows {
			return domain.RoomAssignment{}, domain.ErrAssignmentNotFound
		}
		return domain.RoomAssignment{}, fmt.Errorf("get assignment: %w", err)
	}
	return a, nil
}

func (s store) UpdateAssignment(ctx context.Context, a domain.RoomAssignment) error {
	const stmt = `UPDATE room_assignments SET lifecycle = $2, starts_at = $3, ends_at = $4 WHERE id = $1`

	tag, err := s.exec(ctx, stmt, a.ID, a.Lifecycle, a.Window.Start, a.Window.End)
	if err != nil {
		return fmt.Errorf("update assignment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrAssignmentNotFound
	}
	return nil
}

func (s store) ListAssignmentsByDetail(ctx context.Context, detailID string) ([]domain.RoomAssignment, error) {
	query := `SELECT ` + assignmentColumns + ` FROM room_assignments WHERE detail_id = $1 ORDER BY created_at, id`

	rows, err := s.query(ctx, query, detailID)
	if err != nil {
		if isInvalidUUID(err) {
			return nil, domain.ErrInvalidID
		}
		return nil, fmt.Errorf("list assignments: %w", err)
	}
	defer rows.Close()

	var out []domain.RoomAssignment
	for rows.Next() {
		a, err := scanAssignment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan assignment: %w", err)
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		if isInvalidUUID(err) {
			return nil, domain.ErrInvalidID
		}
		return nil, fmt.Errorf("list assignments: %w", err)
	}
	return out, nil
}
