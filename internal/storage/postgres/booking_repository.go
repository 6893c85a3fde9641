package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/openuni/facility-booking/internal/domain"
)

// BookingRepository persists request headers, detail lines and the
// assignments created when a detail is approved.
type BookingRepository struct {
	store
}

func NewBookingRepository(pool *pgxpool.Pool, opts ...StoreOption) *BookingRepository {
	return &BookingRepository{store: newStore(pool, opts...)}
}

func (r *BookingRepository) CreateHeader(ctx context.Context, h domain.RequestHeader) error {
	const stmt = `
INSERT INTO request_headers (id, event_id, requester, note, created_at)
VALUES ($1, $2, $3, $4, $5)`

	_, err := r.exec(ctx, stmt, h.ID, h.EventID, h.Requester, h.Note, h.CreatedAt)
	if err != nil {
		if isInvalidUUID(err) {
			return domain.ErrInvalidID
		}
		return fmt.Errorf("create request header: %w", err)
	}
	return nil
}

func (r *BookingRepository) GetHeader(ctx context.Context, headerID string) (domain.RequestHeader, error) {
	const query = `SELECT id, event_id, requester, note, created_at FROM request_headers WHERE id = $1`

	var h domain.RequestHeader
	err := r.queryRow(ctx, query, headerID).
		Scan(&h.ID, &h.EventID, &h.Requester, &h.Note, &h.CreatedAt)
	if err != nil {
		if isInvalidUUID(err) {
			return domain.RequestHeader{}, domain.ErrInvalidID
		}
		if err == pgx.ErrNoRows {
			return domain.RequestHeader{}, domain.ErrHeaderNotFound
		}
		return domain.RequestHeader{}, fmt.Errorf("get request header: %w", err)
	}
	return h, nil
}

const detailColumns = `id, header_id, group_name, quantity, room_type_hint, capacity_hint, equipment_hint, starts_at, ends_at, status, rejection_reason, created_at`

func scanDetail(row pgx.Row) (domain.RequestDetail, error) {
	var d domain.RequestDetail
	var status string
	err := row.Scan(&d.ID, &d.HeaderID, &d.GroupName, &d.Quantity, &d.RoomTypeHint, &d.CapacityHint,
		&d.EquipmentHint, &d.Window.Start, &d.Window.End, &status, &d.RejectionReason, &d.CreatedAt)
	if err != nil {
		return domain.RequestDetail{}, err
	}
	d.Status = domain.DetailStatus(status)
	return d, nil
}

func (r *BookingRepository) CreateDetail(ctx context.Context, d domain.RequestDetail) error {
	const stmt = `
INSERT INTO request_details (id, header_id, group_name, quantity, room_type_hint, capacity_hint, equipment_hint, starts_at, ends_at, status, rejection_reason, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

	_, err := r.exec(ctx, stmt, d.ID, d.HeaderID, d.GroupName, d.Quantity, d.RoomTypeHint, d.CapacityHint,
		d.EquipmentHint, d.Window.Start, d.Window.End, d.Status, d.RejectionReason, d.CreatedAt)
	if err != nil {
		if isInvalidUUID(err) {
			return domain.ErrInvalidID
		}
		return fmt.Errorf("create request detail: %w", err)
	}
	return nil
}

func (r *BookingRepository) GetDetailForUpdate(ctx context.Context, detailID string) (domain.RequestDetail, error) {
	query := `SELECT ` + detailColumns + ` FROM request_details WHERE id = $1 FOR UPDATE`

	d, err := scanDetail(r.queryRow(ctx, query, detailID))
	if err != nil {
		if isInvalidUUID(err) {
			return domain.RequestDetail{}, domain.ErrInvalidID
		}
		if err == pgx.ErrNoRows {
			return domain.RequestDetail{}, domain.ErrDetailNotFound
		}
		return domain.RequestDetail{}, fmt.Errorf("get request detail: %w", err)
	}
	return d, nil
}

func (r *BookingRepository) ListDetailsByHeader(ctx context.Context, headerID string) ([]domain.RequestDetail, error) {
	query := `SELECT ` + detailColumns + ` FROM request_details WHERE header_id = $1 ORDER BY created_at, id`

	rows, err := r.query(ctx, query, headerID)
	if err != nil {
		if isInvalidUUID(err) {
			return nil, domain.ErrInvalidID
		}
		return nil, fmt.Errorf("list request details: %w", err)
	}
	defer rows.Close()

	var out []domain.RequestDetail
	for rows.Next() {
		d, err := scanDetail(rows)
		if err != nil {
			return nil, fmt.Errorf("scan request detail: %w", err)
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		if isInvalidUUID(err) {
			return nil, domain.ErrInvalidID
		}
		return nil, fmt.Errorf("list request details: %w", err)
	}
	return out, nil
}

func (r *BookingRepository) UpdateDetail(ctx context.Context, d domain.RequestDetail) error {
	const stmt = `UPDATE request_details SET status = $2, rejection_reason = $3 WHERE id = $1`

	tag, err := r.exec(ctx, stmt, d.ID, d.Status, d.RejectionReason)
	if err != nil {
		return fmt.Errorf("update request detail: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrDetailNotFound
	}
	return nil
}
