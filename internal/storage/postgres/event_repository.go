package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/openuni/facility-booking/internal/domain"
)

const eventColumns = `id, title, hosting_unit, starts_at, ends_at, status, rejection_reason, created_by, created_at`

func scanEvent(row pgx.Row) (domain.Event, error) {
	var e domain.Event
	var status string
	err := row.Scan(&e.ID, &e.Title, &e.HostingUnit, &e.StartsAt, &e.EndsAt, &status, &e.RejectionReason, &e.CreatedBy, &e.CreatedAt)
	if err != nil {
		return domain.Event{}, err
	}
	e.Status = domain.EventStatus(status)
	return e, nil
}

func (s store) GetEvent(ctx context.Context, eventID string) (domain.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE id = $1`
	return s.getEvent(ctx, query, eventID)
}

func (s store) GetEventForUpdate(ctx context.Context, eventID string) (domain.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE id = $1 FOR UPDATE`
	return s.getEvent(ctx, query, eventID)
}

func (s store) getEvent(ctx context.Context, query, eventID string) (domain.Event, error) {
	e, err := scanEvent(s.queryRow(ctx, query, eventID))
	if err != nil {
		if isInvalidUUID(err) {
			return domain.Event{}, domain.ErrInvalidID
		}
		if err == pgx.ErrNoRows {
			return domain.Event{}, domain.ErrEventNotFound
		}
		return domain.Event{}, fmt.Errorf("get event: %w", err)
	}
	return e, nil
}

func (s store) CreateEvent(ctx context.Context, e domain.Event) error {
	const stmt = `
INSERT INTO events (id, title, hosting_unit, starts_at, ends_at, status, rejection_reason, created_by, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := s.exec(ctx, stmt, e.ID, e.Title, e.HostingUnit, e.StartsAt, e.EndsAt, e.Status, e.RejectionReason, e.CreatedBy, e.CreatedAt)
	if err != nil {
		return fmt.Errorf("create event: %w", err)
	}
	return nil
}

func (s store) UpdateEvent(ctx context.Context, e domain.Event) error {
	const stmt = `UPDATE events SET status = $2, rejection_reason = $3 WHERE id = $1`

	tag, err := s.exec(ctx, stmt, e.ID, e.Status, e.RejectionReason)
	if err != nil {
		return fmt.Errorf("update event: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrEventNotFound
	}
	return nil
}

// EventRepository backs the event approval workflow.
type EventRepository struct {
	store
}

func NewEventRepository(pool *pgxpool.Pool, opts ...StoreOption) *EventRepository {
	return &EventRepository{store: newStore(pool, opts...)}
}
