package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/openuni/facility-booking/internal/domain"
)

// GetRoomForUpdate loads a catalog room and takes its row lock. Every
// allocation path locks the room before scanning active assignments, so two
// writers for the same room serialize at this point.
func (s store) GetRoomForUpdate(ctx context.Context, roomID string) (domain.Room, error) {
	const query = `SELECT id, name, building, room_type, capacity FROM rooms WHERE id = $1 FOR UPDATE`
	return s.getRoom(ctx, query, roomID)
}

func (s store) getRoom(ctx context.Context, query, roomID string) (domain.Room, error) {
	var room domain.Room
	err := s.queryRow(ctx, query, roomID).
		Scan(&room.ID, &room.Name, &room.Building, &room.RoomType, &room.Capacity)
	if err != nil {
		if isInvalidUUID(err) {
			return domain.Room{}, domain.ErrInvalidID
		}
		if err == pgx.ErrNoRows {
			return domain.Room{}, domain.ErrRoomNotFound
		}
		return domain.Room{}, fmt.Errorf("get room: %w", err)
	}
	return room, nil
}

// RoomRepository is the read-only view of the externally managed room catalog.
type RoomRepository struct {
	store
}

func NewRoomRepository(pool *pgxpool.Pool, opts ...StoreOption) *RoomRepository {
	return &RoomRepository{store: newStore(pool, opts...)}
}

func (r *RoomRepository) GetRoom(ctx context.Context, roomID string) (domain.Room, error) {
	const query = `SELECT id, name, building, room_type, capacity FROM rooms WHERE id = $1`
	return r.getRoom(ctx, query, roomID)
}

func (r *RoomRepository) ListRooms(ctx context.Context) ([]domain.Room, error) {
	const query = `SELECT id, name, building, room_type, capacity FROM rooms ORDER BY building, name`

	rows, err := r.query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list rooms: %w", err)
	}
	defer rows.Close()

	var out []domain.Room
	for rows.Next() {
		var room domain.Room
		if err := rows.Scan(&room.ID, &room.Name, &room.Building, &room.RoomType, &room.Capacity); err != nil {
			return nil, fmt.Errorf("scan room: %w", err)
		}
		out = append(out, room)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list rooms: %w", err)
	}
	return out, nil
}
