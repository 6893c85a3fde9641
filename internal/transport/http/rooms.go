package http

import (
	"context"
	"net/http"

	"github.com/openuni/facility-booking/internal/domain"
)

// RoomCatalog is the read-only lookup into the externally managed catalog.
type RoomCatalog interface {
	ListRooms(ctx context.Context) ([]domain.Room, error)
}

type roomResponse struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Building string `json:"building"`
	RoomType string `json:"room_type"`
	Capacity int    `json:"capacity"`
}

func HandleListRooms(catalog RoomCatalog) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rooms, err := catalog.ListRooms(r.Context())
		if err != nil {
			writeDomainError(w, err)
			return
		}

		out := make([]roomResponse, 0, len(rooms))
		for _, room := range rooms {
			out = append(out, roomResponse{
				ID:       room.ID,
				Name:     room.Name,
				Building: room.Building,
				RoomType: room.RoomType,
				Capacity: room.Capacity,
			})
		}
		writeJSON(w, http.StatusOK, out)
	}
}
