package http

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/openuni/facility-booking/internal/app"
	"github.com/openuni/facility-booking/internal/domain"
)

func sampleRequestView() app.RequestView {
	win := domain.Interval{
		Start: time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC),
		End:   time.Date(2025, 3, 10, 11, 0, 0, 0, time.UTC),
	}
	return app.RequestView{
		Header: domain.RequestHeader{ID: "req-1", EventID: "event-1", Requester: "user-1", Note: "two tracks"},
		Status: domain.HeaderStatusFullyAllocated,
		Details: []app.DetailView{
			{
				Detail: domain.RequestDetail{
					ID: "detail-1", HeaderID: "req-1", GroupName: "workshops",
					Quantity: 1, Window: win, Status: domain.DetailStatusApproved,
				},
				Assignments: []domain.RoomAssignment{
					{ID: "assign-1", DetailID: "detail-1", RoomID: "room-1", Window: win, Lifecycle: domain.AssignmentActive},
				},
			},
		},
	}
}

func TestRequestHandlers(t *testing.T) {
	t.Parallel()

	view := sampleRequestView()

	validBody := `{"event_id":"event-1","note":"two tracks","details":[{"group_name":"workshops","quantity":1,"starts_at":"2025-03-10T09:00:00Z","ends_at":"2025-03-10T11:00:00Z"}]}`

	tests := []struct {
		name           string
		method         string
		path           string
		body           string
		serviceErr     error
		expectedStatus int
		expectedSubstr string
	}{
		{
			name:           "create",
			method:         http.MethodPost,
			path:           "/requests",
			body:           validBody,
			expectedStatus: http.StatusCreated,
			expectedSubstr: `"status":"fully_allocated"`,
		},
		{
			name:           "create without details",
			method:         http.MethodPost,
			path:           "/requests",
			body:           `{"event_id":"event-1","details":[]}`,
			expectedStatus: http.StatusBadRequest,
			expectedSubstr: `"code":"invalid_request_body"`,
		},
		{
			name:           "create with zero quantity",
			method:         http.MethodPost,
			path:           "/requests",
			body:           `{"event_id":"event-1","details":[{"quantity":0,"starts_at":"2025-03-10T09:00:00Z","ends_at":"2025-03-10T11:00:00Z"}]}`,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "create surfacing service-side validation",
			method:         http.MethodPost,
			path:           "/requests",
			body:           validBody,
			serviceErr:     domain.ErrInvalidInput,
			expectedStatus: http.StatusBadRequest,
			expectedSubstr: `"code":"invalid_input"`,
		},
		{
			name:           "create against unapproved event",
			method:         http.MethodPost,
			path:           "/requests",
			body:           validBody,
			serviceErr:     domain.ErrEventNotApproved,
			expectedStatus: http.StatusConflict,
			expectedSubstr: `"code":"event_not_approved"`,
		},
		{
			name:           "get",
			method:         http.MethodGet,
			path:           "/requests/req-1",
			expectedStatus: http.StatusOK,
			expectedSubstr: `"room_id":"room-1"`,
		},
		{
			name:           "get missing",
			method:         http.MethodGet,
			path:           "/requests/req-1",
			serviceErr:     domain.ErrHeaderNotFound,
			expectedStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			h := newTestRouter(Services{Bookings: &stubBookings{view: view, err: tt.serviceErr}})

			rec := doRequest(t, h, tt.method, tt.path, tt.body, "organizer")
			require.Equal(t, tt.expectedStatus, rec.Code)
			if tt.expectedSubstr != "" {
				require.Contains(t, rec.Body.String(), tt.expectedSubstr)
			}
		})
	}
}

func TestDetailHandlers(t *testing.T) {
	t.Parallel()

	detail := sampleRequestView().Details[0]

	tests := []struct {
		name           string
		path           string
		body           string
		serviceErr     error
		expectedStatus int
		expectedSubstr string
	}{
		{
			name:           "approve",
			path:           "/details/detail-1/approve",
			body:           `{"room_ids":["room-1"]}`,
			expectedStatus: http.StatusOK,
			expectedSubstr: `"status":"approved"`,
		},
		{
			name:           "approve without rooms",
			path:           "/details/detail-1/approve",
			body:           `{"room_ids":[]}`,
			expectedStatus: http.StatusBadRequest,
			expectedSubstr: `"code":"invalid_request_body"`,
		},
		{
			name:           "approve conflicting room",
			path:           "/details/detail-1/approve",
			body:           `{"room_ids":["room-9"]}`,
			serviceErr:     &domain.RoomConflictError{RoomID: "room-9"},
			expectedStatus: http.StatusConflict,
			expectedSubstr: `"room_id":"room-9"`,
		},
		{
			name:           "approve quantity mismatch",
			path:           "/details/detail-1/approve",
			body:           `{"room_ids":["room-1","room-2"]}`,
			serviceErr:     domain.ErrQuantityMismatch,
			expectedStatus: http.StatusBadRequest,
			expectedSubstr: `"code":"quantity_mismatch"`,
		},
		{
			name:           "approve during outage",
			path:           "/details/detail-1/approve",
			body:           `{"room_ids":["room-1"]}`,
			serviceErr:     domain.ErrStoreTransient,
			expectedStatus: http.StatusServiceUnavailable,
			expectedSubstr: `"code":"transient_store_error"`,
		},
		{
			name:           "reject",
			path:           "/details/detail-1/reject",
			body:           `{"reason":"no rooms free"}`,
			expectedStatus: http.StatusOK,
		},
		{
			name:           "reject without reason",
			path:           "/details/detail-1/reject",
			body:           `{}`,
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			h := newTestRouter(Services{Bookings: &stubBookings{detail: detail, err: tt.serviceErr}})

			rec := doRequest(t, h, http.MethodPost, tt.path, tt.body, "facilities")
			require.Equal(t, tt.expectedStatus, rec.Code)
			if tt.expectedSubstr != "" {
				require.Contains(t, rec.Body.String(), tt.expectedSubstr)
			}
		})
	}

	t.Run("approve forwards room ids", func(t *testing.T) {
		t.Parallel()
		svc := &stubBookings{detail: detail}
		h := newTestRouter(Services{Bookings: svc})

		rec := doRequest(t, h, http.MethodPost, "/details/detail-1/approve", `{"room_ids":["room-1","room-2"]}`, "facilities")
		require.Equal(t, http.StatusOK, rec.Code)
		require.Equal(t, []string{"room-1", "room-2"}, svc.roomIDs)
	})
}
