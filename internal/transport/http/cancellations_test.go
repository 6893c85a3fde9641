package http

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/openuni/facility-booking/internal/app"
	"github.com/openuni/facility-booking/internal/domain"
)

func TestCancellationHandlers(t *testing.T) {
	t.Parallel()

	cancellation := domain.CancellationRequest{
		ID:      "cancel-1",
		EventID: "event-1",
		Reason:  "speaker unavailable",
		Status:  domain.CancellationStatusPending,
	}
	cascade := app.ApproveCancellationResult{
		Request: domain.CancellationRequest{
			ID: "cancel-1", EventID: "event-1", Status: domain.CancellationStatusApproved, ApproverNote: "refund deposits",
		},
		Event:         domain.Event{ID: "event-1", Status: domain.EventStatusCancelled},
		ReleasedRooms: 3,
	}

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
			path:           "/cancellations",
			body:           `{"event_id":"event-1","reason":"speaker unavailable"}`,
			expectedStatus: http.StatusCreated,
			expectedSubstr: `"status":"pending"`,
		},
		{
			name:           "create without reason",
			method:         http.MethodPost,
			path:           "/cancellations",
			body:           `{"event_id":"event-1"}`,
			expectedStatus: http.StatusBadRequest,
			expectedSubstr: `"code":"invalid_request_body"`,
		},
		{
			name:           "create duplicate",
			method:         http.MethodPost,
			path:           "/cancellations",
			body:           `{"event_id":"event-1","reason":"speaker unavailable"}`,
			serviceErr:     domain.ErrDuplicateCancellation,
			expectedStatus: http.StatusConflict,
			expectedSubstr: `"code":"duplicate_cancellation_request"`,
		},
		{
			name:           "get",
			method:         http.MethodGet,
			path:           "/cancellations/cancel-1",
			expectedStatus: http.StatusOK,
			expectedSubstr: `"reason":"speaker unavailable"`,
		},
		{
			name:           "get missing",
			method:         http.MethodGet,
			path:           "/cancellations/cancel-1",
			serviceErr:     domain.ErrCancellationNotFound,
			expectedStatus: http.StatusNotFound,
		},
		{
			name:           "reject",
			method:         http.MethodPost,
			path:           "/cancellations/cancel-1/reject",
			body:           `{"reason":"event already announced"}`,
			expectedStatus: http.StatusOK,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			h := newTestRouter(Services{Cancellations: &stubCancellations{cancellation: cancellation, result: cascade, err: tt.serviceErr}})

			rec := doRequest(t, h, tt.method, tt.path, tt.body, "organizer", "management")
			require.Equal(t, tt.expectedStatus, rec.Code)
			if tt.expectedSubstr != "" {
				require.Contains(t, rec.Body.String(), tt.expectedSubstr)
			}
		})
	}

	t.Run("approve reports the cascade", func(t *testing.T) {
		t.Parallel()
		h := newTestRouter(Services{Cancellations: &stubCancellations{result: cascade}})

		rec := doRequest(t, h, http.MethodPost, "/cancellations/cancel-1/approve", `{"note":"refund deposits"}`, "management")
		require.Equal(t, http.StatusOK, rec.Code)
		body := rec.Body.String()
		require.Contains(t, body, `"event_status":"cancelled"`)
		require.Contains(t, body, `"released_rooms":3`)
	})
}
