package http

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/openuni/facility-booking/internal/app"
	"github.com/openuni/facility-booking/internal/domain"
)

// CancellationWorkflow is the slice of CancellationService the handlers need.
type CancellationWorkflow interface {
	CreateCancellation(ctx context.Context, in app.CreateCancellationInput) (domain.CancellationRequest, error)
	GetCancellation(ctx context.Context, requestID string) (domain.CancellationRequest, error)
	ApproveCancellation(ctx context.Context, requestID, note string) (app.ApproveCancellationResult, error)
	RejectCancellation(ctx context.Context, requestID, reason string) (domain.CancellationRequest, error)
}

type cancellationResponse struct {
	ID           string `json:"id"`
	EventID      string `json:"event_id"`
	Reason       string `json:"reason"`
	Status       string `json:"status"`
	ApproverNote string `json:"approver_note,omitempty"`
}

func toCancellationResponse(c domain.CancellationRequest) cancellationResponse {
	return cancellationResponse{
		ID:           c.ID,
		EventID:      c.EventID,
		Reason:       c.Reason,
		Status:       string(c.Status),
		ApproverNote: c.ApproverNote,
	}
}

type createCancellationRequest struct {
	EventID string `json:"event_id" validate:"required"`
	Reason  string `json:"reason" validate:"required"`
}

func HandleCreateCancellation(svc CancellationWorkflow) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createCancellationRequest
		if !decodeJSON(w, r, &req) {
			return
		}

		cancellation, err := svc.CreateCancellation(r.Context(), app.CreateCancellationInput{
			EventID: req.EventID,
			Reason:  req.Reason,
		})
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, toCancellationResponse(cancellation))
	}
}

func HandleGetCancellation(svc CancellationWorkflow) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cancellation, err := svc.GetCancellation(r.Context(), chi.URLParam(r, "cancellationID"))
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toCancellationResponse(cancellation))
	}
}

type approveCancellationRequest struct {
	Note string `json:"note"`
}

type approveCancellationResponse struct {
	Cancellation  cancellationResponse `json:"cancellation"`
	EventStatus   string               `json:"event_status"`
	ReleasedRooms int                  `json:"released_rooms"`
}

func HandleApproveCancellation(svc CancellationWorkflow) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req approveCancellationRequest
		if !decodeJSON(w, r, &req) {
			return
		}

		result, err := svc.ApproveCancellation(r.Context(), chi.URLParam(r, "cancellationID"), req.Note)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, approveCancellationResponse{
			Cancellation:  toCancellationResponse(result.Request),
			EventStatus:   string(result.Event.Status),
			ReleasedRooms: result.ReleasedRooms,
		})
	}
}

func HandleRejectCancellation(svc CancellationWorkflow) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req rejectRequest
		if !decodeJSON(w, r, &req) {
			return
		}

		cancellation, err := svc.RejectCancellation(r.Context(), chi.URLParam(r, "cancellationID"), req.Reason)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toCancellationResponse(cancellation))
	}
}
