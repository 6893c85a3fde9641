package http

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/openuni/facility-booking/internal/app"
	"github.com/openuni/facility-booking/internal/domain"
)

// EventWorkflow is the slice of EventService the event handlers need.
type EventWorkflow interface {
	CreateEvent(ctx context.Context, in app.CreateEventInput) (domain.Event, error)
	GetEvent(ctx context.Context, eventID string) (domain.Event, error)
	Submit(ctx context.Context, eventID string) (domain.Event, error)
	Approve(ctx context.Context, eventID string) (domain.Event, error)
	Reject(ctx context.Context, eventID, reason string) (domain.Event, error)
	Start(ctx context.Context, eventID string) (domain.Event, error)
	Complete(ctx context.Context, eventID string) (domain.Event, error)
}

type eventResponse struct {
	ID              string    `json:"id"`
	Title           string    `json:"title"`
	HostingUnit     string    `json:"hosting_unit"`
	StartsAt        time.Time `json:"starts_at"`
	EndsAt          time.Time `json:"ends_at"`
	Status          string    `json:"status"`
	RejectionReason string    `json:"rejection_reason,omitempty"`
	CreatedBy       string    `json:"created_by"`
}

func toEventResponse(e domain.Event) eventResponse {
	return eventResponse{
		ID:              e.ID,
		Title:           e.Title,
		HostingUnit:     e.HostingUnit,
		StartsAt:        e.StartsAt,
		EndsAt:          e.EndsAt,
		Status:          string(e.Status),
		RejectionReason: e.RejectionReason,
		CreatedBy:       e.CreatedBy,
	}
}

type createEventRequest struct {
	Title       string    `json:"title" validate:"required"`
	HostingUnit string    `json:"hosting_unit"`
	StartsAt    time.Time `json:"starts_at" validate:"required"`
	EndsAt      time.Time `json:"ends_at" validate:"required"`
}

func HandleCreateEvent(svc EventWorkflow) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createEventRequest
		if !decodeJSON(w, r, &req) {
			return
		}

		event, err := svc.CreateEvent(r.Context(), app.CreateEventInput{
			Title:       req.Title,
			HostingUnit: req.HostingUnit,
			StartsAt:    req.StartsAt,
			EndsAt:      req.EndsAt,
		})
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, toEventResponse(event))
	}
}

func HandleGetEvent(svc EventWorkflow) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		event, err := svc.GetEvent(r.Context(), chi.URLParam(r, "eventID"))
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toEventResponse(event))
	}
}

type rejectRequest struct {
	Reason string `json:"reason" validate:"required"`
}

// HandleEventTransition serves the submit/approve/start/complete transitions,
// which all take an empty body. The transition is a method expression on
// EventWorkflow, resolved per request rather than at router construction.
func HandleEventTransition(svc EventWorkflow, transition func(EventWorkflow, context.Context, string) (domain.Event, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		event, err := transition(svc, r.Context(), chi.URLParam(r, "eventID"))
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toEventResponse(event))
	}
}

func HandleRejectEvent(svc EventWorkflow) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req rejectRequest
		if !decodeJSON(w, r, &req) {
			return
		}

		event, err := svc.Reject(r.Context(), chi.URLParam(r, "eventID"), req.Reason)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toEventResponse(event))
	}
}
