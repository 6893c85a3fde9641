package http

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/openuni/facility-booking/internal/app"
)

// BookingWorkflow is the slice of BookingService the request handlers need.
type BookingWorkflow interface {
	CreateRequest(ctx context.Context, in app.CreateRequestInput) (app.RequestView, error)
	GetRequest(ctx context.Context, headerID string) (app.RequestView, error)
	ApproveDetail(ctx context.Context, detailID string, roomIDs []string) (app.DetailView, error)
	RejectDetail(ctx context.Context, detailID, reason string) (app.DetailView, error)
}

type createRequestDetail struct {
	GroupName     string    `json:"group_name"`
	Quantity      int       `json:"quantity" validate:"required,gt=0"`
	RoomTypeHint  string    `json:"room_type_hint"`
	CapacityHint  int       `json:"capacity_hint"`
	EquipmentHint string    `json:"equipment_hint"`
	StartsAt      time.Time `json:"starts_at" validate:"required"`
	EndsAt        time.Time `json:"ends_at" validate:"required"`
}

type createRequestRequest struct {
	EventID string                `json:"event_id" validate:"required"`
	Note    string                `json:"note"`
	Details []createRequestDetail `json:"details" validate:"required,min=1,dive"`
}

type assignmentResponse struct {
	ID        string    `json:"id"`
	RoomID    string    `json:"room_id"`
	StartsAt  time.Time `json:"starts_at"`
	EndsAt    time.Time `json:"ends_at"`
	Lifecycle string    `json:"lifecycle"`
}

type detailResponse struct {
	ID              string               `json:"id"`
	GroupName       string               `json:"group_name"`
	Quantity        int                  `json:"quantity"`
	StartsAt        time.Time            `json:"starts_at"`
	EndsAt          time.Time            `json:"ends_at"`
	Status          string               `json:"status"`
	RejectionReason string               `json:"rejection_reason,omitempty"`
	Assignments     []assignmentResponse `json:"assignments"`
}

type requestResponse struct {
	ID      string           `json:"id"`
	EventID string           `json:"event_id"`
	Status  string           `json:"status"`
	Note    string           `json:"note,omitempty"`
	Details []detailResponse `json:"details"`
}

func toDetailResponse(view app.DetailView) detailResponse {
	d := view.Detail
	resp := detailResponse{
		ID:              d.ID,
		GroupName:       d.GroupName,
		Quantity:        d.Quantity,
		StartsAt:        d.Window.Start,
		EndsAt:          d.Window.End,
		Status:          string(d.Status),
		RejectionReason: d.RejectionReason,
		Assignments:     make([]assignmentResponse, 0, len(view.Assignments)),
	}
	for _, a := range view.Assignments {
		resp.Assignments = append(resp.Assignments, assignmentResponse{
			ID:        a.ID,
			RoomID:    a.RoomID,
			StartsAt:  a.Window.Start,
			EndsAt:    a.Window.End,
			Lifecycle: string(a.Lifecycle),
		})
	}
	return resp
}

func toRequestResponse(view app.RequestView) requestResponse {
	resp := requestResponse{
		ID:      view.Header.ID,
		EventID: view.Header.EventID,
		Status:  string(view.Status),
		Note:    view.Header.Note,
		Details: make([]detailResponse, 0, len(view.Details)),
	}
	for _, d := range view.Details {
		resp.Details = append(resp.Details, toDetailResponse(d))
	}
	return resp
}

func HandleCreateRequest(svc BookingWorkflow) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createRequestRequest
		if !decodeJSON(w, r, &req) {
			return
		}

		in := app.CreateRequestInput{EventID: req.EventID, Note: req.Note}
		for _, d := range req.Details {
			in.Details = append(in.Details, app.CreateDetailInput{
				GroupName:     d.GroupName,
				Quantity:      d.Quantity,
				RoomTypeHint:  d.RoomTypeHint,
				CapacityHint:  d.CapacityHint,
				EquipmentHint: d.EquipmentHint,
				StartsAt:      d.StartsAt,
				EndsAt:        d.EndsAt,
			})
		}

		view, err := svc.CreateRequest(r.Context(), in)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, toRequestResponse(view))
	}
}

func HandleGetRequest(svc BookingWorkflow) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		view, err := svc.GetRequest(r.Context(), chi.URLParam(r, "requestID"))
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toRequestResponse(view))
	}
}

type approveDetailRequest struct {
	RoomIDs []string `json:"room_ids" validate:"required,min=1"`
}

func HandleApproveDetail(svc BookingWorkflow) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req approveDetailRequest
		if !decodeJSON(w, r, &req) {
			return
		}

		view, err := svc.ApproveDetail(r.Context(), chi.URLParam(r, "detailID"), req.RoomIDs)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toDetailResponse(view))
	}
}

func HandleRejectDetail(svc BookingWorkflow) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req rejectRequest
		if !decodeJSON(w, r, &req) {
			return
		}

		view, err := svc.RejectDetail(r.Context(), chi.URLParam(r, "detailID"), req.Reason)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toDetailResponse(view))
	}
}
