package http

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/openuni/facility-booking/internal/app"
	"github.com/openuni/facility-booking/internal/domain"
)

// ChangeWorkflow is the slice of ChangeService the change handlers need.
type ChangeWorkflow interface {
	CreateChange(ctx context.Context, in app.CreateChangeInput) (domain.RoomChangeRequest, error)
	GetChange(ctx context.Context, changeID string) (domain.RoomChangeRequest, error)
	ApproveChange(ctx context.Context, changeID, newRoomID string) (app.ApproveChangeResult, error)
	RejectChange(ctx context.Context, changeID, reason string) (domain.RoomChangeRequest, error)
}

type changeResponse struct {
	ID               string `json:"id"`
	DetailID         string `json:"detail_id"`
	FromAssignmentID string `json:"from_assignment_id"`
	Reason           string `json:"reason"`
	DesiredRoomID    string `json:"desired_room_id,omitempty"`
	Status           string `json:"status"`
	RejectionReason  string `json:"rejection_reason,omitempty"`
}

func toChangeResponse(c domain.RoomChangeRequest) changeResponse {
	return changeResponse{
		ID:               c.ID,
		DetailID:         c.DetailID,
		FromAssignmentID: c.FromAssignmentID,
		Reason:           c.Reason,
		DesiredRoomID:    c.DesiredRoomID,
		Status:           string(c.Status),
		RejectionReason:  c.RejectionReason,
	}
}

type createChangeRequest struct {
	FromAssignmentID string `json:"from_assignment_id" validate:"required"`
	Reason           string `json:"reason" validate:"required"`
	DesiredRoomID    string `json:"desired_room_id"`
}

func HandleCreateChange(svc ChangeWorkflow) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createChangeRequest
		if !decodeJSON(w, r, &req) {
			return
		}

		change, err := svc.CreateChange(r.Context(), app.CreateChangeInput{
			FromAssignmentID: req.FromAssignmentID,
			Reason:           req.Reason,
			DesiredRoomID:    req.DesiredRoomID,
		})
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, toChangeResponse(change))
	}
}

func HandleGetChange(svc ChangeWorkflow) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		change, err := svc.GetChange(r.Context(), chi.URLParam(r, "changeID"))
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toChangeResponse(change))
	}
}

type approveChangeRequest struct {
	NewRoomID string `json:"new_room_id"`
}

type approveChangeResponse struct {
	Change        changeResponse     `json:"change"`
	NewAssignment assignmentResponse `json:"new_assignment"`
	OldAssignment assignmentResponse `json:"old_assignment"`
}

func HandleApproveChange(svc ChangeWorkflow) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req approveChangeRequest
		if !decodeJSON(w, r, &req) {
			return
		}

		result, err := svc.ApproveChange(r.Context(), chi.URLParam(r, "changeID"), req.NewRoomID)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, approveChangeResponse{
			Change: toChangeResponse(result.Change),
			NewAssignment: assignmentResponse{
				ID:        result.NewAssignment.ID,
				RoomID:    result.NewAssignment.RoomID,
				StartsAt:  result.NewAssignment.Window.Start,
				EndsAt:    result.NewAssignment.Window.End,
				Lifecycle: string(result.NewAssignment.Lifecycle),
			},
			OldAssignment: assignmentResponse{
				ID:        result.OldAssignment.ID,
				RoomID:    result.OldAssignment.RoomID,
				StartsAt:  result.OldAssignment.Window.Start,
				EndsAt:    result.OldAssignment.Window.End,
				Lifecycle: string(result.OldAssignment.Lifecycle),
			},
		})
	}
}

func HandleRejectChange(svc ChangeWorkflow) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req rejectRequest
		if !decodeJSON(w, r, &req) {
			return
		}

		change, err := svc.RejectChange(r.Context(), chi.URLParam(r, "changeID"), req.Reason)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toChangeResponse(change))
	}
}
