package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/openuni/facility-booking/internal/domain"
)

const (
	codeInvalidRequestBody     = "invalid_request_body"
	codeInvalidRange           = "invalid_range"
	codeInvalidInput           = "invalid_input"
	codeReasonRequired         = "reason_required"
	codeQuantityMismatch       = "quantity_mismatch"
	codeInvalidID              = "invalid_id"
	codeForbidden              = "forbidden"
	codeNotFound               = "not_found"
	codeRoomConflict           = "room_conflict"
	codeAssignmentNotActive    = "assignment_not_active"
	codeDuplicateCancellation  = "duplicate_cancellation_request"
	codeInvalidStateTransition = "invalid_state_transition"
	codeEventNotApproved       = "event_not_approved"
	codeTransientStoreError    = "transient_store_error"
	codeInternalError          = "internal_error"
)

type errorResponse struct {
	Error  string `json:"error"`
	Code   string `json:"code"`
	RoomID string `json:"room_id,omitempty"`
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	writeErrorResponse(w, status, errorResponse{Error: msg, Code: code})
}

func writeErrorResponse(w http.ResponseWriter, status int, resp errorResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	payload, err := json.Marshal(resp)
	if err != nil {
		_, _ = w.Write([]byte(`{"error":"internal error","code":"internal_error"}`))
		return
	}
	_, _ = w.Write(payload)
}

// writeDomainError maps engine errors to stable external error codes.
func writeDomainError(w http.ResponseWriter, err error) {
	var conflict *domain.RoomConflictError
	if errors.As(err, &conflict) {
		writeErrorResponse(w, http.StatusConflict, errorResponse{
			Error:  conflict.Error(),
			Code:   codeRoomConflict,
			RoomID: conflict.RoomID,
		})
		return
	}

	var invalid validator.ValidationErrors
	if errors.As(err, &invalid) {
		writeError(w, http.StatusBadRequest, codeInvalidRequestBody, invalid.Error())
		return
	}

	switch {
	case errors.Is(err, domain.ErrInvalidRange):
		writeError(w, http.StatusBadRequest, codeInvalidRange, err.Error())
	case errors.Is(err, domain.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, codeInvalidInput, err.Error())
	case errors.Is(err, domain.ErrReasonRequired):
		writeError(w, http.StatusBadRequest, codeReasonRequired, err.Error())
	case errors.Is(err, domain.ErrQuantityMismatch):
		writeError(w, http.StatusBadRequest, codeQuantityMismatch, err.Error())
	case errors.Is(err, domain.ErrInvalidID):
		writeError(w, http.StatusBadRequest, codeInvalidID, err.Error())
	case errors.Is(err, domain.ErrForbidden):
		writeError(w, http.StatusForbidden, codeForbidden, err.Error())
	case errors.Is(err, domain.ErrEventNotFound),
		errors.Is(err, domain.ErrRoomNotFound),
		errors.Is(err, domain.ErrHeaderNotFound),
		errors.Is(err, domain.ErrDetailNotFound),
		errors.Is(err, domain.ErrAssignmentNotFound),
		errors.Is(err, domain.ErrChangeRequestNotFound),
		errors.Is(err, domain.ErrCancellationNotFound):
		writeError(w, http.StatusNotFound, codeNotFound, err.Error())
	case errors.Is(err, domain.ErrRoomConflict):
		writeError(w, http.StatusConflict, codeRoomConflict, err.Error())
	case errors.Is(err, domain.ErrAssignmentNotActive):
		writeError(w, http.StatusConflict, codeAssignmentNotActive, err.Error())
	case errors.Is(err, domain.ErrDuplicateCancellation):
		writeError(w, http.StatusConflict, codeDuplicateCancellation, err.Error())
	case errors.Is(err, domain.ErrInvalidStateTransition):
		writeError(w, http.StatusConflict, codeInvalidStateTransition, err.Error())
	case errors.Is(err, domain.ErrEventNotApproved):
		writeError(w, http.StatusConflict, codeEventNotApproved, err.Error())
	case errors.Is(err, domain.ErrStoreTransient):
		writeError(w, http.StatusServiceUnavailable, codeTransientStoreError, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
	}
}
