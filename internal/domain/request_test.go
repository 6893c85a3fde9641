package domain

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRequestDetailTransitions(t *testing.T) {
	t.Parallel()

	t.Run("approve pending", func(t *testing.T) {
		d, err := RequestDetail{Status: DetailStatusPending}.Approve()
		require.NoError(t, err)
		require.Equal(t, DetailStatusApproved, d.Status)
	})

	t.Run("reject pending records reason", func(t *testing.T) {
		d, err := RequestDetail{Status: DetailStatusPending}.Reject("no projector available")
		require.NoError(t, err)
		require.Equal(t, DetailStatusRejected, d.Status)
		require.Equal(t, "no projector available", d.RejectionReason)
	})

	t.Run("reject without reason", func(t *testing.T) {
		_, err := RequestDetail{Status: DetailStatusPending}.Reject("")
		require.ErrorIs(t, err, ErrReasonRequired)
	})

	t.Run("terminal states are final", func(t *testing.T) {
		for _, s := range []DetailStatus{DetailStatusApproved, DetailStatusRejected} {
			_, err := RequestDetail{Status: s}.Approve()
			require.ErrorIs(t, err, ErrInvalidStateTransition)
			_, err = RequestDetail{Status: s}.Reject("late")
			require.ErrorIs(t, err, ErrInvalidStateTransition)
			require.True(t, s.Terminal())
		}
		require.False(t, DetailStatusPending.Terminal())
	})
}

func TestAggregateHeaderStatus(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		details []DetailStatus
		want    HeaderStatus
	}{
		{"no details", nil, HeaderStatusPending},
		{"all pending", []DetailStatus{DetailStatusPending, DetailStatusPending}, HeaderStatusPending},
		{"one pending outweighs resolved", []DetailStatus{DetailStatusApproved, DetailStatusRejected, DetailStatusPending}, HeaderStatusPending},
		{"all approved", []DetailStatus{DetailStatusApproved, DetailStatusApproved}, HeaderStatusFullyAllocated},
		{"mixed resolved", []DetailStatus{DetailStatusApproved, DetailStatusRejected}, HeaderStatusPartiallyAllocated},
		{"all rejected", []DetailStatus{DetailStatusRejected, DetailStatusRejected}, HeaderStatusRejected},
		{"single approved", []DetailStatus{DetailStatusApproved}, HeaderStatusFullyAllocated},
		{"single rejected", []DetailStatus{DetailStatusRejected}, HeaderStatusRejected},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, AggregateHeaderStatus(tc.details))
		})
	}
}

func TestChangeRequestTransitions(t *testing.T) {
	t.Parallel()

	t.Run("approve pending", func(t *testing.T) {
		c, err := RoomChangeRequest{Status: ChangeStatusPending}.Approve()
		require.NoError(t, err)
		require.Equal(t, ChangeStatusApproved, c.Status)
	})

	t.Run("reject requires reason", func(t *testing.T) {
		_, err := RoomChangeRequest{Status: ChangeStatusPending}.Reject("")
		require.ErrorIs(t, err, ErrReasonRequired)
	})

	t.Run("terminal states are final", func(t *testing.T) {
		for _, s := range []ChangeStatus{ChangeStatusApproved, ChangeStatusRejected} {
			_, err := RoomChangeRequest{Status: s}.Approve()
			require.ErrorIs(t, err, ErrInvalidStateTransition)
			_, err = RoomChangeRequest{Status: s}.Reject("moved")
			require.ErrorIs(t, err, ErrInvalidStateTransition)
		}
	})
}

func TestCancellationRequestTransitions(t *testing.T) {
	t.Parallel()

	t.Run("approve keeps note", func(t *testing.T) {
		c, err := CancellationRequest{Status: CancellationStatusPending}.Approve("speaker unavailable")
		require.NoError(t, err)
		require.Equal(t, CancellationStatusApproved, c.Status)
		require.Equal(t, "speaker unavailable", c.ApproverNote)
	})

	t.Run("approve accepts empty note", func(t *testing.T) {
		c, err := CancellationRequest{Status: CancellationStatusPending}.Approve("")
		require.NoError(t, err)
		require.Equal(t, CancellationStatusApproved, c.Status)
	})

	t.Run("reject requires reason", func(t *testing.T) {
		_, err := CancellationRequest{Status: CancellationStatusPending}.Reject("")
		require.ErrorIs(t, err, ErrReasonRequired)
	})

	t.Run("terminal states are final", func(t *testing.T) {
		for _, s := range []CancellationStatus{CancellationStatusApproved, CancellationStatusRejected} {
			_, err := CancellationRequest{Status: s}.Approve("again")
			require.ErrorIs(t, err, ErrInvalidStateTransition)
			_, err = CancellationRequest{Status: s}.Reject("again")
			require.ErrorIs(t, err, ErrInvalidStateTransition)
		}
	})
}
