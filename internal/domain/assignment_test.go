package domain

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAssignmentLifecycle(t *testing.T) {
	t.Parallel()

	t.Run("supersede active", func(t *testing.T) {
		a, err := RoomAssignment{Lifecycle: AssignmentActive}.Supersede()
		require.NoError(t, err)
		require.Equal(t, AssignmentSuperseded, a.Lifecycle)
		require.False(t, a.Active())
	})

	t.Run("release active", func(t *testing.T) {
		a, err := RoomAssignment{Lifecycle: AssignmentActive}.Release()
		require.NoError(t, err)
		require.Equal(t, AssignmentReleased, a.Lifecycle)
	})

	t.Run("retired assignments stay retired", func(t *testing.T) {
		for _, lc := range []AssignmentLifecycle{AssignmentSuperseded, AssignmentReleased} {
			_, err := RoomAssignment{Lifecycle: lc}.Supersede()
			require.ErrorIs(t, err, ErrAssignmentNotActive)
			_, err = RoomAssignment{Lifecycle: lc}.Release()
			require.ErrorIs(t, err, ErrAssignmentNotActive)
		}
	})
}
