package http

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/openuni/facility-booking/internal/auth"
)

func TestIdentity(t *testing.T) {
	t.Parallel()

	capture := func(got *auth.Identity, ok *bool) http.Handler {
		return http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
			*got, *ok = auth.FromContext(r.Context())
		})
	}

	t.Run("parses subject and roles", func(t *testing.T) {
		var got auth.Identity
		var ok bool

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-User-Id", "user-42")
		req.Header.Set("X-User-Roles", "organizer, facilities")
		Identity(capture(&got, &ok)).ServeHTTP(httptest.NewRecorder(), req)

		require.True(t, ok)
		require.Equal(t, "user-42", got.Subject)
		require.Equal(t, []auth.Role{auth.RoleOrganizer, auth.RoleFacilities}, got.Roles)
	})

	t.Run("no subject means no identity", func(t *testing.T) {
		var got auth.Identity
		var ok bool

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-User-Roles", "organizer")
		Identity(capture(&got, &ok)).ServeHTTP(httptest.NewRecorder(), req)

		require.False(t, ok)
	})

	t.Run("blank role entries are dropped", func(t *testing.T) {
		var got auth.Identity
		var ok bool

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-User-Id", "user-42")
		req.Header.Set("X-User-Roles", "organizer,,")
		Identity(capture(&got, &ok)).ServeHTTP(httptest.NewRecorder(), req)

		require.True(t, ok)
		require.Equal(t, []auth.Role{auth.RoleOrganizer}, got.Roles)
	})
}
