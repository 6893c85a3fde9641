package app

import (
	"context"

	"github.com/google/uuid"

	"github.com/openuni/facility-booking/internal/auth"
	"github.com/openuni/facility-booking/internal/domain"
)

func newID() string {
	return uuid.NewString()
}

// requireRole resolves the caller identity from the context and checks the
// role needed for the transition. Authentication itself happens upstream.
func requireRole(ctx context.Context, role auth.Role) (auth.Identity, error) {
	id, ok := auth.FromContext(ctx)
	if !ok || !id.Has(role) {
		return auth.Identity{}, domain.ErrForbidden
	}
	return id, nil
}
