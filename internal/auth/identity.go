package auth

import "context"

// Role is the coarse permission set granted by the upstream auth layer. The
// engine never authenticates anybody; it only checks which transitions a
// caller's roles allow.
type Role string

const (
	RoleOrganizer  Role = "organizer"
	RoleFacilities Role = "facilities"
	RoleManagement Role = "management"
	RoleAdmin      Role = "admin"
)

// Identity is the caller as asserted by the gateway.
type Identity struct {
	Subject string
	Roles   []Role
}

// Has reports whether the identity carries the role. Admin implies all roles.
func (id Identity) Has(role Role) bool {
	for _, r := range id.Roles {
		if r == role || r == RoleAdmin {
			return true
		}
	}
	return false
}

type identityKey struct{}

func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

func FromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey{}).(Identity)
	return id, ok
}
