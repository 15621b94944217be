package auth

import (
	"github.com/gofiber/fiber/v2"

	apperrors "github.com/spec-kit/music-catalog/pkg/util/errorutil"
)

// HasRole reports whether the principal carries the given role.
func (p *Principal) HasRole(role string) bool {
	for _, r := range p.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// requireRole is the role authorization guard, run after the authentication
// guard on routes whose policy names a role. It fails closed: a missing
// principal (authentication guard never ran) is rejected, never allowed.
func requireRole(role string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok {
			return apperrors.NewForbidden("authentication required")
		}
		if !principal.HasRole(role) {
			return apperrors.NewForbidden("insufficient role")
		}
		return c.Next()
	}
}
