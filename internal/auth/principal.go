package auth

import (
	"strings"

	"labelhub/internal/entity"
)

// Principal is the authenticated caller of a request.
type Principal struct {
	User      *entity.User
	Grant     Grant
	SessionID uint
}

// NewPrincipal resolves the grant of user.
func NewPrincipal(user *entity.User) *Principal {
	return &Principal{User: user, Grant: ResolveGrant(user)}
}

// IsAuthenticated reports whether the principal carries a user.
func (p *Principal) IsAuthenticated() bool {
	return p != nil && p.User != nil && p.User.ID != 0
}

// UserID returns the id of the user, zero for anonymous callers.
func (p *Principal) UserID() uint {
	if !p.IsAuthenticated() {
		return 0
	}
	return p.User.ID
}

// HasPermission reports whether the principal's grant allows code.
func (p *Principal) HasPermission(code string) bool {
	if !p.IsAuthenticated() || p.Grant == nil || !p.User.IsActive {
		return false
	}
	return p.Grant.Allows(code)
}

// Can is shorthand for HasPermission(PermissionCode(module, action)).
func (p *Principal) Can(module, action string) bool {
	return p.HasPermission(PermissionCode(module, action))
}

// Elevated reports whether the principal sees rows of module owned by others.
func (p *Principal) Elevated(module string) bool {
	return p.Can(module, ActionUpdate)
}

// IsAdmin reports whether the principal holds every permission.
func (p *Principal) IsAdmin() bool {
	return p.IsAuthenticated() && p.Grant != nil && p.Grant.Kind() == GrantAll
}

// IsEditor reports editor or administrator standing.
func (p *Principal) IsEditor() bool {
	if p.IsAdmin() {
		return true
	}
	if !p.IsAuthenticated() {
		return false
	}
	switch grant := p.Grant.(type) {
	case LegacyTier:
		return grant.Tier == entity.LegacyRoleEditor
	case RoleGrant:
		return strings.EqualFold(grant.Role, entity.RoleEditor)
	}
	return false
}

// Owns reports whether the principal created a row owned by ownerID.
func (p *Principal) Owns(ownerID uint) bool {
	return ownerID != 0 && ownerID == p.UserID()
}
