package auth

import (
	"strings"

	"labelhub/internal/entity"
)

// Permission actions.
const (
	ActionCreate = "create"
	ActionRead   = "read"
	ActionUpdate = "update"
	ActionDelete = "delete"
	ActionManage = "manage"
)

// PermissionCode joins a module and an action into "module.action".
func PermissionCode(module, action string) string {
	return module + "." + action
}

func actionOf(code string) string {
	idx := strings.LastIndex(code, ".")
	if idx < 0 {
		return ""
	}
	return code[idx+1:]
}

// GrantKind tags the variant of a Grant.
type GrantKind string

const (
	GrantAll    GrantKind = "all"
	GrantRole   GrantKind = "role"
	GrantLegacy GrantKind = "legacy"
)

// Grant is the set of permissions a principal holds, resolved once per request.
type Grant interface {
	Kind() GrantKind
	Allows(code string) bool
}

// AllPermissions is held by administrators.
type AllPermissions struct{}

func (AllPermissions) Kind() GrantKind        { return GrantAll }
func (AllPermissions) Allows(code string) bool { return code != "" }

// RoleGrant holds the permission codes of an assigned role.
type RoleGrant struct {
	Role  string
	Codes map[string]struct{}
}

// NewRoleGrant builds a RoleGrant from a role and its loaded permissions.
func NewRoleGrant(role *entity.Role) RoleGrant {
	grant := RoleGrant{Role: role.Name, Codes: make(map[string]struct{}, len(role.Permissions))}
	for _, code := range role.PermissionCodes() {
		grant.Codes[code] = struct{}{}
	}
	return grant
}

func (g RoleGrant) Kind() GrantKind { return GrantRole }

func (g RoleGrant) Allows(code string) bool {
	_, ok := g.Codes[code]
	return ok
}

// LegacyTier applies to accounts without a role: every tier may read, editors
// may also create and update.
type LegacyTier struct {
	Tier string
}

func (g LegacyTier) Kind() GrantKind { return GrantLegacy }

func (g LegacyTier) Allows(code string) bool {
	switch actionOf(code) {
	case ActionRead:
		return true
	case ActionCreate, ActionUpdate:
		return g.Tier == entity.LegacyRoleEditor || g.Tier == entity.LegacyRoleAdmin
	case "":
		return false
	default:
		return g.Tier == entity.LegacyRoleAdmin
	}
}

// ResolveGrant picks the grant variant for user. The role, when assigned, must
// be loaded with its permissions.
func ResolveGrant(user *entity.User) Grant {
	if user == nil {
		return RoleGrant{}
	}
	if strings.EqualFold(user.LegacyRole, entity.LegacyRoleAdmin) {
		return AllPermissions{}
	}
	if user.Role != nil {
		if strings.EqualFold(user.Role.Name, entity.RoleAdmin) {
			return AllPermissions{}
		}
		return NewRoleGrant(user.Role)
	}
	return LegacyTier{Tier: strings.ToLower(user.LegacyRole)}
}
