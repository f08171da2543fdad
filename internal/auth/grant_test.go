package auth

import (
	"testing"

	"labelhub/internal/entity"
)

func roleWith(name string, codes ...string) *entity.Role {
	role := &entity.Role{Name: name}
	for _, code := range codes {
		role.Permissions = append(role.Permissions, entity.Permission{Code: code})
	}
	return role
}

func TestResolveGrant(t *testing.T) {
	tests := []struct {
		name string
		user *entity.User
		want GrantKind
	}{
		{name: "legacy admin", user: &entity.User{LegacyRole: entity.LegacyRoleAdmin}, want: GrantAll},
		{name: "admin role", user: &entity.User{LegacyRole: entity.LegacyRoleUser, Role: roleWith("admin")}, want: GrantAll},
		{name: "custom role", user: &entity.User{LegacyRole: entity.LegacyRoleEditor, Role: roleWith("press")}, want: GrantRole},
		{name: "legacy editor", user: &entity.User{LegacyRole: entity.LegacyRoleEditor}, want: GrantLegacy},
		{name: "legacy user", user: &entity.User{LegacyRole: entity.LegacyRoleUser}, want: GrantLegacy},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ResolveGrant(tt.user).Kind(); got != tt.want {
				t.Fatalf("expected %s grant, got %s", tt.want, got)
			}
		})
	}
}

func TestPrincipalHasPermission(t *testing.T) {
	editor := NewPrincipal(&entity.User{ID: 1, IsActive: true, LegacyRole: entity.LegacyRoleEditor})
	user := NewPrincipal(&entity.User{ID: 2, IsActive: true, LegacyRole: entity.LegacyRoleUser})
	press := NewPrincipal(&entity.User{ID: 3, IsActive: true, Role: roleWith("press", "news.create", "news.delete")})
	admin := NewPrincipal(&entity.User{ID: 4, IsActive: true, LegacyRole: entity.LegacyRoleAdmin})
	inactive := NewPrincipal(&entity.User{ID: 5, IsActive: false, LegacyRole: entity.LegacyRoleAdmin})

	tests := []struct {
		name      string
		principal *Principal
		code      string
		want      bool
	}{
		{"editor reads", editor, "artists.read", true},
		{"editor creates", editor, "news.create", true},
		{"editor updates", editor, "news.update", true},
		{"editor cannot delete news", editor, "news.delete", false},
		{"editor cannot manage roles", editor, "roles.manage", false},
		{"user reads", user, "albums.read", true},
		{"user cannot create", user, "albums.create", false},
		{"role grant listed code", press, "news.delete", true},
		{"role grant unlisted code", press, "news.read", false},
		{"admin anything", admin, "system.manage", true},
		{"inactive admin", inactive, "artists.read", false},
		{"nil principal", nil, "artists.read", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.principal.HasPermission(tt.code); got != tt.want {
				t.Fatalf("HasPermission(%q) = %v, want %v", tt.code, got, tt.want)
			}
		})
	}
}

func TestPrincipalStanding(t *testing.T) {
	admin := NewPrincipal(&entity.User{ID: 1, IsActive: true, Role: roleWith("admin")})
	if !admin.IsAdmin() || !admin.IsEditor() {
		t.Fatal("expected admin role to be admin and editor")
	}

	editor := NewPrincipal(&entity.User{ID: 2, IsActive: true, Role: roleWith("editor", "news.update")})
	if editor.IsAdmin() || !editor.IsEditor() {
		t.Fatal("expected editor role to be editor only")
	}
	if !editor.Elevated("news") || editor.Elevated("artists") {
		t.Fatal("expected elevation to follow the module update permission")
	}

	user := NewPrincipal(&entity.User{ID: 3, IsActive: true, LegacyRole: entity.LegacyRoleUser})
	if user.IsEditor() || user.Elevated("news") {
		t.Fatal("expected plain user to have no elevated standing")
	}
	if !user.Owns(3) || user.Owns(0) || user.Owns(4) {
		t.Fatal("unexpected ownership result")
	}

	var anonymous *Principal
	if anonymous.IsAuthenticated() || anonymous.UserID() != 0 {
		t.Fatal("expected nil principal to be anonymous")
	}
}
