package service

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"labelhub/internal/auth"
	"labelhub/internal/entity"
	"labelhub/internal/model"

	"github.com/sirupsen/logrus"
)

const (
	permRolesManage       = "roles.manage"
	permPermissionsManage = "permissions.manage"
)

// RoleService manages roles and their permission sets.
type RoleService struct {
	repo model.Repository
}

// NewRoleService creates a RoleService.
func NewRoleService(repo model.Repository) *RoleService {
	return &RoleService{repo: repo}
}

// List returns roles with the number of users holding each.
func (s *RoleService) List(ctx context.Context, p *auth.Principal, query *entity.RoleQuery) ([]entity.RoleSummary, *entity.Meta, error) {
	if err := requirePermission(p, permRolesManage); err != nil {
		return nil, nil, err
	}
	roles, meta, err := s.repo.ListRoles(ctx, query)
	if err != nil {
		return nil, nil, translate(err)
	}
	return roles, meta, nil
}

// Get loads one role with its permissions.
func (s *RoleService) Get(ctx context.Context, p *auth.Principal, id uint) (*entity.Role, error) {
	if err := requirePermission(p, permRolesManage); err != nil {
		return nil, err
	}
	role, err := s.repo.GetRole(ctx, id)
	if err != nil {
		return nil, translate(err)
	}
	return role, nil
}

// Permissions returns the catalog grouped by module.
func (s *RoleService) Permissions(ctx context.Context, p *auth.Principal) ([]entity.PermissionGroup, error) {
	if !p.HasPermission(permRolesManage) && !p.HasPermission(permPermissionsManage) {
		return nil, forbidden("missing permission %s", permPermissionsManage)
	}
	permissions, err := s.repo.ListPermissions(ctx)
	if err != nil {
		return nil, translate(err)
	}
	return GroupPermissions(permissions), nil
}

// GroupPermissions groups permissions by module, modules in name order.
func GroupPermissions(permissions []entity.Permission) []entity.PermissionGroup {
	index := make(map[string]int)
	groups := make([]entity.PermissionGroup, 0)
	for _, perm := range permissions {
		i, ok := index[perm.Module]
		if !ok {
			i = len(groups)
			index[perm.Module] = i
			groups = append(groups, entity.PermissionGroup{Module: perm.Module})
		}
		groups[i].Permissions = append(groups[i].Permissions, perm)
	}
	sort.SliceStable(groups, func(a, b int) bool { return groups[a].Module < groups[b].Module })
	return groups
}

// Create adds a custom role.
func (s *RoleService) Create(ctx context.Context, p *auth.Principal, req entity.RoleRequest) (*entity.Role, error) {
	if err := requirePermission(p, permRolesManage); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, &ValidationError{Field: "name", Message: "is required"}
	}
	role := &entity.Role{Name: name, Description: strings.TrimSpace(req.Description)}
	if err := s.repo.CreateRole(ctx, role, req.PermissionCodes); err != nil {
		return nil, translate(err)
	}
	logrus.WithFields(logrus.Fields{"role": role.Name, "by": p.UserID()}).Info("role created")
	return s.repo.GetRole(ctx, role.ID)
}

// Update renames a custom role and replaces its permissions. A nil
// permission list leaves the grants unchanged.
func (s *RoleService) Update(ctx context.Context, p *auth.Principal, id uint, req entity.RoleRequest) (*entity.Role, error) {
	role, err := s.Get(ctx, p, id)
	if err != nil {
		return nil, err
	}
	if role.IsSystem {
		return nil, forbidden("system role %q cannot be modified", role.Name)
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, &ValidationError{Field: "name", Message: "is required"}
	}
	description := strings.TrimSpace(req.Description)
	updates := entity.RoleUpdates{Name: &name, Description: &description}
	if err := s.repo.UpdateRole(ctx, id, updates, req.PermissionCodes); err != nil {
		return nil, translate(err)
	}
	return s.repo.GetRole(ctx, id)
}

// Delete removes a custom role that no user holds.
func (s *RoleService) Delete(ctx context.Context, p *auth.Principal, id uint) error {
	role, err := s.Get(ctx, p, id)
	if err != nil {
		return err
	}
	if role.IsSystem {
		return forbidden("system role %q cannot be deleted", role.Name)
	}
	holders, err := s.repo.CountUsersWithRole(ctx, id)
	if err != nil {
		return translate(err)
	}
	if holders > 0 {
		return &ValidationError{Field: "role", Message: fmt.Sprintf("role is assigned to %d user(s)", holders)}
	}
	if err := s.repo.DeleteRole(ctx, id); err != nil {
		return translate(err)
	}
	logrus.WithFields(logrus.Fields{"role": role.Name, "by": p.UserID()}).Info("role deleted")
	return nil
}
