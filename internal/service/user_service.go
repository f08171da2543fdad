package service

import (
	"context"
	"fmt"
	"strings"

	"labelhub/internal/auth"
	"labelhub/internal/entity"
	"labelhub/internal/model"

	"github.com/sirupsen/logrus"
)

const usersModule = "users"

// UserService manages back-office accounts.
type UserService struct {
	repo model.Repository
}

// NewUserService creates a UserService.
func NewUserService(repo model.Repository) *UserService {
	return &UserService{repo: repo}
}

func requirePermission(p *auth.Principal, code string) error {
	if !p.IsAuthenticated() {
		return forbidden("authentication required")
	}
	if !p.HasPermission(code) {
		return forbidden("missing permission %s", code)
	}
	return nil
}

// List returns users. Principals without users.update only see themselves.
func (s *UserService) List(ctx context.Context, p *auth.Principal, query *entity.UserQuery) ([]entity.User, *entity.Meta, error) {
	if err := requirePermission(p, auth.PermissionCode(usersModule, auth.ActionRead)); err != nil {
		return nil, nil, err
	}
	if !p.Elevated(usersModule) {
		self, err := s.repo.GetUserByID(ctx, p.UserID())
		if err != nil {
			return nil, nil, translate(err)
		}
		return []entity.User{*self}, entity.NewMeta(1, 1, 1), nil
	}
	users, meta, err := s.repo.ListUsers(ctx, query)
	if err != nil {
		return nil, nil, translate(err)
	}
	return users, meta, nil
}

// Get loads a user; principals without users.update may only load themselves.
func (s *UserService) Get(ctx context.Context, p *auth.Principal, id uint) (*entity.User, error) {
	if err := requirePermission(p, auth.PermissionCode(usersModule, auth.ActionRead)); err != nil {
		return nil, err
	}
	if !p.Elevated(usersModule) && id != p.UserID() {
		return nil, forbidden("user #%d is not visible", id)
	}
	user, err := s.repo.GetUserByID(ctx, id)
	if err != nil {
		return nil, translate(err)
	}
	return user, nil
}

// Create adds a new account.
func (s *UserService) Create(ctx context.Context, p *auth.Principal, req entity.UserCreateRequest) (*entity.User, error) {
	if err := requirePermission(p, auth.PermissionCode(usersModule, auth.ActionCreate)); err != nil {
		return nil, err
	}
	legacy := strings.ToLower(strings.TrimSpace(req.LegacyRole))
	if legacy == "" {
		legacy = entity.LegacyRoleUser
	}
	if err := s.checkRoleAssignment(ctx, p, legacy, req.RoleID); err != nil {
		return nil, err
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, &ValidationError{Field: "password", Message: err.Error()}
	}
	user := &entity.User{
		Username:     strings.TrimSpace(req.Username),
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		PasswordHash: hash,
		DisplayName:  strings.TrimSpace(req.DisplayName),
		LegacyRole:   legacy,
		RoleID:       req.RoleID,
		IsActive:     req.IsActive == nil || *req.IsActive,
	}
	if err := s.repo.CreateUser(ctx, user); err != nil {
		return nil, translate(err)
	}
	logrus.WithFields(logrus.Fields{"user_id": user.ID, "by": p.UserID()}).Info("user created")
	return s.repo.GetUserByID(ctx, user.ID)
}

// Update changes an account. Principals may edit their own profile and
// password; role, tier and status changes need users.update.
func (s *UserService) Update(ctx context.Context, p *auth.Principal, id uint, req entity.UserUpdateRequest) (*entity.User, error) {
	if !p.IsAuthenticated() {
		return nil, forbidden("authentication required")
	}
	self := id == p.UserID()
	canManage := p.HasPermission(auth.PermissionCode(usersModule, auth.ActionUpdate))
	if !canManage && !self {
		return nil, forbidden("missing permission users.update")
	}
	target, err := s.repo.GetUserByID(ctx, id)
	if err != nil {
		return nil, translate(err)
	}

	var updates entity.UserUpdates
	if req.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*req.Email))
		updates.Email = &email
	}
	if req.DisplayName != nil {
		name := strings.TrimSpace(*req.DisplayName)
		updates.DisplayName = &name
	}
	if req.Password != nil && *req.Password != "" {
		hash, err := auth.HashPassword(*req.Password)
		if err != nil {
			return nil, &ValidationError{Field: "password", Message: err.Error()}
		}
		updates.PasswordHash = &hash
	}

	roleChange := req.LegacyRole != nil || req.RoleID != nil || req.ClearRole
	if roleChange || req.IsActive != nil {
		if !canManage {
			return nil, forbidden("changing role or status requires users.update")
		}
	}
	if req.IsActive != nil {
		if self && !*req.IsActive {
			return nil, forbidden("you cannot deactivate your own account")
		}
		updates.IsActive = req.IsActive
	}
	if roleChange {
		legacy := target.LegacyRole
		if req.LegacyRole != nil {
			legacy = strings.ToLower(strings.TrimSpace(*req.LegacyRole))
			updates.LegacyRole = &legacy
		}
		roleID := target.RoleID
		switch {
		case req.ClearRole:
			roleID = nil
		case req.RoleID != nil:
			roleID = req.RoleID
		}
		updates.RoleID = &roleID
		if err := s.checkRoleAssignment(ctx, p, legacy, roleID); err != nil {
			return nil, err
		}
	}

	if err := s.repo.UpdateUser(ctx, id, updates); err != nil {
		return nil, translate(err)
	}
	return s.repo.GetUserByID(ctx, id)
}

// Toggle flips the active flag of another account.
func (s *UserService) Toggle(ctx context.Context, p *auth.Principal, id uint) (*entity.User, error) {
	if err := requirePermission(p, auth.PermissionCode(usersModule, auth.ActionUpdate)); err != nil {
		return nil, err
	}
	if id == p.UserID() {
		return nil, forbidden("you cannot deactivate your own account")
	}
	user, err := s.repo.GetUserByID(ctx, id)
	if err != nil {
		return nil, translate(err)
	}
	active := !user.IsActive
	if err := s.repo.UpdateUser(ctx, id, entity.UserUpdates{IsActive: &active}); err != nil {
		return nil, translate(err)
	}
	user.IsActive = active
	logrus.WithFields(logrus.Fields{"user_id": id, "active": active, "by": p.UserID()}).Info("user status changed")
	return user, nil
}

// Delete removes another account.
func (s *UserService) Delete(ctx context.Context, p *auth.Principal, id uint) error {
	if err := requirePermission(p, auth.PermissionCode(usersModule, auth.ActionDelete)); err != nil {
		return err
	}
	if id == p.UserID() {
		return forbidden("you cannot delete your own account")
	}
	if err := s.repo.DeleteUser(ctx, id); err != nil {
		return translate(err)
	}
	logrus.WithFields(logrus.Fields{"user_id": id, "by": p.UserID()}).Info("user deleted")
	return nil
}

// checkRoleAssignment validates the role and keeps administrator standing
// reserved to administrators.
func (s *UserService) checkRoleAssignment(ctx context.Context, p *auth.Principal, legacy string, roleID *uint) error {
	switch legacy {
	case entity.LegacyRoleUser, entity.LegacyRoleEditor, entity.LegacyRoleAdmin:
	default:
		return &ValidationError{Field: "legacy_role", Message: fmt.Sprintf("unknown tier %q", legacy)}
	}
	grantsAdmin := legacy == entity.LegacyRoleAdmin
	if roleID != nil {
		role, err := s.repo.GetRole(ctx, *roleID)
		if err != nil {
			return &ValidationError{Field: "role_id", Message: "role does not exist"}
		}
		grantsAdmin = grantsAdmin || strings.EqualFold(role.Name, entity.RoleAdmin)
	}
	if grantsAdmin && !p.IsAdmin() {
		return forbidden("only administrators can grant administrator access")
	}
	return nil
}
