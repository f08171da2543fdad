package sql

import (
	"context"
	"fmt"
	"strings"

	"labelhub/internal/entity"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ListPermissions returns every permission ordered by module and action.
func (r *GormRepository) ListPermissions(ctx context.Context) ([]entity.Permission, error) {
	if r == nil || r.db == nil {
		return nil, fmt.Errorf("repository not initialised")
	}
	permissions := make([]entity.Permission, 0)
	if err := r.db.WithContext(ctx).Order("module ASC, action ASC").Find(&permissions).Error; err != nil {
		return nil, err
	}
	return permissions, nil
}

// EnsurePermission inserts the permission unless its code already exists.
func (r *GormRepository) EnsurePermission(ctx context.Context, permission *entity.Permission) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("repository not initialised")
	}
	if permission == nil || strings.TrimSpace(permission.Code) == "" {
		return fmt.Errorf("invalid permission")
	}
	return r.db.WithContext(ctx).
		Where(entity.Permission{Code: permission.Code}).
		Attrs(entity.Permission{Name: permission.Name, Module: permission.Module, Action: permission.Action, Description: permission.Description}).
		FirstOrCreate(permission).Error
}

func findPermissions(tx *gorm.DB, codes []string) ([]entity.Permission, error) {
	unique := make([]string, 0, len(codes))
	seen := make(map[string]struct{}, len(codes))
	for _, code := range codes {
		code = strings.TrimSpace(code)
		if code == "" {
			continue
		}
		if _, ok := seen[code]; ok {
			continue
		}
		seen[code] = struct{}{}
		unique = append(unique, code)
	}
	permissions := make([]entity.Permission, 0, len(unique))
	if len(unique) == 0 {
		return permissions, nil
	}
	if err := tx.Where("code IN ?", unique).Find(&permissions).Error; err != nil {
		return nil, err
	}
	if len(permissions) != len(unique) {
		return nil, entity.Invalid("permissions", "unknown permission code")
	}
	return permissions, nil
}

// ListRoles returns paginated roles with their permissions and user counts.
func (r *GormRepository) ListRoles(ctx context.Context, params *entity.RoleQuery) ([]entity.RoleSummary, *entity.Meta, error) {
	if r == nil || r.db == nil {
		return nil, nil, fmt.Errorf("repository not initialised")
	}

	query := r.db.WithContext(ctx).Model(&entity.Role{})
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, nil, err
	}

	page, pageSize := 1, 50
	if params != nil {
		page, pageSize = int(params.Page), int(params.PageSize)
	}
	page, pageSize, offset := paginate(page, pageSize)

	var roles []entity.Role
	if err := query.Preload("Permissions").Order("is_system DESC, name ASC").Offset(offset).Limit(pageSize).Find(&roles).Error; err != nil {
		return nil, nil, err
	}

	var counts []struct {
		RoleID uint
		Total  int64
	}
	if err := r.db.WithContext(ctx).Model(&entity.User{}).
		Select("role_id, COUNT(*) AS total").
		Where("role_id IS NOT NULL").
		Group("role_id").
		Scan(&counts).Error; err != nil {
		return nil, nil, err
	}
	byRole := make(map[uint]int64, len(counts))
	for _, row := range counts {
		byRole[row.RoleID] = row.Total
	}

	summaries := make([]entity.RoleSummary, 0, len(roles))
	for _, role := range roles {
		summaries = append(summaries, entity.RoleSummary{Role: role, UserCount: byRole[role.ID]})
	}
	return summaries, newMeta(total, page, pageSize), nil
}

// GetRole loads a role with its permissions.
func (r *GormRepository) GetRole(ctx context.Context, id uint) (*entity.Role, error) {
	if r == nil || r.db == nil {
		return nil, fmt.Errorf("repository not initialised")
	}
	var role entity.Role
	if err := r.db.WithContext(ctx).Preload("Permissions").First(&role, id).Error; err != nil {
		return nil, err
	}
	return &role, nil
}

// GetRoleByName loads a role by its unique name.
func (r *GormRepository) GetRoleByName(ctx context.Context, name string) (*entity.Role, error) {
	if r == nil || r.db == nil {
		return nil, fmt.Errorf("repository not initialised")
	}
	var role entity.Role
	if err := r.db.WithContext(ctx).Preload("Permissions").Where("name = ?", strings.TrimSpace(name)).First(&role).Error; err != nil {
		return nil, err
	}
	return &role, nil
}

// CreateRole inserts a role and links the permissions named by codes.
func (r *GormRepository) CreateRole(ctx context.Context, role *entity.Role, codes []string) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("repository not initialised")
	}
	if role == nil {
		return fmt.Errorf("role is nil")
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		permissions, err := findPermissions(tx, codes)
		if err != nil {
			return err
		}
		if err := tx.Omit(clause.Associations).Create(role).Error; err != nil {
			return err
		}
		if len(permissions) == 0 {
			return nil
		}
		return tx.Model(role).Association("Permissions").Replace(permissions)
	})
}

// UpdateRole updates role fields. A nil codes slice leaves the permission set
// untouched; a non-nil slice replaces it.
func (r *GormRepository) UpdateRole(ctx context.Context, id uint, updates entity.RoleUpdates, codes []string) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("repository not initialised")
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var role entity.Role
		if err := tx.First(&role, id).Error; err != nil {
			return err
		}
		if !updates.IsEmpty() {
			if err := tx.Model(&role).Updates(updates.ToMap()).Error; err != nil {
				return err
			}
		}
		if codes == nil {
			return nil
		}
		permissions, err := findPermissions(tx, codes)
		if err != nil {
			return err
		}
		if len(permissions) == 0 {
			return tx.Model(&role).Association("Permissions").Clear()
		}
		return tx.Model(&role).Association("Permissions").Replace(permissions)
	})
}

// GrantPermissions adds the permissions named by codes to a role, keeping
// the ones it already holds.
func (r *GormRepository) GrantPermissions(ctx context.Context, roleID uint, codes []string) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("repository not initialised")
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var role entity.Role
		if err := tx.Preload("Permissions").First(&role, roleID).Error; err != nil {
			return err
		}
		permissions, err := findPermissions(tx, codes)
		if err != nil {
			return err
		}
		held := make(map[uint]struct{}, len(role.Permissions))
		for _, perm := range role.Permissions {
			held[perm.ID] = struct{}{}
		}
		missing := make([]entity.Permission, 0, len(permissions))
		for _, perm := range permissions {
			if _, ok := held[perm.ID]; !ok {
				missing = append(missing, perm)
			}
		}
		if len(missing) == 0 {
			return nil
		}
		return tx.Model(&role).Association("Permissions").Append(missing)
	})
}

// DeleteRole removes a role and its permission links.
func (r *GormRepository) DeleteRole(ctx context.Context, id uint) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("repository not initialised")
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM role_permissions WHERE role_id = ?", id).Error; err != nil {
			return err
		}
		result := tx.Delete(&entity.Role{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}
