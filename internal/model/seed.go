package model

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"strings"

	"labelhub/internal/auth"
	"labelhub/internal/config"
	"labelhub/internal/entity"

	"github.com/sirupsen/logrus"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
)

//go:embed catalog.yaml
var catalogYAML []byte

// Catalog 描述内置权限和系统角色
type Catalog struct {
	Actions []string `yaml:"actions"`
	Modules []struct {
		Name  string `yaml:"name"`
		Label string `yaml:"label"`
	} `yaml:"modules"`
	Extra []struct {
		Code        string `yaml:"code"`
		Name        string `yaml:"name"`
		Description string `yaml:"description"`
	} `yaml:"extra"`
	Roles []CatalogRole `yaml:"roles"`
}

// CatalogRole 是一个系统角色的定义
type CatalogRole struct {
	Name        string   `yaml:"name"`
	Description string   `yaml:"description"`
	All         bool     `yaml:"all"`
	Actions     []string `yaml:"actions"`
}

// LoadCatalog 解析内嵌的权限目录
func LoadCatalog() (*Catalog, error) {
	var catalog Catalog
	if err := yaml.Unmarshal(catalogYAML, &catalog); err != nil {
		return nil, fmt.Errorf("parse permission catalog: %w", err)
	}
	return &catalog, nil
}

// Permissions 展开目录中的全部权限
func (c *Catalog) Permissions() []entity.Permission {
	permissions := make([]entity.Permission, 0, len(c.Modules)*len(c.Actions)+len(c.Extra))
	for _, module := range c.Modules {
		for _, action := range c.Actions {
			permissions = append(permissions, entity.Permission{
				Code:        auth.PermissionCode(module.Name, action),
				Name:        fmt.Sprintf("%s %s", cases.Title(language.English).String(action), module.Label),
				Module:      module.Name,
				Action:      action,
				Description: fmt.Sprintf("%s %s", action, strings.ToLower(module.Label)),
			})
		}
	}
	for _, extra := range c.Extra {
		module, action, _ := strings.Cut(extra.Code, ".")
		permissions = append(permissions, entity.Permission{
			Code:        extra.Code,
			Name:        extra.Name,
			Module:      module,
			Action:      action,
			Description: extra.Description,
		})
	}
	return permissions
}

// RoleCodes 返回系统角色应持有的权限代码
func (c *Catalog) RoleCodes(role CatalogRole) []string {
	codes := make([]string, 0)
	for _, perm := range c.Permissions() {
		if role.All {
			codes = append(codes, perm.Code)
			continue
		}
		for _, action := range role.Actions {
			if perm.Action == action {
				codes = append(codes, perm.Code)
				break
			}
		}
	}
	return codes
}

// SeedCatalog 幂等地写入权限目录和系统角色，已有的自定义授权不会被移除
func SeedCatalog(ctx context.Context, repo Repository) error {
	if repo == nil {
		return nil
	}
	catalog, err := LoadCatalog()
	if err != nil {
		return err
	}

	for _, perm := range catalog.Permissions() {
		perm := perm
		if err := repo.EnsurePermission(ctx, &perm); err != nil {
			return fmt.Errorf("seed permission %s: %w", perm.Code, err)
		}
	}

	for _, def := range catalog.Roles {
		codes := catalog.RoleCodes(def)
		existing, err := repo.GetRoleByName(ctx, def.Name)
		switch {
		case err == nil:
			if err := repo.GrantPermissions(ctx, existing.ID, codes); err != nil {
				return fmt.Errorf("seed role %s: %w", def.Name, err)
			}
		case errors.Is(err, gorm.ErrRecordNotFound):
			role := &entity.Role{Name: def.Name, Description: def.Description, IsSystem: true}
			if err := repo.CreateRole(ctx, role, codes); err != nil {
				return fmt.Errorf("seed role %s: %w", def.Name, err)
			}
			logrus.WithField("role", def.Name).Info("system role created")
		default:
			return err
		}
	}
	return nil
}

// BootstrapAdmin 在用户表为空且配置了 ADMIN_PASSWORD 时创建初始管理员
func BootstrapAdmin(ctx context.Context, repo Repository, cfg config.Config) (bool, error) {
	if repo == nil || strings.TrimSpace(cfg.AdminPassword) == "" {
		return false, nil
	}
	count, err := repo.CountUsers(ctx)
	if err != nil {
		return false, err
	}
	if count > 0 {
		return false, nil
	}

	hash, err := auth.HashPassword(cfg.AdminPassword)
	if err != nil {
		return false, err
	}
	user := &entity.User{
		Username:     strings.TrimSpace(cfg.AdminUsername),
		Email:        strings.ToLower(strings.TrimSpace(cfg.AdminEmail)),
		PasswordHash: hash,
		DisplayName:  "Administrator",
		LegacyRole:   entity.LegacyRoleAdmin,
		IsActive:     true,
	}
	if role, err := repo.GetRoleByName(ctx, entity.RoleAdmin); err == nil {
		user.RoleID = &role.ID
	}
	if err := repo.CreateUser(ctx, user); err != nil {
		return false, fmt.Errorf("create admin user: %w", err)
	}
	logrus.WithField("username", user.Username).Info("bootstrap admin created")
	return true, nil
}

// MigrateLegacyRoles 为没有角色的用户分配与旧版等级同名的系统角色
func MigrateLegacyRoles(ctx context.Context, repo Repository) (int64, error) {
	if repo == nil {
		return 0, nil
	}
	roleIDs := make(map[string]uint, 3)
	for _, tier := range []string{entity.LegacyRoleAdmin, entity.LegacyRoleEditor, entity.LegacyRoleUser} {
		role, err := repo.GetRoleByName(ctx, tier)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return 0, fmt.Errorf("system role %q is missing, run seed first", tier)
			}
			return 0, err
		}
		roleIDs[tier] = role.ID
	}
	return repo.AssignLegacyRoles(ctx, roleIDs)
}
