package model

import (
	"context"
	"time"

	"labelhub/internal/entity"
)

// Repository 定义数据库操作接口
type Repository interface {
	// 用户管理
	CreateUser(ctx context.Context, user *entity.User) error
	UpdateUser(ctx context.Context, id uint, updates entity.UserUpdates) error
	GetUserByLogin(ctx context.Context, identifier string) (*entity.User, error)
	GetUserByID(ctx context.Context, id uint) (*entity.User, error)
	ListUsers(ctx context.Context, params *entity.UserQuery) ([]entity.User, *entity.Meta, error)
	DeleteUser(ctx context.Context, id uint) error
	CountUsers(ctx context.Context) (int64, error)
	CountUsersWithRole(ctx context.Context, roleID uint) (int64, error)
	AssignLegacyRoles(ctx context.Context, roleIDs map[string]uint) (int64, error)

	// 会话
	CreateSession(ctx context.Context, session *entity.Session) error
	GetSessionByHash(ctx context.Context, tokenHash string) (*entity.Session, error)
	TouchSession(ctx context.Context, id uint, at time.Time) error
	DeleteSessionByHash(ctx context.Context, tokenHash string) error
	DeleteExpiredSessions(ctx context.Context, now time.Time) (int64, error)

	// 角色与权限
	ListPermissions(ctx context.Context) ([]entity.Permission, error)
	EnsurePermission(ctx context.Context, permission *entity.Permission) error
	ListRoles(ctx context.Context, params *entity.RoleQuery) ([]entity.RoleSummary, *entity.Meta, error)
	GetRole(ctx context.Context, id uint) (*entity.Role, error)
	GetRoleByName(ctx context.Context, name string) (*entity.Role, error)
	CreateRole(ctx context.Context, role *entity.Role, codes []string) error
	UpdateRole(ctx context.Context, id uint, updates entity.RoleUpdates, codes []string) error
	GrantPermissions(ctx context.Context, roleID uint, codes []string) error
	DeleteRole(ctx context.Context, id uint) error

	// 内容统计
	IncrementNewsViews(ctx context.Context, id uint) error
	DashboardStats(ctx context.Context, now time.Time, limit int) (*entity.DashboardStats, error)
	ListGalleryImages(ctx context.Context) ([]entity.GalleryImage, error)

	// 内容存储
	Stores() *Stores
}

// ContentStore 是单个内容表的通用存储接口
type ContentStore[T any] interface {
	List(ctx context.Context, q entity.ListQuery) ([]T, *entity.Meta, error)
	Get(ctx context.Context, id uint) (*T, error)
	Create(ctx context.Context, item *T) error
	Save(ctx context.Context, item *T) error
	Delete(ctx context.Context, id uint) error
	DependentFiles(ctx context.Context, id uint) ([]string, error)
	SlugExists(ctx context.Context, slug string, excludeID uint) (bool, error)
}

// Stores 汇总各内容模块的存储
type Stores struct {
	Artists   ContentStore[entity.Artist]
	Members   ContentStore[entity.Member]
	Albums    ContentStore[entity.Album]
	Tracks    ContentStore[entity.Track]
	Singles   ContentStore[entity.Track]
	Events    ContentStore[entity.Event]
	News      ContentStore[entity.News]
	Services  ContentStore[entity.Service]
	Staff     ContentStore[entity.StaffMember]
	Documents ContentStore[entity.Document]
}
