package entity

import "time"

// 系统内置角色名
const (
	RoleAdmin  = "admin"
	RoleEditor = "editor"
	RoleUser   = "user"
)

// Permission 表示一个 module.action 形式的细粒度权限。
type Permission struct {
	ID          uint      `gorm:"primarykey" json:"id"`
	CreatedAt   time.Time `json:"created_at"`
	Code        string    `gorm:"column:code;type:varchar(100);uniqueIndex;not null" json:"code"`
	Name        string    `gorm:"column:name;type:varchar(100);not null" json:"name"`
	Module      string    `gorm:"column:module;type:varchar(50);index;not null" json:"module"`
	Action      string    `gorm:"column:action;type:varchar(50);not null" json:"action"`
	Description string    `gorm:"column:description;type:varchar(255)" json:"description"`
}

// TableName overrides default table name.
func (Permission) TableName() string {
	return "permissions"
}

// Role 绑定一组权限；系统角色不可修改或删除。
type Role struct {
	ID          uint         `gorm:"primarykey" json:"id"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
	Name        string       `gorm:"column:name;type:varchar(50);uniqueIndex;not null" json:"name"`
	Description string       `gorm:"column:description;type:varchar(255)" json:"description"`
	IsSystem    bool         `gorm:"column:is_system;not null;default:false" json:"is_system"`
	Permissions []Permission `gorm:"many2many:role_permissions;constraint:OnDelete:CASCADE" json:"permissions,omitempty"`
}

// TableName overrides default table name.
func (Role) TableName() string {
	return "roles"
}

// PermissionCodes 返回角色持有的权限代码。
func (r *Role) PermissionCodes() []string {
	if r == nil {
		return nil
	}
	codes := make([]string, 0, len(r.Permissions))
	for _, perm := range r.Permissions {
		codes = append(codes, perm.Code)
	}
	return codes
}

// RoleSummary 是角色列表项，附带持有该角色的用户数。
type RoleSummary struct {
	Role
	UserCount int64 `json:"user_count"`
}

type RoleQuery struct {
	BaseParams
}

type RoleRequest struct {
	Name            string   `json:"name" form:"name" binding:"required,max=50"`
	Description     string   `json:"description" form:"description" binding:"max=255"`
	PermissionCodes []string `json:"permissions" form:"permissions"`
}

// PermissionGroup 按模块分组的权限列表。
type PermissionGroup struct {
	Module      string       `json:"module"`
	Permissions []Permission `json:"permissions"`
}
