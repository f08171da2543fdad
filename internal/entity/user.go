package entity

import "time"

// 旧版三级角色标签
const (
	LegacyRoleUser   = "user"
	LegacyRoleEditor = "editor"
	LegacyRoleAdmin  = "admin"
)

// User represents a persisted back-office account.
type User struct {
	ID           uint       `gorm:"primarykey" json:"id"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
	Username     string     `gorm:"column:username;type:varchar(80);uniqueIndex;not null" json:"username"`
	Email        string     `gorm:"column:email;type:varchar(120);uniqueIndex;not null" json:"email"`
	PasswordHash string     `gorm:"column:password_hash;type:varchar(255);not null" json:"-"`
	DisplayName  string     `gorm:"column:display_name;type:varchar(120)" json:"display_name"`
	LegacyRole   string     `gorm:"column:legacy_role;type:varchar(20);not null;default:user" json:"legacy_role"`
	RoleID       *uint      `gorm:"column:role_id;index" json:"role_id"`
	Role         *Role      `gorm:"foreignKey:RoleID;constraint:OnDelete:SET NULL" json:"role,omitempty"`
	IsActive     bool       `gorm:"column:is_active;not null;default:false" json:"is_active"`
	LastLoginAt  *time.Time `gorm:"column:last_login_at" json:"last_login_at"`
}

// TableName overrides default table name.
func (User) TableName() string {
	return "users"
}

// Session is a server-side login session. Only the token hash is stored.
type Session struct {
	ID         uint      `gorm:"primarykey" json:"id"`
	CreatedAt  time.Time `json:"created_at"`
	UserID     uint      `gorm:"column:user_id;index;not null" json:"user_id"`
	User       *User     `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	TokenHash  string    `gorm:"column:token_hash;type:varchar(64);uniqueIndex;not null" json:"-"`
	ExpiresAt  time.Time `gorm:"column:expires_at;index;not null" json:"expires_at"`
	LastSeenAt time.Time `gorm:"column:last_seen_at" json:"last_seen_at"`
	UserAgent  string    `gorm:"column:user_agent;type:varchar(255)" json:"user_agent"`
	ClientIP   string    `gorm:"column:client_ip;type:varchar(64)" json:"client_ip"`
}

// TableName overrides default table name.
func (Session) TableName() string {
	return "sessions"
}

// UserSummary is a lightweight user description returned to clients.
type UserSummary struct {
	ID          uint       `json:"id"`
	Username    string     `json:"username"`
	Email       string     `json:"email"`
	DisplayName string     `json:"display_name"`
	LegacyRole  string     `json:"legacy_role"`
	RoleID      *uint      `json:"role_id"`
	RoleName    string     `json:"role_name,omitempty"`
	IsActive    bool       `json:"is_active"`
	LastLoginAt *time.Time `json:"last_login_at"`
	CreatedAt   time.Time  `json:"created_at"`
}

// NewUserSummary converts a user row into its client representation.
func NewUserSummary(user *User) UserSummary {
	summary := UserSummary{
		ID:          user.ID,
		Username:    user.Username,
		Email:       user.Email,
		DisplayName: user.DisplayName,
		LegacyRole:  user.LegacyRole,
		RoleID:      user.RoleID,
		IsActive:    user.IsActive,
		LastLoginAt: user.LastLoginAt,
		CreatedAt:   user.CreatedAt,
	}
	if user.Role != nil {
		summary.RoleName = user.Role.Name
	}
	return summary
}

// UserQuery supports listing users with pagination.
type UserQuery struct {
	BaseParams
	RoleID  uint   `json:"role_id" form:"role_id"`
	Keyword string `json:"q" form:"q"`
}

type LoginRequest struct {
	Username string `json:"username" form:"username" binding:"required,min=3,max=120"`
	Password string `json:"password" form:"password" binding:"required"`
}

type LoginResponse struct {
	Token     string      `json:"token"`
	ExpiresAt time.Time   `json:"expires_at"`
	User      UserSummary `json:"user"`
	Flash     *Flash      `json:"flash,omitempty"`
}

type UserCreateRequest struct {
	Username    string `json:"username" form:"username" binding:"required,min=3,max=80"`
	Email       string `json:"email" form:"email" binding:"required,email,max=120"`
	Password    string `json:"password" form:"password" binding:"required,min=6"`
	DisplayName string `json:"display_name" form:"display_name" binding:"max=120"`
	LegacyRole  string `json:"legacy_role" form:"legacy_role" binding:"omitempty,oneof=user editor admin"`
	RoleID      *uint  `json:"role_id" form:"role_id"`
	IsActive    *bool  `json:"is_active" form:"is_active"`
}

type UserUpdateRequest struct {
	Email       *string `json:"email,omitempty" form:"email" binding:"omitempty,email,max=120"`
	DisplayName *string `json:"display_name,omitempty" form:"display_name" binding:"omitempty,max=120"`
	LegacyRole  *string `json:"legacy_role,omitempty" form:"legacy_role" binding:"omitempty,oneof=user editor admin"`
	RoleID      *uint   `json:"role_id,omitempty" form:"role_id"`
	ClearRole   bool    `json:"clear_role,omitempty" form:"clear_role"`
	Password    *string `json:"password,omitempty" form:"password" binding:"omitempty,min=6"`
	IsActive    *bool   `json:"is_active,omitempty" form:"is_active"`
}

type UserListResponse struct {
	Users []UserSummary `json:"users"`
	Meta  *Meta         `json:"meta"`
}
