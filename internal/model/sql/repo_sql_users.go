package sql

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"labelhub/internal/entity"

	"gorm.io/gorm"
)

// tables whose owner column is nulled when a user is deleted
var userOwnedColumns = []struct {
	table  string
	column string
}{
	{"artists", "created_by"},
	{"artist_members", "created_by"},
	{"albums", "created_by"},
	{"tracks", "created_by"},
	{"events", "created_by"},
	{"services", "created_by"},
	{"staff", "created_by"},
	{"news", "author_id"},
	{"documents", "uploaded_by"},
}

// CreateUser persists a new user record.
func (r *GormRepository) CreateUser(ctx context.Context, user *entity.User) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("repository not initialised")
	}
	if user == nil {
		return fmt.Errorf("user is nil")
	}
	return r.db.WithContext(ctx).Omit("Role").Create(user).Error
}

// UpdateUser updates an existing user entry.
func (r *GormRepository) UpdateUser(ctx context.Context, id uint, updates entity.UserUpdates) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("repository not initialised")
	}
	if id == 0 {
		return fmt.Errorf("invalid user")
	}
	if updates.IsEmpty() {
		return nil
	}
	return r.db.WithContext(ctx).Model(&entity.User{}).Where("id = ?", id).Updates(updates.ToMap()).Error
}

// GetUserByLogin loads a user by username, falling back to email. Both
// comparisons are case-insensitive.
func (r *GormRepository) GetUserByLogin(ctx context.Context, identifier string) (*entity.User, error) {
	if r == nil || r.db == nil {
		return nil, fmt.Errorf("repository not initialised")
	}
	trimmed := strings.ToLower(strings.TrimSpace(identifier))
	if trimmed == "" {
		return nil, gorm.ErrRecordNotFound
	}

	var user entity.User
	err := r.db.WithContext(ctx).Preload("Role.Permissions").Where("LOWER(username) = ?", trimmed).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		err = r.db.WithContext(ctx).Preload("Role.Permissions").Where("LOWER(email) = ?", trimmed).First(&user).Error
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetUserByID loads a user by ID together with role permissions.
func (r *GormRepository) GetUserByID(ctx context.Context, id uint) (*entity.User, error) {
	if r == nil || r.db == nil {
		return nil, fmt.Errorf("repository not initialised")
	}
	if id == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	var user entity.User
	if err := r.db.WithContext(ctx).Preload("Role.Permissions").First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// ListUsers returns paginated users.
func (r *GormRepository) ListUsers(ctx context.Context, params *entity.UserQuery) ([]entity.User, *entity.Meta, error) {
	if r == nil || r.db == nil {
		return nil, nil, fmt.Errorf("repository not initialised")
	}

	query := r.db.WithContext(ctx).Model(&entity.User{})
	page, pageSize := 1, 20
	if params != nil {
		if params.RoleID > 0 {
			query = query.Where("role_id = ?", params.RoleID)
		}
		if keyword := strings.TrimSpace(params.Keyword); keyword != "" {
			cond, args := keywordClause([]string{"username", "email", "display_name"}, keyword)
			query = query.Where(cond, args...)
		}
		page, pageSize = int(params.Page), int(params.PageSize)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, nil, err
	}

	page, pageSize, offset := paginate(page, pageSize)
	users := make([]entity.User, 0)
	if err := query.Preload("Role").Order("username ASC").Offset(offset).Limit(pageSize).Find(&users).Error; err != nil {
		return nil, nil, err
	}

	return users, newMeta(total, page, pageSize), nil
}

// DeleteUser removes a user. Content the user created is kept with its owner
// column nulled; sessions are removed.
func (r *GormRepository) DeleteUser(ctx context.Context, id uint) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("repository not initialised")
	}
	if id == 0 {
		return fmt.Errorf("invalid user id")
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, owned := range userOwnedColumns {
			if err := tx.Table(owned.table).Where(owned.column+" = ?", id).Update(owned.column, nil).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("user_id = ?", id).Delete(&entity.Session{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&entity.User{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

// CountUsers returns total user count.
func (r *GormRepository) CountUsers(ctx context.Context) (int64, error) {
	if r == nil || r.db == nil {
		return 0, fmt.Errorf("repository not initialised")
	}
	var count int64
	if err := r.db.WithContext(ctx).Model(&entity.User{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CountUsersWithRole returns how many users hold roleID.
func (r *GormRepository) CountUsersWithRole(ctx context.Context, roleID uint) (int64, error) {
	if r == nil || r.db == nil {
		return 0, fmt.Errorf("repository not initialised")
	}
	var count int64
	if err := r.db.WithContext(ctx).Model(&entity.User{}).Where("role_id = ?", roleID).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// AssignLegacyRoles gives every user without a role the role mapped to its
// legacy tier and returns the number of users updated.
func (r *GormRepository) AssignLegacyRoles(ctx context.Context, roleIDs map[string]uint) (int64, error) {
	if r == nil || r.db == nil {
		return 0, fmt.Errorf("repository not initialised")
	}
	var updated int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for tier, roleID := range roleIDs {
			result := tx.Model(&entity.User{}).
				Where("role_id IS NULL AND legacy_role = ?", tier).
				Update("role_id", roleID)
			if result.Error != nil {
				return result.Error
			}
			updated += result.RowsAffected
		}
		return nil
	})
	return updated, err
}

// CreateSession stores a new login session.
func (r *GormRepository) CreateSession(ctx context.Context, session *entity.Session) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("repository not initialised")
	}
	if session == nil {
		return fmt.Errorf("session is nil")
	}
	return r.db.WithContext(ctx).Omit("User").Create(session).Error
}

// GetSessionByHash loads a session by its token hash.
func (r *GormRepository) GetSessionByHash(ctx context.Context, tokenHash string) (*entity.Session, error) {
	if r == nil || r.db == nil {
		return nil, fmt.Errorf("repository not initialised")
	}
	var session entity.Session
	if err := r.db.WithContext(ctx).Where("token_hash = ?", tokenHash).First(&session).Error; err != nil {
		return nil, err
	}
	return &session, nil
}

// TouchSession records activity on a session.
func (r *GormRepository) TouchSession(ctx context.Context, id uint, at time.Time) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("repository not initialised")
	}
	return r.db.WithContext(ctx).Model(&entity.Session{}).Where("id = ?", id).UpdateColumn("last_seen_at", at).Error
}

// DeleteSessionByHash removes a session. Unknown hashes are ignored.
func (r *GormRepository) DeleteSessionByHash(ctx context.Context, tokenHash string) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("repository not initialised")
	}
	return r.db.WithContext(ctx).Where("token_hash = ?", tokenHash).Delete(&entity.Session{}).Error
}

// DeleteExpiredSessions purges sessions that expired before now.
func (r *GormRepository) DeleteExpiredSessions(ctx context.Context, now time.Time) (int64, error) {
	if r == nil || r.db == nil {
		return 0, fmt.Errorf("repository not initialised")
	}
	result := r.db.WithContext(ctx).Where("expires_at < ?", now).Delete(&entity.Session{})
	return result.RowsAffected, result.Error
}
