package sql

import (
	"fmt"
	"strings"

	"labelhub/internal/entity"

	"gorm.io/gorm"
)

// GormRepository implements Repository using GORM
type GormRepository struct {
	db *gorm.DB
}

// NewGormRepository creates a new repository instance
func NewGormRepository(db *gorm.DB) *GormRepository {
	return &GormRepository{db: db}
}

// DB exposes the underlying connection for content stores.
func (r *GormRepository) DB() *gorm.DB {
	return r.db
}

// paginate normalises page and page size and returns the row offset.
func paginate(page, pageSize int) (int, int, int) {
	if pageSize <= 0 {
		pageSize = 20
	}
	if page <= 0 {
		page = 1
	}
	return page, pageSize, (page - 1) * pageSize
}

// keywordClause builds "(LOWER(a) LIKE ? OR LOWER(b) LIKE ?)" for trusted column names.
func keywordClause(columns []string, keyword string) (string, []interface{}) {
	kw := "%" + strings.ToLower(strings.TrimSpace(keyword)) + "%"
	parts := make([]string, 0, len(columns))
	args := make([]interface{}, 0, len(columns))
	for _, column := range columns {
		parts = append(parts, fmt.Sprintf("LOWER(%s) LIKE ?", column))
		args = append(args, kw)
	}
	return "(" + strings.Join(parts, " OR ") + ")", args
}

func newMeta(total int64, page, pageSize int) *entity.Meta {
	return entity.NewMeta(total, page, pageSize)
}
