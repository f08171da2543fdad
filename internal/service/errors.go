package service

import (
	"errors"
	"fmt"

	"labelhub/internal/entity"
	"labelhub/internal/storage"

	"gorm.io/gorm"
)

// 业务错误
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountDisabled    = errors.New("account disabled")
	ErrSessionExpired     = errors.New("session expired")
	ErrNotFound           = errors.New("not found")
	ErrForbidden          = errors.New("forbidden")
	ErrDuplicateKey       = errors.New("duplicate key")
)

// ValidationError 表示输入校验失败，Field 指向出错的字段。
type ValidationError = entity.ValidationError

// translate 将存储层错误映射为业务错误，其他错误原样返回。
func translate(err error) error {
	if err == nil {
		return nil
	}
	var validation *ValidationError
	switch {
	case errors.As(err, &validation):
		return err
	case errors.Is(err, gorm.ErrRecordNotFound), errors.Is(err, storage.ErrObjectNotFound):
		return fmt.Errorf("%w: %v", ErrNotFound, err)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return fmt.Errorf("%w: %v", ErrDuplicateKey, err)
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return &ValidationError{Message: "references a record that does not exist or is still in use"}
	}
	return err
}

// uploadError 将上传拒绝转换为指向槽位的校验错误。
func uploadError(slot string, err error) error {
	if errors.Is(err, storage.ErrRejected) {
		return &ValidationError{Field: slot, Message: err.Error()}
	}
	return err
}

func forbidden(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrForbidden, fmt.Sprintf(format, args...))
}

func notFound(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrNotFound, fmt.Sprintf(format, args...))
}
