package entity

// Re-export common types from the common package.

import (
	"labelhub/internal/entity/common"
)

// Type aliases for common types
type StringArray = common.StringArray
type Meta = common.Meta
type BaseParams = common.BaseParams
type Flash = common.Flash

// Constants
const (
	FlashSuccess = common.FlashSuccess
	FlashDanger  = common.FlashDanger
	FlashWarning = common.FlashWarning
	FlashInfo    = common.FlashInfo
)

var (
	NewMeta   = common.NewMeta
	SplitTags = common.SplitTags
)
