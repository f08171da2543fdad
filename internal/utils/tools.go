package utils

import (
	"strings"

	"github.com/google/uuid"
)

// GenerateUUID returns a random v4 UUID as 32 lowercase hex characters.
func GenerateUUID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

// RandomHex returns n random lowercase hex characters.
func RandomHex(n int) string {
	if n <= 0 {
		return ""
	}
	// 只取每个 UUID 的前 12 位，避开版本号和变体位
	var builder strings.Builder
	builder.Grow(n + 12)
	for builder.Len() < n {
		builder.WriteString(GenerateUUID()[:12])
	}
	return builder.String()[:n]
}
