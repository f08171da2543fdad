package entity

import (
	"strings"
	"time"
)

const (
	dateLayout     = "2006-01-02"
	dateTimeLayout = "2006-01-02T15:04"
)

var dateTimeLayouts = []string{time.RFC3339, dateTimeLayout, "2006-01-02 15:04", "2006-01-02 15:04:05"}

// parseDate 解析可选日期字段，空字符串返回 nil。
func parseDate(field, value string) (*time.Time, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil, nil
	}
	parsed, err := time.ParseInLocation(dateLayout, trimmed, time.UTC)
	if err != nil {
		return nil, Invalid(field, "expected date in YYYY-MM-DD format")
	}
	return &parsed, nil
}

// parseDateTime 解析可选日期时间字段。
func parseDateTime(field, value string) (*time.Time, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil, nil
	}
	for _, layout := range dateTimeLayouts {
		if parsed, err := time.ParseInLocation(layout, trimmed, time.UTC); err == nil {
			utc := parsed.UTC()
			return &utc, nil
		}
	}
	return nil, Invalid(field, "expected date and time in YYYY-MM-DDTHH:MM format")
}

func optionalString(value string) *string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
