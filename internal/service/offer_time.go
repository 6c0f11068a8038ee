package service

import (
	"strings"
	"time"
)

// 带时区的格式按原时区解析后转 UTC
var zonedTimeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04Z07:00",
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02 15:04:05.999999999Z07:00",
}

// 无时区的格式按 UTC 解析
var naiveTimeLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
}

const offerTimeOutputLayout = "2006-01-02T15:04:05-07:00"

// ParseOfferTime 解析过期时间，未带时区的时间视为 UTC
func ParseOfferTime(raw string) (time.Time, error) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return time.Time{}, ErrInvalidExpiresAt
	}
	for _, layout := range zonedTimeLayouts {
		if parsed, err := time.Parse(layout, value); err == nil {
			return parsed.UTC(), nil
		}
	}
	for _, layout := range naiveTimeLayouts {
		if parsed, err := time.ParseInLocation(layout, value, time.UTC); err == nil {
			return parsed, nil
		}
	}
	return time.Time{}, ErrInvalidExpiresAt
}

// FormatOfferTime 输出带偏移量的 UTC 时间
func FormatOfferTime(t time.Time) string {
	return t.UTC().Format(offerTimeOutputLayout)
}

func formatOfferTimePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	formatted := FormatOfferTime(*t)
	return &formatted
}
