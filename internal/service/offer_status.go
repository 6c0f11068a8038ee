package service

import (
	"time"

	"github.com/foody-next/internal/constants"
)

// ResolveOfferStatus 计算展示用的有效状态，只读不落库
// 过期时间早于 now 且存储状态不是 expired/archived 时视为 expired
func ResolveOfferStatus(stored string, expiresAt *time.Time, now time.Time) string {
	if expiresAt == nil {
		return stored
	}
	if stored == constants.OfferStatusExpired || stored == constants.OfferStatusArchived {
		return stored
	}
	if expiresAt.Before(now) {
		return constants.OfferStatusExpired
	}
	return stored
}
