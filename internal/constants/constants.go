package constants

// 优惠商品状态常量
const (
	OfferStatusDraft     = "draft"
	OfferStatusScheduled = "scheduled"
	OfferStatusActive    = "active"
	OfferStatusPaused    = "paused"
	OfferStatusExpired   = "expired"
	OfferStatusArchived  = "archived"
)

// OfferStatuses 全部合法状态
var OfferStatuses = []string{
	OfferStatusDraft,
	OfferStatusScheduled,
	OfferStatusActive,
	OfferStatusPaused,
	OfferStatusExpired,
	OfferStatusArchived,
}

// 预订状态常量，两种拼写都视为已取消
const (
	ReservationStatusCanceled  = "canceled"
	ReservationStatusCancelled = "cancelled"
)

// ReservationCanceledStatuses 不计入预订数的状态
var ReservationCanceledStatuses = []string{
	ReservationStatusCanceled,
	ReservationStatusCancelled,
}

// 优惠商品生命周期事件
const (
	OfferEventCreate    = "create"
	OfferEventUpdate    = "update"
	OfferEventPause     = "pause"
	OfferEventResume    = "resume"
	OfferEventDuplicate = "duplicate"
	OfferEventArchive   = "archive"
)

// 列表排序字段
const (
	OfferSortExpiresAt       = "expires_at"
	OfferSortQtyLeft         = "qty_left"
	OfferSortDiscountPercent = "discount_percent"
	OfferSortCreatedAt       = "created_at"
	OfferSortRevenueAlias    = "revenue"
)

// 分页默认值
const (
	DefaultOfferPageSize  = 50
	MaxOfferPageSize      = 200
	DefaultPublicFeedSize = 200
)

// MerchantAPIKeyHeader 商户 API Key 请求头
const MerchantAPIKeyHeader = "X-Foody-Key"

// 上下文键
const (
	CtxKeyRestaurantID = "restaurant_id"
	CtxKeyTokenVersion = "token_version"
)

// 队列与任务类型
const (
	QueueDefault   = "default"
	QueueCritical  = "critical"
	TaskOfferEvent = "offer:lifecycle_event"
)
