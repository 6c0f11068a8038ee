package repository

import "time"

// OfferListFilter 商户优惠商品列表查询条件
type OfferListFilter struct {
	RestaurantID uint
	Statuses     []string // 已校验的有效状态集合，为空时排除归档
	Search       string
	Sort         OfferSort
	Page         int
	PageSize     int
	Now          time.Time // 计算有效状态的基准时间
}

// PublicOfferFilter 公共优惠列表查询条件
type PublicOfferFilter struct {
	RestaurantID uint // 0 表示全部商户
	Limit        int
	Now          time.Time
}

// OfferCounts 单个商品的预订与核销计数
type OfferCounts struct {
	Reservations int64
	Redemptions  int64
}

// MerchantProfileUpdate 商户资料更新字段，nil 表示保持不变
type MerchantProfileUpdate struct {
	Name      *string
	Phone     *string
	Email     *string
	Address   *string
	City      *string
	Lat       *float64
	Lng       *float64
	OpenTime  *string
	CloseTime *string
}
