package models

import (
	"time"

	"gorm.io/gorm"
)

// Offer 限时折扣商品
type Offer struct {
	ID                 uint           `gorm:"primarykey" json:"id"`                          // 主键
	RestaurantID       uint           `gorm:"not null;index" json:"restaurant_id"`           // 所属商户
	MerchantID         uint           `gorm:"index" json:"merchant_id"`                      // 兼容旧客户端，与 RestaurantID 一致
	Title              string         `gorm:"type:varchar(255);not null" json:"title"`       // 标题
	PriceCents         int64          `gorm:"not null;default:0" json:"price_cents"`         // 售价（分）
	OriginalPriceCents *int64         `json:"original_price_cents"`                          // 原价（分）
	QtyTotal           int            `gorm:"not null" json:"qty_total"`                     // 总数量
	QtyLeft            int            `gorm:"not null;index" json:"qty_left"`                // 剩余数量
	Status             string         `gorm:"type:varchar(20);not null;index" json:"status"` // 存储状态
	ExpiresAt          *time.Time     `gorm:"index" json:"expires_at"`                       // 过期时间，空表示永不过期
	Description        *string        `gorm:"type:text" json:"description"`                  // 描述
	ImageURL           *string        `gorm:"type:varchar(1000)" json:"image_url"`           // 图片
	Category           *string        `gorm:"type:varchar(120);index" json:"category"`       // 分类
	CreatedAt          time.Time      `gorm:"index" json:"created_at"`                       // 创建时间
	UpdatedAt          time.Time      `json:"updated_at"`                                    // 更新时间
	DeletedAt          gorm.DeletedAt `gorm:"index" json:"-"`                                // 归档时间
}

// TableName 指定表名
func (Offer) TableName() string {
	return "offers"
}

// IsArchived 是否已归档
func (o *Offer) IsArchived() bool {
	return o != nil && o.DeletedAt.Valid
}
