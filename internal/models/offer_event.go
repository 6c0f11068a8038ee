package models

import "time"

// OfferEvent 优惠商品生命周期审计记录，只追加
type OfferEvent struct {
	ID           uint      `gorm:"primarykey" json:"id"`                          // 主键
	OfferID      uint      `gorm:"not null;index" json:"offer_id"`                // 商品 ID
	RestaurantID uint      `gorm:"not null;index" json:"restaurant_id"`           // 商户 ID
	Action       string    `gorm:"type:varchar(20);not null;index" json:"action"` // 操作
	FromStatus   string    `gorm:"type:varchar(20)" json:"from_status"`           // 变更前状态
	ToStatus     string    `gorm:"type:varchar(20)" json:"to_status"`             // 变更后状态
	CreatedAt    time.Time `gorm:"index" json:"created_at"`                       // 发生时间
}

// TableName 指定表名
func (OfferEvent) TableName() string {
	return "offer_events"
}
