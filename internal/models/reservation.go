package models

import "time"

// Reservation 预订记录，由外部预订流程写入，这里只读取计数
type Reservation struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	OfferID   uint      `gorm:"not null;index" json:"offer_id"`
	Status    *string   `gorm:"type:varchar(20)" json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName 指定表名
func (Reservation) TableName() string {
	return "reservations"
}

// Redemption 核销记录
type Redemption struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	OfferID   uint      `gorm:"not null;index" json:"offer_id"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName 指定表名
func (Redemption) TableName() string {
	return "redemptions"
}
