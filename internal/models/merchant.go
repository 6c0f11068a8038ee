package models

import "time"

// Merchant 商户（餐厅）账号
type Merchant struct {
	ID           uint      `gorm:"primarykey" json:"id"`                               // 主键，即 restaurant_id
	Name         string    `gorm:"type:varchar(255);not null" json:"name"`             // 名称
	Login        string    `gorm:"type:varchar(32);uniqueIndex;not null" json:"login"` // 登录手机号，仅数字
	PasswordHash string    `gorm:"type:varchar(255);not null" json:"-"`                // 密码哈希
	APIKey       string    `gorm:"type:varchar(64);uniqueIndex;not null" json:"-"`     // API Key
	TokenVersion uint64    `gorm:"not null;default:0" json:"-"`                        // 令牌版本，修改密码后递增
	Phone        *string   `gorm:"type:varchar(32)" json:"phone"`                      // 联系电话
	Email        *string   `gorm:"type:varchar(255)" json:"email"`                     // 邮箱
	Address      *string   `gorm:"type:varchar(500)" json:"address"`                   // 地址
	City         *string   `gorm:"type:varchar(120)" json:"city"`                      // 城市
	Lat          *float64  `json:"lat"`                                                // 纬度
	Lng          *float64  `json:"lng"`                                                // 经度
	OpenTime     *string   `gorm:"type:varchar(8)" json:"open_time"`                   // 营业开始 HH:MM:SS
	CloseTime    *string   `gorm:"type:varchar(8)" json:"close_time"`                  // 营业结束 HH:MM:SS
	CreatedAt    time.Time `json:"created_at"`                                         // 创建时间
	UpdatedAt    time.Time `json:"updated_at"`                                         // 更新时间
}

// TableName 指定表名
func (Merchant) TableName() string {
	return "merchants"
}
