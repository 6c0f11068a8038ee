package models

import (
	"database/sql/driver"
	"encoding/json"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Money 统一金额类型（保留 2 位小数）
type Money struct {
	decimal.Decimal
}

// NewMoneyFromDecimal 从 decimal 创建金额
func NewMoneyFromDecimal(amount decimal.Decimal) Money {
	return Money{Decimal: amount.Round(2)}
}

// NewMoneyFromCents 从分创建金额
func NewMoneyFromCents(cents int64) Money {
	return Money{Decimal: decimal.New(cents, -2)}
}

// Cents 转换为分
func (m Money) Cents() int64 {
	return DisplayToCents(m.Decimal)
}

// MarshalJSON 统一输出 2 位小数的字符串
func (m Money) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.Decimal.Round(2).StringFixed(2))
}

// UnmarshalJSON 解析金额（字符串或数字）
func (m *Money) UnmarshalJSON(b []byte) error {
	if len(b) == 0 || string(b) == "null" {
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		d, err := decimal.NewFromString(s)
		if err != nil {
			return err
		}
		m.Decimal = d.Round(2)
		return nil
	}
	// 数字直接按十进制文本解析，避免 float64 误差
	d, err := decimal.NewFromString(string(b))
	if err != nil {
		return err
	}
	m.Decimal = d.Round(2)
	return nil
}

// Value 用于数据库写入
func (m Money) Value() (driver.Value, error) {
	return m.Decimal.Round(2).Value()
}

// Scan 用于数据库读取
func (m *Money) Scan(value interface{}) error {
	if err := m.Decimal.Scan(value); err != nil {
		return err
	}
	m.Decimal = m.Decimal.Round(2)
	return nil
}

// String 返回 2 位小数格式
func (m Money) String() string {
	return m.Decimal.Round(2).StringFixed(2)
}

// CentsToDisplay 分转展示金额，空值返回空
func CentsToDisplay(cents *int64) *Money {
	if cents == nil {
		return nil
	}
	money := NewMoneyFromCents(*cents)
	return &money
}

// DisplayToCents 展示金额转分，先四舍五入到 2 位小数
func DisplayToCents(amount decimal.Decimal) int64 {
	return amount.Round(2).Mul(hundred).IntPart()
}

// DiscountPercent 计算折扣百分比 round((1 - price/original) * 100)
// 原价为空或不大于 0 时返回空；舍入规则为远离零的四舍五入
func DiscountPercent(priceCents int64, originalCents *int64) *int {
	if originalCents == nil || *originalCents <= 0 {
		return nil
	}
	original := decimal.NewFromInt(*originalCents)
	saved := original.Sub(decimal.NewFromInt(priceCents))
	percent := int(saved.Mul(hundred).Div(original).Round(0).IntPart())
	return &percent
}
