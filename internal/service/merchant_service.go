package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/foody-next/internal/models"
	"github.com/foody-next/internal/repository"
)

// MerchantService 商户资料服务
type MerchantService struct {
	merchantRepo repository.MerchantRepository
	storeTimeout time.Duration
}

// NewMerchantService 创建商户资料服务
func NewMerchantService(merchantRepo repository.MerchantRepository, storeTimeout time.Duration) *MerchantService {
	return &MerchantService{merchantRepo: merchantRepo, storeTimeout: storeTimeout}
}

// MerchantProfile 商户资料视图
type MerchantProfile struct {
	RestaurantID uint     `json:"restaurant_id"`
	Name         string   `json:"name"`
	Login        string   `json:"login"`
	Phone        *string  `json:"phone"`
	Email        *string  `json:"email"`
	Address      *string  `json:"address"`
	City         *string  `json:"city"`
	Lat          *float64 `json:"lat"`
	Lng          *float64 `json:"lng"`
	OpenTime     *string  `json:"open_time"`
	CloseTime    *string  `json:"close_time"`
	WorkFrom     *string  `json:"work_from"`
	WorkTo       *string  `json:"work_to"`
}

// UpdateProfileInput 资料更新参数，空值忽略
type UpdateProfileInput struct {
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

// GetProfile 获取商户资料
func (s *MerchantService) GetProfile(ctx context.Context, merchantID uint) (*MerchantProfile, error) {
	if merchantID == 0 {
		return nil, ErrTenantRequired
	}
	storeCtx, cancel := withStoreTimeout(ctx, s.storeTimeout)
	defer cancel()

	merchant, err := s.merchantRepo.GetByID(storeCtx, merchantID)
	if err != nil {
		return nil, wrapStoreError(storeCtx, err)
	}
	if merchant == nil {
		return nil, ErrNotFound
	}
	return buildMerchantProfile(merchant), nil
}

// UpdateProfile 更新商户资料，返回最新资料
func (s *MerchantService) UpdateProfile(ctx context.Context, merchantID uint, input UpdateProfileInput) (*MerchantProfile, error) {
	if merchantID == 0 {
		return nil, ErrTenantRequired
	}
	update := repository.MerchantProfileUpdate{
		Name:      normalizeOptionalText(input.Name),
		Phone:     normalizeOptionalText(input.Phone),
		Email:     normalizeOptionalText(input.Email),
		Address:   normalizeOptionalText(input.Address),
		City:      normalizeOptionalText(input.City),
		Lat:       input.Lat,
		Lng:       input.Lng,
		OpenTime:  parseWorkTimePtr(input.OpenTime),
		CloseTime: parseWorkTimePtr(input.CloseTime),
	}

	storeCtx, cancel := withStoreTimeout(ctx, s.storeTimeout)
	defer cancel()

	merchant, err := s.merchantRepo.GetByID(storeCtx, merchantID)
	if err != nil {
		return nil, wrapStoreError(storeCtx, err)
	}
	if merchant == nil {
		return nil, ErrNotFound
	}
	if err := s.merchantRepo.UpdateProfile(storeCtx, merchantID, update); err != nil {
		return nil, wrapStoreError(storeCtx, err)
	}
	merchant, err = s.merchantRepo.GetByID(storeCtx, merchantID)
	if err != nil {
		return nil, wrapStoreError(storeCtx, err)
	}
	if merchant == nil {
		return nil, ErrNotFound
	}
	return buildMerchantProfile(merchant), nil
}

func buildMerchantProfile(merchant *models.Merchant) *MerchantProfile {
	openTime := shortWorkTime(merchant.OpenTime)
	closeTime := shortWorkTime(merchant.CloseTime)
	return &MerchantProfile{
		RestaurantID: merchant.ID,
		Name:         merchant.Name,
		Login:        merchant.Login,
		Phone:        merchant.Phone,
		Email:        merchant.Email,
		Address:      merchant.Address,
		City:         merchant.City,
		Lat:          merchant.Lat,
		Lng:          merchant.Lng,
		OpenTime:     openTime,
		CloseTime:    closeTime,
		WorkFrom:     openTime,
		WorkTo:       closeTime,
	}
}

// shortWorkTime HH:MM:SS 转为 HH:MM
func shortWorkTime(value *string) *string {
	if value == nil || *value == "" {
		return nil
	}
	v := *value
	if len(v) >= 5 {
		v = v[:5]
	}
	return &v
}

func parseWorkTimePtr(raw *string) *string {
	if raw == nil {
		return nil
	}
	value, ok := ParseWorkTime(*raw)
	if !ok {
		return nil
	}
	return &value
}

// ParseWorkTime 解析营业时间（H / H:MM / H:MM:SS），24:00 视为 23:59:59
func ParseWorkTime(raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", false
	}
	parts := strings.Split(raw, ":")
	if len(parts) > 3 {
		return "", false
	}
	values := [3]int{}
	for i, part := range parts {
		if part == "" || len(part) > 2 {
			return "", false
		}
		n, err := strconv.Atoi(part)
		if err != nil || n < 0 {
			return "", false
		}
		values[i] = n
	}
	hour, minute, second := values[0], values[1], values[2]
	if hour == 24 && minute == 0 && second == 0 {
		return "23:59:59", true
	}
	if hour > 23 || minute > 59 || second > 59 {
		return "", false
	}
	return fmt.Sprintf("%02d:%02d:%02d", hour, minute, second), true
}
