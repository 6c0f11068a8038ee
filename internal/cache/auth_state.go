package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/foody-next/internal/models"
)

const authStateCacheTTL = 10 * time.Minute

// MerchantAuthState 商户鉴权快照，仅用于服务端缓存，避免每次请求查询数据库
type MerchantAuthState struct {
	MerchantID   uint   `json:"merchant_id"`
	APIKey       string `json:"api_key"`
	TokenVersion uint64 `json:"token_version"`
	UpdatedAt    int64  `json:"updated_at"`
}

func merchantAuthStateKey(merchantID uint) string {
	return fmt.Sprintf("auth:merchant:%d", merchantID)
}

// BuildMerchantAuthState 从商户模型构建鉴权快照
func BuildMerchantAuthState(merchant *models.Merchant) *MerchantAuthState {
	if merchant == nil {
		return nil
	}
	return &MerchantAuthState{
		MerchantID:   merchant.ID,
		APIKey:       merchant.APIKey,
		TokenVersion: merchant.TokenVersion,
		UpdatedAt:    time.Now().Unix(),
	}
}

// GetMerchantAuthState 获取商户鉴权快照
func GetMerchantAuthState(ctx context.Context, merchantID uint) (*MerchantAuthState, bool, error) {
	if merchantID == 0 {
		return nil, false, nil
	}
	var state MerchantAuthState
	hit, err := GetJSON(ctx, merchantAuthStateKey(merchantID), &state)
	if err != nil || !hit {
		return nil, hit, err
	}
	return &state, true, nil
}

// SetMerchantAuthState 写入商户鉴权快照
func SetMerchantAuthState(ctx context.Context, state *MerchantAuthState) error {
	if state == nil || state.MerchantID == 0 {
		return nil
	}
	return SetJSON(ctx, merchantAuthStateKey(state.MerchantID), state, authStateCacheTTL)
}

// DelMerchantAuthState 删除商户鉴权快照
func DelMerchantAuthState(ctx context.Context, merchantID uint) error {
	if merchantID == 0 {
		return nil
	}
	return Del(ctx, merchantAuthStateKey(merchantID))
}
