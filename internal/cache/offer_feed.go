package cache

import (
	"context"
	"fmt"
	"time"
)

const publicFeedVersionKey = "offers:public:version"

// 公共列表缓存键带版本号，失效时只需递增版本
func publicFeedKey(version int64, restaurantID uint, limit int) string {
	return fmt.Sprintf("offers:public:v%d:r%d:l%d", version, restaurantID, limit)
}

// PublicFeedSlot 读取缓存时确定的键位置，回填必须写回同一版本
type PublicFeedSlot struct {
	version      int64
	restaurantID uint
	limit        int
	valid        bool
}

func (s PublicFeedSlot) key() string {
	return publicFeedKey(s.version, s.restaurantID, s.limit)
}

// GetPublicFeed 读取公共优惠列表缓存，返回的 slot 交给 SetPublicFeed 回填
func GetPublicFeed(ctx context.Context, restaurantID uint, limit int, dest interface{}) (PublicFeedSlot, bool, error) {
	if !Enabled() {
		return PublicFeedSlot{}, false, nil
	}
	version, err := GetInt64(ctx, publicFeedVersionKey)
	if err != nil {
		return PublicFeedSlot{}, false, err
	}
	slot := PublicFeedSlot{version: version, restaurantID: restaurantID, limit: limit, valid: true}
	hit, err := GetJSON(ctx, slot.key(), dest)
	return slot, hit, err
}

// SetPublicFeed 按读取时的版本写入缓存；期间发生失效时旧版本键不会再被读到
func SetPublicFeed(ctx context.Context, slot PublicFeedSlot, value interface{}, ttl time.Duration) error {
	if !Enabled() || !slot.valid || ttl <= 0 {
		return nil
	}
	return SetJSON(ctx, slot.key(), value, ttl)
}

// InvalidatePublicFeed 使全部公共列表缓存失效，旧版本键依赖 TTL 过期
func InvalidatePublicFeed(ctx context.Context) error {
	_, err := Incr(ctx, publicFeedVersionKey)
	return err
}
