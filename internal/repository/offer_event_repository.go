package repository

import (
	"context"

	"github.com/foody-next/internal/models"

	"gorm.io/gorm"
)

// OfferEventRepository 生命周期审计数据访问接口
type OfferEventRepository interface {
	Create(ctx context.Context, event *models.OfferEvent) error
	ListByOffer(ctx context.Context, restaurantID, offerID uint, limit int) ([]models.OfferEvent, error)
}

// GormOfferEventRepository GORM 实现
type GormOfferEventRepository struct {
	db *gorm.DB
}

// NewOfferEventRepository 创建审计仓库
func NewOfferEventRepository(db *gorm.DB) *GormOfferEventRepository {
	return &GormOfferEventRepository{db: db}
}

// Create 写入审计记录
func (r *GormOfferEventRepository) Create(ctx context.Context, event *models.OfferEvent) error {
	return r.db.WithContext(ctx).Create(event).Error
}

// ListByOffer 按时间倒序返回单个商品的审计记录
func (r *GormOfferEventRepository) ListByOffer(ctx context.Context, restaurantID, offerID uint, limit int) ([]models.OfferEvent, error) {
	var events []models.OfferEvent
	query := r.db.WithContext(ctx).
		Where("restaurant_id = ? AND offer_id = ?", restaurantID, offerID).
		Order("created_at DESC").
		Order("id DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&events).Error; err != nil {
		return nil, err
	}
	return events, nil
}
