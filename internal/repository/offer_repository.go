package repository

import (
	"context"
	"errors"
	"time"

	"github.com/foody-next/internal/constants"
	"github.com/foody-next/internal/models"

	"gorm.io/gorm"
)

// OfferRepository 优惠商品数据访问接口，所有方法按 restaurant_id 隔离
type OfferRepository interface {
	WithTx(tx *gorm.DB) OfferRepository
	Transaction(ctx context.Context, fn func(tx *gorm.DB) error) error
	List(ctx context.Context, filter OfferListFilter) ([]models.Offer, error)
	ListPublic(ctx context.Context, filter PublicOfferFilter) ([]models.Offer, error)
	GetByID(ctx context.Context, restaurantID, id uint) (*models.Offer, error)
	GetLiveByID(ctx context.Context, restaurantID, id uint) (*models.Offer, error)
	Exists(ctx context.Context, restaurantID, id uint) (bool, error)
	Create(ctx context.Context, offer *models.Offer) error
	UpdateFields(ctx context.Context, restaurantID, id uint, fields map[string]interface{}) (int64, error)
	SetStatus(ctx context.Context, restaurantID, id uint, status string) (int64, error)
	Archive(ctx context.Context, restaurantID, id uint, now time.Time) (int64, error)
}

// GormOfferRepository GORM 实现
type GormOfferRepository struct {
	db *gorm.DB
}

// NewOfferRepository 创建优惠商品仓库
func NewOfferRepository(db *gorm.DB) *GormOfferRepository {
	return &GormOfferRepository{db: db}
}

// WithTx 绑定事务
func (r *GormOfferRepository) WithTx(tx *gorm.DB) OfferRepository {
	if tx == nil {
		return r
	}
	return &GormOfferRepository{db: tx}
}

// Transaction 执行事务
func (r *GormOfferRepository) Transaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	if fn == nil {
		return nil
	}
	return r.db.WithContext(ctx).Transaction(fn)
}

// List 商户优惠商品列表，不统计总数
func (r *GormOfferRepository) List(ctx context.Context, filter OfferListFilter) ([]models.Offer, error) {
	filter.Now = filter.Now.UTC()
	var offers []models.Offer
	if err := buildOfferListQuery(r.db.WithContext(ctx), filter).Find(&offers).Error; err != nil {
		return nil, err
	}
	return offers, nil
}

// ListPublic 公共优惠列表
func (r *GormOfferRepository) ListPublic(ctx context.Context, filter PublicOfferFilter) ([]models.Offer, error) {
	filter.Now = filter.Now.UTC()
	var offers []models.Offer
	if err := buildPublicOfferQuery(r.db.WithContext(ctx), filter).Find(&offers).Error; err != nil {
		return nil, err
	}
	return offers, nil
}

// GetByID 获取商品，已归档的行仅在状态为 archived 时可见
func (r *GormOfferRepository) GetByID(ctx context.Context, restaurantID, id uint) (*models.Offer, error) {
	var offer models.Offer
	err := r.db.WithContext(ctx).Unscoped().
		Where("id = ? AND restaurant_id = ?", id, restaurantID).
		Where("(deleted_at IS NULL OR status = ?)", constants.OfferStatusArchived).
		First(&offer).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &offer, nil
}

// GetLiveByID 获取未归档的商品
func (r *GormOfferRepository) GetLiveByID(ctx context.Context, restaurantID, id uint) (*models.Offer, error) {
	var offer models.Offer
	err := r.db.WithContext(ctx).
		Where("id = ? AND restaurant_id = ?", id, restaurantID).
		First(&offer).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &offer, nil
}

// Exists 判断商品是否曾属于该商户（含已归档）
func (r *GormOfferRepository) Exists(ctx context.Context, restaurantID, id uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Unscoped().Model(&models.Offer{}).
		Where("id = ? AND restaurant_id = ?", id, restaurantID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// Create 创建商品
func (r *GormOfferRepository) Create(ctx context.Context, offer *models.Offer) error {
	return r.db.WithContext(ctx).Create(offer).Error
}

// UpdateFields 部分更新未归档商品，返回影响行数
func (r *GormOfferRepository) UpdateFields(ctx context.Context, restaurantID, id uint, fields map[string]interface{}) (int64, error) {
	if len(fields) == 0 {
		return 0, nil
	}
	result := r.db.WithContext(ctx).Model(&models.Offer{}).
		Where("id = ? AND restaurant_id = ?", id, restaurantID).
		Updates(fields)
	return result.RowsAffected, result.Error
}

// SetStatus 设置未归档商品的状态，返回影响行数
func (r *GormOfferRepository) SetStatus(ctx context.Context, restaurantID, id uint, status string) (int64, error) {
	result := r.db.WithContext(ctx).Model(&models.Offer{}).
		Where("id = ? AND restaurant_id = ?", id, restaurantID).
		Updates(map[string]interface{}{
			"status":     status,
			"updated_at": models.NowUTC(),
		})
	return result.RowsAffected, result.Error
}

// Archive 归档商品，仅作用于未归档的行，返回影响行数
func (r *GormOfferRepository) Archive(ctx context.Context, restaurantID, id uint, now time.Time) (int64, error) {
	now = now.UTC()
	result := r.db.WithContext(ctx).Model(&models.Offer{}).
		Where("id = ? AND restaurant_id = ?", id, restaurantID).
		Updates(map[string]interface{}{
			"status":     constants.OfferStatusArchived,
			"deleted_at": now,
			"updated_at": now,
		})
	return result.RowsAffected, result.Error
}
