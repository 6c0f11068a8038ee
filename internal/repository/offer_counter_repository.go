package repository

import (
	"context"

	"github.com/foody-next/internal/constants"
	"github.com/foody-next/internal/models"

	"gorm.io/gorm"
)

// OfferCounterRepository 预订与核销计数接口
type OfferCounterRepository interface {
	CountByOfferIDs(ctx context.Context, offerIDs []uint) (map[uint]OfferCounts, error)
}

// GormOfferCounterRepository GORM 实现
type GormOfferCounterRepository struct {
	db *gorm.DB
}

// NewOfferCounterRepository 创建计数仓库
func NewOfferCounterRepository(db *gorm.DB) *GormOfferCounterRepository {
	return &GormOfferCounterRepository{db: db}
}

type offerCountRow struct {
	OfferID uint
	Total   int64
}

// CountByOfferIDs 批量统计：预订排除已取消，核销全部计入
func (r *GormOfferCounterRepository) CountByOfferIDs(ctx context.Context, offerIDs []uint) (map[uint]OfferCounts, error) {
	result := make(map[uint]OfferCounts, len(offerIDs))
	if len(offerIDs) == 0 {
		return result, nil
	}

	var reservations []offerCountRow
	if err := r.db.WithContext(ctx).Model(&models.Reservation{}).
		Select("offer_id, COUNT(*) AS total").
		Where("offer_id IN ?", offerIDs).
		Where("(status IS NULL OR status NOT IN ?)", constants.ReservationCanceledStatuses).
		Group("offer_id").
		Scan(&reservations).Error; err != nil {
		return nil, err
	}

	var redemptions []offerCountRow
	if err := r.db.WithContext(ctx).Model(&models.Redemption{}).
		Select("offer_id, COUNT(*) AS total").
		Where("offer_id IN ?", offerIDs).
		Group("offer_id").
		Scan(&redemptions).Error; err != nil {
		return nil, err
	}

	for _, row := range reservations {
		counts := result[row.OfferID]
		counts.Reservations = row.Total
		result[row.OfferID] = counts
	}
	for _, row := range redemptions {
		counts := result[row.OfferID]
		counts.Redemptions = row.Total
		result[row.OfferID] = counts
	}
	return result, nil
}
