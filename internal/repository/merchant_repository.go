package repository

import (
	"context"
	"errors"

	"github.com/foody-next/internal/models"

	"gorm.io/gorm"
)

// MerchantRepository 商户数据访问接口
type MerchantRepository interface {
	Create(ctx context.Context, merchant *models.Merchant) error
	GetByID(ctx context.Context, id uint) (*models.Merchant, error)
	GetByLogin(ctx context.Context, login string) (*models.Merchant, error)
	UpdateProfile(ctx context.Context, id uint, update MerchantProfileUpdate) error
	UpdatePassword(ctx context.Context, id uint, passwordHash string) (uint64, error)
}

// GormMerchantRepository GORM 实现
type GormMerchantRepository struct {
	db *gorm.DB
}

// NewMerchantRepository 创建商户仓库
func NewMerchantRepository(db *gorm.DB) *GormMerchantRepository {
	return &GormMerchantRepository{db: db}
}

// Create 创建商户
func (r *GormMerchantRepository) Create(ctx context.Context, merchant *models.Merchant) error {
	return r.db.WithContext(ctx).Create(merchant).Error
}

// GetByID 根据 ID 获取商户
func (r *GormMerchantRepository) GetByID(ctx context.Context, id uint) (*models.Merchant, error) {
	var merchant models.Merchant
	if err := r.db.WithContext(ctx).First(&merchant, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &merchant, nil
}

// GetByLogin 根据登录手机号获取商户
func (r *GormMerchantRepository) GetByLogin(ctx context.Context, login string) (*models.Merchant, error) {
	var merchant models.Merchant
	if err := r.db.WithContext(ctx).Where("login = ?", login).First(&merchant).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &merchant, nil
}

// UpdateProfile 仅更新非空字段
func (r *GormMerchantRepository) UpdateProfile(ctx context.Context, id uint, update MerchantProfileUpdate) error {
	fields := map[string]interface{}{}
	setString := func(column string, value *string) {
		if value != nil {
			fields[column] = *value
		}
	}
	setString("name", update.Name)
	setString("phone", update.Phone)
	setString("email", update.Email)
	setString("address", update.Address)
	setString("city", update.City)
	setString("open_time", update.OpenTime)
	setString("close_time", update.CloseTime)
	if update.Lat != nil {
		fields["lat"] = *update.Lat
	}
	if update.Lng != nil {
		fields["lng"] = *update.Lng
	}
	if len(fields) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Model(&models.Merchant{}).Where("id = ?", id).Updates(fields).Error
}

// UpdatePassword 更新密码并递增令牌版本，返回新的令牌版本
func (r *GormMerchantRepository) UpdatePassword(ctx context.Context, id uint, passwordHash string) (uint64, error) {
	var version uint64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.Merchant{}).Where("id = ?", id).Updates(map[string]interface{}{
			"password_hash": passwordHash,
			"token_version": gorm.Expr("token_version + 1"),
		})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		var merchant models.Merchant
		if err := tx.Select("token_version").First(&merchant, id).Error; err != nil {
			return err
		}
		version = merchant.TokenVersion
		return nil
	})
	return version, err
}
