package repository

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/foody-next/internal/constants"
	"github.com/foody-next/internal/models"

	"gorm.io/gorm"
)

// ErrUnknownOfferStatus 状态过滤包含未知值
var ErrUnknownOfferStatus = errors.New("unknown offer status")

// offerSearchColumns 参与搜索的列，id 按文本匹配
var offerSearchColumns = []string{"title", "description", "CAST(id AS TEXT)"}

const (
	// offerDiscountExpr 折扣由分字段在 SQL 中计算，与 models.DiscountPercent 一致
	offerDiscountExpr = "CASE WHEN original_price_cents IS NOT NULL AND original_price_cents > 0 " +
		"THEN (original_price_cents - price_cents) * 100.0 / original_price_cents END"
	offerDiscountNullRank = "CASE WHEN original_price_cents IS NULL OR original_price_cents <= 0 THEN 1 ELSE 0 END"
	offerExpiryNullRank   = "CASE WHEN expires_at IS NULL THEN 1 ELSE 0 END"
)

// OfferSort 列表排序
type OfferSort struct {
	Field string
	Desc  bool
}

// ParseOfferSort 解析排序参数，"-" 前缀表示降序，未知字段回退到 expires_at
func ParseOfferSort(raw string) OfferSort {
	value := strings.ToLower(strings.TrimSpace(raw))
	desc := false
	if strings.HasPrefix(value, "-") {
		desc = true
		value = strings.TrimSpace(strings.TrimPrefix(value, "-"))
	}
	switch value {
	case constants.OfferSortExpiresAt, constants.OfferSortQtyLeft, constants.OfferSortDiscountPercent, constants.OfferSortCreatedAt:
		return OfferSort{Field: value, Desc: desc}
	case constants.OfferSortRevenueAlias:
		return OfferSort{Field: constants.OfferSortCreatedAt, Desc: desc}
	default:
		return OfferSort{Field: constants.OfferSortExpiresAt}
	}
}

// ParseOfferStatusFilter 解析逗号分隔的状态过滤，去重并保持顺序
func ParseOfferStatusFilter(raw string) ([]string, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	seen := make(map[string]struct{})
	statuses := make([]string, 0, 4)
	for _, part := range strings.Split(raw, ",") {
		status := strings.ToLower(strings.TrimSpace(part))
		if status == "" {
			continue
		}
		if !IsKnownOfferStatus(status) {
			return nil, fmt.Errorf("%w: %s", ErrUnknownOfferStatus, status)
		}
		if _, ok := seen[status]; ok {
			continue
		}
		seen[status] = struct{}{}
		statuses = append(statuses, status)
	}
	return statuses, nil
}

// IsKnownOfferStatus 判断是否为合法状态
func IsKnownOfferStatus(status string) bool {
	for _, known := range constants.OfferStatuses {
		if status == known {
			return true
		}
	}
	return false
}

// buildOfferListQuery 按过滤条件构建商户列表查询，所有参数均绑定传入
func buildOfferListQuery(db *gorm.DB, filter OfferListFilter) *gorm.DB {
	includeArchived := containsStatus(filter.Statuses, constants.OfferStatusArchived)

	query := db.Model(&models.Offer{})
	if includeArchived {
		query = query.Unscoped()
	}
	query = query.Where("restaurant_id = ?", filter.RestaurantID)

	if len(filter.Statuses) == 0 {
		query = query.Where("status <> ?", constants.OfferStatusArchived)
	} else {
		condition, args := buildStatusCondition(filter.Statuses, filter.Now)
		query = query.Where(condition, args...)
	}

	if search := strings.TrimSpace(filter.Search); search != "" {
		condition, argCount := buildLikeCondition(db, offerSearchColumns)
		query = query.Where("("+condition+")", repeatLikeArgs(containsPattern(search), argCount)...)
	}

	for _, order := range offerOrderClauses(filter.Sort) {
		query = query.Order(order)
	}
	return applyPagination(query, filter.Page, filter.PageSize)
}

// buildStatusCondition 将有效状态集合转换为 SQL 条件
// 未过期的 active/paused/draft/scheduled 按存储状态匹配；expired 同时匹配已过期但未归档的行
func buildStatusCondition(statuses []string, now time.Time) (string, []interface{}) {
	parts := make([]string, 0, len(statuses))
	args := make([]interface{}, 0, len(statuses)*2)
	for _, status := range statuses {
		switch status {
		case constants.OfferStatusArchived:
			parts = append(parts, "(status = ? OR deleted_at IS NOT NULL)")
			args = append(args, constants.OfferStatusArchived)
		case constants.OfferStatusExpired:
			parts = append(parts, "(deleted_at IS NULL AND (status = ? OR (status <> ? AND expires_at IS NOT NULL AND expires_at < ?)))")
			args = append(args, constants.OfferStatusExpired, constants.OfferStatusArchived, now)
		default:
			parts = append(parts, "(deleted_at IS NULL AND status = ? AND (expires_at IS NULL OR expires_at >= ?))")
			args = append(args, status, now)
		}
	}
	return "(" + strings.Join(parts, " OR ") + ")", args
}

// offerOrderClauses 生成排序子句，空值统一靠后，id 作为最终排序保证稳定
func offerOrderClauses(sort OfferSort) []string {
	dir := "ASC"
	if sort.Desc {
		dir = "DESC"
	}
	switch sort.Field {
	case constants.OfferSortQtyLeft:
		return []string{"qty_left " + dir, "id " + dir}
	case constants.OfferSortCreatedAt:
		return []string{"created_at " + dir, "id " + dir}
	case constants.OfferSortDiscountPercent:
		return []string{offerDiscountNullRank + " ASC", "(" + offerDiscountExpr + ") " + dir, "id " + dir}
	default:
		// 空过期时间视为无限远：升序在末尾，降序在开头
		return []string{offerExpiryNullRank + " " + dir, "expires_at " + dir, "id " + dir}
	}
}

// buildPublicOfferQuery 公共列表：有效状态为 active、有剩余且未过期
func buildPublicOfferQuery(db *gorm.DB, filter PublicOfferFilter) *gorm.DB {
	query := db.Model(&models.Offer{}).
		Where("status = ?", constants.OfferStatusActive).
		Where("qty_left > ?", 0).
		Where("(expires_at IS NULL OR expires_at >= ?)", filter.Now)
	if filter.RestaurantID > 0 {
		query = query.Where("restaurant_id = ?", filter.RestaurantID)
	}
	query = query.Order(offerExpiryNullRank + " ASC").Order("expires_at ASC").Order("id ASC")
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	return query
}

func containsStatus(statuses []string, target string) bool {
	for _, status := range statuses {
		if status == target {
			return true
		}
	}
	return false
}
