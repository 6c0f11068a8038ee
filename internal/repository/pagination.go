package repository

import (
	"math"

	"gorm.io/gorm"
)

// maxPageOffset 偏移量上限，超出后视为越过末页
const maxPageOffset = math.MaxInt32

// applyPagination 应用分页参数，统一处理非法页码与偏移量。
func applyPagination(query *gorm.DB, page, pageSize int) *gorm.DB {
	if query == nil || pageSize <= 0 {
		return query
	}
	if page < 1 {
		page = 1
	}
	if page-1 > maxPageOffset/pageSize {
		return query.Where("1 = 0").Limit(pageSize)
	}
	return query.Limit(pageSize).Offset((page - 1) * pageSize)
}

// NormalizePage 规范化页码与条数：页码最小为 1，条数夹在 [1, maxSize]，未传使用默认值
func NormalizePage(page, pageSize, defaultSize, maxSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if maxSize <= 0 {
		maxSize = defaultSize
	}
	if pageSize == 0 {
		pageSize = defaultSize
	}
	if pageSize < 1 {
		pageSize = 1
	}
	if pageSize > maxSize {
		pageSize = maxSize
	}
	return page, pageSize
}
