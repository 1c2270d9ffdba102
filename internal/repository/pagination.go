package repository

import "gorm.io/gorm"

// 列表查询的单页上限，防止一次拉取整表。
const maxRepositoryPageSize = 200

// applyPagination 应用分页参数，非法页码回退到第一页。
func applyPagination(query *gorm.DB, page, pageSize int) *gorm.DB {
	if query == nil || pageSize <= 0 {
		return query
	}
	if pageSize > maxRepositoryPageSize {
		pageSize = maxRepositoryPageSize
	}
	if page < 1 {
		page = 1
	}
	return query.Limit(pageSize).Offset((page - 1) * pageSize)
}
