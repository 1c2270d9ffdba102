package repository

import (
	"github.com/FeexSystems/Rainbow-childcare-sub000/internal/models"

	"gorm.io/gorm"
)

// GuardianLoginLogRepository 家长登录日志数据访问接口
type GuardianLoginLogRepository interface {
	Create(log *models.GuardianLoginLog) error
	ListStaff(filter GuardianLoginLogListFilter) ([]models.GuardianLoginLog, int64, error)
	ListByGuardian(guardianID uint, page, pageSize int) ([]models.GuardianLoginLog, int64, error)
}

// GormGuardianLoginLogRepository GORM 实现
type GormGuardianLoginLogRepository struct {
	db *gorm.DB
}

// NewGuardianLoginLogRepository 创建家长登录日志仓库
func NewGuardianLoginLogRepository(db *gorm.DB) *GormGuardianLoginLogRepository {
	return &GormGuardianLoginLogRepository{db: db}
}

// Create 创建登录日志
func (r *GormGuardianLoginLogRepository) Create(log *models.GuardianLoginLog) error {
	if log == nil {
		return nil
	}
	return r.db.Create(log).Error
}

// ListStaff 员工端查询家长登录日志
func (r *GormGuardianLoginLogRepository) ListStaff(filter GuardianLoginLogListFilter) ([]models.GuardianLoginLog, int64, error) {
	query := r.db.Model(&models.GuardianLoginLog{})
	if filter.GuardianID != 0 {
		query = query.Where("guardian_id = ?", filter.GuardianID)
	}
	if filter.Email != "" {
		query = query.Where("email = ?", filter.Email)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.FailReason != "" {
		query = query.Where("fail_reason = ?", filter.FailReason)
	}
	if filter.ClientIP != "" {
		query = query.Where("client_ip = ?", filter.ClientIP)
	}
	if filter.CreatedFrom != nil {
		query = query.Where("created_at >= ?", *filter.CreatedFrom)
	}
	if filter.CreatedTo != nil {
		query = query.Where("created_at <= ?", *filter.CreatedTo)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	query = applyPagination(query, filter.Page, filter.PageSize)

	var logs []models.GuardianLoginLog
	if err := query.Order("id desc").Find(&logs).Error; err != nil {
		return nil, 0, err
	}
	return logs, total, nil
}

// ListByGuardian 家长侧查询自己的登录日志
func (r *GormGuardianLoginLogRepository) ListByGuardian(guardianID uint, page, pageSize int) ([]models.GuardianLoginLog, int64, error) {
	query := r.db.Model(&models.GuardianLoginLog{}).Where("guardian_id = ?", guardianID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	if offset < 0 {
		offset = 0
	}

	var logs []models.GuardianLoginLog
	if err := query.Order("id desc").Limit(pageSize).Offset(offset).Find(&logs).Error; err != nil {
		return nil, 0, err
	}
	return logs, total, nil
}
