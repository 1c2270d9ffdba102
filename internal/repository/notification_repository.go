package repository

import (
	"errors"
	"time"

	"github.com/FeexSystems/Rainbow-childcare-sub000/internal/models"

	"gorm.io/gorm"
)

// NotificationRepository 站内通知数据访问接口
type NotificationRepository interface {
	Create(notification *models.Notification) error
	CreateBatch(notifications []models.Notification) error
	List(filter NotificationListFilter) ([]models.Notification, int64, error)
	MarkRead(id uint, guardianID, staffID uint) (int64, error)
	CountUnreadByGuardian(guardianID uint) (int64, error)
}

// GormNotificationRepository GORM 实现
type GormNotificationRepository struct {
	db *gorm.DB
}

// NewNotificationRepository 创建通知仓库
func NewNotificationRepository(db *gorm.DB) *GormNotificationRepository {
	return &GormNotificationRepository{db: db}
}

// Create 创建通知
func (r *GormNotificationRepository) Create(notification *models.Notification) error {
	if notification == nil {
		return errors.New("invalid notification")
	}
	return r.db.Create(notification).Error
}

// CreateBatch 批量创建通知
func (r *GormNotificationRepository) CreateBatch(notifications []models.Notification) error {
	if len(notifications) == 0 {
		return nil
	}
	return r.db.CreateInBatches(&notifications, 200).Error
}

// List 查询通知列表
func (r *GormNotificationRepository) List(filter NotificationListFilter) ([]models.Notification, int64, error) {
	query := r.db.Model(&models.Notification{})
	if filter.RecipientType != "" {
		query = query.Where("recipient_type = ?", filter.RecipientType)
	}
	if filter.GuardianID > 0 {
		query = query.Where("guardian_id = ?", filter.GuardianID)
	}
	if filter.StaffID > 0 {
		query = query.Where("staff_id = ?", filter.StaffID)
	}
	if filter.Type != "" {
		query = query.Where("type = ?", filter.Type)
	}
	if filter.OnlyUnread {
		query = query.Where("read_at IS NULL")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query, filter.Page, filter.PageSize)

	var notifications []models.Notification
	if err := query.Order("id DESC").Find(&notifications).Error; err != nil {
		return nil, 0, err
	}
	return notifications, total, nil
}

// MarkRead 标记通知已读，限定接收人防止越权
func (r *GormNotificationRepository) MarkRead(id uint, guardianID, staffID uint) (int64, error) {
	if id == 0 {
		return 0, nil
	}
	query := r.db.Model(&models.Notification{}).Where("id = ? AND read_at IS NULL", id)
	if guardianID > 0 {
		query = query.Where("guardian_id = ?", guardianID)
	}
	if staffID > 0 {
		query = query.Where("staff_id = ?", staffID)
	}
	result := query.Update("read_at", time.Now())
	return result.RowsAffected, result.Error
}

// CountUnreadByGuardian 统计家长未读通知数
func (r *GormNotificationRepository) CountUnreadByGuardian(guardianID uint) (int64, error) {
	if guardianID == 0 {
		return 0, nil
	}
	var count int64
	err := r.db.Model(&models.Notification{}).
		Where("guardian_id = ? AND read_at IS NULL", guardianID).
		Count(&count).Error
	return count, err
}
