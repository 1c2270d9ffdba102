package repository

import (
	"errors"

	"github.com/FeexSystems/Rainbow-childcare-sub000/internal/models"

	"gorm.io/gorm"
)

// DailyUpdateRepository 日报数据访问接口
type DailyUpdateRepository interface {
	GetByID(id uint) (*models.DailyUpdate, error)
	List(filter DailyUpdateListFilter) ([]models.DailyUpdate, int64, error)
	Create(update *models.DailyUpdate) error
	Update(update *models.DailyUpdate) error
	Delete(id uint) error
}

// GormDailyUpdateRepository GORM 实现
type GormDailyUpdateRepository struct {
	db *gorm.DB
}

// NewDailyUpdateRepository 创建日报仓库
func NewDailyUpdateRepository(db *gorm.DB) *GormDailyUpdateRepository {
	return &GormDailyUpdateRepository{db: db}
}

// GetByID 根据 ID 获取日报
func (r *GormDailyUpdateRepository) GetByID(id uint) (*models.DailyUpdate, error) {
	if id == 0 {
		return nil, nil
	}
	var update models.DailyUpdate
	if err := r.db.Preload("Child").Preload("Staff").First(&update, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &update, nil
}

// List 查询日报列表
func (r *GormDailyUpdateRepository) List(filter DailyUpdateListFilter) ([]models.DailyUpdate, int64, error) {
	query := r.db.Model(&models.DailyUpdate{}).Preload("Child").Preload("Staff")
	if filter.ChildID > 0 {
		query = query.Where("child_id = ?", filter.ChildID)
	}
	if len(filter.ChildIDs) > 0 {
		query = query.Where("child_id IN ?", filter.ChildIDs)
	}
	if filter.StaffID > 0 {
		query = query.Where("staff_id = ?", filter.StaffID)
	}
	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}
	if filter.OccurredFrom != nil {
		query = query.Where("occurred_at >= ?", *filter.OccurredFrom)
	}
	if filter.OccurredTo != nil {
		query = query.Where("occurred_at <= ?", *filter.OccurredTo)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query, filter.Page, filter.PageSize)

	var updates []models.DailyUpdate
	if err := query.Order("occurred_at DESC, id DESC").Find(&updates).Error; err != nil {
		return nil, 0, err
	}
	return updates, total, nil
}

// Create 创建日报
func (r *GormDailyUpdateRepository) Create(update *models.DailyUpdate) error {
	if update == nil {
		return errors.New("invalid daily update")
	}
	return r.db.Create(update).Error
}

// Update 更新日报
func (r *GormDailyUpdateRepository) Update(update *models.DailyUpdate) error {
	if update == nil {
		return errors.New("invalid daily update")
	}
	return r.db.Save(update).Error
}

// Delete 删除日报
func (r *GormDailyUpdateRepository) Delete(id uint) error {
	if id == 0 {
		return nil
	}
	return r.db.Delete(&models.DailyUpdate{}, id).Error
}
