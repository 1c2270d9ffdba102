package repository

import (
	"errors"

	"github.com/FeexSystems/Rainbow-childcare-sub000/internal/models"

	"gorm.io/gorm"
)

// ChildRepository 儿童档案数据访问接口
type ChildRepository interface {
	GetByID(id uint) (*models.Child, error)
	ListByIDs(ids []uint) ([]models.Child, error)
	ListByGuardian(guardianID uint) ([]models.Child, error)
	ListIDsByRoom(roomID uint) ([]uint, error)
	IsLinkedToGuardian(guardianID, childID uint) (bool, error)
	List(filter ChildListFilter) ([]models.Child, int64, error)
	Create(child *models.Child) error
	Update(child *models.Child) error
	Delete(id uint) error
	LinkGuardian(link *models.GuardianChild) error
	UnlinkGuardian(guardianID, childID uint) error
}

// GormChildRepository GORM 实现
type GormChildRepository struct {
	db *gorm.DB
}

// NewChildRepository 创建儿童仓库
func NewChildRepository(db *gorm.DB) *GormChildRepository {
	return &GormChildRepository{db: db}
}

// GetByID 根据 ID 获取儿童
func (r *GormChildRepository) GetByID(id uint) (*models.Child, error) {
	if id == 0 {
		return nil, nil
	}
	var child models.Child
	if err := r.db.Preload("Room").First(&child, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &child, nil
}

// ListByIDs 批量获取儿童
func (r *GormChildRepository) ListByIDs(ids []uint) ([]models.Child, error) {
	if len(ids) == 0 {
		return []models.Child{}, nil
	}
	var children []models.Child
	if err := r.db.Where("id IN ?", ids).Find(&children).Error; err != nil {
		return nil, err
	}
	return children, nil
}

// ListByGuardian 查询家长名下全部儿童
func (r *GormChildRepository) ListByGuardian(guardianID uint) ([]models.Child, error) {
	if guardianID == 0 {
		return []models.Child{}, nil
	}
	var children []models.Child
	if err := r.db.Preload("Room").
		Joins("JOIN guardian_children ON guardian_children.child_id = children.id").
		Where("guardian_children.guardian_id = ?", guardianID).
		Order("children.id ASC").
		Find(&children).Error; err != nil {
		return nil, err
	}
	return children, nil
}

// ListIDsByRoom 查询班级下全部儿童ID
func (r *GormChildRepository) ListIDsByRoom(roomID uint) ([]uint, error) {
	if roomID == 0 {
		return []uint{}, nil
	}
	var ids []uint
	if err := r.db.Model(&models.Child{}).Where("room_id = ?", roomID).Pluck("id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

// IsLinkedToGuardian 判断儿童是否关联到指定家长
func (r *GormChildRepository) IsLinkedToGuardian(guardianID, childID uint) (bool, error) {
	if guardianID == 0 || childID == 0 {
		return false, nil
	}
	var count int64
	if err := r.db.Model(&models.GuardianChild{}).
		Where("guardian_id = ? AND child_id = ?", guardianID, childID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// List 儿童列表
func (r *GormChildRepository) List(filter ChildListFilter) ([]models.Child, int64, error) {
	query := r.db.Model(&models.Child{}).Preload("Room")
	if filter.Keyword != "" {
		like := "%" + filter.Keyword + "%"
		query = query.Where("first_name LIKE ? OR last_name LIKE ?", like, like)
	}
	if filter.RoomID > 0 {
		query = query.Where("room_id = ?", filter.RoomID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.GuardianID > 0 {
		query = query.Joins("JOIN guardian_children ON guardian_children.child_id = children.id").
			Where("guardian_children.guardian_id = ?", filter.GuardianID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query, filter.Page, filter.PageSize)

	var children []models.Child
	if err := query.Order("children.id ASC").Find(&children).Error; err != nil {
		return nil, 0, err
	}
	return children, total, nil
}

// Create 创建儿童档案
func (r *GormChildRepository) Create(child *models.Child) error {
	return r.db.Create(child).Error
}

// Update 更新儿童档案
func (r *GormChildRepository) Update(child *models.Child) error {
	return r.db.Save(child).Error
}

// Delete 删除儿童档案
func (r *GormChildRepository) Delete(id uint) error {
	if id == 0 {
		return nil
	}
	return r.db.Delete(&models.Child{}, id).Error
}

// LinkGuardian 关联家长与儿童
func (r *GormChildRepository) LinkGuardian(link *models.GuardianChild) error {
	if link == nil {
		return errors.New("invalid guardian child link")
	}
	return r.db.Create(link).Error
}

// UnlinkGuardian 解除家长与儿童的关联
func (r *GormChildRepository) UnlinkGuardian(guardianID, childID uint) error {
	if guardianID == 0 || childID == 0 {
		return nil
	}
	return r.db.Where("guardian_id = ? AND child_id = ?", guardianID, childID).
		Delete(&models.GuardianChild{}).Error
}
