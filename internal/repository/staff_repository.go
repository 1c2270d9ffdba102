package repository

import (
	"errors"

	"github.com/FeexSystems/Rainbow-childcare-sub000/internal/models"

	"gorm.io/gorm"
)

// StaffRepository 员工数据访问接口
type StaffRepository interface {
	GetByUsername(username string) (*models.Staff, error)
	GetByID(id uint) (*models.Staff, error)
	ListByIDs(ids []uint) ([]models.Staff, error)
	List(page, pageSize int, keyword string) ([]models.Staff, int64, error)
	Count() (int64, error)
	Create(staff *models.Staff) error
	Update(staff *models.Staff) error
	Delete(id uint) error
}

// GormStaffRepository GORM 实现
type GormStaffRepository struct {
	db *gorm.DB
}

// NewStaffRepository 创建员工仓库
func NewStaffRepository(db *gorm.DB) *GormStaffRepository {
	return &GormStaffRepository{db: db}
}

// GetByUsername 根据账号获取员工
func (r *GormStaffRepository) GetByUsername(username string) (*models.Staff, error) {
	var staff models.Staff
	if err := r.db.Where("username = ?", username).First(&staff).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &staff, nil
}

// GetByID 根据 ID 获取员工
func (r *GormStaffRepository) GetByID(id uint) (*models.Staff, error) {
	var staff models.Staff
	if err := r.db.First(&staff, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &staff, nil
}

// ListByIDs 批量获取员工
func (r *GormStaffRepository) ListByIDs(ids []uint) ([]models.Staff, error) {
	if len(ids) == 0 {
		return []models.Staff{}, nil
	}
	var staffs []models.Staff
	if err := r.db.Where("id IN ?", ids).Find(&staffs).Error; err != nil {
		return nil, err
	}
	return staffs, nil
}

// List 员工列表
func (r *GormStaffRepository) List(page, pageSize int, keyword string) ([]models.Staff, int64, error) {
	query := r.db.Model(&models.Staff{})
	if keyword != "" {
		like := "%" + keyword + "%"
		query = query.Where("username LIKE ? OR display_name LIKE ?", like, like)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query, page, pageSize)

	var staffs []models.Staff
	if err := query.Order("id ASC").Find(&staffs).Error; err != nil {
		return nil, 0, err
	}
	return staffs, total, nil
}

// Count 员工总数
func (r *GormStaffRepository) Count() (int64, error) {
	var total int64
	if err := r.db.Model(&models.Staff{}).Count(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}

// Create 创建员工
func (r *GormStaffRepository) Create(staff *models.Staff) error {
	return r.db.Create(staff).Error
}

// Update 更新员工
func (r *GormStaffRepository) Update(staff *models.Staff) error {
	return r.db.Save(staff).Error
}

// Delete 删除员工
func (r *GormStaffRepository) Delete(id uint) error {
	if id == 0 {
		return nil
	}
	return r.db.Delete(&models.Staff{}, id).Error
}
