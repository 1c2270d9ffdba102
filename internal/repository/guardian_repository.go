package repository

import (
	"errors"
	"strings"
	"time"

	"github.com/FeexSystems/Rainbow-childcare-sub000/internal/constants"
	"github.com/FeexSystems/Rainbow-childcare-sub000/internal/models"

	"gorm.io/gorm"
)

// GuardianRepository 家长数据访问接口
type GuardianRepository interface {
	GetByEmail(email string) (*models.Guardian, error)
	GetByID(id uint) (*models.Guardian, error)
	ListByIDs(ids []uint) ([]models.Guardian, error)
	ListByChildID(childID uint) ([]models.Guardian, error)
	ListActive() ([]models.Guardian, error)
	Create(guardian *models.Guardian) error
	Update(guardian *models.Guardian) error
	List(filter GuardianListFilter) ([]models.Guardian, int64, error)
	BatchUpdateStatus(guardianIDs []uint, status string) error
}

// GormGuardianRepository GORM 实现
type GormGuardianRepository struct {
	db *gorm.DB
}

// NewGuardianRepository 创建家长仓库
func NewGuardianRepository(db *gorm.DB) *GormGuardianRepository {
	return &GormGuardianRepository{db: db}
}

// GetByEmail 根据邮箱获取家长
func (r *GormGuardianRepository) GetByEmail(email string) (*models.Guardian, error) {
	var guardian models.Guardian
	if err := r.db.Where("email = ?", email).First(&guardian).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &guardian, nil
}

// GetByID 根据 ID 获取家长
func (r *GormGuardianRepository) GetByID(id uint) (*models.Guardian, error) {
	var guardian models.Guardian
	if err := r.db.First(&guardian, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &guardian, nil
}

// ListByIDs 批量获取家长
func (r *GormGuardianRepository) ListByIDs(ids []uint) ([]models.Guardian, error) {
	if len(ids) == 0 {
		return []models.Guardian{}, nil
	}
	var guardians []models.Guardian
	if err := r.db.Where("id IN ?", ids).Find(&guardians).Error; err != nil {
		return nil, err
	}
	return guardians, nil
}

// ListByChildID 查询某儿童的全部关联家长
func (r *GormGuardianRepository) ListByChildID(childID uint) ([]models.Guardian, error) {
	if childID == 0 {
		return []models.Guardian{}, nil
	}
	var guardians []models.Guardian
	if err := r.db.
		Joins("JOIN guardian_children ON guardian_children.guardian_id = guardians.id").
		Where("guardian_children.child_id = ?", childID).
		Find(&guardians).Error; err != nil {
		return nil, err
	}
	return guardians, nil
}

// ListActive 查询全部启用状态的家长
func (r *GormGuardianRepository) ListActive() ([]models.Guardian, error) {
	var guardians []models.Guardian
	if err := r.db.
		Where("status = ?", constants.GuardianStatusActive).
		Order("id ASC").
		Find(&guardians).Error; err != nil {
		return nil, err
	}
	return guardians, nil
}

// Create 创建家长
func (r *GormGuardianRepository) Create(guardian *models.Guardian) error {
	return r.db.Create(guardian).Error
}

// Update 更新家长
func (r *GormGuardianRepository) Update(guardian *models.Guardian) error {
	return r.db.Save(guardian).Error
}

// List 家长列表
func (r *GormGuardianRepository) List(filter GuardianListFilter) ([]models.Guardian, int64, error) {
	query := r.db.Model(&models.Guardian{})

	if filter.Keyword != "" {
		like := "%" + filter.Keyword + "%"
		query = query.Where("email LIKE ? OR display_name LIKE ? OR phone LIKE ?", like, like, like)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
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

	var guardians []models.Guardian
	if err := query.Order("id DESC").Find(&guardians).Error; err != nil {
		return nil, 0, err
	}
	return guardians, total, nil
}

// BatchUpdateStatus 批量更新家长状态
func (r *GormGuardianRepository) BatchUpdateStatus(guardianIDs []uint, status string) error {
	if len(guardianIDs) == 0 {
		return nil
	}
	now := time.Now()
	updates := map[string]interface{}{
		"status":     status,
		"updated_at": now,
	}
	if strings.ToLower(strings.TrimSpace(status)) == constants.GuardianStatusDisabled {
		updates["token_invalid_before"] = now
		updates["token_version"] = gorm.Expr("token_version + 1")
	}
	return r.db.Model(&models.Guardian{}).Where("id IN ?", guardianIDs).Updates(updates).Error
}
