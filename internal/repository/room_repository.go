package repository

import (
	"errors"

	"github.com/FeexSystems/Rainbow-childcare-sub000/internal/models"

	"gorm.io/gorm"
)

// RoomRepository 班级数据访问接口
type RoomRepository interface {
	GetByID(id uint) (*models.Room, error)
	ListAll() ([]models.Room, error)
	Create(room *models.Room) error
	Update(room *models.Room) error
	Delete(id uint) error
}

// GormRoomRepository GORM 实现
type GormRoomRepository struct {
	db *gorm.DB
}

// NewRoomRepository 创建班级仓库
func NewRoomRepository(db *gorm.DB) *GormRoomRepository {
	return &GormRoomRepository{db: db}
}

// GetByID 根据 ID 获取班级
func (r *GormRoomRepository) GetByID(id uint) (*models.Room, error) {
	if id == 0 {
		return nil, nil
	}
	var room models.Room
	if err := r.db.First(&room, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &room, nil
}

// ListAll 查询全部班级
func (r *GormRoomRepository) ListAll() ([]models.Room, error) {
	var rooms []models.Room
	if err := r.db.Order("sort_order ASC, id ASC").Find(&rooms).Error; err != nil {
		return nil, err
	}
	return rooms, nil
}

// Create 创建班级
func (r *GormRoomRepository) Create(room *models.Room) error {
	return r.db.Create(room).Error
}

// Update 更新班级
func (r *GormRoomRepository) Update(room *models.Room) error {
	return r.db.Save(room).Error
}

// Delete 删除班级
func (r *GormRoomRepository) Delete(id uint) error {
	if id == 0 {
		return nil
	}
	return r.db.Delete(&models.Room{}, id).Error
}
