package repository

import (
	"errors"

	"github.com/FeexSystems/Rainbow-childcare-sub000/internal/constants"
	"github.com/FeexSystems/Rainbow-childcare-sub000/internal/models"

	"gorm.io/gorm"
)

// AnnouncementRepository 公告数据访问接口
type AnnouncementRepository interface {
	GetByID(id uint) (*models.Announcement, error)
	List(filter AnnouncementListFilter) ([]models.Announcement, int64, error)
	Create(announcement *models.Announcement) error
	Update(announcement *models.Announcement) error
	Delete(id uint) error
}

// GormAnnouncementRepository GORM 实现
type GormAnnouncementRepository struct {
	db *gorm.DB
}

// NewAnnouncementRepository 创建公告仓库
func NewAnnouncementRepository(db *gorm.DB) *GormAnnouncementRepository {
	return &GormAnnouncementRepository{db: db}
}

// GetByID 根据 ID 获取公告
func (r *GormAnnouncementRepository) GetByID(id uint) (*models.Announcement, error) {
	if id == 0 {
		return nil, nil
	}
	var announcement models.Announcement
	if err := r.db.Preload("Staff").Preload("Room").First(&announcement, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &announcement, nil
}

// List 查询公告列表
func (r *GormAnnouncementRepository) List(filter AnnouncementListFilter) ([]models.Announcement, int64, error) {
	query := r.db.Model(&models.Announcement{}).Preload("Staff").Preload("Room")
	if filter.Audience != "" {
		query = query.Where("audience = ?", filter.Audience)
	}
	if filter.RoomID > 0 {
		query = query.Where("room_id = ?", filter.RoomID)
	}
	if filter.OnlyPublished {
		query = query.Where("is_published = ?", true)
	}
	if filter.RoomScope != nil {
		if *filter.RoomScope > 0 {
			query = query.Where("audience = ? OR (audience = ? AND room_id = ?)",
				constants.AnnouncementAudienceAll, constants.AnnouncementAudienceRoom, *filter.RoomScope)
		} else {
			query = query.Where("audience = ?", constants.AnnouncementAudienceAll)
		}
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query, filter.Page, filter.PageSize)

	var announcements []models.Announcement
	if err := query.Order("published_at DESC, id DESC").Find(&announcements).Error; err != nil {
		return nil, 0, err
	}
	return announcements, total, nil
}

// Create 创建公告
func (r *GormAnnouncementRepository) Create(announcement *models.Announcement) error {
	if announcement == nil {
		return errors.New("invalid announcement")
	}
	return r.db.Create(announcement).Error
}

// Update 更新公告
func (r *GormAnnouncementRepository) Update(announcement *models.Announcement) error {
	if announcement == nil {
		return errors.New("invalid announcement")
	}
	return r.db.Save(announcement).Error
}

// Delete 删除公告
func (r *GormAnnouncementRepository) Delete(id uint) error {
	if id == 0 {
		return nil
	}
	return r.db.Delete(&models.Announcement{}, id).Error
}
