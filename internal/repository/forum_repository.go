package repository

import (
	"errors"
	"time"

	"github.com/FeexSystems/Rainbow-childcare-sub000/internal/models"

	"gorm.io/gorm"
)

// ForumRepository 家长论坛数据访问接口
type ForumRepository interface {
	GetThreadByID(id uint) (*models.ForumThread, error)
	ListThreads(filter ForumThreadListFilter) ([]models.ForumThread, int64, error)
	CreateThread(thread *models.ForumThread) error
	UpdateThread(thread *models.ForumThread) error
	DeleteThread(id uint) error
	ListReplies(threadID uint, page, pageSize int) ([]models.ForumReply, int64, error)
	CreateReply(reply *models.ForumReply) error
	DeleteReply(id uint) error
	WithTx(tx *gorm.DB) *GormForumRepository
}

// GormForumRepository GORM 实现
type GormForumRepository struct {
	db *gorm.DB
}

// NewForumRepository 创建论坛仓库
func NewForumRepository(db *gorm.DB) *GormForumRepository {
	return &GormForumRepository{db: db}
}

// WithTx 绑定事务
func (r *GormForumRepository) WithTx(tx *gorm.DB) *GormForumRepository {
	if tx == nil {
		return r
	}
	return &GormForumRepository{db: tx}
}

// GetThreadByID 根据 ID 获取主题
func (r *GormForumRepository) GetThreadByID(id uint) (*models.ForumThread, error) {
	if id == 0 {
		return nil, nil
	}
	var thread models.ForumThread
	if err := r.db.Preload("Guardian").First(&thread, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &thread, nil
}

// ListThreads 查询主题列表（置顶优先）
func (r *GormForumRepository) ListThreads(filter ForumThreadListFilter) ([]models.ForumThread, int64, error) {
	query := r.db.Model(&models.ForumThread{}).Preload("Guardian")
	if filter.GuardianID > 0 {
		query = query.Where("guardian_id = ?", filter.GuardianID)
	}
	if filter.Keyword != "" {
		like := "%" + filter.Keyword + "%"
		query = query.Where("title LIKE ?", like)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query, filter.Page, filter.PageSize)

	var threads []models.ForumThread
	if err := query.Order("is_pinned DESC, COALESCE(last_replied_at, created_at) DESC, id DESC").
		Find(&threads).Error; err != nil {
		return nil, 0, err
	}
	return threads, total, nil
}

// CreateThread 创建主题
func (r *GormForumRepository) CreateThread(thread *models.ForumThread) error {
	if thread == nil {
		return errors.New("invalid forum thread")
	}
	return r.db.Create(thread).Error
}

// UpdateThread 更新主题
func (r *GormForumRepository) UpdateThread(thread *models.ForumThread) error {
	if thread == nil {
		return errors.New("invalid forum thread")
	}
	return r.db.Save(thread).Error
}

// DeleteThread 删除主题
func (r *GormForumRepository) DeleteThread(id uint) error {
	if id == 0 {
		return nil
	}
	return r.db.Delete(&models.ForumThread{}, id).Error
}

// ListReplies 查询主题回复列表
func (r *GormForumRepository) ListReplies(threadID uint, page, pageSize int) ([]models.ForumReply, int64, error) {
	if threadID == 0 {
		return []models.ForumReply{}, 0, nil
	}
	query := r.db.Model(&models.ForumReply{}).
		Preload("Guardian").Preload("Staff").
		Where("thread_id = ?", threadID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query, page, pageSize)

	var replies []models.ForumReply
	if err := query.Order("id ASC").Find(&replies).Error; err != nil {
		return nil, 0, err
	}
	return replies, total, nil
}

// CreateReply 创建回复并同步主题统计
func (r *GormForumRepository) CreateReply(reply *models.ForumReply) error {
	if reply == nil {
		return errors.New("invalid forum reply")
	}
	if err := r.db.Create(reply).Error; err != nil {
		return err
	}
	now := time.Now()
	return r.db.Model(&models.ForumThread{}).
		Where("id = ?", reply.ThreadID).
		Updates(map[string]interface{}{
			"reply_count":     gorm.Expr("reply_count + 1"),
			"last_replied_at": now,
			"updated_at":      now,
		}).Error
}

// DeleteReply 删除回复
func (r *GormForumRepository) DeleteReply(id uint) error {
	if id == 0 {
		return nil
	}
	return r.db.Delete(&models.ForumReply{}, id).Error
}
