package service

import (
	"strings"
	"time"

	"github.com/FeexSystems/Rainbow-childcare-sub000/internal/constants"
	"github.com/FeexSystems/Rainbow-childcare-sub000/internal/logger"
	"github.com/FeexSystems/Rainbow-childcare-sub000/internal/models"
	"github.com/FeexSystems/Rainbow-childcare-sub000/internal/queue"
	"github.com/FeexSystems/Rainbow-childcare-sub000/internal/repository"
)

// DailyUpdateService 日报服务
type DailyUpdateService struct {
	repo        repository.DailyUpdateRepository
	childRepo   repository.ChildRepository
	queueClient *queue.Client
}

// NewDailyUpdateService 创建日报服务
func NewDailyUpdateService(repo repository.DailyUpdateRepository, childRepo repository.ChildRepository, queueClient *queue.Client) *DailyUpdateService {
	return &DailyUpdateService{
		repo:        repo,
		childRepo:   childRepo,
		queueClient: queueClient,
	}
}

// DailyUpdateCreateInput 创建日报输入
type DailyUpdateCreateInput struct {
	ChildID    uint
	StaffID    uint
	Category   string
	Title      string
	Body       string
	Photos     []string
	OccurredAt time.Time
}

// CreateDailyUpdate 创建日报并异步通知家长
func (s *DailyUpdateService) CreateDailyUpdate(input DailyUpdateCreateInput) (*models.DailyUpdate, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, ErrDailyUpdateInvalid
	}
	if !isDailyUpdateCategorySupported(input.Category) {
		return nil, ErrDailyUpdateInvalid
	}

	child, err := s.childRepo.GetByID(input.ChildID)
	if err != nil {
		return nil, ErrDailyUpdateFetchFailed
	}
	if child == nil {
		return nil, ErrChildNotFound
	}

	occurredAt := input.OccurredAt
	if occurredAt.IsZero() {
		occurredAt = time.Now()
	}

	update := &models.DailyUpdate{
		ChildID:    input.ChildID,
		StaffID:    input.StaffID,
		Category:   input.Category,
		Title:      title,
		Body:       strings.TrimSpace(input.Body),
		Photos:     models.StringArray(input.Photos),
		OccurredAt: occurredAt,
	}
	if err := s.repo.Create(update); err != nil {
		return nil, ErrDailyUpdateCreateFailed
	}

	if enqueueErr := s.queueClient.EnqueueDailyUpdateNotice(queue.DailyUpdateNoticePayload{
		DailyUpdateID: update.ID,
	}); enqueueErr != nil {
		logger.Warnw("daily_update_notice_enqueue_failed",
			"daily_update_id", update.ID,
			"error", enqueueErr,
		)
	}

	return update, nil
}

// GetDailyUpdate 获取日报
func (s *DailyUpdateService) GetDailyUpdate(id uint) (*models.DailyUpdate, error) {
	update, err := s.repo.GetByID(id)
	if err != nil {
		return nil, ErrDailyUpdateFetchFailed
	}
	if update == nil {
		return nil, ErrDailyUpdateNotFound
	}
	return update, nil
}

// ListDailyUpdates 查询日报列表
func (s *DailyUpdateService) ListDailyUpdates(filter repository.DailyUpdateListFilter) ([]models.DailyUpdate, int64, error) {
	updates, total, err := s.repo.List(filter)
	if err != nil {
		return nil, 0, ErrDailyUpdateFetchFailed
	}
	return updates, total, nil
}

// ListDailyUpdatesForGuardian 查询家长名下儿童的日报
func (s *DailyUpdateService) ListDailyUpdatesForGuardian(guardianID uint, filter repository.DailyUpdateListFilter) ([]models.DailyUpdate, int64, error) {
	if filter.ChildID != 0 {
		linked, err := s.childRepo.IsLinkedToGuardian(guardianID, filter.ChildID)
		if err != nil {
			return nil, 0, ErrDailyUpdateFetchFailed
		}
		if !linked {
			return nil, 0, ErrChildNotFound
		}
		return s.ListDailyUpdates(filter)
	}

	children, err := s.childRepo.ListByGuardian(guardianID)
	if err != nil {
		return nil, 0, ErrDailyUpdateFetchFailed
	}
	if len(children) == 0 {
		return []models.DailyUpdate{}, 0, nil
	}
	childIDs := make([]uint, 0, len(children))
	for _, child := range children {
		childIDs = append(childIDs, child.ID)
	}
	filter.ChildIDs = childIDs
	return s.ListDailyUpdates(filter)
}

// DeleteDailyUpdate 删除日报
func (s *DailyUpdateService) DeleteDailyUpdate(id uint) error {
	update, err := s.repo.GetByID(id)
	if err != nil {
		return ErrDailyUpdateFetchFailed
	}
	if update == nil {
		return ErrDailyUpdateNotFound
	}
	return s.repo.Delete(id)
}

func isDailyUpdateCategorySupported(category string) bool {
	switch category {
	case constants.DailyUpdateCategoryMeal,
		constants.DailyUpdateCategoryNap,
		constants.DailyUpdateCategoryActivity,
		constants.DailyUpdateCategoryIncident,
		constants.DailyUpdateCategoryPhoto:
		return true
	default:
		return false
	}
}
