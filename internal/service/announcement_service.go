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

// AnnouncementService 公告服务
type AnnouncementService struct {
	repo        repository.AnnouncementRepository
	roomRepo    repository.RoomRepository
	queueClient *queue.Client
}

// NewAnnouncementService 创建公告服务
func NewAnnouncementService(repo repository.AnnouncementRepository, roomRepo repository.RoomRepository, queueClient *queue.Client) *AnnouncementService {
	return &AnnouncementService{
		repo:        repo,
		roomRepo:    roomRepo,
		queueClient: queueClient,
	}
}

// AnnouncementCreateInput 创建公告输入
type AnnouncementCreateInput struct {
	StaffID  uint
	Title    string
	Body     string
	Audience string
	RoomID   *uint
	Publish  bool
}

// AnnouncementUpdateInput 更新公告输入
type AnnouncementUpdateInput struct {
	Title *string
	Body  *string
}

// CreateAnnouncement 创建公告，发布时触发异步分发
func (s *AnnouncementService) CreateAnnouncement(input AnnouncementCreateInput) (*models.Announcement, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, ErrAnnouncementInvalid
	}

	audience := strings.TrimSpace(input.Audience)
	switch audience {
	case constants.AnnouncementAudienceAll:
		input.RoomID = nil
	case constants.AnnouncementAudienceRoom:
		if input.RoomID == nil || *input.RoomID == 0 {
			return nil, ErrAnnouncementInvalid
		}
		room, err := s.roomRepo.GetByID(*input.RoomID)
		if err != nil {
			return nil, err
		}
		if room == nil {
			return nil, ErrRoomNotFound
		}
	default:
		return nil, ErrAnnouncementInvalid
	}

	announcement := &models.Announcement{
		StaffID:  input.StaffID,
		Title:    title,
		Body:     strings.TrimSpace(input.Body),
		Audience: audience,
		RoomID:   input.RoomID,
	}
	if input.Publish {
		now := time.Now()
		announcement.IsPublished = true
		announcement.PublishedAt = &now
	}

	if err := s.repo.Create(announcement); err != nil {
		return nil, ErrAnnouncementCreateFailed
	}

	if announcement.IsPublished {
		s.enqueueFanout(announcement.ID)
	}
	return announcement, nil
}

// PublishAnnouncement 发布草稿公告
func (s *AnnouncementService) PublishAnnouncement(id uint) (*models.Announcement, error) {
	announcement, err := s.repo.GetByID(id)
	if err != nil {
		return nil, ErrAnnouncementFetchFailed
	}
	if announcement == nil {
		return nil, ErrAnnouncementNotFound
	}
	if announcement.IsPublished {
		return announcement, nil
	}

	now := time.Now()
	announcement.IsPublished = true
	announcement.PublishedAt = &now
	if err := s.repo.Update(announcement); err != nil {
		return nil, ErrAnnouncementCreateFailed
	}

	s.enqueueFanout(announcement.ID)
	return announcement, nil
}

// UpdateAnnouncement 更新公告内容
func (s *AnnouncementService) UpdateAnnouncement(id uint, input AnnouncementUpdateInput) (*models.Announcement, error) {
	announcement, err := s.repo.GetByID(id)
	if err != nil {
		return nil, ErrAnnouncementFetchFailed
	}
	if announcement == nil {
		return nil, ErrAnnouncementNotFound
	}

	if input.Title != nil {
		trimmed := strings.TrimSpace(*input.Title)
		if trimmed == "" {
			return nil, ErrAnnouncementInvalid
		}
		announcement.Title = trimmed
	}
	if input.Body != nil {
		announcement.Body = strings.TrimSpace(*input.Body)
	}

	if err := s.repo.Update(announcement); err != nil {
		return nil, ErrAnnouncementCreateFailed
	}
	return announcement, nil
}

// GetAnnouncement 获取公告
func (s *AnnouncementService) GetAnnouncement(id uint) (*models.Announcement, error) {
	announcement, err := s.repo.GetByID(id)
	if err != nil {
		return nil, ErrAnnouncementFetchFailed
	}
	if announcement == nil {
		return nil, ErrAnnouncementNotFound
	}
	return announcement, nil
}

// ListAnnouncements 查询公告列表
func (s *AnnouncementService) ListAnnouncements(filter repository.AnnouncementListFilter) ([]models.Announcement, int64, error) {
	announcements, total, err := s.repo.List(filter)
	if err != nil {
		return nil, 0, ErrAnnouncementFetchFailed
	}
	return announcements, total, nil
}

// ListAnnouncementsForGuardian 查询家长可见的公告
// 返回全园公告加上其子女所在班级的公告，只含已发布内容。
func (s *AnnouncementService) ListAnnouncementsForGuardian(childRepo repository.ChildRepository, guardianID uint, page, pageSize int) ([]models.Announcement, int64, error) {
	filter := repository.AnnouncementListFilter{
		Page:          page,
		PageSize:      pageSize,
		OnlyPublished: true,
	}

	children, err := childRepo.ListByGuardian(guardianID)
	if err != nil {
		return nil, 0, ErrAnnouncementFetchFailed
	}
	for _, child := range children {
		if child.RoomID != nil {
			filter.RoomScope = child.RoomID
			break
		}
	}
	return s.ListAnnouncements(filter)
}

// DeleteAnnouncement 删除公告
func (s *AnnouncementService) DeleteAnnouncement(id uint) error {
	announcement, err := s.repo.GetByID(id)
	if err != nil {
		return ErrAnnouncementFetchFailed
	}
	if announcement == nil {
		return ErrAnnouncementNotFound
	}
	return s.repo.Delete(id)
}

func (s *AnnouncementService) enqueueFanout(announcementID uint) {
	if err := s.queueClient.EnqueueAnnouncementFanout(queue.AnnouncementFanoutPayload{
		AnnouncementID: announcementID,
	}); err != nil {
		logger.Warnw("announcement_fanout_enqueue_failed",
			"announcement_id", announcementID,
			"error", err,
		)
	}
}
