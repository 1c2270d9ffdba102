package service

import (
	"strings"
	"time"

	"github.com/FeexSystems/Rainbow-childcare-sub000/internal/models"
	"github.com/FeexSystems/Rainbow-childcare-sub000/internal/repository"
)

// ForumService 家长论坛服务
type ForumService struct {
	repo repository.ForumRepository
}

// NewForumService 创建论坛服务
func NewForumService(repo repository.ForumRepository) *ForumService {
	return &ForumService{repo: repo}
}

// ForumThreadCreateInput 创建主题输入
type ForumThreadCreateInput struct {
	GuardianID uint
	Title      string
	Body       string
}

// ForumReplyCreateInput 创建回复输入
type ForumReplyCreateInput struct {
	ThreadID   uint
	AuthorType string
	GuardianID uint
	StaffID    uint
	Body       string
}

// CreateThread 创建论坛主题
func (s *ForumService) CreateThread(input ForumThreadCreateInput) (*models.ForumThread, error) {
	title := strings.TrimSpace(input.Title)
	body := strings.TrimSpace(input.Body)
	if title == "" || body == "" || input.GuardianID == 0 {
		return nil, ErrForumInvalid
	}

	thread := &models.ForumThread{
		GuardianID: input.GuardianID,
		Title:      title,
		Body:       body,
	}
	if err := s.repo.CreateThread(thread); err != nil {
		return nil, ErrForumCreateFailed
	}
	return thread, nil
}

// GetThread 获取论坛主题
func (s *ForumService) GetThread(id uint) (*models.ForumThread, error) {
	thread, err := s.repo.GetThreadByID(id)
	if err != nil {
		return nil, ErrForumFetchFailed
	}
	if thread == nil {
		return nil, ErrForumThreadNotFound
	}
	return thread, nil
}

// ListThreads 查询论坛主题列表
func (s *ForumService) ListThreads(filter repository.ForumThreadListFilter) ([]models.ForumThread, int64, error) {
	threads, total, err := s.repo.ListThreads(filter)
	if err != nil {
		return nil, 0, ErrForumFetchFailed
	}
	return threads, total, nil
}

// ListReplies 查询主题回复列表
func (s *ForumService) ListReplies(threadID uint, page, pageSize int) ([]models.ForumReply, int64, error) {
	if _, err := s.GetThread(threadID); err != nil {
		return nil, 0, err
	}
	replies, total, err := s.repo.ListReplies(threadID, page, pageSize)
	if err != nil {
		return nil, 0, ErrForumFetchFailed
	}
	return replies, total, nil
}

// CreateReply 回复论坛主题
// 锁定的主题禁止新回复。
func (s *ForumService) CreateReply(input ForumReplyCreateInput) (*models.ForumReply, error) {
	body := strings.TrimSpace(input.Body)
	if body == "" {
		return nil, ErrForumInvalid
	}

	thread, err := s.GetThread(input.ThreadID)
	if err != nil {
		return nil, err
	}
	if thread.IsLocked {
		return nil, ErrForumThreadLocked
	}

	reply := &models.ForumReply{
		ThreadID: input.ThreadID,
		Body:     body,
	}
	switch input.AuthorType {
	case models.ForumAuthorGuardian:
		if input.GuardianID == 0 {
			return nil, ErrForumInvalid
		}
		reply.AuthorType = models.ForumAuthorGuardian
		reply.GuardianID = &input.GuardianID
	case models.ForumAuthorStaff:
		if input.StaffID == 0 {
			return nil, ErrForumInvalid
		}
		reply.AuthorType = models.ForumAuthorStaff
		reply.StaffID = &input.StaffID
	default:
		return nil, ErrForumInvalid
	}

	if err := s.repo.CreateReply(reply); err != nil {
		return nil, ErrForumCreateFailed
	}
	return reply, nil
}

// SetThreadLocked 设置主题锁定状态
func (s *ForumService) SetThreadLocked(id uint, locked bool) (*models.ForumThread, error) {
	thread, err := s.GetThread(id)
	if err != nil {
		return nil, err
	}
	if thread.IsLocked == locked {
		return thread, nil
	}
	thread.IsLocked = locked
	thread.UpdatedAt = time.Now()
	if err := s.repo.UpdateThread(thread); err != nil {
		return nil, ErrForumCreateFailed
	}
	return thread, nil
}

// SetThreadPinned 设置主题置顶状态
func (s *ForumService) SetThreadPinned(id uint, pinned bool) (*models.ForumThread, error) {
	thread, err := s.GetThread(id)
	if err != nil {
		return nil, err
	}
	if thread.IsPinned == pinned {
		return thread, nil
	}
	thread.IsPinned = pinned
	thread.UpdatedAt = time.Now()
	if err := s.repo.UpdateThread(thread); err != nil {
		return nil, ErrForumCreateFailed
	}
	return thread, nil
}

// DeleteThread 删除主题
func (s *ForumService) DeleteThread(id uint) error {
	if _, err := s.GetThread(id); err != nil {
		return err
	}
	return s.repo.DeleteThread(id)
}

// DeleteReply 删除回复
func (s *ForumService) DeleteReply(id uint) error {
	return s.repo.DeleteReply(id)
}
