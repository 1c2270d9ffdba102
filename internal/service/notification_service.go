package service

import (
	"strings"

	"github.com/FeexSystems/Rainbow-childcare-sub000/internal/models"
	"github.com/FeexSystems/Rainbow-childcare-sub000/internal/repository"
)

// NotificationService 站内通知服务
type NotificationService struct {
	repo repository.NotificationRepository
}

// NewNotificationService 创建通知服务
func NewNotificationService(repo repository.NotificationRepository) *NotificationService {
	return &NotificationService{repo: repo}
}

// NotifyGuardian 给家长发送站内通知
func (s *NotificationService) NotifyGuardian(guardianID uint, notifyType, title, body string) error {
	if guardianID == 0 || strings.TrimSpace(title) == "" {
		return nil
	}
	gid := guardianID
	return s.repo.Create(&models.Notification{
		RecipientType: models.NotificationRecipientGuardian,
		GuardianID:    &gid,
		Type:          notifyType,
		Title:         strings.TrimSpace(title),
		Body:          strings.TrimSpace(body),
	})
}

// NotifyGuardians 给一批家长发送同一条站内通知
func (s *NotificationService) NotifyGuardians(guardianIDs []uint, notifyType, title, body string) error {
	title = strings.TrimSpace(title)
	if len(guardianIDs) == 0 || title == "" {
		return nil
	}
	body = strings.TrimSpace(body)
	seen := make(map[uint]struct{}, len(guardianIDs))
	notifications := make([]models.Notification, 0, len(guardianIDs))
	for _, guardianID := range guardianIDs {
		if guardianID == 0 {
			continue
		}
		if _, ok := seen[guardianID]; ok {
			continue
		}
		seen[guardianID] = struct{}{}
		gid := guardianID
		notifications = append(notifications, models.Notification{
			RecipientType: models.NotificationRecipientGuardian,
			GuardianID:    &gid,
			Type:          notifyType,
			Title:         title,
			Body:          body,
		})
	}
	return s.repo.CreateBatch(notifications)
}

// NotifyStaff 给员工发送站内通知
func (s *NotificationService) NotifyStaff(staffID uint, notifyType, title, body string) error {
	if staffID == 0 || strings.TrimSpace(title) == "" {
		return nil
	}
	sid := staffID
	return s.repo.Create(&models.Notification{
		RecipientType: models.NotificationRecipientStaff,
		StaffID:       &sid,
		Type:          notifyType,
		Title:         strings.TrimSpace(title),
		Body:          strings.TrimSpace(body),
	})
}

// ListNotifications 查询通知列表
func (s *NotificationService) ListNotifications(filter repository.NotificationListFilter) ([]models.Notification, int64, error) {
	notifications, total, err := s.repo.List(filter)
	if err != nil {
		return nil, 0, ErrNotificationFetchFailed
	}
	return notifications, total, nil
}

// MarkRead 将通知标记为已读
// 只有通知的接收人本人可以标记。
func (s *NotificationService) MarkRead(id uint, guardianID, staffID uint) error {
	affected, err := s.repo.MarkRead(id, guardianID, staffID)
	if err != nil {
		return ErrNotificationFetchFailed
	}
	if affected == 0 {
		return ErrNotificationNotFound
	}
	return nil
}

// CountUnreadByGuardian 统计家长未读通知数
func (s *NotificationService) CountUnreadByGuardian(guardianID uint) (int64, error) {
	return s.repo.CountUnreadByGuardian(guardianID)
}
