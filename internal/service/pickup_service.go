package service

import (
	crand "crypto/rand"
	"encoding/hex"
	"strings"
	"time"

	"github.com/FeexSystems/Rainbow-childcare-sub000/internal/config"
	"github.com/FeexSystems/Rainbow-childcare-sub000/internal/constants"
	"github.com/FeexSystems/Rainbow-childcare-sub000/internal/logger"
	"github.com/FeexSystems/Rainbow-childcare-sub000/internal/metrics"
	"github.com/FeexSystems/Rainbow-childcare-sub000/internal/models"
	"github.com/FeexSystems/Rainbow-childcare-sub000/internal/queue"
	"github.com/FeexSystems/Rainbow-childcare-sub000/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	pickupCodePrefix = "PK"
	// 16 字节随机数 = 128 位熵，十六进制展开为 32 个字符
	pickupCodeRandomBytes = 16

	defaultPickupExpireHours          = 24
	defaultPickupIssueIntervalSeconds = 60
)

// PickupService 接送码服务
type PickupService struct {
	repo           repository.PickupAuthorizationRepository
	childRepo      repository.ChildRepository
	attendanceRepo repository.AttendanceRepository
	queueClient    *queue.Client
	cfg            config.PickupConfig
}

// PickupIssueInput 签发接送码输入
type PickupIssueInput struct {
	GuardianID uint
	ChildID    uint
}

// PickupRedeemInput 核销接送码输入
type PickupRedeemInput struct {
	StaffID uint
	Code    string
}

// PickupListInput 查询接送码列表输入
type PickupListInput struct {
	GuardianID uint
	ChildID    uint
	Page       int
	PageSize   int
}

// NewPickupService 创建接送码服务
func NewPickupService(
	repo repository.PickupAuthorizationRepository,
	childRepo repository.ChildRepository,
	attendanceRepo repository.AttendanceRepository,
	queueClient *queue.Client,
	cfg config.PickupConfig,
) *PickupService {
	return &PickupService{
		repo:           repo,
		childRepo:      childRepo,
		attendanceRepo: attendanceRepo,
		queueClient:    queueClient,
		cfg:            cfg,
	}
}

// IssuePickupCode 为家长签发儿童接送码
// 同一儿童只保留一个在用码：签发新码时将旧的在用码全部标记为被顶替。
func (s *PickupService) IssuePickupCode(input PickupIssueInput) (*models.PickupAuthorization, error) {
	if s == nil || s.repo == nil || s.childRepo == nil {
		return nil, ErrPickupIssueFailed
	}
	if input.GuardianID == 0 || input.ChildID == 0 {
		return nil, ErrPickupChildInvalid
	}

	linked, err := s.childRepo.IsLinkedToGuardian(input.GuardianID, input.ChildID)
	if err != nil {
		return nil, ErrPickupIssueFailed
	}
	if !linked {
		return nil, ErrPickupChildInvalid
	}
	child, err := s.childRepo.GetByID(input.ChildID)
	if err != nil {
		return nil, ErrPickupIssueFailed
	}
	if child == nil || child.Status != constants.ChildStatusEnrolled {
		return nil, ErrPickupChildInvalid
	}

	now := time.Now()
	interval := s.issueInterval()
	if interval > 0 {
		lastIssuedAt, err := s.repo.LatestIssuedAtByChild(input.ChildID)
		if err != nil {
			return nil, ErrPickupIssueFailed
		}
		if lastIssuedAt != nil && now.Sub(*lastIssuedAt) < interval {
			return nil, ErrPickupRateLimited
		}
	}

	code, err := generatePickupCode()
	if err != nil {
		logger.Errorw("pickup_code_generate_failed", "error", err)
		return nil, ErrPickupCodeGenFailed
	}

	auth := &models.PickupAuthorization{
		UUID:       uuid.NewString(),
		Code:       code,
		ChildID:    input.ChildID,
		GuardianID: input.GuardianID,
		IssuedAt:   now,
		ExpiresAt:  now.Add(s.expireDuration()),
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := models.DB.Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if _, err := repo.SupersedeActiveByChild(input.ChildID, now); err != nil {
			return err
		}
		return repo.Create(auth)
	}); err != nil {
		logger.Errorw("pickup_code_issue_failed",
			"guardian_id", input.GuardianID,
			"child_id", input.ChildID,
			"error", err,
		)
		return nil, ErrPickupIssueFailed
	}

	metrics.PickupIssuedTotal.Inc()
	logger.Infow("pickup_code_issued",
		"authorization_uuid", auth.UUID,
		"guardian_id", input.GuardianID,
		"child_id", input.ChildID,
		"expires_at", auth.ExpiresAt,
	)
	return auth, nil
}

// RedeemPickupCode 核销接送码
// 加锁读取用于分类失败原因，条件更新保证并发下只有一个胜者。
func (s *PickupService) RedeemPickupCode(input PickupRedeemInput) (*models.PickupAuthorization, error) {
	if s == nil || s.repo == nil {
		return nil, ErrPickupRedeemFailed
	}
	code := strings.TrimSpace(strings.ToUpper(input.Code))
	if input.StaffID == 0 || code == "" {
		return nil, ErrPickupCodeNotFound
	}

	var result *models.PickupAuthorization
	err := models.DB.Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		auth, err := repo.GetByCodeForUpdate(code)
		if err != nil {
			return ErrPickupRedeemFailed
		}
		if auth == nil {
			return ErrPickupCodeNotFound
		}

		now := time.Now()
		switch auth.StatusAt(now) {
		case constants.PickupStatusRedeemed:
			return ErrPickupCodeRedeemed
		case constants.PickupStatusExpired:
			return ErrPickupCodeExpired
		}

		affected, err := repo.Redeem(auth.ID, input.StaffID, now)
		if err != nil {
			return ErrPickupRedeemFailed
		}
		if affected == 0 {
			return ErrPickupCodeRedeemed
		}

		auth.RedeemedAt = &now
		auth.RedeemedStaffID = &input.StaffID
		auth.UpdatedAt = now

		s.autoCheckOutInTx(tx, auth, now)

		result = auth
		return nil
	})
	if err != nil {
		s.recordRedeemRejection(err)
		return nil, err
	}

	metrics.PickupRedeemedTotal.Inc()
	logger.Infow("pickup_code_redeemed",
		"authorization_uuid", result.UUID,
		"child_id", result.ChildID,
		"staff_id", input.StaffID,
	)

	if s.queueClient != nil {
		if err := s.queueClient.EnqueuePickupRedeemedNotice(queue.PickupRedeemedNoticePayload{
			AuthorizationID: result.ID,
			StaffID:         input.StaffID,
		}); err != nil {
			logger.Warnw("pickup_redeemed_notice_enqueue_failed",
				"authorization_id", result.ID,
				"error", err,
			)
		}
	}

	return result, nil
}

// autoCheckOutInTx 核销成功后顺带登记当日离园
// 没有当日入园记录时跳过，失败只记日志，不影响核销结果。
func (s *PickupService) autoCheckOutInTx(tx *gorm.DB, auth *models.PickupAuthorization, now time.Time) {
	if s.attendanceRepo == nil || auth == nil {
		return
	}
	repo := s.attendanceRepo.WithTx(tx)
	day := truncateToDay(now)
	record, err := repo.GetByChildAndDay(auth.ChildID, day)
	if err != nil {
		logger.Warnw("pickup_auto_checkout_lookup_failed", "child_id", auth.ChildID, "error", err)
		return
	}
	if record == nil || record.CheckInAt == nil || record.CheckOutAt != nil {
		return
	}
	staffID := uint(0)
	if auth.RedeemedStaffID != nil {
		staffID = *auth.RedeemedStaffID
	}
	if _, err := repo.CheckOut(record.ID, staffID, constants.AttendanceMethodPickupCode, &auth.ID, now); err != nil {
		logger.Warnw("pickup_auto_checkout_failed", "attendance_id", record.ID, "error", err)
	}
}

// ListPickupCodes 查询接送码列表
func (s *PickupService) ListPickupCodes(input PickupListInput) ([]models.PickupAuthorization, int64, error) {
	if s == nil || s.repo == nil {
		return nil, 0, ErrPickupFetchFailed
	}
	auths, total, err := s.repo.List(repository.PickupListFilter{
		GuardianID: input.GuardianID,
		ChildID:    input.ChildID,
		Page:       input.Page,
		PageSize:   input.PageSize,
	})
	if err != nil {
		return nil, 0, ErrPickupFetchFailed
	}
	return auths, total, nil
}

// GetPickupCodeForGuardian 家长查询自己签发的接送码
// 只有签发人可以看到完整接送码内容。
func (s *PickupService) GetPickupCodeForGuardian(guardianID uint, authUUID string) (*models.PickupAuthorization, error) {
	if s == nil || s.repo == nil {
		return nil, ErrPickupFetchFailed
	}
	auth, err := s.repo.GetByUUID(authUUID)
	if err != nil {
		return nil, ErrPickupFetchFailed
	}
	if auth == nil || auth.GuardianID != guardianID {
		return nil, ErrPickupCodeNotFound
	}
	return auth, nil
}

// GetPickupCodeStatus 按对外标识或接送码本身查询状态
// 供核销前快速查验，不改变任何状态。
func (s *PickupService) GetPickupCodeStatus(ref string) (*models.PickupAuthorization, error) {
	if s == nil || s.repo == nil {
		return nil, ErrPickupFetchFailed
	}
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, ErrPickupCodeNotFound
	}
	auth, err := s.repo.GetByUUID(ref)
	if err != nil {
		return nil, ErrPickupFetchFailed
	}
	if auth == nil {
		auth, err = s.repo.GetByCode(ref)
		if err != nil {
			return nil, ErrPickupFetchFailed
		}
	}
	if auth == nil {
		return nil, ErrPickupCodeNotFound
	}
	return auth, nil
}

// RecentRedemptions 员工端查询最近核销记录
func (s *PickupService) RecentRedemptions(limit int) ([]models.PickupAuthorization, error) {
	if s == nil || s.repo == nil {
		return nil, ErrPickupFetchFailed
	}
	auths, err := s.repo.ListRecentRedeemed(limit)
	if err != nil {
		return nil, ErrPickupFetchFailed
	}
	return auths, nil
}

// CleanupFinished 清理保留期之外的终态接送码
func (s *PickupService) CleanupFinished(now time.Time) (int64, error) {
	if s == nil || s.repo == nil {
		return 0, ErrPickupFetchFailed
	}
	if s.cfg.RetentionDays <= 0 {
		return 0, nil
	}
	cutoff := now.Add(-time.Duration(s.cfg.RetentionDays) * 24 * time.Hour)
	return s.repo.DeleteFinishedBefore(cutoff)
}

func (s *PickupService) expireDuration() time.Duration {
	hours := s.cfg.ExpireHours
	if hours <= 0 {
		hours = defaultPickupExpireHours
	}
	return time.Duration(hours) * time.Hour
}

func (s *PickupService) issueInterval() time.Duration {
	seconds := s.cfg.IssueIntervalSeconds
	if seconds < 0 {
		seconds = defaultPickupIssueIntervalSeconds
	}
	return time.Duration(seconds) * time.Second
}

func (s *PickupService) recordRedeemRejection(err error) {
	switch err {
	case ErrPickupCodeNotFound:
		metrics.PickupRedeemRejectedTotal.WithLabelValues(metrics.RejectReasonNotFound).Inc()
	case ErrPickupCodeExpired:
		metrics.PickupRedeemRejectedTotal.WithLabelValues(metrics.RejectReasonExpired).Inc()
	case ErrPickupCodeRedeemed:
		metrics.PickupRedeemRejectedTotal.WithLabelValues(metrics.RejectReasonRedeemed).Inc()
	}
}

// generatePickupCode 生成高熵接送码
// 随机源不可用时直接报错，绝不回退到可预测的兜底值。
func generatePickupCode() (string, error) {
	buf := make([]byte, pickupCodeRandomBytes)
	if _, err := crand.Read(buf); err != nil {
		return "", err
	}
	return pickupCodePrefix + strings.ToUpper(hex.EncodeToString(buf)), nil
}
