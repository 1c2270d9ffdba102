package service

import (
	"strings"

	"github.com/FeexSystems/Rainbow-childcare-sub000/internal/config"
	"github.com/FeexSystems/Rainbow-childcare-sub000/internal/constants"
	"github.com/FeexSystems/Rainbow-childcare-sub000/internal/models"
	"github.com/FeexSystems/Rainbow-childcare-sub000/internal/repository"

	"golang.org/x/crypto/bcrypt"
)

// GuardianService 家长账号管理服务（员工端）
type GuardianService struct {
	cfg          *config.Config
	guardianRepo repository.GuardianRepository
	loginLogRepo repository.GuardianLoginLogRepository
}

// NewGuardianService 创建家长账号管理服务
func NewGuardianService(cfg *config.Config, guardianRepo repository.GuardianRepository, loginLogRepo repository.GuardianLoginLogRepository) *GuardianService {
	return &GuardianService{
		cfg:          cfg,
		guardianRepo: guardianRepo,
		loginLogRepo: loginLogRepo,
	}
}

// GuardianCreateInput 创建家长账号输入
type GuardianCreateInput struct {
	Email       string
	Password    string
	DisplayName string
	Phone       string
	Locale      string
}

// CreateGuardian 员工为家长开设账号
func (s *GuardianService) CreateGuardian(input GuardianCreateInput) (*models.Guardian, error) {
	normalized, err := normalizeEmail(input.Email)
	if err != nil {
		return nil, err
	}
	if err := validatePassword(s.cfg.Security.PasswordPolicy, input.Password); err != nil {
		return nil, err
	}

	exist, err := s.guardianRepo.GetByEmail(normalized)
	if err != nil {
		return nil, err
	}
	if exist != nil {
		return nil, ErrGuardianExists
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	locale := strings.TrimSpace(input.Locale)
	if locale == "" {
		locale = constants.LocaleDefault
	}
	guardian := &models.Guardian{
		Email:        normalized,
		PasswordHash: string(hashedPassword),
		DisplayName:  strings.TrimSpace(input.DisplayName),
		Phone:        strings.TrimSpace(input.Phone),
		Locale:       locale,
		Status:       constants.GuardianStatusActive,
	}
	if err := s.guardianRepo.Create(guardian); err != nil {
		return nil, err
	}
	return guardian, nil
}

// GetGuardian 获取家长账号
func (s *GuardianService) GetGuardian(id uint) (*models.Guardian, error) {
	guardian, err := s.guardianRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if guardian == nil {
		return nil, ErrGuardianNotFound
	}
	return guardian, nil
}

// ListGuardians 查询家长账号列表
func (s *GuardianService) ListGuardians(filter repository.GuardianListFilter) ([]models.Guardian, int64, error) {
	return s.guardianRepo.List(filter)
}

// SetGuardianStatus 启用或停用家长账号
func (s *GuardianService) SetGuardianStatus(id uint, status string) (*models.Guardian, error) {
	switch status {
	case constants.GuardianStatusActive, constants.GuardianStatusDisabled:
	default:
		return nil, ErrGuardianNotFound
	}

	guardian, err := s.GetGuardian(id)
	if err != nil {
		return nil, err
	}
	if guardian.Status == status {
		return guardian, nil
	}

	if err := s.guardianRepo.BatchUpdateStatus([]uint{id}, status); err != nil {
		return nil, err
	}
	return s.GetGuardian(id)
}

// ListLoginLogs 查询家长登录日志
func (s *GuardianService) ListLoginLogs(filter repository.GuardianLoginLogListFilter) ([]models.GuardianLoginLog, int64, error) {
	return s.loginLogRepo.ListStaff(filter)
}
