package service

import (
	"context"
	"errors"
	"net/mail"
	"strings"
	"time"

	"github.com/FeexSystems/Rainbow-childcare-sub000/internal/cache"
	"github.com/FeexSystems/Rainbow-childcare-sub000/internal/config"
	"github.com/FeexSystems/Rainbow-childcare-sub000/internal/constants"
	"github.com/FeexSystems/Rainbow-childcare-sub000/internal/logger"
	"github.com/FeexSystems/Rainbow-childcare-sub000/internal/models"
	"github.com/FeexSystems/Rainbow-childcare-sub000/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidEmail 邮箱格式不合法
var ErrInvalidEmail = errors.New("invalid email")

// GuardianAuthService 家长认证服务
type GuardianAuthService struct {
	cfg          *config.Config
	guardianRepo repository.GuardianRepository
	loginLogRepo repository.GuardianLoginLogRepository
}

// NewGuardianAuthService 创建家长认证服务
func NewGuardianAuthService(cfg *config.Config, guardianRepo repository.GuardianRepository, loginLogRepo repository.GuardianLoginLogRepository) *GuardianAuthService {
	return &GuardianAuthService{
		cfg:          cfg,
		guardianRepo: guardianRepo,
		loginLogRepo: loginLogRepo,
	}
}

// GuardianJWTClaims 家长 JWT 声明
type GuardianJWTClaims struct {
	GuardianID   uint   `json:"guardian_id"`
	Email        string `json:"email"`
	TokenVersion uint64 `json:"token_version"`
	jwt.RegisteredClaims
}

// LoginContext 登录请求上下文信息，用于登录日志
type LoginContext struct {
	ClientIP    string
	UserAgent   string
	LoginSource string
	RequestID   string
}

// GenerateGuardianJWT 生成家长 JWT Token
func (s *GuardianAuthService) GenerateGuardianJWT(guardian *models.Guardian, expireHours int) (string, time.Time, error) {
	resolvedHours := expireHours
	if resolvedHours <= 0 {
		resolvedHours = resolveGuardianJWTExpireHours(s.cfg.GuardianJWT)
	}
	expiresAt := time.Now().Add(time.Duration(resolvedHours) * time.Hour)
	claims := GuardianJWTClaims{
		GuardianID:   guardian.ID,
		Email:        guardian.Email,
		TokenVersion: guardian.TokenVersion,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			NotBefore: jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(s.cfg.GuardianJWT.SecretKey))
	if err != nil {
		return "", time.Time{}, err
	}
	return tokenString, expiresAt, nil
}

// ParseGuardianJWT 解析家长 JWT Token
func (s *GuardianAuthService) ParseGuardianJWT(tokenString string) (*GuardianJWTClaims, error) {
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	claims := &GuardianJWTClaims{}
	token, err := parser.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(s.cfg.GuardianJWT.SecretKey), nil
	})
	if err != nil {
		return nil, err
	}
	if claims, ok := token.Claims.(*GuardianJWTClaims); ok && token.Valid {
		return claims, nil
	}
	return nil, errors.New("无效的 token")
}

// Login 家长登录
func (s *GuardianAuthService) Login(email, password string, rememberMe bool, loginCtx LoginContext) (*models.Guardian, string, time.Time, error) {
	normalized, err := normalizeEmail(email)
	if err != nil {
		s.recordLoginLog(0, strings.TrimSpace(email), constants.LoginLogFailReasonBadRequest, loginCtx)
		return nil, "", time.Time{}, err
	}

	guardian, err := s.guardianRepo.GetByEmail(normalized)
	if err != nil {
		s.recordLoginLog(0, normalized, constants.LoginLogFailReasonInternalError, loginCtx)
		return nil, "", time.Time{}, err
	}
	if guardian == nil {
		s.recordLoginLog(0, normalized, constants.LoginLogFailReasonInvalidCredentials, loginCtx)
		return nil, "", time.Time{}, ErrInvalidCredentials
	}
	if strings.ToLower(guardian.Status) != constants.GuardianStatusActive {
		s.recordLoginLog(guardian.ID, normalized, constants.LoginLogFailReasonGuardianDisabled, loginCtx)
		return nil, "", time.Time{}, ErrGuardianDisabled
	}
	if err := bcrypt.CompareHashAndPassword([]byte(guardian.PasswordHash), []byte(password)); err != nil {
		s.recordLoginLog(guardian.ID, normalized, constants.LoginLogFailReasonInvalidCredentials, loginCtx)
		return nil, "", time.Time{}, ErrInvalidCredentials
	}

	expireHours := resolveGuardianJWTExpireHours(s.cfg.GuardianJWT)
	if rememberMe {
		expireHours = resolveRememberMeExpireHours(s.cfg.GuardianJWT)
	}
	token, expiresAt, err := s.GenerateGuardianJWT(guardian, expireHours)
	if err != nil {
		s.recordLoginLog(guardian.ID, normalized, constants.LoginLogFailReasonInternalError, loginCtx)
		return nil, "", time.Time{}, err
	}

	now := time.Now()
	guardian.LastLoginAt = &now
	if err := s.guardianRepo.Update(guardian); err != nil {
		return nil, "", time.Time{}, err
	}
	_ = cache.SetGuardianAuthState(context.Background(), cache.BuildGuardianAuthState(guardian))

	s.recordLoginLog(guardian.ID, normalized, "", loginCtx)
	return guardian, token, expiresAt, nil
}

// ChangePassword 登录态修改密码
func (s *GuardianAuthService) ChangePassword(guardianID uint, oldPassword, newPassword string) error {
	if guardianID == 0 {
		return ErrGuardianNotFound
	}

	guardian, err := s.guardianRepo.GetByID(guardianID)
	if err != nil {
		return err
	}
	if guardian == nil {
		return ErrGuardianNotFound
	}

	if err := bcrypt.CompareHashAndPassword([]byte(guardian.PasswordHash), []byte(oldPassword)); err != nil {
		return ErrPasswordMismatch
	}

	if err := validatePassword(s.cfg.Security.PasswordPolicy, newPassword); err != nil {
		return err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	guardian.PasswordHash = string(hashedPassword)
	now := time.Now()
	guardian.UpdatedAt = now
	guardian.TokenVersion++
	guardian.TokenInvalidBefore = &now
	if err := s.guardianRepo.Update(guardian); err != nil {
		return err
	}
	_ = cache.SetGuardianAuthState(context.Background(), cache.BuildGuardianAuthState(guardian))
	return nil
}

// UpdateProfile 更新家长资料
func (s *GuardianAuthService) UpdateProfile(guardianID uint, displayName, phone, locale *string) (*models.Guardian, error) {
	if guardianID == 0 {
		return nil, ErrGuardianNotFound
	}

	guardian, err := s.guardianRepo.GetByID(guardianID)
	if err != nil {
		return nil, err
	}
	if guardian == nil {
		return nil, ErrGuardianNotFound
	}

	updated := false
	if displayName != nil {
		trimmed := strings.TrimSpace(*displayName)
		if trimmed != "" {
			guardian.DisplayName = trimmed
			updated = true
		}
	}
	if phone != nil {
		guardian.Phone = strings.TrimSpace(*phone)
		updated = true
	}
	if locale != nil {
		trimmed := strings.TrimSpace(*locale)
		if trimmed != "" {
			guardian.Locale = trimmed
			updated = true
		}
	}

	if !updated {
		return guardian, nil
	}

	guardian.UpdatedAt = time.Now()
	if err := s.guardianRepo.Update(guardian); err != nil {
		return nil, err
	}
	return guardian, nil
}

func (s *GuardianAuthService) recordLoginLog(guardianID uint, email, failReason string, loginCtx LoginContext) {
	if s.loginLogRepo == nil {
		return
	}
	status := constants.LoginLogStatusSuccess
	if failReason != "" {
		status = constants.LoginLogStatusFailed
	}
	source := strings.TrimSpace(loginCtx.LoginSource)
	if source == "" {
		source = "web"
	}
	entry := &models.GuardianLoginLog{
		GuardianID:  guardianID,
		Email:       email,
		Status:      status,
		FailReason:  failReason,
		ClientIP:    loginCtx.ClientIP,
		UserAgent:   loginCtx.UserAgent,
		LoginSource: source,
		RequestID:   loginCtx.RequestID,
		CreatedAt:   time.Now(),
	}
	if err := s.loginLogRepo.Create(entry); err != nil {
		logger.Warnw("guardian_login_log_write_failed",
			"email", email,
			"error", err,
		)
	}
}

func normalizeEmail(email string) (string, error) {
	normalized := strings.ToLower(strings.TrimSpace(email))
	if normalized == "" {
		return "", ErrInvalidEmail
	}
	if _, err := mail.ParseAddress(normalized); err != nil {
		return "", ErrInvalidEmail
	}
	return normalized, nil
}

// NormalizeEmail 统一邮箱格式
func NormalizeEmail(email string) (string, error) {
	return normalizeEmail(email)
}

func resolveGuardianJWTExpireHours(cfg config.JWTConfig) int {
	if cfg.ExpireHours <= 0 {
		return 24
	}
	return cfg.ExpireHours
}

func resolveRememberMeExpireHours(cfg config.JWTConfig) int {
	if cfg.RememberMeExpireHours <= 0 {
		return resolveGuardianJWTExpireHours(cfg)
	}
	return cfg.RememberMeExpireHours
}
