package guardian

import (
	"errors"
	"strings"
	"time"

	"github.com/FeexSystems/Rainbow-childcare-sub000/internal/constants"
	"github.com/FeexSystems/Rainbow-childcare-sub000/internal/http/response"
	"github.com/FeexSystems/Rainbow-childcare-sub000/internal/i18n"
	"github.com/FeexSystems/Rainbow-childcare-sub000/internal/models"
	"github.com/FeexSystems/Rainbow-childcare-sub000/internal/service"

	"github.com/gin-gonic/gin"
)

// GuardianLoginRequest 家长登录请求
type GuardianLoginRequest struct {
	Email          string                `json:"email" binding:"required"`
	Password       string                `json:"password" binding:"required"`
	RememberMe     bool                  `json:"remember_me"`
	CaptchaPayload CaptchaPayloadRequest `json:"captcha_payload"`
}

// UpdatePasswordRequest 修改密码请求
type UpdatePasswordRequest struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required"`
}

// UpdateProfileRequest 更新个人资料请求
type UpdateProfileRequest struct {
	DisplayName *string `json:"display_name"`
	Phone       *string `json:"phone"`
	Locale      *string `json:"locale"`
}

func loginContext(c *gin.Context) service.LoginContext {
	return service.LoginContext{
		ClientIP:    c.ClientIP(),
		UserAgent:   c.Request.UserAgent(),
		LoginSource: strings.TrimSpace(c.GetHeader("X-Login-Source")),
		RequestID:   currentRequestID(c),
	}
}

// recordGuardianLogin 记录进入服务层之前就失败的登录尝试
func (h *Handler) recordGuardianLogin(c *gin.Context, email, failReason string) {
	if h == nil || h.GuardianLoginLogRepo == nil {
		return
	}
	loginCtx := loginContext(c)
	source := loginCtx.LoginSource
	if source == "" {
		source = "web"
	}
	entry := &models.GuardianLoginLog{
		Email:       strings.ToLower(strings.TrimSpace(email)),
		Status:      constants.LoginLogStatusFailed,
		FailReason:  failReason,
		ClientIP:    loginCtx.ClientIP,
		UserAgent:   loginCtx.UserAgent,
		LoginSource: source,
		RequestID:   loginCtx.RequestID,
		CreatedAt:   time.Now(),
	}
	if err := h.GuardianLoginLogRepo.Create(entry); err != nil {
		requestLog(c).Warnw("guardian_login_log_write_failed",
			"email", entry.Email,
			"error", err,
		)
	}
}

// GuardianLogin 家长登录
func (h *Handler) GuardianLogin(c *gin.Context) {
	var req GuardianLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.recordGuardianLogin(c, req.Email, constants.LoginLogFailReasonBadRequest)
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	if h.CaptchaService != nil {
		if captchaErr := h.CaptchaService.Verify(constants.CaptchaSceneGuardianLogin, req.CaptchaPayload.toServicePayload()); captchaErr != nil {
			switch {
			case errors.Is(captchaErr, service.ErrCaptchaRequired):
				h.recordGuardianLogin(c, req.Email, constants.LoginLogFailReasonCaptchaRequired)
				respondError(c, response.CodeBadRequest, "error.captcha_required", nil)
				return
			case errors.Is(captchaErr, service.ErrCaptchaInvalid):
				h.recordGuardianLogin(c, req.Email, constants.LoginLogFailReasonCaptchaInvalid)
				respondError(c, response.CodeBadRequest, "error.captcha_invalid", nil)
				return
			case errors.Is(captchaErr, service.ErrCaptchaConfigInvalid):
				h.recordGuardianLogin(c, req.Email, constants.LoginLogFailReasonInternalError)
				respondError(c, response.CodeInternal, "error.captcha_config_invalid", captchaErr)
				return
			default:
				h.recordGuardianLogin(c, req.Email, constants.LoginLogFailReasonInternalError)
				respondError(c, response.CodeInternal, "error.captcha_verify_failed", captchaErr)
				return
			}
		}
	}

	guardian, token, expiresAt, err := h.GuardianAuthService.Login(req.Email, req.Password, req.RememberMe, loginContext(c))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidEmail):
			respondError(c, response.CodeBadRequest, "error.email_invalid", nil)
		case errors.Is(err, service.ErrInvalidCredentials):
			respondError(c, response.CodeUnauthorized, "error.login_failed", nil)
		case errors.Is(err, service.ErrGuardianDisabled):
			respondError(c, response.CodeUnauthorized, "error.account_disabled", nil)
		default:
			respondError(c, response.CodeInternal, "error.internal", err)
		}
		return
	}

	response.Success(c, gin.H{
		"guardian": gin.H{
			"id":           guardian.ID,
			"email":        guardian.Email,
			"display_name": guardian.DisplayName,
			"locale":       guardian.Locale,
		},
		"token":      token,
		"expires_at": expiresAt.Format("2006-01-02T15:04:05Z07:00"),
	})
}

// UpdateGuardianPassword 修改当前家长密码
func (h *Handler) UpdateGuardianPassword(c *gin.Context) {
	id, ok := getGuardianID(c)
	if !ok {
		return
	}

	var req UpdatePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	if err := h.GuardianAuthService.ChangePassword(id, req.OldPassword, req.NewPassword); err != nil {
		if errors.Is(err, service.ErrPasswordMismatch) {
			respondError(c, response.CodeBadRequest, "error.password_old_invalid", nil)
			return
		}
		if errors.Is(err, service.ErrPasswordWeak) {
			if perr, ok := err.(interface {
				Key() string
				Args() []interface{}
			}); ok {
				msg := i18n.Sprintf(i18n.LocaleFromContext(c), perr.Key(), perr.Args()...)
				respondErrorWithMsg(c, response.CodeBadRequest, msg, nil)
				return
			}
			respondError(c, response.CodeBadRequest, "error.password_weak", nil)
			return
		}
		if errors.Is(err, service.ErrGuardianNotFound) {
			respondError(c, response.CodeNotFound, "error.guardian_not_found", nil)
			return
		}
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}

	response.Success(c, nil)
}

// GetGuardianProfile 获取当前家长资料
func (h *Handler) GetGuardianProfile(c *gin.Context) {
	id, ok := getGuardianID(c)
	if !ok {
		return
	}

	guardian, err := h.GuardianService.GetGuardian(id)
	if err != nil {
		if errors.Is(err, service.ErrGuardianNotFound) {
			respondError(c, response.CodeNotFound, "error.guardian_not_found", nil)
			return
		}
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}

	response.Success(c, guardian)
}

// UpdateGuardianProfile 更新当前家长资料
func (h *Handler) UpdateGuardianProfile(c *gin.Context) {
	id, ok := getGuardianID(c)
	if !ok {
		return
	}

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	if req.DisplayName == nil && req.Phone == nil && req.Locale == nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}

	guardian, err := h.GuardianAuthService.UpdateProfile(id, req.DisplayName, req.Phone, req.Locale)
	if err != nil {
		if errors.Is(err, service.ErrGuardianNotFound) {
			respondError(c, response.CodeNotFound, "error.guardian_not_found", nil)
			return
		}
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}

	response.Success(c, guardian)
}
