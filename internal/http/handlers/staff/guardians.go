package staff

import (
	"errors"
	"strconv"
	"strings"

	"github.com/FeexSystems/Rainbow-childcare-sub000/internal/http/response"
	"github.com/FeexSystems/Rainbow-childcare-sub000/internal/i18n"
	"github.com/FeexSystems/Rainbow-childcare-sub000/internal/repository"
	"github.com/FeexSystems/Rainbow-childcare-sub000/internal/service"

	"github.com/gin-gonic/gin"
)

// CreateGuardianRequest 开设家长账号请求
type CreateGuardianRequest struct {
	Email       string `json:"email" binding:"required"`
	Password    string `json:"password" binding:"required"`
	DisplayName string `json:"display_name"`
	Phone       string `json:"phone"`
	Locale      string `json:"locale"`
}

// SetGuardianStatusRequest 启用/停用家长账号请求
type SetGuardianStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// CreateGuardian 开设家长账号
func (h *Handler) CreateGuardian(c *gin.Context) {
	var req CreateGuardianRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	guardian, err := h.GuardianService.CreateGuardian(service.GuardianCreateInput{
		Email:       req.Email,
		Password:    req.Password,
		DisplayName: req.DisplayName,
		Phone:       req.Phone,
		Locale:      req.Locale,
	})
	if err != nil {
		if errors.Is(err, service.ErrInvalidEmail) {
			respondError(c, response.CodeBadRequest, "error.email_invalid", nil)
			return
		}
		if errors.Is(err, service.ErrGuardianExists) {
			respondError(c, response.CodeConflict, "error.guardian_exists", nil)
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
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}

	requestLog(c).Infow("staff_guardian_created",
		"staff_id", currentStaffID(c),
		"guardian_id", guardian.ID,
		"email", guardian.Email,
	)

	response.Success(c, guardian)
}

// GetGuardian 获取家长账号详情
func (h *Handler) GetGuardian(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
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

// ListGuardians 查询家长账号列表
func (h *Handler) ListGuardians(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	createdFrom, err := parseTimeNullable(strings.TrimSpace(c.Query("created_from")))
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	createdTo, err := parseTimeNullable(strings.TrimSpace(c.Query("created_to")))
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	guardians, total, err := h.GuardianService.ListGuardians(repository.GuardianListFilter{
		Page:        page,
		PageSize:    pageSize,
		Keyword:     strings.TrimSpace(c.Query("keyword")),
		Status:      strings.TrimSpace(c.Query("status")),
		CreatedFrom: createdFrom,
		CreatedTo:   createdTo,
	})
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}

	pagination := response.Pagination{
		Page:      page,
		PageSize:  pageSize,
		Total:     total,
		TotalPage: (total + int64(pageSize) - 1) / int64(pageSize),
	}
	response.SuccessWithPage(c, guardians, pagination)
}

// SetGuardianStatus 启用或停用家长账号
func (h *Handler) SetGuardianStatus(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req SetGuardianStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	guardian, err := h.GuardianService.SetGuardianStatus(id, strings.TrimSpace(req.Status))
	if err != nil {
		if errors.Is(err, service.ErrGuardianNotFound) {
			respondError(c, response.CodeNotFound, "error.guardian_not_found", nil)
			return
		}
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}

	requestLog(c).Infow("staff_guardian_status_updated",
		"staff_id", currentStaffID(c),
		"guardian_id", guardian.ID,
		"status", guardian.Status,
	)

	response.Success(c, guardian)
}

// GetGuardianLoginLogs 查询家长登录日志列表
func (h *Handler) GetGuardianLoginLogs(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	guardianID, ok := parseQueryUint(c, "guardian_id")
	if !ok {
		return
	}

	createdFrom, err := parseTimeNullable(strings.TrimSpace(c.Query("created_from")))
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	createdTo, err := parseTimeNullable(strings.TrimSpace(c.Query("created_to")))
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	logs, total, err := h.GuardianService.ListLoginLogs(repository.GuardianLoginLogListFilter{
		Page:        page,
		PageSize:    pageSize,
		GuardianID:  guardianID,
		Email:       strings.TrimSpace(c.Query("email")),
		Status:      strings.TrimSpace(c.Query("status")),
		FailReason:  strings.TrimSpace(c.Query("fail_reason")),
		ClientIP:    strings.TrimSpace(c.Query("client_ip")),
		CreatedFrom: createdFrom,
		CreatedTo:   createdTo,
	})
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}

	pagination := response.Pagination{
		Page:      page,
		PageSize:  pageSize,
		Total:     total,
		TotalPage: (total + int64(pageSize) - 1) / int64(pageSize),
	}
	response.SuccessWithPage(c, logs, pagination)
}
