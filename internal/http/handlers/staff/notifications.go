package staff

import (
	"errors"
	"strconv"
	"strings"

	"github.com/FeexSystems/Rainbow-childcare-sub000/internal/http/response"
	"github.com/FeexSystems/Rainbow-childcare-sub000/internal/models"
	"github.com/FeexSystems/Rainbow-childcare-sub000/internal/repository"
	"github.com/FeexSystems/Rainbow-childcare-sub000/internal/service"

	"github.com/gin-gonic/gin"
)

// SendNotificationRequest 人工发送通知请求
type SendNotificationRequest struct {
	GuardianIDs []uint `json:"guardian_ids" binding:"required"`
	Type        string `json:"type" binding:"required"`
	Title       string `json:"title" binding:"required"`
	Body        string `json:"body"`
}

// SendNotification 向家长发送站内通知
func (h *Handler) SendNotification(c *gin.Context) {
	var req SendNotificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	if len(req.GuardianIDs) == 0 || strings.TrimSpace(req.Title) == "" {
		respondError(c, response.CodeBadRequest, "error.validation_failed", nil)
		return
	}

	if err := h.NotificationService.NotifyGuardians(req.GuardianIDs, req.Type, req.Title, req.Body); err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}

	requestLog(c).Infow("staff_notification_sent",
		"staff_id", currentStaffID(c),
		"guardian_count", len(req.GuardianIDs),
		"type", req.Type,
	)

	response.Success(c, nil)
}

// ListStaffNotifications 查询当前员工的通知列表
func (h *Handler) ListStaffNotifications(c *gin.Context) {
	staffID, ok := getStaffID(c)
	if !ok {
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	items, total, err := h.NotificationService.ListNotifications(repository.NotificationListFilter{
		Page:          page,
		PageSize:      pageSize,
		RecipientType: models.NotificationRecipientStaff,
		StaffID:       staffID,
		Type:          strings.TrimSpace(c.Query("type")),
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
	response.SuccessWithPage(c, items, pagination)
}

// MarkStaffNotificationRead 标记当前员工通知为已读
func (h *Handler) MarkStaffNotificationRead(c *gin.Context) {
	staffID, ok := getStaffID(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.NotificationService.MarkRead(id, 0, staffID); err != nil {
		if errors.Is(err, service.ErrNotificationNotFound) {
			respondError(c, response.CodeNotFound, "error.not_found", nil)
			return
		}
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}

	response.Success(c, nil)
}
