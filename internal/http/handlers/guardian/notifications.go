package guardian

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

// ListMyNotifications 查询当前家长的通知列表
func (h *Handler) ListMyNotifications(c *gin.Context) {
	guardianID, ok := getGuardianID(c)
	if !ok {
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	items, total, err := h.NotificationService.ListNotifications(repository.NotificationListFilter{
		Page:          page,
		PageSize:      pageSize,
		RecipientType: models.NotificationRecipientGuardian,
		GuardianID:    guardianID,
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

// MarkMyNotificationRead 标记通知为已读
func (h *Handler) MarkMyNotificationRead(c *gin.Context) {
	guardianID, ok := getGuardianID(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.NotificationService.MarkRead(id, guardianID, 0); err != nil {
		if errors.Is(err, service.ErrNotificationNotFound) {
			respondError(c, response.CodeNotFound, "error.not_found", nil)
			return
		}
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}

	response.Success(c, nil)
}

// CountMyUnreadNotifications 统计未读通知数
func (h *Handler) CountMyUnreadNotifications(c *gin.Context) {
	guardianID, ok := getGuardianID(c)
	if !ok {
		return
	}

	count, err := h.NotificationService.CountUnreadByGuardian(guardianID)
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}

	response.Success(c, gin.H{"unread": count})
}
