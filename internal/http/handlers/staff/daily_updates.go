package staff

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/FeexSystems/Rainbow-childcare-sub000/internal/http/response"
	"github.com/FeexSystems/Rainbow-childcare-sub000/internal/repository"
	"github.com/FeexSystems/Rainbow-childcare-sub000/internal/service"

	"github.com/gin-gonic/gin"
)

// CreateDailyUpdateRequest 创建日常动态请求
type CreateDailyUpdateRequest struct {
	ChildID    uint     `json:"child_id" binding:"required"`
	Category   string   `json:"category" binding:"required"`
	Title      string   `json:"title" binding:"required"`
	Body       string   `json:"body"`
	Photos     []string `json:"photos"`
	OccurredAt string   `json:"occurred_at"`
}

// CreateDailyUpdate 创建日常动态
func (h *Handler) CreateDailyUpdate(c *gin.Context) {
	staffID, ok := getStaffID(c)
	if !ok {
		return
	}

	var req CreateDailyUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	occurredAt := time.Now()
	if strings.TrimSpace(req.OccurredAt) != "" {
		parsed, err := time.Parse(time.RFC3339, strings.TrimSpace(req.OccurredAt))
		if err != nil {
			respondError(c, response.CodeBadRequest, "error.bad_request", err)
			return
		}
		occurredAt = parsed
	}

	update, err := h.DailyUpdateService.CreateDailyUpdate(service.DailyUpdateCreateInput{
		ChildID:    req.ChildID,
		StaffID:    staffID,
		Category:   req.Category,
		Title:      req.Title,
		Body:       req.Body,
		Photos:     req.Photos,
		OccurredAt: occurredAt,
	})
	if err != nil {
		if errors.Is(err, service.ErrDailyUpdateInvalid) {
			respondError(c, response.CodeBadRequest, "error.validation_failed", nil)
			return
		}
		if errors.Is(err, service.ErrChildNotFound) {
			respondError(c, response.CodeNotFound, "error.child_not_found", nil)
			return
		}
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}

	response.Success(c, update)
}

// GetDailyUpdate 获取日常动态详情
func (h *Handler) GetDailyUpdate(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	update, err := h.DailyUpdateService.GetDailyUpdate(id)
	if err != nil {
		if errors.Is(err, service.ErrDailyUpdateNotFound) {
			respondError(c, response.CodeNotFound, "error.update_not_found", nil)
			return
		}
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}

	response.Success(c, update)
}

// ListDailyUpdates 查询日常动态列表
func (h *Handler) ListDailyUpdates(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	childID, ok := parseQueryUint(c, "child_id")
	if !ok {
		return
	}
	staffID, ok := parseQueryUint(c, "staff_id")
	if !ok {
		return
	}

	occurredFrom, err := parseTimeNullable(strings.TrimSpace(c.Query("occurred_from")))
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	occurredTo, err := parseTimeNullable(strings.TrimSpace(c.Query("occurred_to")))
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	updates, total, err := h.DailyUpdateService.ListDailyUpdates(repository.DailyUpdateListFilter{
		Page:         page,
		PageSize:     pageSize,
		ChildID:      childID,
		StaffID:      staffID,
		Category:     strings.TrimSpace(c.Query("category")),
		OccurredFrom: occurredFrom,
		OccurredTo:   occurredTo,
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
	response.SuccessWithPage(c, updates, pagination)
}

// DeleteDailyUpdate 删除日常动态
func (h *Handler) DeleteDailyUpdate(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.DailyUpdateService.DeleteDailyUpdate(id); err != nil {
		if errors.Is(err, service.ErrDailyUpdateNotFound) {
			respondError(c, response.CodeNotFound, "error.update_not_found", nil)
			return
		}
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}

	response.Success(c, nil)
}
