package staff

import (
	"errors"
	"strconv"
	"strings"

	"github.com/FeexSystems/Rainbow-childcare-sub000/internal/http/response"
	"github.com/FeexSystems/Rainbow-childcare-sub000/internal/repository"
	"github.com/FeexSystems/Rainbow-childcare-sub000/internal/service"

	"github.com/gin-gonic/gin"
)

// CreateAnnouncementRequest 创建公告请求
type CreateAnnouncementRequest struct {
	Title    string `json:"title" binding:"required"`
	Body     string `json:"body" binding:"required"`
	Audience string `json:"audience" binding:"required"`
	RoomID   *uint  `json:"room_id"`
	Publish  bool   `json:"publish"`
}

// UpdateAnnouncementRequest 更新公告请求
type UpdateAnnouncementRequest struct {
	Title *string `json:"title"`
	Body  *string `json:"body"`
}

// CreateAnnouncement 创建公告
func (h *Handler) CreateAnnouncement(c *gin.Context) {
	staffID, ok := getStaffID(c)
	if !ok {
		return
	}

	var req CreateAnnouncementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	announcement, err := h.AnnouncementService.CreateAnnouncement(service.AnnouncementCreateInput{
		StaffID:  staffID,
		Title:    req.Title,
		Body:     req.Body,
		Audience: req.Audience,
		RoomID:   req.RoomID,
		Publish:  req.Publish,
	})
	if err != nil {
		if errors.Is(err, service.ErrAnnouncementInvalid) {
			respondError(c, response.CodeBadRequest, "error.validation_failed", nil)
			return
		}
		if errors.Is(err, service.ErrRoomNotFound) {
			respondError(c, response.CodeBadRequest, "error.room_not_found", nil)
			return
		}
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}

	response.Success(c, announcement)
}

// PublishAnnouncement 发布公告并触发异步分发
func (h *Handler) PublishAnnouncement(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	announcement, err := h.AnnouncementService.PublishAnnouncement(id)
	if err != nil {
		if errors.Is(err, service.ErrAnnouncementNotFound) {
			respondError(c, response.CodeNotFound, "error.announce_not_found", nil)
			return
		}
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}

	requestLog(c).Infow("staff_announcement_published",
		"staff_id", currentStaffID(c),
		"announcement_id", announcement.ID,
		"audience", announcement.Audience,
	)

	response.Success(c, announcement)
}

// UpdateAnnouncement 更新公告
func (h *Handler) UpdateAnnouncement(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req UpdateAnnouncementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	announcement, err := h.AnnouncementService.UpdateAnnouncement(id, service.AnnouncementUpdateInput{
		Title: req.Title,
		Body:  req.Body,
	})
	if err != nil {
		if errors.Is(err, service.ErrAnnouncementNotFound) {
			respondError(c, response.CodeNotFound, "error.announce_not_found", nil)
			return
		}
		if errors.Is(err, service.ErrAnnouncementInvalid) {
			respondError(c, response.CodeBadRequest, "error.validation_failed", nil)
			return
		}
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}

	response.Success(c, announcement)
}

// GetAnnouncement 获取公告详情
func (h *Handler) GetAnnouncement(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	announcement, err := h.AnnouncementService.GetAnnouncement(id)
	if err != nil {
		if errors.Is(err, service.ErrAnnouncementNotFound) {
			respondError(c, response.CodeNotFound, "error.announce_not_found", nil)
			return
		}
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}

	response.Success(c, announcement)
}

// ListAnnouncements 查询公告列表
func (h *Handler) ListAnnouncements(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	roomID, ok := parseQueryUint(c, "room_id")
	if !ok {
		return
	}

	announcements, total, err := h.AnnouncementService.ListAnnouncements(repository.AnnouncementListFilter{
		Page:          page,
		PageSize:      pageSize,
		Audience:      strings.TrimSpace(c.Query("audience")),
		RoomID:        roomID,
		OnlyPublished: c.Query("only_published") == "true",
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
	response.SuccessWithPage(c, announcements, pagination)
}

// DeleteAnnouncement 删除公告
func (h *Handler) DeleteAnnouncement(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.AnnouncementService.DeleteAnnouncement(id); err != nil {
		if errors.Is(err, service.ErrAnnouncementNotFound) {
			respondError(c, response.CodeNotFound, "error.announce_not_found", nil)
			return
		}
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}

	response.Success(c, nil)
}
