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

// CreateForumReplyRequest 员工回帖请求
type CreateForumReplyRequest struct {
	Body string `json:"body" binding:"required"`
}

// ForumThreadFlagRequest 主题置顶/锁定请求
type ForumThreadFlagRequest struct {
	Value bool `json:"value"`
}

// ListForumThreads 查询论坛主题列表
func (h *Handler) ListForumThreads(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	guardianID, ok := parseQueryUint(c, "guardian_id")
	if !ok {
		return
	}

	threads, total, err := h.ForumService.ListThreads(repository.ForumThreadListFilter{
		Page:       page,
		PageSize:   pageSize,
		GuardianID: guardianID,
		Keyword:    strings.TrimSpace(c.Query("keyword")),
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
	response.SuccessWithPage(c, threads, pagination)
}

// GetForumThread 获取论坛主题详情
func (h *Handler) GetForumThread(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	thread, err := h.ForumService.GetThread(id)
	if err != nil {
		if errors.Is(err, service.ErrForumThreadNotFound) {
			respondError(c, response.CodeNotFound, "error.post_not_found", nil)
			return
		}
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}

	response.Success(c, thread)
}

// ListForumReplies 查询主题回复列表
func (h *Handler) ListForumReplies(c *gin.Context) {
	threadID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	replies, total, err := h.ForumService.ListReplies(threadID, page, pageSize)
	if err != nil {
		if errors.Is(err, service.ErrForumThreadNotFound) {
			respondError(c, response.CodeNotFound, "error.post_not_found", nil)
			return
		}
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}

	pagination := response.Pagination{
		Page:      page,
		PageSize:  pageSize,
		Total:     total,
		TotalPage: (total + int64(pageSize) - 1) / int64(pageSize),
	}
	response.SuccessWithPage(c, replies, pagination)
}

// CreateForumReply 员工回帖
func (h *Handler) CreateForumReply(c *gin.Context) {
	staffID, ok := getStaffID(c)
	if !ok {
		return
	}
	threadID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req CreateForumReplyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	reply, err := h.ForumService.CreateReply(service.ForumReplyCreateInput{
		ThreadID:   threadID,
		AuthorType: models.ForumAuthorStaff,
		StaffID:    staffID,
		Body:       req.Body,
	})
	if err != nil {
		if errors.Is(err, service.ErrForumThreadNotFound) {
			respondError(c, response.CodeNotFound, "error.post_not_found", nil)
			return
		}
		if errors.Is(err, service.ErrForumThreadLocked) {
			respondError(c, response.CodeConflict, "error.post_locked", nil)
			return
		}
		if errors.Is(err, service.ErrForumInvalid) {
			respondError(c, response.CodeBadRequest, "error.validation_failed", nil)
			return
		}
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}

	response.Success(c, reply)
}

// LockForumThread 锁定/解锁论坛主题
func (h *Handler) LockForumThread(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req ForumThreadFlagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	thread, err := h.ForumService.SetThreadLocked(id, req.Value)
	if err != nil {
		if errors.Is(err, service.ErrForumThreadNotFound) {
			respondError(c, response.CodeNotFound, "error.post_not_found", nil)
			return
		}
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}

	response.Success(c, thread)
}

// PinForumThread 置顶/取消置顶论坛主题
func (h *Handler) PinForumThread(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req ForumThreadFlagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	thread, err := h.ForumService.SetThreadPinned(id, req.Value)
	if err != nil {
		if errors.Is(err, service.ErrForumThreadNotFound) {
			respondError(c, response.CodeNotFound, "error.post_not_found", nil)
			return
		}
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}

	response.Success(c, thread)
}

// DeleteForumThread 删除论坛主题
func (h *Handler) DeleteForumThread(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.ForumService.DeleteThread(id); err != nil {
		if errors.Is(err, service.ErrForumThreadNotFound) {
			respondError(c, response.CodeNotFound, "error.post_not_found", nil)
			return
		}
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}

	response.Success(c, nil)
}

// DeleteForumReply 删除论坛回复
func (h *Handler) DeleteForumReply(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.ForumService.DeleteReply(id); err != nil {
		if errors.Is(err, service.ErrForumThreadNotFound) {
			respondError(c, response.CodeNotFound, "error.post_not_found", nil)
			return
		}
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}

	response.Success(c, nil)
}
