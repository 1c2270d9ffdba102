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

// CreateThreadRequest 发帖请求
type CreateThreadRequest struct {
	Title string `json:"title" binding:"required"`
	Body  string `json:"body" binding:"required"`
}

// CreateReplyRequest 回帖请求
type CreateReplyRequest struct {
	Body string `json:"body" binding:"required"`
}

// ListForumThreads 查询论坛主题列表
func (h *Handler) ListForumThreads(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	threads, total, err := h.ForumService.ListThreads(repository.ForumThreadListFilter{
		Page:     page,
		PageSize: pageSize,
		Keyword:  strings.TrimSpace(c.Query("keyword")),
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

// CreateForumThread 家长发帖
func (h *Handler) CreateForumThread(c *gin.Context) {
	guardianID, ok := getGuardianID(c)
	if !ok {
		return
	}

	var req CreateThreadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	thread, err := h.ForumService.CreateThread(service.ForumThreadCreateInput{
		GuardianID: guardianID,
		Title:      req.Title,
		Body:       req.Body,
	})
	if err != nil {
		if errors.Is(err, service.ErrForumInvalid) {
			respondError(c, response.CodeBadRequest, "error.validation_failed", nil)
			return
		}
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}

	response.Success(c, thread)
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

// CreateForumReply 家长回帖
func (h *Handler) CreateForumReply(c *gin.Context) {
	guardianID, ok := getGuardianID(c)
	if !ok {
		return
	}
	threadID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req CreateReplyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	reply, err := h.ForumService.CreateReply(service.ForumReplyCreateInput{
		ThreadID:   threadID,
		AuthorType: models.ForumAuthorGuardian,
		GuardianID: guardianID,
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
