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

// CreateChildRequest 创建儿童档案请求
type CreateChildRequest struct {
	FirstName    string `json:"first_name" binding:"required"`
	LastName     string `json:"last_name" binding:"required"`
	DateOfBirth  string `json:"date_of_birth" binding:"required"`
	RoomID       *uint  `json:"room_id"`
	MedicalNotes string `json:"medical_notes"`
	PhotoConsent bool   `json:"photo_consent"`
}

// UpdateChildRequest 更新儿童档案请求
type UpdateChildRequest struct {
	FirstName    *string `json:"first_name"`
	LastName     *string `json:"last_name"`
	DateOfBirth  *string `json:"date_of_birth"`
	RoomID       *uint   `json:"room_id"`
	MedicalNotes *string `json:"medical_notes"`
	PhotoConsent *bool   `json:"photo_consent"`
	Status       *string `json:"status"`
}

// LinkGuardianRequest 关联家长请求
type LinkGuardianRequest struct {
	GuardianID uint   `json:"guardian_id" binding:"required"`
	Relation   string `json:"relation" binding:"required"`
	IsPrimary  bool   `json:"is_primary"`
}

func parseDateOfBirth(raw string) (time.Time, error) {
	return time.Parse("2006-01-02", strings.TrimSpace(raw))
}

// CreateChild 创建儿童档案
func (h *Handler) CreateChild(c *gin.Context) {
	var req CreateChildRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	dob, err := parseDateOfBirth(req.DateOfBirth)
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	child, err := h.ChildService.CreateChild(service.ChildCreateInput{
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		DateOfBirth:  dob,
		RoomID:       req.RoomID,
		MedicalNotes: req.MedicalNotes,
		PhotoConsent: req.PhotoConsent,
	})
	if err != nil {
		if errors.Is(err, service.ErrChildInvalid) {
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

	response.Success(c, child)
}

// GetChild 获取儿童档案详情
func (h *Handler) GetChild(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	child, err := h.ChildService.GetChild(id)
	if err != nil {
		if errors.Is(err, service.ErrChildNotFound) {
			respondError(c, response.CodeNotFound, "error.child_not_found", nil)
			return
		}
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}

	response.Success(c, child)
}

// ListChildren 查询儿童列表
func (h *Handler) ListChildren(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	roomID, ok := parseQueryUint(c, "room_id")
	if !ok {
		return
	}
	guardianID, ok := parseQueryUint(c, "guardian_id")
	if !ok {
		return
	}

	children, total, err := h.ChildService.ListChildren(repository.ChildListFilter{
		Page:       page,
		PageSize:   pageSize,
		Keyword:    strings.TrimSpace(c.Query("keyword")),
		RoomID:     roomID,
		GuardianID: guardianID,
		Status:     strings.TrimSpace(c.Query("status")),
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
	response.SuccessWithPage(c, children, pagination)
}

// UpdateChild 更新儿童档案
func (h *Handler) UpdateChild(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req UpdateChildRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	input := service.ChildUpdateInput{
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		RoomID:       req.RoomID,
		MedicalNotes: req.MedicalNotes,
		PhotoConsent: req.PhotoConsent,
		Status:       req.Status,
	}
	if req.DateOfBirth != nil {
		dob, err := parseDateOfBirth(*req.DateOfBirth)
		if err != nil {
			respondError(c, response.CodeBadRequest, "error.bad_request", err)
			return
		}
		input.DateOfBirth = &dob
	}

	child, err := h.ChildService.UpdateChild(id, input)
	if err != nil {
		if errors.Is(err, service.ErrChildNotFound) {
			respondError(c, response.CodeNotFound, "error.child_not_found", nil)
			return
		}
		if errors.Is(err, service.ErrChildInvalid) {
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

	response.Success(c, child)
}

// DeleteChild 删除儿童档案（软删除）
func (h *Handler) DeleteChild(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.ChildService.DeleteChild(id); err != nil {
		if errors.Is(err, service.ErrChildNotFound) {
			respondError(c, response.CodeNotFound, "error.child_not_found", nil)
			return
		}
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}

	response.Success(c, nil)
}

// LinkChildGuardian 关联家长与儿童
func (h *Handler) LinkChildGuardian(c *gin.Context) {
	childID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req LinkGuardianRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	if err := h.ChildService.LinkGuardian(service.ChildLinkInput{
		ChildID:    childID,
		GuardianID: req.GuardianID,
		Relation:   req.Relation,
		IsPrimary:  req.IsPrimary,
	}); err != nil {
		if errors.Is(err, service.ErrChildNotFound) {
			respondError(c, response.CodeNotFound, "error.child_not_found", nil)
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

// UnlinkChildGuardian 解除家长与儿童的关联
func (h *Handler) UnlinkChildGuardian(c *gin.Context) {
	childID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	guardianID, ok := parseIDParam(c, "guardian_id")
	if !ok {
		return
	}

	if err := h.ChildService.UnlinkGuardian(guardianID, childID); err != nil {
		if errors.Is(err, service.ErrChildNotFound) {
			respondError(c, response.CodeNotFound, "error.child_not_found", nil)
			return
		}
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}

	response.Success(c, nil)
}

// ListChildGuardians 获取儿童关联的家长列表
func (h *Handler) ListChildGuardians(c *gin.Context) {
	childID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	guardians, err := h.ChildService.ListGuardiansOfChild(childID)
	if err != nil {
		if errors.Is(err, service.ErrChildNotFound) {
			respondError(c, response.CodeNotFound, "error.child_not_found", nil)
			return
		}
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}

	response.Success(c, guardians)
}
