package staff

import (
	"errors"
	"strconv"
	"time"

	"github.com/FeexSystems/Rainbow-childcare-sub000/internal/http/response"
	"github.com/FeexSystems/Rainbow-childcare-sub000/internal/i18n"
	"github.com/FeexSystems/Rainbow-childcare-sub000/internal/service"

	"github.com/gin-gonic/gin"
)

// RedeemPickupRequest 核销接送码请求
type RedeemPickupRequest struct {
	Code string `json:"code" binding:"required"`
}

// RedeemPickupCode 核销接送码
// 同一接送码只允许一次成功核销，过期与重复核销分别返回明确错误。
func (h *Handler) RedeemPickupCode(c *gin.Context) {
	staffID, ok := getStaffID(c)
	if !ok {
		return
	}

	var req RedeemPickupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	auth, err := h.PickupService.RedeemPickupCode(service.PickupRedeemInput{
		StaffID: staffID,
		Code:    req.Code,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrPickupCodeNotFound):
			respondError(c, response.CodeNotFound, "error.pickup_not_found", nil)
		case errors.Is(err, service.ErrPickupCodeExpired):
			respondError(c, response.CodeConflict, "error.pickup_expired", nil)
		case errors.Is(err, service.ErrPickupCodeRedeemed):
			h.respondRedeemedConflict(c, req.Code)
		default:
			respondError(c, response.CodeInternal, "error.internal", err)
		}
		return
	}

	requestLog(c).Infow("staff_pickup_redeemed",
		"staff_id", staffID,
		"pickup_uuid", auth.UUID,
		"child_id", auth.ChildID,
		"guardian_id", auth.GuardianID,
	)

	response.Success(c, auth)
}

// respondRedeemedConflict 返回已核销错误，并附带首次核销信息供争议核查
func (h *Handler) respondRedeemedConflict(c *gin.Context, code string) {
	msg := i18n.T(i18n.LocaleFromContext(c), "error.pickup_redeemed")
	auth, err := h.PickupService.GetPickupCodeStatus(code)
	if err != nil || auth == nil {
		response.Error(c, response.CodeConflict, msg)
		return
	}
	response.ErrorWithData(c, response.CodeConflict, msg, gin.H{
		"redeemed_at":       auth.RedeemedAt,
		"redeemed_staff_id": auth.RedeemedStaffID,
	})
}

// GetPickupCodeStatus 按对外标识或接送码查询状态
// 只读查验，供核销前确认，不会改变接送码状态。
func (h *Handler) GetPickupCodeStatus(c *gin.Context) {
	auth, err := h.PickupService.GetPickupCodeStatus(c.Param("ref"))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrPickupCodeNotFound):
			respondError(c, response.CodeNotFound, "error.pickup_not_found", nil)
		default:
			respondError(c, response.CodeInternal, "error.internal", err)
		}
		return
	}

	now := time.Now()
	response.Success(c, gin.H{
		"uuid":              auth.UUID,
		"child_id":          auth.ChildID,
		"guardian_id":       auth.GuardianID,
		"status":            auth.StatusAt(now),
		"remaining_seconds": auth.RemainingSeconds(now),
		"issued_at":         auth.IssuedAt,
		"expires_at":        auth.ExpiresAt,
		"redeemed_at":       auth.RedeemedAt,
	})
}

// RecentPickupRedemptions 获取近期核销记录
func (h *Handler) RecentPickupRedemptions(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}

	items, err := h.PickupService.RecentRedemptions(limit)
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}

	response.Success(c, items)
}

// ListPickupCodes 查询接送码列表
func (h *Handler) ListPickupCodes(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	guardianID, ok := parseQueryUint(c, "guardian_id")
	if !ok {
		return
	}
	childID, ok := parseQueryUint(c, "child_id")
	if !ok {
		return
	}

	items, total, err := h.PickupService.ListPickupCodes(service.PickupListInput{
		GuardianID: guardianID,
		ChildID:    childID,
		Page:       page,
		PageSize:   pageSize,
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
