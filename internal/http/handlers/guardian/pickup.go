package guardian

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/FeexSystems/Rainbow-childcare-sub000/internal/http/response"
	"github.com/FeexSystems/Rainbow-childcare-sub000/internal/models"
	"github.com/FeexSystems/Rainbow-childcare-sub000/internal/service"

	"github.com/gin-gonic/gin"
	qrcode "github.com/skip2/go-qrcode"
)

// IssuePickupCode 为儿童签发接送码
// 新码会顶替同一儿童此前仍在用的旧码。
func (h *Handler) IssuePickupCode(c *gin.Context) {
	guardianID, ok := getGuardianID(c)
	if !ok {
		return
	}
	childID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	auth, err := h.PickupService.IssuePickupCode(service.PickupIssueInput{
		GuardianID: guardianID,
		ChildID:    childID,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrPickupChildInvalid):
			respondError(c, response.CodeForbidden, "error.child_not_linked", nil)
		case errors.Is(err, service.ErrPickupRateLimited):
			respondError(c, response.CodeTooManyRequests, "error.pickup_rate_limited", nil)
		default:
			respondError(c, response.CodeInternal, "error.internal", err)
		}
		return
	}

	response.Success(c, pickupCodeDetail(auth, time.Now()))
}

// ListMyPickupCodes 查询当前家长的接送码列表
func (h *Handler) ListMyPickupCodes(c *gin.Context) {
	guardianID, ok := getGuardianID(c)
	if !ok {
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	childID := uint(0)
	if raw := strings.TrimSpace(c.Query("child_id")); raw != "" {
		parsed, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			respondError(c, response.CodeBadRequest, "error.bad_request", err)
			return
		}
		childID = uint(parsed)
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

	now := time.Now()
	list := make([]gin.H, 0, len(items))
	for i := range items {
		auth := items[i]
		list = append(list, gin.H{
			"uuid":        auth.UUID,
			"child_id":    auth.ChildID,
			"status":      auth.StatusAt(now),
			"issued_at":   auth.IssuedAt,
			"expires_at":  auth.ExpiresAt,
			"redeemed_at": auth.RedeemedAt,
		})
	}

	pagination := response.Pagination{
		Page:      page,
		PageSize:  pageSize,
		Total:     total,
		TotalPage: (total + int64(pageSize) - 1) / int64(pageSize),
	}
	response.SuccessWithPage(c, list, pagination)
}

// GetMyPickupCode 查询接送码详情
// 仅签发人可见完整接送码内容。
func (h *Handler) GetMyPickupCode(c *gin.Context) {
	guardianID, ok := getGuardianID(c)
	if !ok {
		return
	}
	authUUID := strings.TrimSpace(c.Param("uuid"))
	if authUUID == "" {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}

	auth, err := h.PickupService.GetPickupCodeForGuardian(guardianID, authUUID)
	if err != nil {
		if errors.Is(err, service.ErrPickupCodeNotFound) {
			respondError(c, response.CodeNotFound, "error.pickup_not_found", nil)
			return
		}
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}

	response.Success(c, pickupCodeDetail(auth, time.Now()))
}

// GetMyPickupCodeQR 生成接送码二维码图片
func (h *Handler) GetMyPickupCodeQR(c *gin.Context) {
	guardianID, ok := getGuardianID(c)
	if !ok {
		return
	}
	authUUID := strings.TrimSpace(c.Param("uuid"))
	if authUUID == "" {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}

	auth, err := h.PickupService.GetPickupCodeForGuardian(guardianID, authUUID)
	if err != nil {
		if errors.Is(err, service.ErrPickupCodeNotFound) {
			respondError(c, response.CodeNotFound, "error.pickup_not_found", nil)
			return
		}
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}

	png, err := qrcode.Encode(auth.Code, qrcode.Medium, 256)
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}

	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, "image/png", png)
}

func pickupCodeDetail(auth *models.PickupAuthorization, now time.Time) gin.H {
	return gin.H{
		"uuid":        auth.UUID,
		"code":        auth.Code,
		"child_id":    auth.ChildID,
		"guardian_id": auth.GuardianID,
		"status":      auth.StatusAt(now),
		"issued_at":   auth.IssuedAt,
		"expires_at":  auth.ExpiresAt,
		"redeemed_at": auth.RedeemedAt,
	}
}
