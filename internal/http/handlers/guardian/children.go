package guardian

import (
	"errors"

	"github.com/FeexSystems/Rainbow-childcare-sub000/internal/http/response"
	"github.com/FeexSystems/Rainbow-childcare-sub000/internal/service"

	"github.com/gin-gonic/gin"
)

// ListMyChildren 获取当前家长关联的儿童列表
func (h *Handler) ListMyChildren(c *gin.Context) {
	guardianID, ok := getGuardianID(c)
	if !ok {
		return
	}

	children, err := h.ChildService.ListChildrenForGuardian(guardianID)
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}

	response.Success(c, children)
}

// GetMyChild 获取当前家长关联的儿童详情
// 未关联的儿童一律按不存在处理，避免泄露他人档案。
func (h *Handler) GetMyChild(c *gin.Context) {
	guardianID, ok := getGuardianID(c)
	if !ok {
		return
	}
	childID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	child, err := h.ChildService.GetChildForGuardian(guardianID, childID)
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
