package guardian

import (
	"strconv"
	"strings"

	"github.com/FeexSystems/Rainbow-childcare-sub000/internal/http/response"
	"github.com/FeexSystems/Rainbow-childcare-sub000/internal/repository"

	"github.com/gin-gonic/gin"
)

// ListMyDailyUpdates 查询当前家长儿童的日常动态
func (h *Handler) ListMyDailyUpdates(c *gin.Context) {
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

	updates, total, err := h.DailyUpdateService.ListDailyUpdatesForGuardian(guardianID, repository.DailyUpdateListFilter{
		Page:         page,
		PageSize:     pageSize,
		ChildID:      childID,
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
