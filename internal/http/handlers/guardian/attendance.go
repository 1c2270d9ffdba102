package guardian

import (
	"strconv"
	"strings"

	"github.com/FeexSystems/Rainbow-childcare-sub000/internal/http/response"
	"github.com/FeexSystems/Rainbow-childcare-sub000/internal/repository"

	"github.com/gin-gonic/gin"
)

// ListMyAttendance 查询当前家长儿童的考勤记录
func (h *Handler) ListMyAttendance(c *gin.Context) {
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

	dayFrom, err := parseTimeNullable(strings.TrimSpace(c.Query("day_from")))
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	dayTo, err := parseTimeNullable(strings.TrimSpace(c.Query("day_to")))
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	records, total, err := h.AttendanceService.ListRecordsForGuardian(guardianID, repository.AttendanceListFilter{
		Page:     page,
		PageSize: pageSize,
		ChildID:  childID,
		Status:   strings.TrimSpace(c.Query("status")),
		DayFrom:  dayFrom,
		DayTo:    dayTo,
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
	response.SuccessWithPage(c, records, pagination)
}
