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

// AttendanceCheckInRequest 入园登记请求
type AttendanceCheckInRequest struct {
	ChildID uint   `json:"child_id" binding:"required"`
	Notes   string `json:"notes"`
	At      string `json:"at"`
}

// AttendanceCheckOutRequest 离园登记请求
type AttendanceCheckOutRequest struct {
	ChildID uint   `json:"child_id" binding:"required"`
	At      string `json:"at"`
}

// AttendanceMarkRequest 标记出勤状态请求
type AttendanceMarkRequest struct {
	ChildID uint   `json:"child_id" binding:"required"`
	Day     string `json:"day"`
	Status  string `json:"status" binding:"required"`
	Notes   string `json:"notes"`
}

func parseAttendanceTime(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Now(), nil
	}
	return time.Parse(time.RFC3339, raw)
}

func respondAttendanceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrChildNotFound):
		respondError(c, response.CodeNotFound, "error.child_not_found", nil)
	case errors.Is(err, service.ErrAttendanceNotFound):
		respondError(c, response.CodeNotFound, "error.attendance_not_found", nil)
	case errors.Is(err, service.ErrAttendanceConflict):
		respondError(c, response.CodeConflict, "error.attendance_conflict", nil)
	case errors.Is(err, service.ErrAttendanceInvalid):
		respondError(c, response.CodeBadRequest, "error.validation_failed", nil)
	default:
		respondError(c, response.CodeInternal, "error.internal", err)
	}
}

// AttendanceCheckIn 入园登记
func (h *Handler) AttendanceCheckIn(c *gin.Context) {
	staffID, ok := getStaffID(c)
	if !ok {
		return
	}

	var req AttendanceCheckInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	at, err := parseAttendanceTime(req.At)
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	record, err := h.AttendanceService.CheckIn(service.AttendanceCheckInInput{
		ChildID: req.ChildID,
		StaffID: staffID,
		Notes:   req.Notes,
		At:      at,
	})
	if err != nil {
		respondAttendanceError(c, err)
		return
	}

	response.Success(c, record)
}

// AttendanceCheckOut 离园登记
func (h *Handler) AttendanceCheckOut(c *gin.Context) {
	staffID, ok := getStaffID(c)
	if !ok {
		return
	}

	var req AttendanceCheckOutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	at, err := parseAttendanceTime(req.At)
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	record, err := h.AttendanceService.CheckOut(service.AttendanceCheckOutInput{
		ChildID: req.ChildID,
		StaffID: staffID,
		At:      at,
	})
	if err != nil {
		respondAttendanceError(c, err)
		return
	}

	response.Success(c, record)
}

// AttendanceMark 标记出勤状态（缺勤/病假/假期）
func (h *Handler) AttendanceMark(c *gin.Context) {
	staffID, ok := getStaffID(c)
	if !ok {
		return
	}

	var req AttendanceMarkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	day := time.Now()
	if strings.TrimSpace(req.Day) != "" {
		parsed, err := time.Parse("2006-01-02", strings.TrimSpace(req.Day))
		if err != nil {
			respondError(c, response.CodeBadRequest, "error.bad_request", err)
			return
		}
		day = parsed
	}

	record, err := h.AttendanceService.MarkStatus(service.AttendanceMarkInput{
		ChildID: req.ChildID,
		StaffID: staffID,
		Day:     day,
		Status:  req.Status,
		Notes:   req.Notes,
	})
	if err != nil {
		respondAttendanceError(c, err)
		return
	}

	response.Success(c, record)
}

// GetAttendanceRecord 获取考勤记录详情
func (h *Handler) GetAttendanceRecord(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	record, err := h.AttendanceService.GetRecord(id)
	if err != nil {
		respondAttendanceError(c, err)
		return
	}

	response.Success(c, record)
}

// ListAttendanceRecords 查询考勤记录列表
func (h *Handler) ListAttendanceRecords(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	childID, ok := parseQueryUint(c, "child_id")
	if !ok {
		return
	}
	roomID, ok := parseQueryUint(c, "room_id")
	if !ok {
		return
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

	records, total, err := h.AttendanceService.ListRecords(repository.AttendanceListFilter{
		Page:     page,
		PageSize: pageSize,
		ChildID:  childID,
		RoomID:   roomID,
		Status:   strings.TrimSpace(c.Query("status")),
		DayFrom:  dayFrom,
		DayTo:    dayTo,
	})
	if err != nil {
		respondAttendanceError(c, err)
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
