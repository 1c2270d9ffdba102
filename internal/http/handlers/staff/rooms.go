package staff

import (
	"strings"

	"github.com/FeexSystems/Rainbow-childcare-sub000/internal/http/response"
	"github.com/FeexSystems/Rainbow-childcare-sub000/internal/models"

	"github.com/gin-gonic/gin"
)

// RoomRequest 班级创建/更新请求
type RoomRequest struct {
	Name        string `json:"name" binding:"required"`
	Capacity    int    `json:"capacity"`
	AgeMinMonth int    `json:"age_min_month"`
	AgeMaxMonth int    `json:"age_max_month"`
	SortOrder   int    `json:"sort_order"`
}

// ListRooms 获取班级列表
func (h *Handler) ListRooms(c *gin.Context) {
	rooms, err := h.RoomRepo.ListAll()
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	response.Success(c, rooms)
}

// GetRoom 获取班级详情
func (h *Handler) GetRoom(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	room, err := h.RoomRepo.GetByID(id)
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	if room == nil {
		respondError(c, response.CodeNotFound, "error.room_not_found", nil)
		return
	}

	response.Success(c, room)
}

// CreateRoom 创建班级
func (h *Handler) CreateRoom(c *gin.Context) {
	var req RoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	name := strings.TrimSpace(req.Name)
	if name == "" || req.Capacity < 0 {
		respondError(c, response.CodeBadRequest, "error.validation_failed", nil)
		return
	}

	room := &models.Room{
		Name:        name,
		Capacity:    req.Capacity,
		AgeMinMonth: req.AgeMinMonth,
		AgeMaxMonth: req.AgeMaxMonth,
		SortOrder:   req.SortOrder,
	}
	if err := h.RoomRepo.Create(room); err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}

	response.Success(c, room)
}

// UpdateRoom 更新班级
func (h *Handler) UpdateRoom(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	room, err := h.RoomRepo.GetByID(id)
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	if room == nil {
		respondError(c, response.CodeNotFound, "error.room_not_found", nil)
		return
	}

	var req RoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	name := strings.TrimSpace(req.Name)
	if name == "" || req.Capacity < 0 {
		respondError(c, response.CodeBadRequest, "error.validation_failed", nil)
		return
	}

	room.Name = name
	room.Capacity = req.Capacity
	room.AgeMinMonth = req.AgeMinMonth
	room.AgeMaxMonth = req.AgeMaxMonth
	room.SortOrder = req.SortOrder
	if err := h.RoomRepo.Update(room); err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}

	response.Success(c, room)
}

// DeleteRoom 删除班级（软删除）
func (h *Handler) DeleteRoom(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	room, err := h.RoomRepo.GetByID(id)
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	if room == nil {
		respondError(c, response.CodeNotFound, "error.room_not_found", nil)
		return
	}

	if err := h.RoomRepo.Delete(id); err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}

	response.Success(c, nil)
}
