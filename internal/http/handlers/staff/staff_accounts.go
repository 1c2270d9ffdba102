package staff

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/FeexSystems/Rainbow-childcare-sub000/internal/cache"
	"github.com/FeexSystems/Rainbow-childcare-sub000/internal/http/response"
	"github.com/FeexSystems/Rainbow-childcare-sub000/internal/i18n"
	"github.com/FeexSystems/Rainbow-childcare-sub000/internal/logger"
	"github.com/FeexSystems/Rainbow-childcare-sub000/internal/models"
	"github.com/FeexSystems/Rainbow-childcare-sub000/internal/service"

	"github.com/gin-gonic/gin"
)

const protectedManagerUsername = "manager"

type createStaffPayload struct {
	Username    string `json:"username" binding:"required"`
	Password    string `json:"password" binding:"required"`
	DisplayName string `json:"display_name"`
	RoomID      *uint  `json:"room_id"`
	IsSuper     *bool  `json:"is_super"`
}

type updateStaffPayload struct {
	Username    *string `json:"username"`
	Password    *string `json:"password"`
	DisplayName *string `json:"display_name"`
	RoomID      *uint   `json:"room_id"`
	IsSuper     *bool   `json:"is_super"`
}

// CreateStaffAccount 创建员工账号
func (h *Handler) CreateStaffAccount(c *gin.Context) {
	var req createStaffPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	username, err := normalizeStaffUsername(req.Username)
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.staff_username_invalid", err)
		return
	}
	password := strings.TrimSpace(req.Password)
	if password == "" {
		respondError(c, response.CodeBadRequest, "error.password_weak", nil)
		return
	}

	existing, err := h.StaffRepo.GetByUsername(username)
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	if existing != nil {
		respondError(c, response.CodeConflict, "error.staff_exists", nil)
		return
	}

	if err := h.AuthService.ValidatePassword(password); err != nil {
		if respondStaffPasswordPolicyError(c, err) {
			return
		}
		respondError(c, response.CodeBadRequest, "error.password_weak", err)
		return
	}

	hash, err := h.AuthService.HashPassword(password)
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}

	isSuper := req.IsSuper != nil && *req.IsSuper
	if strings.EqualFold(username, protectedManagerUsername) {
		isSuper = true
	}

	member := &models.Staff{
		Username:     username,
		PasswordHash: hash,
		DisplayName:  strings.TrimSpace(req.DisplayName),
		RoomID:       req.RoomID,
		IsSuper:      isSuper,
	}
	if err := h.StaffRepo.Create(member); err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}

	_ = cache.SetStaffAuthState(c.Request.Context(), cache.BuildStaffAuthState(member))

	h.recordAuthzAudit(c, service.AuthzAuditRecordInput{
		OperatorStaffID:  currentStaffID(c),
		OperatorUsername: currentUsername(c),
		TargetStaffID:    &member.ID,
		TargetUsername:   member.Username,
		Action:           "staff_create",
		RequestID:        currentRequestID(c),
		Detail: models.JSON{
			"target_staff_id": member.ID,
			"target_username": member.Username,
			"is_super":        member.IsSuper,
		},
	})

	logger.Infow("staff_account_created",
		"operator_staff_id", currentStaffID(c),
		"target_staff_id", member.ID,
		"target_username", member.Username,
		"is_super", member.IsSuper,
	)

	response.Success(c, member)
}

// UpdateStaffAccount 更新员工账号
func (h *Handler) UpdateStaffAccount(c *gin.Context) {
	staffID, ok := parseStaffIDParam(c)
	if !ok {
		return
	}

	member, err := h.StaffRepo.GetByID(staffID)
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	if member == nil {
		respondError(c, response.CodeBadRequest, "error.staff_id_invalid", nil)
		return
	}

	var req updateStaffPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	updatedFields := make([]string, 0, 4)

	if req.Username != nil {
		normalizedUsername, err := normalizeStaffUsername(*req.Username)
		if err != nil {
			respondError(c, response.CodeBadRequest, "error.staff_username_invalid", err)
			return
		}
		if normalizedUsername != member.Username {
			existing, err := h.StaffRepo.GetByUsername(normalizedUsername)
			if err != nil {
				respondError(c, response.CodeInternal, "error.internal", err)
				return
			}
			if existing != nil && existing.ID != member.ID {
				respondError(c, response.CodeConflict, "error.staff_exists", nil)
				return
			}
			member.Username = normalizedUsername
			updatedFields = append(updatedFields, "username")
		}
	}

	if req.DisplayName != nil {
		displayName := strings.TrimSpace(*req.DisplayName)
		if displayName != member.DisplayName {
			member.DisplayName = displayName
			updatedFields = append(updatedFields, "display_name")
		}
	}

	if req.RoomID != nil {
		member.RoomID = req.RoomID
		updatedFields = append(updatedFields, "room_id")
	}

	if req.IsSuper != nil {
		nextIsSuper := *req.IsSuper
		if strings.EqualFold(strings.TrimSpace(member.Username), protectedManagerUsername) {
			nextIsSuper = true
		}
		if member.IsSuper != nextIsSuper {
			member.IsSuper = nextIsSuper
			updatedFields = append(updatedFields, "is_super")
		}
	}

	if req.Password != nil {
		password := strings.TrimSpace(*req.Password)
		if password == "" {
			respondError(c, response.CodeBadRequest, "error.password_weak", nil)
			return
		}
		if err := h.AuthService.ValidatePassword(password); err != nil {
			if respondStaffPasswordPolicyError(c, err) {
				return
			}
			respondError(c, response.CodeBadRequest, "error.password_weak", err)
			return
		}
		hash, err := h.AuthService.HashPassword(password)
		if err != nil {
			respondError(c, response.CodeInternal, "error.internal", err)
			return
		}
		member.PasswordHash = hash
		now := time.Now()
		member.TokenVersion++
		member.TokenInvalidBefore = &now
		updatedFields = append(updatedFields, "password")
	}

	if len(updatedFields) == 0 {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}

	if err := h.StaffRepo.Update(member); err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	_ = cache.SetStaffAuthState(c.Request.Context(), cache.BuildStaffAuthState(member))

	sort.Strings(updatedFields)
	if currentStaffID(c) == member.ID {
		c.Set("staff_is_super", member.IsSuper)
	}

	h.recordAuthzAudit(c, service.AuthzAuditRecordInput{
		OperatorStaffID:  currentStaffID(c),
		OperatorUsername: currentUsername(c),
		TargetStaffID:    &member.ID,
		TargetUsername:   member.Username,
		Action:           "staff_update",
		RequestID:        currentRequestID(c),
		Detail: models.JSON{
			"target_staff_id": member.ID,
			"target_username": member.Username,
			"updated_fields":  updatedFields,
			"is_super":        member.IsSuper,
		},
	})

	logger.Infow("staff_account_updated",
		"operator_staff_id", currentStaffID(c),
		"target_staff_id", member.ID,
		"target_username", member.Username,
		"updated_fields", updatedFields,
	)

	response.Success(c, member)
}

// DeleteStaffAccount 删除员工账号
func (h *Handler) DeleteStaffAccount(c *gin.Context) {
	staffID, ok := parseStaffIDParam(c)
	if !ok {
		return
	}

	member, err := h.StaffRepo.GetByID(staffID)
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	if member == nil {
		respondError(c, response.CodeBadRequest, "error.staff_id_invalid", nil)
		return
	}
	if currentStaffID(c) == staffID {
		respondError(c, response.CodeBadRequest, "error.staff_delete_self_forbidden", nil)
		return
	}
	if strings.EqualFold(strings.TrimSpace(member.Username), protectedManagerUsername) {
		respondError(c, response.CodeBadRequest, "error.staff_delete_protected", nil)
		return
	}

	count, err := h.StaffRepo.Count()
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	if count <= 1 {
		respondError(c, response.CodeBadRequest, "error.staff_delete_last_forbidden", nil)
		return
	}

	if err := h.AuthzService.SetStaffRoles(staffID, []string{}); err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	if err := h.StaffRepo.Delete(staffID); err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	_ = cache.DelStaffAuthState(c.Request.Context(), staffID)

	h.recordAuthzAudit(c, service.AuthzAuditRecordInput{
		OperatorStaffID:  currentStaffID(c),
		OperatorUsername: currentUsername(c),
		TargetStaffID:    &staffID,
		TargetUsername:   member.Username,
		Action:           "staff_delete",
		RequestID:        currentRequestID(c),
		Detail: models.JSON{
			"target_staff_id": staffID,
			"target_username": member.Username,
		},
	})

	logger.Infow("staff_account_deleted",
		"operator_staff_id", currentStaffID(c),
		"target_staff_id", staffID,
		"target_username", member.Username,
	)

	response.Success(c, nil)
}

func normalizeStaffUsername(username string) (string, error) {
	trimmed := strings.TrimSpace(username)
	if trimmed == "" {
		return "", fmt.Errorf("username is required")
	}
	if strings.ContainsAny(trimmed, " \t\r\n") {
		return "", fmt.Errorf("username contains whitespace")
	}
	length := len([]rune(trimmed))
	if length < 3 || length > 64 {
		return "", fmt.Errorf("username length out of range")
	}
	return trimmed, nil
}

func respondStaffPasswordPolicyError(c *gin.Context, err error) bool {
	if err == nil || !errors.Is(err, service.ErrPasswordWeak) {
		return false
	}
	if perr, ok := err.(interface {
		Key() string
		Args() []interface{}
	}); ok {
		msg := i18n.Sprintf(i18n.LocaleFromContext(c), perr.Key(), perr.Args()...)
		respondErrorWithMsg(c, response.CodeBadRequest, msg, nil)
		return true
	}
	respondError(c, response.CodeBadRequest, "error.password_weak", nil)
	return true
}
