package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/FeexSystems/Rainbow-childcare-sub000/internal/models"
)

const authStateCacheTTL = 10 * time.Minute

// GuardianAuthState 家长鉴权快照
// token_invalid_before 为 Unix 秒时间戳，0 表示未设置
// 该结构仅用于服务端 Redis 缓存
// 字段保持简洁，避免重复查询数据库
type GuardianAuthState struct {
	GuardianID         uint   `json:"guardian_id"`
	Status             string `json:"status"`
	TokenVersion       uint64 `json:"token_version"`
	TokenInvalidBefore int64  `json:"token_invalid_before"`
	UpdatedAt          int64  `json:"updated_at"`
}

// StaffAuthState 员工鉴权快照
type StaffAuthState struct {
	StaffID            uint   `json:"staff_id"`
	Username           string `json:"username"`
	Role               string `json:"role"`
	TokenVersion       uint64 `json:"token_version"`
	TokenInvalidBefore int64  `json:"token_invalid_before"`
	IsSuper            bool   `json:"is_super"`
	UpdatedAt          int64  `json:"updated_at"`
}

func guardianAuthStateKey(guardianID uint) string {
	return fmt.Sprintf("auth:guardian:%d", guardianID)
}

func staffAuthStateKey(staffID uint) string {
	return fmt.Sprintf("auth:staff:%d", staffID)
}

// BuildGuardianAuthState 从家长模型构建鉴权快照
func BuildGuardianAuthState(guardian *models.Guardian) *GuardianAuthState {
	if guardian == nil {
		return nil
	}
	state := &GuardianAuthState{
		GuardianID:   guardian.ID,
		Status:       guardian.Status,
		TokenVersion: guardian.TokenVersion,
		UpdatedAt:    time.Now().Unix(),
	}
	if guardian.TokenInvalidBefore != nil {
		state.TokenInvalidBefore = guardian.TokenInvalidBefore.Unix()
	}
	return state
}

// BuildStaffAuthState 从员工模型构建鉴权快照
func BuildStaffAuthState(staff *models.Staff) *StaffAuthState {
	if staff == nil {
		return nil
	}
	state := &StaffAuthState{
		StaffID:      staff.ID,
		Username:     staff.Username,
		Role:         staff.Role,
		TokenVersion: staff.TokenVersion,
		IsSuper:      staff.IsSuper,
		UpdatedAt:    time.Now().Unix(),
	}
	if staff.TokenInvalidBefore != nil {
		state.TokenInvalidBefore = staff.TokenInvalidBefore.Unix()
	}
	return state
}

// GetGuardianAuthState 获取家长鉴权快照
func GetGuardianAuthState(ctx context.Context, guardianID uint) (*GuardianAuthState, bool, error) {
	if guardianID == 0 {
		return nil, false, nil
	}
	var state GuardianAuthState
	hit, err := GetJSON(ctx, guardianAuthStateKey(guardianID), &state)
	if err != nil || !hit {
		return nil, hit, err
	}
	return &state, true, nil
}

// SetGuardianAuthState 写入家长鉴权快照
func SetGuardianAuthState(ctx context.Context, state *GuardianAuthState) error {
	if state == nil || state.GuardianID == 0 {
		return nil
	}
	return SetJSON(ctx, guardianAuthStateKey(state.GuardianID), state, authStateCacheTTL)
}

// DelGuardianAuthState 删除家长鉴权快照
func DelGuardianAuthState(ctx context.Context, guardianID uint) error {
	if guardianID == 0 {
		return nil
	}
	return Del(ctx, guardianAuthStateKey(guardianID))
}

// GetStaffAuthState 获取员工鉴权快照
func GetStaffAuthState(ctx context.Context, staffID uint) (*StaffAuthState, bool, error) {
	if staffID == 0 {
		return nil, false, nil
	}
	var state StaffAuthState
	hit, err := GetJSON(ctx, staffAuthStateKey(staffID), &state)
	if err != nil || !hit {
		return nil, hit, err
	}
	return &state, true, nil
}

// SetStaffAuthState 写入员工鉴权快照
func SetStaffAuthState(ctx context.Context, state *StaffAuthState) error {
	if state == nil || state.StaffID == 0 {
		return nil
	}
	return SetJSON(ctx, staffAuthStateKey(state.StaffID), state, authStateCacheTTL)
}

// DelStaffAuthState 删除员工鉴权快照
func DelStaffAuthState(ctx context.Context, staffID uint) error {
	if staffID == 0 {
		return nil
	}
	return Del(ctx, staffAuthStateKey(staffID))
}
