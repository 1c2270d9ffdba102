package models

import (
	"time"

	"github.com/FeexSystems/Rainbow-childcare-sub000/internal/constants"
)

// PickupAuthorization 接送授权码表
// 说明：状态不落库，由 RedeemedAt/SupersededAt/ExpiresAt 按当前时间推导，
// 避免依赖后台任务翻转状态导致的读写竞态。
type PickupAuthorization struct {
	ID              uint       `gorm:"primarykey" json:"id"`                              // 主键
	UUID            string     `gorm:"type:varchar(64);uniqueIndex;not null" json:"uuid"` // 对外标识
	Code            string     `gorm:"type:varchar(80);uniqueIndex;not null" json:"-"`    // 接送码（列表接口不返回）
	ChildID         uint       `gorm:"index;not null" json:"child_id"`                    // 儿童ID
	GuardianID      uint       `gorm:"index;not null" json:"guardian_id"`                 // 申请家长ID
	IssuedAt        time.Time  `gorm:"index;not null" json:"issued_at"`                   // 签发时间
	ExpiresAt       time.Time  `gorm:"index;not null" json:"expires_at"`                  // 过期时间
	RedeemedAt      *time.Time `gorm:"index" json:"redeemed_at,omitempty"`                // 核销时间
	RedeemedStaffID *uint      `gorm:"index" json:"redeemed_staff_id,omitempty"`          // 核销员工ID
	SupersededAt    *time.Time `gorm:"index" json:"superseded_at,omitempty"`              // 被新码顶替的时间
	CreatedAt       time.Time  `gorm:"index" json:"created_at"`                           // 创建时间
	UpdatedAt       time.Time  `gorm:"index" json:"updated_at"`                           // 更新时间
	Child           *Child     `gorm:"foreignKey:ChildID" json:"child,omitempty"`         // 儿童信息
	Guardian        *Guardian  `gorm:"foreignKey:GuardianID" json:"guardian,omitempty"`   // 家长信息
}

// TableName 指定表名
func (PickupAuthorization) TableName() string {
	return "pickup_authorizations"
}

// StatusAt 按给定时间推导接送码状态
// 核销优先于过期：已核销的码永远是 redeemed，不随时间回退。
func (p PickupAuthorization) StatusAt(now time.Time) string {
	if p.RedeemedAt != nil {
		return constants.PickupStatusRedeemed
	}
	if p.SupersededAt != nil {
		return constants.PickupStatusExpired
	}
	if !now.Before(p.ExpiresAt) {
		return constants.PickupStatusExpired
	}
	return constants.PickupStatusActive
}

// IsRedeemableAt 判断给定时间能否核销
func (p PickupAuthorization) IsRedeemableAt(now time.Time) bool {
	return p.StatusAt(now) == constants.PickupStatusActive
}

// RemainingSeconds 返回距离过期的剩余秒数，非在用状态返回 0
func (p PickupAuthorization) RemainingSeconds(now time.Time) int64 {
	if p.StatusAt(now) != constants.PickupStatusActive {
		return 0
	}
	remaining := int64(p.ExpiresAt.Sub(now) / time.Second)
	if remaining < 0 {
		return 0
	}
	return remaining
}
