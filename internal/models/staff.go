package models

import (
	"time"

	"gorm.io/gorm"
)

// Staff 园所员工表
type Staff struct {
	ID                 uint           `gorm:"primarykey" json:"id"`                         // 主键
	Username           string         `gorm:"uniqueIndex;not null" json:"username"`         // 员工账号
	PasswordHash       string         `gorm:"not null" json:"-"`                            // 密码哈希（不返回给前端）
	DisplayName        string         `gorm:"default:''" json:"display_name"`               // 姓名
	Role               string         `gorm:"type:varchar(32);index" json:"role"`           // 岗位角色（授权种子之一）
	RoomID             *uint          `gorm:"index" json:"room_id,omitempty"`               // 所属班级
	TokenVersion       uint64         `gorm:"not null;default:0" json:"-"`                  // Token 版本（用于全量失效）
	TokenInvalidBefore *time.Time     `gorm:"index" json:"-"`                               // 该时间点前签发的 Token 失效
	IsSuper            bool           `gorm:"not null;default:false;index" json:"is_super"` // 是否园长（免权限校验）
	LastLoginAt        *time.Time     `json:"last_login_at"`                                // 最后登录时间
	CreatedAt          time.Time      `gorm:"index" json:"created_at"`                      // 创建时间
	DeletedAt          gorm.DeletedAt `gorm:"index" json:"-"`                               // 软删除时间
}

// TableName 指定表名
func (Staff) TableName() string {
	return "staff"
}
