package models

import "time"

const (
	NotificationRecipientGuardian = "guardian"
	NotificationRecipientStaff    = "staff"
)

// Notification 站内通知表
type Notification struct {
	ID            uint       `gorm:"primarykey" json:"id"`                                  // 主键
	RecipientType string     `gorm:"type:varchar(16);index;not null" json:"recipient_type"` // 接收方类型（guardian/staff）
	GuardianID    *uint      `gorm:"index" json:"guardian_id,omitempty"`                    // 家长接收人ID
	StaffID       *uint      `gorm:"index" json:"staff_id,omitempty"`                       // 员工接收人ID
	Type          string     `gorm:"type:varchar(32);index;not null" json:"type"`           // 通知类型
	Title         string     `gorm:"type:varchar(200);not null" json:"title"`               // 标题
	Body          string     `gorm:"type:text" json:"body"`                                 // 正文
	ReadAt        *time.Time `gorm:"index" json:"read_at,omitempty"`                        // 已读时间
	CreatedAt     time.Time  `gorm:"index" json:"created_at"`                               // 创建时间
}

// TableName 指定表名
func (Notification) TableName() string {
	return "notifications"
}
