package models

import (
	"time"

	"gorm.io/gorm"
)

// ForumThread 家长论坛主题表
type ForumThread struct {
	ID            uint           `gorm:"primarykey" json:"id"`                            // 主键
	GuardianID    uint           `gorm:"index;not null" json:"guardian_id"`               // 发帖家长ID
	Title         string         `gorm:"type:varchar(200);not null" json:"title"`         // 标题
	Body          string         `gorm:"type:text" json:"body"`                           // 正文
	IsLocked      bool           `gorm:"default:false;index" json:"is_locked"`            // 是否锁定（锁定后禁止回复）
	IsPinned      bool           `gorm:"default:false;index" json:"is_pinned"`            // 是否置顶
	ReplyCount    int            `gorm:"default:0" json:"reply_count"`                    // 回复数
	LastRepliedAt *time.Time     `gorm:"index" json:"last_replied_at"`                    // 最后回复时间
	CreatedAt     time.Time      `gorm:"index" json:"created_at"`                         // 创建时间
	UpdatedAt     time.Time      `gorm:"index" json:"updated_at"`                         // 更新时间
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`                                  // 软删除时间
	Guardian      *Guardian      `gorm:"foreignKey:GuardianID" json:"guardian,omitempty"` // 家长信息
}

// TableName 指定表名
func (ForumThread) TableName() string {
	return "forum_threads"
}

const (
	ForumAuthorGuardian = "guardian"
	ForumAuthorStaff    = "staff"
)

// ForumReply 家长论坛回复表
type ForumReply struct {
	ID         uint           `gorm:"primarykey" json:"id"`                               // 主键
	ThreadID   uint           `gorm:"index;not null" json:"thread_id"`                    // 主题ID
	AuthorType string         `gorm:"type:varchar(16);index;not null" json:"author_type"` // 作者类型（guardian/staff）
	GuardianID *uint          `gorm:"index" json:"guardian_id,omitempty"`                 // 家长作者ID
	StaffID    *uint          `gorm:"index" json:"staff_id,omitempty"`                    // 员工作者ID
	Body       string         `gorm:"type:text;not null" json:"body"`                     // 正文
	CreatedAt  time.Time      `gorm:"index" json:"created_at"`                            // 创建时间
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`                                     // 软删除时间
	Guardian   *Guardian      `gorm:"foreignKey:GuardianID" json:"guardian,omitempty"`    // 家长信息
	Staff      *Staff         `gorm:"foreignKey:StaffID" json:"staff,omitempty"`          // 员工信息
}

// TableName 指定表名
func (ForumReply) TableName() string {
	return "forum_replies"
}
