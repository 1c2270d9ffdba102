package models

import (
	"time"

	"gorm.io/gorm"
)

// Announcement 园所公告表
type Announcement struct {
	ID          uint           `gorm:"primarykey" json:"id"`                            // 主键
	StaffID     uint           `gorm:"index;not null" json:"staff_id"`                  // 发布员工ID
	Title       string         `gorm:"type:varchar(200);not null" json:"title"`         // 标题
	Body        string         `gorm:"type:text" json:"body"`                           // 正文
	Audience    string         `gorm:"type:varchar(24);index;not null" json:"audience"` // 通知范围（all/room）
	RoomID      *uint          `gorm:"index" json:"room_id,omitempty"`                  // 指定班级（audience=room 时必填）
	IsPublished bool           `gorm:"default:false;index" json:"is_published"`         // 是否发布
	PublishedAt *time.Time     `gorm:"index" json:"published_at"`                       // 发布时间
	CreatedAt   time.Time      `gorm:"index" json:"created_at"`                         // 创建时间
	UpdatedAt   time.Time      `gorm:"index" json:"updated_at"`                         // 更新时间
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`                                  // 软删除时间
	Staff       *Staff         `gorm:"foreignKey:StaffID" json:"staff,omitempty"`       // 员工信息
	Room        *Room          `gorm:"foreignKey:RoomID" json:"room,omitempty"`         // 班级信息
}

// TableName 指定表名
func (Announcement) TableName() string {
	return "announcements"
}
