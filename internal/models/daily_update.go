package models

import (
	"time"

	"gorm.io/gorm"
)

// DailyUpdate 儿童日报表
type DailyUpdate struct {
	ID         uint           `gorm:"primarykey" json:"id"`                            // 主键
	ChildID    uint           `gorm:"index;not null" json:"child_id"`                  // 儿童ID
	StaffID    uint           `gorm:"index;not null" json:"staff_id"`                  // 记录员工ID
	Category   string         `gorm:"type:varchar(24);index;not null" json:"category"` // 分类（meal/nap/activity/incident/photo）
	Title      string         `gorm:"type:varchar(200);not null" json:"title"`         // 标题
	Body       string         `gorm:"type:text" json:"body"`                           // 正文
	Photos     StringArray    `gorm:"type:json" json:"photos"`                         // 照片路径列表
	OccurredAt time.Time      `gorm:"index;not null" json:"occurred_at"`               // 发生时间
	CreatedAt  time.Time      `gorm:"index" json:"created_at"`                         // 创建时间
	UpdatedAt  time.Time      `gorm:"index" json:"updated_at"`                         // 更新时间
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`                                  // 软删除时间
	Child      *Child         `gorm:"foreignKey:ChildID" json:"child,omitempty"`       // 儿童信息
	Staff      *Staff         `gorm:"foreignKey:StaffID" json:"staff,omitempty"`       // 员工信息
}

// TableName 指定表名
func (DailyUpdate) TableName() string {
	return "daily_updates"
}
