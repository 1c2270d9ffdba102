package models

import (
	"time"

	"gorm.io/gorm"
)

// Room 班级（教室）表
type Room struct {
	ID          uint           `gorm:"primarykey" json:"id"`                   // 主键
	Name        string         `gorm:"type:varchar(120);not null" json:"name"` // 班级名称
	Capacity    int            `gorm:"default:0" json:"capacity"`              // 容纳人数
	AgeMinMonth int            `gorm:"default:0" json:"age_min_month"`         // 最小月龄
	AgeMaxMonth int            `gorm:"default:0" json:"age_max_month"`         // 最大月龄
	SortOrder   int            `gorm:"default:0;index" json:"sort_order"`      // 排序权重
	CreatedAt   time.Time      `gorm:"index" json:"created_at"`                // 创建时间
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`                         // 软删除时间
}

// TableName 指定表名
func (Room) TableName() string {
	return "rooms"
}
