package models

import (
	"time"

	"gorm.io/gorm"
)

// Child 儿童档案表
type Child struct {
	ID           uint           `gorm:"primarykey" json:"id"`                         // 主键
	FirstName    string         `gorm:"type:varchar(120);not null" json:"first_name"` // 名
	LastName     string         `gorm:"type:varchar(120);not null" json:"last_name"`  // 姓
	DateOfBirth  time.Time      `gorm:"index" json:"date_of_birth"`                   // 出生日期
	RoomID       *uint          `gorm:"index" json:"room_id,omitempty"`               // 所属班级
	MedicalNotes string         `gorm:"type:text" json:"medical_notes"`               // 医疗备注（过敏等）
	PhotoConsent bool           `gorm:"not null;default:false" json:"photo_consent"`  // 照片授权
	Status       string         `gorm:"default:'enrolled';index" json:"status"`       // 在园状态
	CreatedAt    time.Time      `gorm:"index" json:"created_at"`                      // 创建时间
	UpdatedAt    time.Time      `gorm:"index" json:"updated_at"`                      // 更新时间
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`                               // 软删除时间
	Room         *Room          `gorm:"foreignKey:RoomID" json:"room,omitempty"`      // 班级信息
}

// TableName 指定表名
func (Child) TableName() string {
	return "children"
}

// FullName 返回儿童全名
func (c Child) FullName() string {
	return c.FirstName + " " + c.LastName
}

// GuardianChild 家长与儿童的关联表
// 说明：一名儿童可关联多名家长，接送码只能由已关联的家长申请。
type GuardianChild struct {
	ID         uint      `gorm:"primarykey" json:"id"`                                          // 主键
	GuardianID uint      `gorm:"uniqueIndex:idx_guardian_child;not null" json:"guardian_id"`    // 家长ID
	ChildID    uint      `gorm:"uniqueIndex:idx_guardian_child;not null;index" json:"child_id"` // 儿童ID
	Relation   string    `gorm:"type:varchar(32);not null" json:"relation"`                     // 关系（mother/father/grandparent/other）
	IsPrimary  bool      `gorm:"not null;default:false" json:"is_primary"`                      // 是否主要联系人
	CreatedAt  time.Time `gorm:"index" json:"created_at"`                                       // 创建时间
}

// TableName 指定表名
func (GuardianChild) TableName() string {
	return "guardian_children"
}
