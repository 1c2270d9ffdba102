package models

import "time"

// AttendanceRecord 儿童考勤表
// 说明：Day 为当地日期的零点，用于同一儿童同日唯一约束。
type AttendanceRecord struct {
	ID                    uint       `gorm:"primarykey" json:"id"`                                            // 主键
	ChildID               uint       `gorm:"uniqueIndex:idx_attendance_child_day;not null" json:"child_id"`   // 儿童ID
	Day                   time.Time  `gorm:"uniqueIndex:idx_attendance_child_day;index;not null" json:"day"`  // 考勤日期
	CheckInAt             *time.Time `gorm:"index" json:"check_in_at,omitempty"`                              // 入园时间
	CheckOutAt            *time.Time `gorm:"index" json:"check_out_at,omitempty"`                             // 离园时间
	CheckInStaffID        *uint      `gorm:"index" json:"check_in_staff_id,omitempty"`                        // 入园登记员工
	CheckOutStaffID       *uint      `gorm:"index" json:"check_out_staff_id,omitempty"`                       // 离园登记员工
	CheckOutMethod        string     `gorm:"type:varchar(24);index" json:"check_out_method"`                  // 离园方式（manual/pickup_code）
	PickupAuthorizationID *uint      `gorm:"index" json:"pickup_authorization_id,omitempty"`                  // 核销的接送码ID
	Status                string     `gorm:"type:varchar(24);index;not null;default:'present'" json:"status"` // 出勤状态（present/absent/sick/holiday）
	Notes                 string     `gorm:"type:text" json:"notes"`                                          // 备注
	CreatedAt             time.Time  `gorm:"index" json:"created_at"`                                         // 创建时间
	UpdatedAt             time.Time  `gorm:"index" json:"updated_at"`                                         // 更新时间
	Child                 *Child     `gorm:"foreignKey:ChildID" json:"child,omitempty"`                       // 儿童信息
}

// TableName 指定表名
func (AttendanceRecord) TableName() string {
	return "attendance_records"
}
