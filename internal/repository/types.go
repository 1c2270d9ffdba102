package repository

import "time"

// GuardianListFilter 查询家长列表的过滤条件
type GuardianListFilter struct {
	Page        int
	PageSize    int
	Keyword     string
	Status      string
	CreatedFrom *time.Time
	CreatedTo   *time.Time
}

// GuardianLoginLogListFilter 查询家长登录日志列表的过滤条件
type GuardianLoginLogListFilter struct {
	Page        int
	PageSize    int
	GuardianID  uint
	Email       string
	Status      string
	FailReason  string
	ClientIP    string
	CreatedFrom *time.Time
	CreatedTo   *time.Time
}

// AuthzAuditLogListFilter 查询权限审计日志列表的过滤条件
type AuthzAuditLogListFilter struct {
	Page            int
	PageSize        int
	OperatorStaffID uint
	TargetStaffID   uint
	Action          string
	Role            string
	Object          string
	Method          string
	CreatedFrom     *time.Time
	CreatedTo       *time.Time
}

// ChildListFilter 查询儿童列表的过滤条件
type ChildListFilter struct {
	Page       int
	PageSize   int
	Keyword    string
	RoomID     uint
	GuardianID uint
	Status     string
}

// PickupListFilter 查询接送码列表的过滤条件
type PickupListFilter struct {
	Page         int
	PageSize     int
	GuardianID   uint
	ChildID      uint
	RedeemedFrom *time.Time
	RedeemedTo   *time.Time
	IssuedFrom   *time.Time
	IssuedTo     *time.Time
}

// AttendanceListFilter 查询考勤列表的过滤条件
type AttendanceListFilter struct {
	Page     int
	PageSize int
	ChildID  uint
	RoomID   uint
	Status   string
	DayFrom  *time.Time
	DayTo    *time.Time
}

// DailyUpdateListFilter 查询日报列表的过滤条件
type DailyUpdateListFilter struct {
	Page         int
	PageSize     int
	ChildID      uint
	ChildIDs     []uint
	StaffID      uint
	Category     string
	OccurredFrom *time.Time
	OccurredTo   *time.Time
}

// AnnouncementListFilter 查询公告列表的过滤条件
type AnnouncementListFilter struct {
	Page          int
	PageSize      int
	Audience      string
	RoomID        uint
	OnlyPublished bool
	// RoomScope 非空时返回全园公告加上指定班级公告
	RoomScope *uint
}

// ForumThreadListFilter 查询论坛主题列表的过滤条件
type ForumThreadListFilter struct {
	Page       int
	PageSize   int
	GuardianID uint
	Keyword    string
}

// InvoiceListFilter 查询账单列表的过滤条件
type InvoiceListFilter struct {
	Page        int
	PageSize    int
	GuardianID  uint
	ChildID     uint
	Status      string
	Number      string
	DueFrom     *time.Time
	DueTo       *time.Time
	CreatedFrom *time.Time
	CreatedTo   *time.Time
}

// NotificationListFilter 查询通知列表的过滤条件
type NotificationListFilter struct {
	Page          int
	PageSize      int
	RecipientType string
	GuardianID    uint
	StaffID       uint
	Type          string
	OnlyUnread    bool
}
