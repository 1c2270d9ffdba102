package constants

// 接送码状态常量（派生状态，非落库字段）
const (
	PickupStatusActive   = "active"
	PickupStatusExpired  = "expired"
	PickupStatusRedeemed = "redeemed"
)

// 考勤记录方式常量
const (
	AttendanceMethodManual     = "manual"
	AttendanceMethodPickupCode = "pickup_code"
	AttendanceMethodDayClose   = "day_close"
)

// 考勤状态常量
const (
	AttendanceStatusPresent = "present"
	AttendanceStatusAbsent  = "absent"
	AttendanceStatusSick    = "sick"
	AttendanceStatusHoliday = "holiday"
)

// 员工岗位角色常量（授权角色种子）
const (
	StaffRoleManager         = "manager"
	StaffRoleRoomLeader      = "room_leader"
	StaffRoleAssistant       = "assistant"
	StaffRoleReadonlyAuditor = "readonly_auditor"
)

// 儿童在园状态常量
const (
	ChildStatusEnrolled  = "enrolled"
	ChildStatusWithdrawn = "withdrawn"
)

// 日常动态分类常量
const (
	DailyUpdateCategoryMeal     = "meal"
	DailyUpdateCategoryNap      = "nap"
	DailyUpdateCategoryActivity = "activity"
	DailyUpdateCategoryIncident = "incident"
	DailyUpdateCategoryPhoto    = "photo"
)

// 公告受众常量
const (
	AnnouncementAudienceAll  = "all"
	AnnouncementAudienceRoom = "room"
)

// 账单状态常量
const (
	InvoiceStatusPending = "pending"
	InvoiceStatusPaid    = "paid"
	InvoiceStatusVoid    = "void"
)

// 家长账号状态常量
const (
	GuardianStatusActive   = "active"
	GuardianStatusDisabled = "disabled"
)

// 幼儿与家长关系常量
const (
	GuardianRelationMother   = "mother"
	GuardianRelationFather   = "father"
	GuardianRelationRelative = "relative"
	GuardianRelationOther    = "other"
)

// 登录日志状态常量
const (
	LoginLogStatusSuccess = "success"
	LoginLogStatusFailed  = "failed"
)

// 登录日志失败原因常量
const (
	LoginLogFailReasonBadRequest         = "bad_request"
	LoginLogFailReasonCaptchaRequired    = "captcha_required"
	LoginLogFailReasonCaptchaInvalid     = "captcha_invalid"
	LoginLogFailReasonInvalidCredentials = "invalid_credentials"
	LoginLogFailReasonGuardianDisabled   = "guardian_disabled"
	LoginLogFailReasonInternalError      = "internal_error"
)

// 验证码提供方常量
const (
	CaptchaProviderNone  = "none"
	CaptchaProviderImage = "image"
)

// 验证码校验场景常量
const (
	CaptchaSceneGuardianLogin = "guardian_login"
	CaptchaSceneStaffLogin    = "staff_login"
)

// 通知类型常量
const (
	NotificationTypePickupRedeemed = "pickup_redeemed"
	NotificationTypeDailyUpdate    = "daily_update"
	NotificationTypeAnnouncement   = "announcement"
	NotificationTypeInvoiceIssued  = "invoice_issued"
)

// 队列常量
const (
	QueueDefault             = "default"
	QueueCritical            = "critical"
	TaskPickupRedeemedNotice = "pickup:redeemed_notice"
	TaskDailyUpdateNotice    = "update:daily_notice"
	TaskAnnouncementFanout   = "announce:fanout"
	TaskInvoiceIssuedNotice  = "invoice:issued_notice"
)

// 缓存默认配置常量
const (
	RedisPrefixDefault = "rc"
)

// 币种常量
const (
	SiteCurrencyDefault = "GBP"
)

// 站点语言常量
const (
	LocaleEnGB = "en-GB"
	LocaleZhCN = "zh-CN"

	LocaleDefault = LocaleEnGB
)

// 支持的站点语言顺序（含回退顺序）
var SupportedLocales = []string{LocaleEnGB, LocaleZhCN}
