package service

import "errors"

// 员工认证相关错误
var (
	ErrStaffNotFound      = errors.New("staff not found")
	ErrStaffExists        = errors.New("staff already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrCaptchaRequired    = errors.New("captcha required")
	ErrCaptchaInvalid     = errors.New("captcha invalid")
	ErrLoginRateLimited   = errors.New("login rate limited")
	ErrPasswordWeak       = errors.New("password does not meet policy")
	ErrPasswordMismatch   = errors.New("current password mismatch")
)

// 家长账号相关错误
var (
	ErrGuardianNotFound = errors.New("guardian not found")
	ErrGuardianExists   = errors.New("guardian already exists")
	ErrGuardianDisabled = errors.New("guardian disabled")
)

// 儿童档案相关错误
var (
	ErrChildNotFound     = errors.New("child not found")
	ErrChildInvalid      = errors.New("invalid child input")
	ErrChildFetchFailed  = errors.New("fetch child failed")
	ErrChildCreateFailed = errors.New("create child failed")
	ErrChildUpdateFailed = errors.New("update child failed")
	ErrChildDeleteFailed = errors.New("delete child failed")
	ErrRoomNotFound      = errors.New("room not found")
)

// 接送码相关错误
var (
	ErrPickupChildInvalid  = errors.New("child not linked to guardian")
	ErrPickupRateLimited   = errors.New("pickup code issued too recently")
	ErrPickupCodeNotFound  = errors.New("pickup code not found")
	ErrPickupCodeExpired   = errors.New("pickup code expired")
	ErrPickupCodeRedeemed  = errors.New("pickup code already redeemed")
	ErrPickupIssueFailed   = errors.New("issue pickup code failed")
	ErrPickupFetchFailed   = errors.New("fetch pickup code failed")
	ErrPickupRedeemFailed  = errors.New("redeem pickup code failed")
	ErrPickupCodeGenFailed = errors.New("generate pickup code failed")
)

// 考勤相关错误
var (
	ErrAttendanceNotFound     = errors.New("attendance record not found")
	ErrAttendanceInvalid      = errors.New("invalid attendance input")
	ErrAttendanceConflict     = errors.New("attendance record already exists")
	ErrAttendanceFetchFailed  = errors.New("fetch attendance failed")
	ErrAttendanceUpdateFailed = errors.New("update attendance failed")
)

// 日报相关错误
var (
	ErrDailyUpdateNotFound     = errors.New("daily update not found")
	ErrDailyUpdateInvalid      = errors.New("invalid daily update input")
	ErrDailyUpdateFetchFailed  = errors.New("fetch daily update failed")
	ErrDailyUpdateCreateFailed = errors.New("create daily update failed")
)

// 公告相关错误
var (
	ErrAnnouncementNotFound     = errors.New("announcement not found")
	ErrAnnouncementInvalid      = errors.New("invalid announcement input")
	ErrAnnouncementFetchFailed  = errors.New("fetch announcement failed")
	ErrAnnouncementCreateFailed = errors.New("create announcement failed")
)

// 论坛相关错误
var (
	ErrForumThreadNotFound = errors.New("forum thread not found")
	ErrForumThreadLocked   = errors.New("forum thread locked")
	ErrForumInvalid        = errors.New("invalid forum input")
	ErrForumFetchFailed    = errors.New("fetch forum failed")
	ErrForumCreateFailed   = errors.New("create forum content failed")
)

// 账单相关错误
var (
	ErrInvoiceNotFound     = errors.New("invoice not found")
	ErrInvoiceInvalid      = errors.New("invalid invoice input")
	ErrInvoicePaid         = errors.New("invoice already paid")
	ErrInvoiceVoid         = errors.New("invoice already void")
	ErrInvoiceFetchFailed  = errors.New("fetch invoice failed")
	ErrInvoiceCreateFailed = errors.New("create invoice failed")
	ErrInvoiceUpdateFailed = errors.New("update invoice failed")
)

// 通知相关错误
var (
	ErrNotificationNotFound    = errors.New("notification not found")
	ErrNotificationFetchFailed = errors.New("fetch notification failed")
)

// 邮件服务相关错误
var (
	ErrEmailServiceDisabled      = errors.New("email service disabled")
	ErrEmailServiceNotConfigured = errors.New("email service not configured")
	ErrEmailRecipientRejected    = errors.New("email recipient rejected")
)
