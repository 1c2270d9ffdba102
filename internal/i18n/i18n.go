package i18n

import (
	"fmt"
	"strings"

	"github.com/FeexSystems/Rainbow-childcare-sub000/internal/constants"
)

// T 按语言取文案，未命中 key 时回退默认语言，再回退 key 本身
func T(locale string, key string) string {
	locale = ResolveLocale(locale)
	if messages, ok := catalog[locale]; ok {
		if message, ok := messages[key]; ok {
			return message
		}
	}
	if message, ok := catalog[constants.LocaleDefault][key]; ok {
		return message
	}
	return key
}

// Sprintf 对带占位符的文案做格式化
func Sprintf(locale string, key string, args ...interface{}) string {
	return fmt.Sprintf(T(locale, key), args...)
}

// ResolveLocale 归一化语言标识，支持 Accept-Language 风格的取值
func ResolveLocale(locale string) string {
	locale = strings.TrimSpace(locale)
	if locale == "" {
		return constants.LocaleDefault
	}
	if index := strings.IndexAny(locale, ",;"); index >= 0 {
		locale = locale[:index]
	}
	locale = strings.ToLower(strings.TrimSpace(locale))

	switch {
	case strings.HasPrefix(locale, "zh"):
		return constants.LocaleZhCN
	case strings.HasPrefix(locale, "en"):
		return constants.LocaleEnGB
	}
	return constants.LocaleDefault
}

var catalog = map[string]map[string]string{
	constants.LocaleEnGB: {
		"error.bad_request":       "Invalid request",
		"error.unauthorized":      "Unauthorized",
		"error.forbidden":         "Forbidden",
		"error.not_found":         "Not found",
		"error.conflict":          "Conflict",
		"error.rate_limited":      "Too many requests, please try again later",
		"error.internal":          "Internal server error",
		"error.validation_failed": "Validation failed",
		"error.captcha_invalid":   "Captcha verification failed",
		"error.captcha_required":  "Captcha is required",
		"error.login_failed":      "Incorrect account or password",
		"error.account_disabled":  "Account is disabled",
		"error.token_invalid":     "Invalid or expired token",
		"error.token_revoked":     "Session has been revoked",
		"error.password_weak":     "Password does not meet the security policy",
		"error.password_mismatch": "Current password is incorrect",

		"error.password_min_length":      "Password must be at least %d characters",
		"error.password_require_upper":   "Password must contain an uppercase letter",
		"error.password_require_lower":   "Password must contain a lowercase letter",
		"error.password_require_number":  "Password must contain a number",
		"error.password_require_special": "Password must contain a special character",
		"error.rate_limit_unavailable":   "Rate limiter is unavailable, please try again later",

		"error.guardian_not_found":   "Guardian account not found",
		"error.guardian_exists":      "Guardian account already exists",
		"error.child_not_found":      "Child not found",
		"error.child_not_linked":     "Child is not linked to this guardian",
		"error.pickup_not_found":     "Pickup code not found",
		"error.pickup_expired":       "Pickup code has expired",
		"error.pickup_redeemed":      "Pickup code has already been used",
		"error.pickup_rate_limited":  "Pickup code was issued recently, please wait before requesting another",
		"error.attendance_not_found": "Attendance record not found",
		"error.attendance_conflict":  "Attendance record already exists for this day",
		"error.update_not_found":     "Daily update not found",
		"error.announce_not_found":   "Announcement not found",
		"error.post_not_found":       "Post not found",
		"error.post_locked":          "Post is locked",
		"error.invoice_not_found":    "Invoice not found",
		"error.invoice_paid":         "Invoice has already been paid",
		"error.invoice_void":         "Invoice has been voided",
		"error.room_not_found":       "Room not found",
		"error.staff_not_found":      "Staff account not found",
		"error.staff_exists":         "Staff account already exists",

		"error.staff_id_invalid":            "Invalid staff ID",
		"error.staff_id_type_invalid":       "Staff ID has an unexpected type",
		"error.guardian_id_invalid":         "Invalid guardian ID",
		"error.guardian_id_type_invalid":    "Guardian ID has an unexpected type",
		"error.captcha_config_invalid":      "Captcha service is misconfigured",
		"error.captcha_verify_failed":       "Captcha verification failed, please try again",
		"error.captcha_unavailable":         "Captcha service is unavailable",
		"error.captcha_generate_failed":     "Failed to generate captcha",
		"error.password_old_invalid":        "Current password is incorrect",
		"error.email_invalid":               "Invalid email address",
		"error.staff_username_invalid":      "Invalid staff username",
		"error.staff_delete_self_forbidden": "You cannot delete your own account",
		"error.staff_delete_protected":      "This staff account is protected",
		"error.staff_delete_last_forbidden": "The last staff account cannot be deleted",

		"error.jwt_secret_missing":  "Authentication is not configured",
		"error.auth_header_missing": "Authorization header is missing",
		"error.auth_header_invalid": "Authorization header is malformed",
		"error.login_too_many":      "Too many login attempts, please retry in %d seconds",
	},
	constants.LocaleZhCN: {
		"error.bad_request":       "请求参数有误",
		"error.unauthorized":      "未登录或登录已失效",
		"error.forbidden":         "没有权限执行此操作",
		"error.not_found":         "资源不存在",
		"error.conflict":          "资源状态冲突",
		"error.rate_limited":      "请求过于频繁，请稍后再试",
		"error.internal":          "服务器内部错误",
		"error.validation_failed": "参数校验失败",
		"error.captcha_invalid":   "验证码校验失败",
		"error.captcha_required":  "需要验证码",
		"error.login_failed":      "账号或密码错误",
		"error.account_disabled":  "账号已被禁用",
		"error.token_invalid":     "凭证无效或已过期",
		"error.token_revoked":     "会话已被注销",
		"error.password_weak":     "密码不满足安全策略",
		"error.password_mismatch": "当前密码不正确",

		"error.password_min_length":      "密码长度不能少于 %d 个字符",
		"error.password_require_upper":   "密码必须包含大写字母",
		"error.password_require_lower":   "密码必须包含小写字母",
		"error.password_require_number":  "密码必须包含数字",
		"error.password_require_special": "密码必须包含特殊字符",
		"error.rate_limit_unavailable":   "限流服务不可用，请稍后再试",

		"error.guardian_not_found":   "家长账号不存在",
		"error.guardian_exists":      "家长账号已存在",
		"error.child_not_found":      "儿童档案不存在",
		"error.child_not_linked":     "该儿童未关联到此家长",
		"error.pickup_not_found":     "接送码不存在",
		"error.pickup_expired":       "接送码已过期",
		"error.pickup_redeemed":      "接送码已被使用",
		"error.pickup_rate_limited":  "接送码申请过于频繁，请稍后再试",
		"error.attendance_not_found": "考勤记录不存在",
		"error.attendance_conflict":  "当日考勤记录已存在",
		"error.update_not_found":     "日报记录不存在",
		"error.announce_not_found":   "公告不存在",
		"error.post_not_found":       "帖子不存在",
		"error.post_locked":          "帖子已被锁定",
		"error.invoice_not_found":    "账单不存在",
		"error.invoice_paid":         "账单已支付",
		"error.invoice_void":         "账单已作废",
		"error.room_not_found":       "班级不存在",
		"error.staff_not_found":      "员工账号不存在",
		"error.staff_exists":         "员工账号已存在",

		"error.staff_id_invalid":            "员工ID不合法",
		"error.staff_id_type_invalid":       "员工ID类型异常",
		"error.guardian_id_invalid":         "家长ID不合法",
		"error.guardian_id_type_invalid":    "家长ID类型异常",
		"error.captcha_config_invalid":      "验证码服务配置有误",
		"error.captcha_verify_failed":       "验证码校验失败，请重试",
		"error.captcha_unavailable":         "验证码服务不可用",
		"error.captcha_generate_failed":     "验证码生成失败",
		"error.password_old_invalid":        "当前密码不正确",
		"error.email_invalid":               "邮箱格式不合法",
		"error.staff_username_invalid":      "员工账号名不合法",
		"error.staff_delete_self_forbidden": "不能删除自己的账号",
		"error.staff_delete_protected":      "该员工账号受保护，不可删除",
		"error.staff_delete_last_forbidden": "最后一个员工账号不可删除",

		"error.jwt_secret_missing":  "鉴权服务未配置",
		"error.auth_header_missing": "缺少 Authorization 请求头",
		"error.auth_header_invalid": "Authorization 请求头格式有误",
		"error.login_too_many":      "登录尝试过于频繁，请 %d 秒后重试",
	},
}
