package queue

import (
	"encoding/json"

	"github.com/FeexSystems/Rainbow-childcare-sub000/internal/constants"

	"github.com/hibiken/asynq"
)

const (
	// TaskPickupRedeemedNotice 接送码核销通知任务
	TaskPickupRedeemedNotice = constants.TaskPickupRedeemedNotice
	// TaskDailyUpdateNotice 日报通知任务
	TaskDailyUpdateNotice = constants.TaskDailyUpdateNotice
	// TaskAnnouncementFanout 公告分发任务
	TaskAnnouncementFanout = constants.TaskAnnouncementFanout
	// TaskInvoiceIssuedNotice 账单签发通知任务
	TaskInvoiceIssuedNotice = constants.TaskInvoiceIssuedNotice
)

// PickupRedeemedNoticePayload 接送码核销通知任务载荷
type PickupRedeemedNoticePayload struct {
	AuthorizationID uint `json:"authorization_id"`
	StaffID         uint `json:"staff_id"`
}

// DailyUpdateNoticePayload 日报通知任务载荷
type DailyUpdateNoticePayload struct {
	DailyUpdateID uint `json:"daily_update_id"`
}

// AnnouncementFanoutPayload 公告分发任务载荷
type AnnouncementFanoutPayload struct {
	AnnouncementID uint `json:"announcement_id"`
}

// InvoiceIssuedNoticePayload 账单签发通知任务载荷
type InvoiceIssuedNoticePayload struct {
	InvoiceID uint `json:"invoice_id"`
}

// NewPickupRedeemedNoticeTask 创建接送码核销通知任务
func NewPickupRedeemedNoticeTask(payload PickupRedeemedNoticePayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskPickupRedeemedNotice, body), nil
}

// NewDailyUpdateNoticeTask 创建日报通知任务
func NewDailyUpdateNoticeTask(payload DailyUpdateNoticePayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskDailyUpdateNotice, body), nil
}

// NewAnnouncementFanoutTask 创建公告分发任务
func NewAnnouncementFanoutTask(payload AnnouncementFanoutPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskAnnouncementFanout, body), nil
}

// NewInvoiceIssuedNoticeTask 创建账单签发通知任务
func NewInvoiceIssuedNoticeTask(payload InvoiceIssuedNoticePayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskInvoiceIssuedNotice, body), nil
}
