package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/FeexSystems/Rainbow-childcare-sub000/internal/constants"
	"github.com/FeexSystems/Rainbow-childcare-sub000/internal/i18n"
	"github.com/FeexSystems/Rainbow-childcare-sub000/internal/logger"
	"github.com/FeexSystems/Rainbow-childcare-sub000/internal/models"
	"github.com/FeexSystems/Rainbow-childcare-sub000/internal/provider"
	"github.com/FeexSystems/Rainbow-childcare-sub000/internal/queue"

	"github.com/hibiken/asynq"
)

// Consumer 异步任务消费者
type Consumer struct {
	*provider.Container
}

// NewConsumer 创建消费者
func NewConsumer(c *provider.Container) *Consumer {
	return &Consumer{
		Container: c,
	}
}

// Register 注册消费者
func (c *Consumer) Register(mux *asynq.ServeMux) {
	if c == nil || mux == nil {
		logger.Debugw("worker_register_skip_nil", "consumer_nil", c == nil, "mux_nil", mux == nil)
		return
	}
	mux.HandleFunc(queue.TaskPickupRedeemedNotice, c.handlePickupRedeemedNotice)
	mux.HandleFunc(queue.TaskDailyUpdateNotice, c.handleDailyUpdateNotice)
	mux.HandleFunc(queue.TaskAnnouncementFanout, c.handleAnnouncementFanout)
	mux.HandleFunc(queue.TaskInvoiceIssuedNotice, c.handleInvoiceIssuedNotice)
}

func (c *Consumer) handlePickupRedeemedNotice(_ context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_pickup_redeemed_notice_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	var payload queue.PickupRedeemedNoticePayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_pickup_redeemed_notice_unmarshal_failed", "error", err)
		return err
	}
	if payload.AuthorizationID == 0 {
		logger.Debugw("worker_pickup_redeemed_notice_skip_invalid_payload", "authorization_id", payload.AuthorizationID)
		return nil
	}
	auth, err := c.PickupRepo.GetByID(payload.AuthorizationID)
	if err != nil {
		logger.Warnw("worker_pickup_redeemed_notice_fetch_failed", "authorization_id", payload.AuthorizationID, "error", err)
		return err
	}
	if auth == nil || auth.RedeemedAt == nil {
		logger.Debugw("worker_pickup_redeemed_notice_skip_not_redeemed", "authorization_id", payload.AuthorizationID)
		return nil
	}

	child, err := c.ChildRepo.GetByID(auth.ChildID)
	if err != nil {
		logger.Warnw("worker_pickup_redeemed_notice_fetch_child_failed", "child_id", auth.ChildID, "error", err)
		return err
	}
	if child == nil {
		logger.Debugw("worker_pickup_redeemed_notice_skip_child_not_found", "child_id", auth.ChildID)
		return nil
	}

	staffName := ""
	staffID := payload.StaffID
	if staffID == 0 && auth.RedeemedStaffID != nil {
		staffID = *auth.RedeemedStaffID
	}
	if staffID != 0 {
		staff, err := c.StaffRepo.GetByID(staffID)
		if err != nil {
			logger.Warnw("worker_pickup_redeemed_notice_fetch_staff_failed", "staff_id", staffID, "error", err)
		} else if staff != nil {
			staffName = strings.TrimSpace(staff.DisplayName)
			if staffName == "" {
				staffName = staff.Username
			}
		}
	}

	guardians, err := c.GuardianRepo.ListByChildID(auth.ChildID)
	if err != nil {
		logger.Warnw("worker_pickup_redeemed_notice_fetch_guardians_failed", "child_id", auth.ChildID, "error", err)
		return err
	}
	for _, guardian := range guardians {
		title, body := pickupRedeemedNoticeText(guardian.Locale, child.FullName(), staffName)
		if err := c.NotificationService.NotifyGuardian(guardian.ID, constants.NotificationTypePickupRedeemed, title, body); err != nil {
			logger.Warnw("worker_pickup_redeemed_notice_store_failed", "guardian_id", guardian.ID, "error", err)
			return err
		}
		if err := c.EmailService.SendPickupRedeemedEmail(guardian.Email, child.FullName(), staffName, guardian.Locale); err != nil {
			logger.Warnw("worker_pickup_redeemed_notice_email_failed",
				"authorization_id", auth.ID,
				"guardian_id", guardian.ID,
				"error", err,
			)
		}
	}
	return nil
}

func (c *Consumer) handleDailyUpdateNotice(_ context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_daily_update_notice_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	var payload queue.DailyUpdateNoticePayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_daily_update_notice_unmarshal_failed", "error", err)
		return err
	}
	if payload.DailyUpdateID == 0 {
		logger.Debugw("worker_daily_update_notice_skip_invalid_payload", "daily_update_id", payload.DailyUpdateID)
		return nil
	}
	update, err := c.DailyUpdateRepo.GetByID(payload.DailyUpdateID)
	if err != nil {
		logger.Warnw("worker_daily_update_notice_fetch_failed", "daily_update_id", payload.DailyUpdateID, "error", err)
		return err
	}
	if update == nil {
		logger.Debugw("worker_daily_update_notice_skip_not_found", "daily_update_id", payload.DailyUpdateID)
		return nil
	}
	child, err := c.ChildRepo.GetByID(update.ChildID)
	if err != nil {
		logger.Warnw("worker_daily_update_notice_fetch_child_failed", "child_id", update.ChildID, "error", err)
		return err
	}
	if child == nil {
		logger.Debugw("worker_daily_update_notice_skip_child_not_found", "child_id", update.ChildID)
		return nil
	}
	guardians, err := c.GuardianRepo.ListByChildID(update.ChildID)
	if err != nil {
		logger.Warnw("worker_daily_update_notice_fetch_guardians_failed", "child_id", update.ChildID, "error", err)
		return err
	}
	for _, guardian := range guardians {
		title, body := dailyUpdateNoticeText(guardian.Locale, child.FullName(), update.Title)
		if err := c.NotificationService.NotifyGuardian(guardian.ID, constants.NotificationTypeDailyUpdate, title, body); err != nil {
			logger.Warnw("worker_daily_update_notice_store_failed", "guardian_id", guardian.ID, "error", err)
			return err
		}
		if err := c.EmailService.SendDailyUpdateEmail(guardian.Email, child.FullName(), update.Title, guardian.Locale); err != nil {
			logger.Warnw("worker_daily_update_notice_email_failed",
				"daily_update_id", update.ID,
				"guardian_id", guardian.ID,
				"error", err,
			)
		}
	}
	return nil
}

func (c *Consumer) handleAnnouncementFanout(_ context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_announcement_fanout_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	var payload queue.AnnouncementFanoutPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_announcement_fanout_unmarshal_failed", "error", err)
		return err
	}
	if payload.AnnouncementID == 0 {
		logger.Debugw("worker_announcement_fanout_skip_invalid_payload", "announcement_id", payload.AnnouncementID)
		return nil
	}
	announcement, err := c.AnnouncementRepo.GetByID(payload.AnnouncementID)
	if err != nil {
		logger.Warnw("worker_announcement_fanout_fetch_failed", "announcement_id", payload.AnnouncementID, "error", err)
		return err
	}
	if announcement == nil {
		logger.Debugw("worker_announcement_fanout_skip_not_found", "announcement_id", payload.AnnouncementID)
		return nil
	}
	if !announcement.IsPublished {
		logger.Debugw("worker_announcement_fanout_skip_unpublished", "announcement_id", announcement.ID)
		return nil
	}

	guardians, err := c.resolveAnnouncementAudience(announcement)
	if err != nil {
		logger.Warnw("worker_announcement_fanout_resolve_audience_failed", "announcement_id", announcement.ID, "error", err)
		return err
	}
	if len(guardians) == 0 {
		logger.Debugw("worker_announcement_fanout_skip_empty_audience", "announcement_id", announcement.ID)
		return nil
	}

	for _, guardian := range guardians {
		title, body := announcementNoticeText(guardian.Locale, announcement.Title)
		if err := c.NotificationService.NotifyGuardian(guardian.ID, constants.NotificationTypeAnnouncement, title, body); err != nil {
			logger.Warnw("worker_announcement_fanout_store_failed", "guardian_id", guardian.ID, "error", err)
			return err
		}
		if err := c.EmailService.SendAnnouncementEmail(guardian.Email, announcement.Title, guardian.Locale); err != nil {
			logger.Warnw("worker_announcement_fanout_email_failed",
				"announcement_id", announcement.ID,
				"guardian_id", guardian.ID,
				"error", err,
			)
		}
	}
	logger.Infow("worker_announcement_fanout_done",
		"announcement_id", announcement.ID,
		"audience", announcement.Audience,
		"guardian_count", len(guardians),
	)
	return nil
}

func (c *Consumer) handleInvoiceIssuedNotice(_ context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_invoice_issued_notice_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	var payload queue.InvoiceIssuedNoticePayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_invoice_issued_notice_unmarshal_failed", "error", err)
		return err
	}
	if payload.InvoiceID == 0 {
		logger.Debugw("worker_invoice_issued_notice_skip_invalid_payload", "invoice_id", payload.InvoiceID)
		return nil
	}
	invoice, err := c.InvoiceRepo.GetByID(payload.InvoiceID)
	if err != nil {
		logger.Warnw("worker_invoice_issued_notice_fetch_failed", "invoice_id", payload.InvoiceID, "error", err)
		return err
	}
	if invoice == nil {
		logger.Debugw("worker_invoice_issued_notice_skip_not_found", "invoice_id", payload.InvoiceID)
		return nil
	}
	guardian, err := c.GuardianRepo.GetByID(invoice.GuardianID)
	if err != nil {
		logger.Warnw("worker_invoice_issued_notice_fetch_guardian_failed", "guardian_id", invoice.GuardianID, "error", err)
		return err
	}
	if guardian == nil {
		logger.Debugw("worker_invoice_issued_notice_skip_guardian_not_found", "guardian_id", invoice.GuardianID)
		return nil
	}

	title, body := invoiceIssuedNoticeText(guardian.Locale, invoice.Number, invoice.Amount, invoice.Currency)
	if err := c.NotificationService.NotifyGuardian(guardian.ID, constants.NotificationTypeInvoiceIssued, title, body); err != nil {
		logger.Warnw("worker_invoice_issued_notice_store_failed", "guardian_id", guardian.ID, "error", err)
		return err
	}
	if err := c.EmailService.SendInvoiceIssuedEmail(guardian.Email, invoice.Number, invoice.Amount, invoice.Currency, guardian.Locale); err != nil {
		logger.Warnw("worker_invoice_issued_notice_email_failed",
			"invoice_id", invoice.ID,
			"guardian_id", guardian.ID,
			"error", err,
		)
	}
	return nil
}

// resolveAnnouncementAudience 计算公告的家长接收人清单
func (c *Consumer) resolveAnnouncementAudience(announcement *models.Announcement) ([]models.Guardian, error) {
	if announcement.Audience != constants.AnnouncementAudienceRoom || announcement.RoomID == nil {
		return c.GuardianRepo.ListActive()
	}

	childIDs, err := c.ChildRepo.ListIDsByRoom(*announcement.RoomID)
	if err != nil {
		return nil, err
	}
	seen := make(map[uint]struct{})
	guardians := make([]models.Guardian, 0)
	for _, childID := range childIDs {
		linked, err := c.GuardianRepo.ListByChildID(childID)
		if err != nil {
			return nil, err
		}
		for _, guardian := range linked {
			if guardian.Status != constants.GuardianStatusActive {
				continue
			}
			if _, ok := seen[guardian.ID]; ok {
				continue
			}
			seen[guardian.ID] = struct{}{}
			guardians = append(guardians, guardian)
		}
	}
	return guardians, nil
}

func pickupRedeemedNoticeText(locale, childName, staffName string) (string, string) {
	switch i18n.ResolveLocale(locale) {
	case constants.LocaleZhCN:
		if staffName == "" {
			return "接送确认", fmt.Sprintf("%s 已确认接走。", childName)
		}
		return "接送确认", fmt.Sprintf("%s 已由员工 %s 确认接走。", childName, staffName)
	default:
		if staffName == "" {
			return "Pickup confirmed", fmt.Sprintf("%s has been collected.", childName)
		}
		return "Pickup confirmed", fmt.Sprintf("%s has been collected. Pickup was confirmed by %s.", childName, staffName)
	}
}

func dailyUpdateNoticeText(locale, childName, title string) (string, string) {
	switch i18n.ResolveLocale(locale) {
	case constants.LocaleZhCN:
		return "新日报", fmt.Sprintf("%s 有一条新的日报：%s", childName, title)
	default:
		return "New daily update", fmt.Sprintf("There is a new daily update for %s: %s", childName, title)
	}
}

func announcementNoticeText(locale, title string) (string, string) {
	switch i18n.ResolveLocale(locale) {
	case constants.LocaleZhCN:
		return "园所公告", title
	default:
		return "Nursery announcement", title
	}
}

func invoiceIssuedNoticeText(locale, number string, amount models.Money, currency string) (string, string) {
	switch i18n.ResolveLocale(locale) {
	case constants.LocaleZhCN:
		return "新账单", fmt.Sprintf("账单 %s 已签发，金额 %s %s。", number, amount.String(), currency)
	default:
		return "New invoice", fmt.Sprintf("Invoice %s has been issued for %s %s.", number, amount.String(), currency)
	}
}
