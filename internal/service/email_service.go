package service

import (
	"bytes"
	"crypto/tls"
	"fmt"
	"mime"
	"net/mail"
	"net/smtp"
	"strings"

	"github.com/FeexSystems/Rainbow-childcare-sub000/internal/config"
	"github.com/FeexSystems/Rainbow-childcare-sub000/internal/constants"
	"github.com/FeexSystems/Rainbow-childcare-sub000/internal/i18n"
	"github.com/FeexSystems/Rainbow-childcare-sub000/internal/models"
)

// EmailService 邮件发送服务
type EmailService struct {
	cfg *config.EmailConfig
}

// NewEmailService 创建邮件服务
func NewEmailService(cfg *config.EmailConfig) *EmailService {
	return &EmailService{cfg: cfg}
}

// SendPickupRedeemedEmail 发送接送码核销通知
func (s *EmailService) SendPickupRedeemedEmail(toEmail, childName, staffName string, locale string) error {
	var subject, body string
	switch i18n.ResolveLocale(locale) {
	case constants.LocaleZhCN:
		subject = "接送确认通知"
		body = fmt.Sprintf("您的孩子 %s 已由员工 %s 确认接走。\n\n如非本人安排，请立即联系园所。", childName, staffName)
	default:
		subject = "Pickup confirmation"
		body = fmt.Sprintf("Your child %s has been collected. Pickup was confirmed by %s.\n\nIf you did not arrange this pickup, please contact the nursery immediately.", childName, staffName)
	}
	return s.sendTextEmail(toEmail, subject, body)
}

// SendDailyUpdateEmail 发送日报通知
func (s *EmailService) SendDailyUpdateEmail(toEmail, childName, title string, locale string) error {
	var subject, body string
	switch i18n.ResolveLocale(locale) {
	case constants.LocaleZhCN:
		subject = fmt.Sprintf("%s 的新日报", childName)
		body = fmt.Sprintf("%s 有一条新的日报：%s\n\n请登录家长端查看详情。", childName, title)
	default:
		subject = fmt.Sprintf("New daily update for %s", childName)
		body = fmt.Sprintf("There is a new daily update for %s: %s\n\nSign in to the parent portal to see the details.", childName, title)
	}
	return s.sendTextEmail(toEmail, subject, body)
}

// SendAnnouncementEmail 发送公告通知
func (s *EmailService) SendAnnouncementEmail(toEmail, title string, locale string) error {
	var subject, body string
	switch i18n.ResolveLocale(locale) {
	case constants.LocaleZhCN:
		subject = "园所公告"
		body = fmt.Sprintf("园所发布了新公告：%s\n\n请登录家长端查看详情。", title)
	default:
		subject = "Nursery announcement"
		body = fmt.Sprintf("A new announcement has been published: %s\n\nSign in to the parent portal to read it.", title)
	}
	return s.sendTextEmail(toEmail, subject, body)
}

// SendInvoiceIssuedEmail 发送账单签发通知
func (s *EmailService) SendInvoiceIssuedEmail(toEmail, number string, amount models.Money, currency, locale string) error {
	var subject, body string
	switch i18n.ResolveLocale(locale) {
	case constants.LocaleZhCN:
		subject = fmt.Sprintf("新账单 %s", number)
		body = fmt.Sprintf("您有一张新账单 %s，金额 %s %s。\n\n请登录家长端查看并安排支付。", number, amount.String(), currency)
	default:
		subject = fmt.Sprintf("New invoice %s", number)
		body = fmt.Sprintf("A new invoice %s has been issued for %s %s.\n\nSign in to the parent portal to view it and arrange payment.", number, amount.String(), currency)
	}
	return s.sendTextEmail(toEmail, subject, body)
}

// SendCustomEmail 发送测试邮件或自定义邮件
func (s *EmailService) SendCustomEmail(toEmail, subject, body string) error {
	subject = strings.TrimSpace(subject)
	if subject == "" {
		subject = "SMTP test email"
	}
	body = strings.TrimSpace(body)
	if body == "" {
		body = "This is an SMTP test email. If you received it, the current mail configuration works."
	}
	return s.sendTextEmail(toEmail, subject, body)
}

func (s *EmailService) sendTextEmail(toEmail, subject, body string) error {
	if s == nil || s.cfg == nil || !s.cfg.Enabled {
		return ErrEmailServiceDisabled
	}
	if s.cfg.Host == "" || s.cfg.Port == 0 || s.cfg.From == "" {
		return ErrEmailServiceNotConfigured
	}
	if _, err := mail.ParseAddress(toEmail); err != nil {
		return ErrInvalidEmail
	}

	from := buildFromAddress(s.cfg.From, s.cfg.FromName)
	msg := buildEmailMessage(from, toEmail, subject, body)

	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)
	var auth smtp.Auth
	if s.cfg.Username != "" || s.cfg.Password != "" {
		auth = smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)
	}

	if s.cfg.UseSSL {
		return normalizeEmailSendError(sendMailWithSSL(addr, auth, s.cfg.Host, s.cfg.From, []string{toEmail}, []byte(msg)))
	}
	if s.cfg.UseTLS {
		return normalizeEmailSendError(sendMailWithStartTLS(addr, auth, s.cfg.Host, s.cfg.From, []string{toEmail}, []byte(msg)))
	}
	return normalizeEmailSendError(sendMailPlain(addr, auth, s.cfg.Host, s.cfg.From, []string{toEmail}, []byte(msg)))
}

func buildFromAddress(from, name string) string {
	if strings.TrimSpace(name) == "" {
		return from
	}
	encoded := mime.QEncoding.Encode("UTF-8", name)
	return (&mail.Address{Name: encoded, Address: from}).String()
}

func buildEmailMessage(from, to, subject, body string) string {
	var buf bytes.Buffer
	buf.WriteString(fmt.Sprintf("From: %s\r\n", from))
	buf.WriteString(fmt.Sprintf("To: %s\r\n", to))
	buf.WriteString(fmt.Sprintf("Subject: %s\r\n", mime.QEncoding.Encode("UTF-8", subject)))
	buf.WriteString("MIME-Version: 1.0\r\n")
	buf.WriteString("Content-Type: text/plain; charset=UTF-8\r\n")
	buf.WriteString("\r\n")
	buf.WriteString(body)
	return buf.String()
}

func sendMailWithSSL(addr string, auth smtp.Auth, host, from string, to []string, msg []byte) error {
	conn, err := tls.Dial("tcp", addr, &tls.Config{ServerName: host})
	if err != nil {
		return err
	}
	defer conn.Close()

	client, err := smtp.NewClient(conn, host)
	if err != nil {
		return err
	}
	defer client.Close()

	if auth != nil {
		if ok, _ := client.Extension("AUTH"); ok {
			if err := client.Auth(auth); err != nil {
				return err
			}
		}
	}

	return sendSMTPData(client, from, to, msg)
}

func sendMailWithStartTLS(addr string, auth smtp.Auth, host, from string, to []string, msg []byte) error {
	client, err := smtp.Dial(addr)
	if err != nil {
		return err
	}
	defer client.Close()

	if err := client.StartTLS(&tls.Config{ServerName: host}); err != nil {
		return err
	}

	if auth != nil {
		if ok, _ := client.Extension("AUTH"); ok {
			if err := client.Auth(auth); err != nil {
				return err
			}
		}
	}

	return sendSMTPData(client, from, to, msg)
}

func sendMailPlain(addr string, auth smtp.Auth, host, from string, to []string, msg []byte) error {
	client, err := smtp.Dial(addr)
	if err != nil {
		return err
	}
	defer client.Close()

	if auth != nil {
		if ok, _ := client.Extension("AUTH"); ok {
			if err := client.Auth(auth); err != nil {
				return err
			}
		}
	}

	return sendSMTPData(client, from, to, msg)
}

func sendSMTPData(client *smtp.Client, from string, to []string, msg []byte) error {
	if err := client.Mail(from); err != nil {
		return err
	}
	for _, rcpt := range to {
		if err := client.Rcpt(rcpt); err != nil {
			return err
		}
	}
	w, err := client.Data()
	if err != nil {
		return err
	}
	if _, err := w.Write(msg); err != nil {
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}
	return client.Quit()
}

func normalizeEmailSendError(err error) error {
	if err == nil {
		return nil
	}
	if isEmailRecipientRejected(err) {
		return ErrEmailRecipientRejected
	}
	return err
}

func isEmailRecipientRejected(err error) bool {
	if err == nil {
		return false
	}
	message := strings.ToLower(strings.TrimSpace(err.Error()))
	if message == "" {
		return false
	}
	directKeywords := []string{
		"no such recipient",
		"no such user",
		"recipient not found",
		"recipient address rejected",
		"invalid recipient",
		"user unknown",
		"unknown user",
		"unknown mailbox",
		"mailbox unavailable",
	}
	for _, keyword := range directKeywords {
		if strings.Contains(message, keyword) {
			return true
		}
	}
	if strings.Contains(message, "550") {
		hints := []string{"recipient", "user", "mailbox", "address", "rcpt"}
		for _, hint := range hints {
			if strings.Contains(message, hint) {
				return true
			}
		}
	}
	return false
}
