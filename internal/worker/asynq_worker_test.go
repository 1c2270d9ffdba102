package worker

import (
	"strings"
	"testing"

	"github.com/FeexSystems/Rainbow-childcare-sub000/internal/models"

	"github.com/shopspring/decimal"
)

func TestPickupRedeemedNoticeTextWithoutStaff(t *testing.T) {
	title, body := pickupRedeemedNoticeText("en-GB", "Ada Smith", "")
	if title != "Pickup confirmed" {
		t.Fatalf("unexpected title %q", title)
	}
	if !strings.Contains(body, "Ada Smith") {
		t.Fatalf("body should mention child, got %q", body)
	}
	if strings.Contains(body, "confirmed by") {
		t.Fatalf("body should not mention staff when unknown, got %q", body)
	}
}

func TestPickupRedeemedNoticeTextLocale(t *testing.T) {
	title, body := pickupRedeemedNoticeText("zh-CN", "小明", "王老师")
	if title != "接送确认" {
		t.Fatalf("unexpected title %q", title)
	}
	if !strings.Contains(body, "王老师") {
		t.Fatalf("body should mention staff, got %q", body)
	}

	// 未知语言回退英文
	title, _ = pickupRedeemedNoticeText("fr-FR", "Ada", "Jo")
	if title != "Pickup confirmed" {
		t.Fatalf("unexpected fallback title %q", title)
	}
}

func TestInvoiceIssuedNoticeText(t *testing.T) {
	amount := models.Money{Decimal: decimal.NewFromFloat(120.50)}
	_, body := invoiceIssuedNoticeText("en-GB", "INV20260101120000123456", amount, "GBP")
	if !strings.Contains(body, "INV20260101120000123456") {
		t.Fatalf("body should mention invoice number, got %q", body)
	}
	if !strings.Contains(body, "120.5") {
		t.Fatalf("body should mention amount, got %q", body)
	}
	if !strings.Contains(body, "GBP") {
		t.Fatalf("body should mention currency, got %q", body)
	}
}
