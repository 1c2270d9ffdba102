package service

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/FeexSystems/Rainbow-childcare-sub000/internal/constants"
	"github.com/FeexSystems/Rainbow-childcare-sub000/internal/models"
	"github.com/FeexSystems/Rainbow-childcare-sub000/internal/repository"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func setupInvoiceServiceTest(t *testing.T) (*InvoiceService, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:invoice_service_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(
		&models.Guardian{},
		&models.Room{},
		&models.Child{},
		&models.Invoice{},
		&models.InvoiceItem{},
	); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	models.DB = db

	svc := NewInvoiceService(
		db,
		repository.NewInvoiceRepository(db),
		repository.NewGuardianRepository(db),
		repository.NewChildRepository(db),
		nil,
	)
	return svc, db
}

func seedInvoiceGuardian(t *testing.T, db *gorm.DB, guardianID uint) {
	t.Helper()
	guardian := models.Guardian{
		ID:           guardianID,
		Email:        fmt.Sprintf("invoice_guardian_%d@example.com", guardianID),
		PasswordHash: "hash",
		Status:       constants.GuardianStatusActive,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
	if err := db.Create(&guardian).Error; err != nil {
		t.Fatalf("create guardian failed: %v", err)
	}
}

func TestInvoiceCreateComputesTotalFromItems(t *testing.T) {
	svc, db := setupInvoiceServiceTest(t)
	seedInvoiceGuardian(t, db, 1)

	invoice, err := svc.CreateInvoice(InvoiceCreateInput{
		GuardianID:  1,
		Description: "September fees",
		DueAt:       time.Now().AddDate(0, 0, 14),
		Items: []InvoiceItemInput{
			{Description: "Full day session", Quantity: 5, UnitPrice: decimal.NewFromFloat(58.50)},
			{Description: "Lunch supplement", Quantity: 5, UnitPrice: decimal.NewFromFloat(3.20)},
		},
	})
	if err != nil {
		t.Fatalf("create invoice failed: %v", err)
	}
	if !strings.HasPrefix(invoice.Number, "INV") {
		t.Fatalf("invoice number want INV prefix got %s", invoice.Number)
	}
	if invoice.Status != constants.InvoiceStatusPending {
		t.Fatalf("status want pending got %s", invoice.Status)
	}
	want := decimal.NewFromFloat(308.50)
	if !invoice.Amount.Decimal.Equal(want) {
		t.Fatalf("amount want %s got %s", want, invoice.Amount)
	}
	if len(invoice.Items) != 2 {
		t.Fatalf("items want 2 got %d", len(invoice.Items))
	}
}

func TestInvoiceCreateValidation(t *testing.T) {
	svc, db := setupInvoiceServiceTest(t)
	seedInvoiceGuardian(t, db, 1)

	dueAt := time.Now().AddDate(0, 0, 7)

	if _, err := svc.CreateInvoice(InvoiceCreateInput{GuardianID: 1, DueAt: dueAt}); !errors.Is(err, ErrInvoiceInvalid) {
		t.Fatalf("no items want ErrInvoiceInvalid got %v", err)
	}

	if _, err := svc.CreateInvoice(InvoiceCreateInput{
		GuardianID: 99,
		DueAt:      dueAt,
		Items:      []InvoiceItemInput{{Description: "Session", Quantity: 1, UnitPrice: decimal.NewFromInt(10)}},
	}); !errors.Is(err, ErrGuardianNotFound) {
		t.Fatalf("unknown guardian want ErrGuardianNotFound got %v", err)
	}

	if _, err := svc.CreateInvoice(InvoiceCreateInput{
		GuardianID: 1,
		DueAt:      dueAt,
		Items:      []InvoiceItemInput{{Description: "Session", Quantity: 1, UnitPrice: decimal.NewFromInt(-5)}},
	}); !errors.Is(err, ErrInvoiceInvalid) {
		t.Fatalf("negative unit price want ErrInvoiceInvalid got %v", err)
	}
}

func TestInvoiceMarkPaidTransitions(t *testing.T) {
	svc, db := setupInvoiceServiceTest(t)
	seedInvoiceGuardian(t, db, 1)

	invoice, err := svc.CreateInvoice(InvoiceCreateInput{
		GuardianID: 1,
		DueAt:      time.Now().AddDate(0, 0, 7),
		Items:      []InvoiceItemInput{{Description: "Session", Quantity: 1, UnitPrice: decimal.NewFromInt(50)}},
	})
	if err != nil {
		t.Fatalf("create invoice failed: %v", err)
	}

	paid, err := svc.MarkPaid(invoice.ID)
	if err != nil {
		t.Fatalf("mark paid failed: %v", err)
	}
	if paid.Status != constants.InvoiceStatusPaid || paid.PaidAt == nil {
		t.Fatalf("invoice not marked paid: status=%s", paid.Status)
	}

	if _, err := svc.MarkPaid(invoice.ID); !errors.Is(err, ErrInvoicePaid) {
		t.Fatalf("double mark paid want ErrInvoicePaid got %v", err)
	}
	if _, err := svc.MarkVoid(invoice.ID); !errors.Is(err, ErrInvoicePaid) {
		t.Fatalf("void after paid want ErrInvoicePaid got %v", err)
	}
}

func TestInvoiceMarkVoidTransitions(t *testing.T) {
	svc, db := setupInvoiceServiceTest(t)
	seedInvoiceGuardian(t, db, 1)

	invoice, err := svc.CreateInvoice(InvoiceCreateInput{
		GuardianID: 1,
		DueAt:      time.Now().AddDate(0, 0, 7),
		Items:      []InvoiceItemInput{{Description: "Session", Quantity: 1, UnitPrice: decimal.NewFromInt(50)}},
	})
	if err != nil {
		t.Fatalf("create invoice failed: %v", err)
	}

	voided, err := svc.MarkVoid(invoice.ID)
	if err != nil {
		t.Fatalf("mark void failed: %v", err)
	}
	if voided.Status != constants.InvoiceStatusVoid || voided.VoidedAt == nil {
		t.Fatalf("invoice not voided: status=%s", voided.Status)
	}

	if _, err := svc.MarkPaid(invoice.ID); !errors.Is(err, ErrInvoiceVoid) {
		t.Fatalf("pay after void want ErrInvoiceVoid got %v", err)
	}
}

func TestInvoiceGetForGuardianScoping(t *testing.T) {
	svc, db := setupInvoiceServiceTest(t)
	seedInvoiceGuardian(t, db, 1)
	seedInvoiceGuardian(t, db, 2)

	invoice, err := svc.CreateInvoice(InvoiceCreateInput{
		GuardianID: 1,
		DueAt:      time.Now().AddDate(0, 0, 7),
		Items:      []InvoiceItemInput{{Description: "Session", Quantity: 1, UnitPrice: decimal.NewFromInt(50)}},
	})
	if err != nil {
		t.Fatalf("create invoice failed: %v", err)
	}

	if _, err := svc.GetInvoiceForGuardian(1, invoice.ID); err != nil {
		t.Fatalf("owner lookup failed: %v", err)
	}
	if _, err := svc.GetInvoiceForGuardian(2, invoice.ID); !errors.Is(err, ErrInvoiceNotFound) {
		t.Fatalf("cross guardian lookup want ErrInvoiceNotFound got %v", err)
	}
}
