package service

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/FeexSystems/Rainbow-childcare-sub000/internal/constants"
	"github.com/FeexSystems/Rainbow-childcare-sub000/internal/logger"
	"github.com/FeexSystems/Rainbow-childcare-sub000/internal/models"
	"github.com/FeexSystems/Rainbow-childcare-sub000/internal/queue"
	"github.com/FeexSystems/Rainbow-childcare-sub000/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// InvoiceService 托费账单服务
type InvoiceService struct {
	db           *gorm.DB
	repo         repository.InvoiceRepository
	guardianRepo repository.GuardianRepository
	childRepo    repository.ChildRepository
	queueClient  *queue.Client
}

// NewInvoiceService 创建账单服务
func NewInvoiceService(
	db *gorm.DB,
	repo repository.InvoiceRepository,
	guardianRepo repository.GuardianRepository,
	childRepo repository.ChildRepository,
	queueClient *queue.Client,
) *InvoiceService {
	return &InvoiceService{
		db:           db,
		repo:         repo,
		guardianRepo: guardianRepo,
		childRepo:    childRepo,
		queueClient:  queueClient,
	}
}

// InvoiceItemInput 账单明细输入
type InvoiceItemInput struct {
	Description string
	Quantity    int
	UnitPrice   decimal.Decimal
}

// InvoiceCreateInput 创建账单输入
type InvoiceCreateInput struct {
	GuardianID  uint
	ChildID     *uint
	Description string
	DueAt       time.Time
	Items       []InvoiceItemInput
}

// CreateInvoice 创建账单并异步通知家长
// 总金额由明细行累加得出，不接受外部直接传入。
func (s *InvoiceService) CreateInvoice(input InvoiceCreateInput) (*models.Invoice, error) {
	if input.GuardianID == 0 || len(input.Items) == 0 || input.DueAt.IsZero() {
		return nil, ErrInvoiceInvalid
	}

	guardian, err := s.guardianRepo.GetByID(input.GuardianID)
	if err != nil {
		return nil, ErrInvoiceFetchFailed
	}
	if guardian == nil {
		return nil, ErrGuardianNotFound
	}

	if input.ChildID != nil && *input.ChildID != 0 {
		child, err := s.childRepo.GetByID(*input.ChildID)
		if err != nil {
			return nil, ErrInvoiceFetchFailed
		}
		if child == nil {
			return nil, ErrChildNotFound
		}
	} else {
		input.ChildID = nil
	}

	items := make([]models.InvoiceItem, 0, len(input.Items))
	total := decimal.Zero
	for _, item := range input.Items {
		description := strings.TrimSpace(item.Description)
		quantity := item.Quantity
		if quantity <= 0 {
			quantity = 1
		}
		if description == "" || item.UnitPrice.IsNegative() {
			return nil, ErrInvoiceInvalid
		}
		subtotal := item.UnitPrice.Mul(decimal.NewFromInt(int64(quantity)))
		total = total.Add(subtotal)
		items = append(items, models.InvoiceItem{
			Description: description,
			Quantity:    quantity,
			UnitPrice:   models.NewMoneyFromDecimal(item.UnitPrice),
			Subtotal:    models.NewMoneyFromDecimal(subtotal),
		})
	}

	invoice := &models.Invoice{
		Number:      generateInvoiceNumber(),
		GuardianID:  input.GuardianID,
		ChildID:     input.ChildID,
		Amount:      models.NewMoneyFromDecimal(total),
		Currency:    constants.SiteCurrencyDefault,
		Status:      constants.InvoiceStatusPending,
		Description: strings.TrimSpace(input.Description),
		DueAt:       input.DueAt,
		Items:       items,
	}

	if err := s.db.Transaction(func(tx *gorm.DB) error {
		return s.repo.WithTx(tx).Create(invoice)
	}); err != nil {
		return nil, ErrInvoiceCreateFailed
	}

	if enqueueErr := s.queueClient.EnqueueInvoiceIssuedNotice(queue.InvoiceIssuedNoticePayload{
		InvoiceID: invoice.ID,
	}); enqueueErr != nil {
		logger.Warnw("invoice_issued_notice_enqueue_failed",
			"invoice_id", invoice.ID,
			"error", enqueueErr,
		)
	}

	return invoice, nil
}

// GetInvoice 获取账单
func (s *InvoiceService) GetInvoice(id uint) (*models.Invoice, error) {
	invoice, err := s.repo.GetByID(id)
	if err != nil {
		return nil, ErrInvoiceFetchFailed
	}
	if invoice == nil {
		return nil, ErrInvoiceNotFound
	}
	return invoice, nil
}

// GetInvoiceForGuardian 获取家长自己的账单
// 他人账单按不存在处理。
func (s *InvoiceService) GetInvoiceForGuardian(guardianID, invoiceID uint) (*models.Invoice, error) {
	invoice, err := s.GetInvoice(invoiceID)
	if err != nil {
		return nil, err
	}
	if invoice.GuardianID != guardianID {
		return nil, ErrInvoiceNotFound
	}
	return invoice, nil
}

// ListInvoices 查询账单列表
func (s *InvoiceService) ListInvoices(filter repository.InvoiceListFilter) ([]models.Invoice, int64, error) {
	invoices, total, err := s.repo.List(filter)
	if err != nil {
		return nil, 0, ErrInvoiceFetchFailed
	}
	return invoices, total, nil
}

// MarkPaid 人工确认账单已支付
// 条件更新只接受 pending 状态，并发确认只有一次生效。
func (s *InvoiceService) MarkPaid(id uint) (*models.Invoice, error) {
	invoice, err := s.GetInvoice(id)
	if err != nil {
		return nil, err
	}
	switch invoice.Status {
	case constants.InvoiceStatusPaid:
		return nil, ErrInvoicePaid
	case constants.InvoiceStatusVoid:
		return nil, ErrInvoiceVoid
	}

	affected, err := s.repo.MarkPaid(id, time.Now())
	if err != nil {
		return nil, ErrInvoiceUpdateFailed
	}
	if affected == 0 {
		return nil, ErrInvoicePaid
	}

	logger.Infow("invoice_marked_paid",
		"invoice_id", id,
		"number", invoice.Number,
	)
	return s.GetInvoice(id)
}

// MarkVoid 作废账单
func (s *InvoiceService) MarkVoid(id uint) (*models.Invoice, error) {
	invoice, err := s.GetInvoice(id)
	if err != nil {
		return nil, err
	}
	switch invoice.Status {
	case constants.InvoiceStatusPaid:
		return nil, ErrInvoicePaid
	case constants.InvoiceStatusVoid:
		return nil, ErrInvoiceVoid
	}

	affected, err := s.repo.MarkVoid(id, time.Now())
	if err != nil {
		return nil, ErrInvoiceUpdateFailed
	}
	if affected == 0 {
		return nil, ErrInvoiceVoid
	}

	logger.Infow("invoice_marked_void",
		"invoice_id", id,
		"number", invoice.Number,
	)
	return s.GetInvoice(id)
}

func generateInvoiceNumber() string {
	now := time.Now().Format("20060102150405")
	return fmt.Sprintf("INV%s%s", now, randNumeric(6))
}

func randNumeric(length int) string {
	var b strings.Builder
	for i := 0; i < length; i++ {
		n, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			b.WriteString("0")
			continue
		}
		b.WriteString(n.String())
	}
	return b.String()
}
