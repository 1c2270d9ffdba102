package repository

import (
	"errors"
	"time"

	"github.com/FeexSystems/Rainbow-childcare-sub000/internal/constants"
	"github.com/FeexSystems/Rainbow-childcare-sub000/internal/models"

	"gorm.io/gorm"
)

// InvoiceRepository 账单数据访问接口
type InvoiceRepository interface {
	GetByID(id uint) (*models.Invoice, error)
	GetByNumber(number string) (*models.Invoice, error)
	List(filter InvoiceListFilter) ([]models.Invoice, int64, error)
	Create(invoice *models.Invoice) error
	Update(invoice *models.Invoice) error
	MarkPaid(id uint, now time.Time) (int64, error)
	MarkVoid(id uint, now time.Time) (int64, error)
	WithTx(tx *gorm.DB) *GormInvoiceRepository
}

// GormInvoiceRepository GORM 实现
type GormInvoiceRepository struct {
	db *gorm.DB
}

// NewInvoiceRepository 创建账单仓库
func NewInvoiceRepository(db *gorm.DB) *GormInvoiceRepository {
	return &GormInvoiceRepository{db: db}
}

// WithTx 绑定事务
func (r *GormInvoiceRepository) WithTx(tx *gorm.DB) *GormInvoiceRepository {
	if tx == nil {
		return r
	}
	return &GormInvoiceRepository{db: tx}
}

// GetByID 根据 ID 获取账单
func (r *GormInvoiceRepository) GetByID(id uint) (*models.Invoice, error) {
	if id == 0 {
		return nil, nil
	}
	var invoice models.Invoice
	if err := r.db.Preload("Items").Preload("Child").First(&invoice, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &invoice, nil
}

// GetByNumber 根据编号获取账单
func (r *GormInvoiceRepository) GetByNumber(number string) (*models.Invoice, error) {
	if number == "" {
		return nil, nil
	}
	var invoice models.Invoice
	if err := r.db.Preload("Items").Where("number = ?", number).First(&invoice).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &invoice, nil
}

// List 查询账单列表
func (r *GormInvoiceRepository) List(filter InvoiceListFilter) ([]models.Invoice, int64, error) {
	query := r.db.Model(&models.Invoice{}).Preload("Child")
	if filter.GuardianID > 0 {
		query = query.Where("guardian_id = ?", filter.GuardianID)
	}
	if filter.ChildID > 0 {
		query = query.Where("child_id = ?", filter.ChildID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.Number != "" {
		query = query.Where("number LIKE ?", "%"+filter.Number+"%")
	}
	if filter.DueFrom != nil {
		query = query.Where("due_at >= ?", *filter.DueFrom)
	}
	if filter.DueTo != nil {
		query = query.Where("due_at <= ?", *filter.DueTo)
	}
	if filter.CreatedFrom != nil {
		query = query.Where("created_at >= ?", *filter.CreatedFrom)
	}
	if filter.CreatedTo != nil {
		query = query.Where("created_at <= ?", *filter.CreatedTo)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query, filter.Page, filter.PageSize)

	var invoices []models.Invoice
	if err := query.Order("id DESC").Find(&invoices).Error; err != nil {
		return nil, 0, err
	}
	return invoices, total, nil
}

// Create 创建账单（含明细）
func (r *GormInvoiceRepository) Create(invoice *models.Invoice) error {
	if invoice == nil {
		return errors.New("invalid invoice")
	}
	return r.db.Create(invoice).Error
}

// Update 更新账单
func (r *GormInvoiceRepository) Update(invoice *models.Invoice) error {
	if invoice == nil {
		return errors.New("invalid invoice")
	}
	return r.db.Save(invoice).Error
}

// MarkPaid 条件更新确认支付
// 只有 pending 状态的账单会被写入，返回受影响行数。
func (r *GormInvoiceRepository) MarkPaid(id uint, now time.Time) (int64, error) {
	if id == 0 {
		return 0, nil
	}
	if now.IsZero() {
		now = time.Now()
	}
	result := r.db.Model(&models.Invoice{}).
		Where("id = ? AND status = ?", id, constants.InvoiceStatusPending).
		Updates(map[string]interface{}{
			"status":     constants.InvoiceStatusPaid,
			"paid_at":    now,
			"updated_at": now,
		})
	return result.RowsAffected, result.Error
}

// MarkVoid 条件更新作废账单
func (r *GormInvoiceRepository) MarkVoid(id uint, now time.Time) (int64, error) {
	if id == 0 {
		return 0, nil
	}
	if now.IsZero() {
		now = time.Now()
	}
	result := r.db.Model(&models.Invoice{}).
		Where("id = ? AND status = ?", id, constants.InvoiceStatusPending).
		Updates(map[string]interface{}{
			"status":     constants.InvoiceStatusVoid,
			"voided_at":  now,
			"updated_at": now,
		})
	return result.RowsAffected, result.Error
}
