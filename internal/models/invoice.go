package models

import (
	"time"

	"gorm.io/gorm"
)

// Invoice 托费账单表
type Invoice struct {
	ID          uint           `gorm:"primarykey" json:"id"`                                            // 主键
	Number      string         `gorm:"type:varchar(64);uniqueIndex;not null" json:"number"`             // 账单编号
	GuardianID  uint           `gorm:"index;not null" json:"guardian_id"`                               // 家长ID
	ChildID     *uint          `gorm:"index" json:"child_id,omitempty"`                                 // 关联儿童ID
	Amount      Money          `gorm:"type:decimal(20,2);not null" json:"amount"`                       // 总金额
	Currency    string         `gorm:"type:varchar(16);not null;default:'GBP'" json:"currency"`         // 币种
	Status      string         `gorm:"type:varchar(24);index;not null;default:'pending'" json:"status"` // 状态（pending/paid/void）
	Description string         `gorm:"type:varchar(255)" json:"description"`                            // 说明
	DueAt       time.Time      `gorm:"index" json:"due_at"`                                             // 到期时间
	PaidAt      *time.Time     `gorm:"index" json:"paid_at,omitempty"`                                  // 支付确认时间
	VoidedAt    *time.Time     `gorm:"index" json:"voided_at,omitempty"`                                // 作废时间
	CreatedAt   time.Time      `gorm:"index" json:"created_at"`                                         // 创建时间
	UpdatedAt   time.Time      `gorm:"index" json:"updated_at"`                                         // 更新时间
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`                                                  // 软删除时间
	Guardian    *Guardian      `gorm:"foreignKey:GuardianID" json:"guardian,omitempty"`                 // 家长信息
	Child       *Child         `gorm:"foreignKey:ChildID" json:"child,omitempty"`                       // 儿童信息
	Items       []InvoiceItem  `gorm:"foreignKey:InvoiceID" json:"items,omitempty"`                     // 账单明细
}

// TableName 指定表名
func (Invoice) TableName() string {
	return "invoices"
}

// InvoiceItem 账单明细表
type InvoiceItem struct {
	ID          uint      `gorm:"primarykey" json:"id"`                          // 主键
	InvoiceID   uint      `gorm:"index;not null" json:"invoice_id"`              // 账单ID
	Description string    `gorm:"type:varchar(255);not null" json:"description"` // 明细说明
	Quantity    int       `gorm:"not null;default:1" json:"quantity"`            // 数量
	UnitPrice   Money     `gorm:"type:decimal(20,2);not null" json:"unit_price"` // 单价
	Subtotal    Money     `gorm:"type:decimal(20,2);not null" json:"subtotal"`   // 小计
	CreatedAt   time.Time `gorm:"index" json:"created_at"`                       // 创建时间
}

// TableName 指定表名
func (InvoiceItem) TableName() string {
	return "invoice_items"
}
