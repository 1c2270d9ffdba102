package staff

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/FeexSystems/Rainbow-childcare-sub000/internal/http/response"
	"github.com/FeexSystems/Rainbow-childcare-sub000/internal/repository"
	"github.com/FeexSystems/Rainbow-childcare-sub000/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// InvoiceItemRequest 账单明细行请求
type InvoiceItemRequest struct {
	Description string  `json:"description" binding:"required"`
	Quantity    int     `json:"quantity" binding:"required"`
	UnitPrice   float64 `json:"unit_price" binding:"required"`
}

// CreateInvoiceRequest 创建账单请求
type CreateInvoiceRequest struct {
	GuardianID  uint                 `json:"guardian_id" binding:"required"`
	ChildID     *uint                `json:"child_id"`
	Description string               `json:"description"`
	DueAt       string               `json:"due_at" binding:"required"`
	Items       []InvoiceItemRequest `json:"items" binding:"required"`
}

// CreateInvoice 创建账单
func (h *Handler) CreateInvoice(c *gin.Context) {
	var req CreateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	dueAt, err := time.Parse(time.RFC3339, strings.TrimSpace(req.DueAt))
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	items := make([]service.InvoiceItemInput, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, service.InvoiceItemInput{
			Description: item.Description,
			Quantity:    item.Quantity,
			UnitPrice:   decimal.NewFromFloat(item.UnitPrice),
		})
	}

	invoice, err := h.InvoiceService.CreateInvoice(service.InvoiceCreateInput{
		GuardianID:  req.GuardianID,
		ChildID:     req.ChildID,
		Description: req.Description,
		DueAt:       dueAt,
		Items:       items,
	})
	if err != nil {
		if errors.Is(err, service.ErrInvoiceInvalid) {
			respondError(c, response.CodeBadRequest, "error.validation_failed", nil)
			return
		}
		if errors.Is(err, service.ErrGuardianNotFound) {
			respondError(c, response.CodeNotFound, "error.guardian_not_found", nil)
			return
		}
		if errors.Is(err, service.ErrChildNotFound) {
			respondError(c, response.CodeNotFound, "error.child_not_found", nil)
			return
		}
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}

	response.Success(c, invoice)
}

// GetInvoice 获取账单详情
func (h *Handler) GetInvoice(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	invoice, err := h.InvoiceService.GetInvoice(id)
	if err != nil {
		if errors.Is(err, service.ErrInvoiceNotFound) {
			respondError(c, response.CodeNotFound, "error.invoice_not_found", nil)
			return
		}
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}

	response.Success(c, invoice)
}

// ListInvoices 查询账单列表
func (h *Handler) ListInvoices(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	guardianID, ok := parseQueryUint(c, "guardian_id")
	if !ok {
		return
	}
	childID, ok := parseQueryUint(c, "child_id")
	if !ok {
		return
	}

	dueFrom, err := parseTimeNullable(strings.TrimSpace(c.Query("due_from")))
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	dueTo, err := parseTimeNullable(strings.TrimSpace(c.Query("due_to")))
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	invoices, total, err := h.InvoiceService.ListInvoices(repository.InvoiceListFilter{
		Page:       page,
		PageSize:   pageSize,
		GuardianID: guardianID,
		ChildID:    childID,
		Status:     strings.TrimSpace(c.Query("status")),
		Number:     strings.TrimSpace(c.Query("number")),
		DueFrom:    dueFrom,
		DueTo:      dueTo,
	})
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}

	pagination := response.Pagination{
		Page:      page,
		PageSize:  pageSize,
		Total:     total,
		TotalPage: (total + int64(pageSize) - 1) / int64(pageSize),
	}
	response.SuccessWithPage(c, invoices, pagination)
}

// MarkInvoicePaid 标记账单为已支付
func (h *Handler) MarkInvoicePaid(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	invoice, err := h.InvoiceService.MarkPaid(id)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvoiceNotFound):
			respondError(c, response.CodeNotFound, "error.invoice_not_found", nil)
		case errors.Is(err, service.ErrInvoicePaid):
			respondError(c, response.CodeConflict, "error.invoice_paid", nil)
		case errors.Is(err, service.ErrInvoiceVoid):
			respondError(c, response.CodeConflict, "error.invoice_void", nil)
		default:
			respondError(c, response.CodeInternal, "error.internal", err)
		}
		return
	}

	requestLog(c).Infow("staff_invoice_marked_paid",
		"staff_id", currentStaffID(c),
		"invoice_id", invoice.ID,
		"number", invoice.Number,
	)

	response.Success(c, invoice)
}

// MarkInvoiceVoid 作废账单
func (h *Handler) MarkInvoiceVoid(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	invoice, err := h.InvoiceService.MarkVoid(id)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvoiceNotFound):
			respondError(c, response.CodeNotFound, "error.invoice_not_found", nil)
		case errors.Is(err, service.ErrInvoicePaid):
			respondError(c, response.CodeConflict, "error.invoice_paid", nil)
		case errors.Is(err, service.ErrInvoiceVoid):
			respondError(c, response.CodeConflict, "error.invoice_void", nil)
		default:
			respondError(c, response.CodeInternal, "error.internal", err)
		}
		return
	}

	response.Success(c, invoice)
}
