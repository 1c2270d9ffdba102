package guardian

import (
	"errors"
	"strconv"
	"strings"

	"github.com/FeexSystems/Rainbow-childcare-sub000/internal/http/response"
	"github.com/FeexSystems/Rainbow-childcare-sub000/internal/repository"
	"github.com/FeexSystems/Rainbow-childcare-sub000/internal/service"

	"github.com/gin-gonic/gin"
)

// ListMyInvoices 查询当前家长的账单列表
func (h *Handler) ListMyInvoices(c *gin.Context) {
	guardianID, ok := getGuardianID(c)
	if !ok {
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	invoices, total, err := h.InvoiceService.ListInvoices(repository.InvoiceListFilter{
		Page:       page,
		PageSize:   pageSize,
		GuardianID: guardianID,
		Status:     strings.TrimSpace(c.Query("status")),
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

// GetMyInvoice 获取当前家长的账单详情
func (h *Handler) GetMyInvoice(c *gin.Context) {
	guardianID, ok := getGuardianID(c)
	if !ok {
		return
	}
	invoiceID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	invoice, err := h.InvoiceService.GetInvoiceForGuardian(guardianID, invoiceID)
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
