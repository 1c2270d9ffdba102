package guardian

import (
	"strconv"

	"github.com/FeexSystems/Rainbow-childcare-sub000/internal/http/response"

	"github.com/gin-gonic/gin"
)

// ListMyAnnouncements 查询面向当前家长的已发布公告
// 返回全园公告加上其儿童所在班级的公告。
func (h *Handler) ListMyAnnouncements(c *gin.Context) {
	guardianID, ok := getGuardianID(c)
	if !ok {
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	announcements, total, err := h.AnnouncementService.ListAnnouncementsForGuardian(h.ChildRepo, guardianID, page, pageSize)
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
	response.SuccessWithPage(c, announcements, pagination)
}
