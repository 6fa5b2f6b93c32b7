package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/samber/lo"

	"weekboard/internal/logger"
	"weekboard/internal/model"
	"weekboard/internal/store"
)

// ListReports 报告列表（按登记时间倒序）
// GET /api/reports
func (h *Handler) ListReports(c *gin.Context) {
	reports, err := h.store.ListReports(c.Request.Context())
	if err != nil {
		logger.FromContext(c.Request.Context()).Error().Err(err).Msg("查询报告列表失败")
		c.JSON(http.StatusInternalServerError, model.ReportListResponse{Success: false, Data: []model.ReportListItem{}, Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, model.ReportListResponse{
		Success: true,
		Data:    lo.Map(reports, func(r *model.Report, _ int) model.ReportListItem { return r.ListItem() }),
	})
}

// ListReportNames 全部报告名
// GET /api/reports/names
func (h *Handler) ListReportNames(c *gin.Context) {
	names, err := h.store.ListReportNames(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": names})
}

// GetDescription 报告的分析描述
// GET /api/reports/:name/description
func (h *Handler) GetDescription(c *gin.Context) {
	desc, err := h.store.GetDescription(c.Request.Context(), c.Param("name"))
	if err != nil {
		c.JSON(statusOf(err), model.DescriptionResponse{Success: false, Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, model.DescriptionResponse{Success: true, Description: desc})
}

// DeleteReport 删除报告登记
// DELETE /api/reports/:name
func (h *Handler) DeleteReport(c *gin.Context) {
	if err := h.store.DeleteReport(c.Request.Context(), c.Param("name")); err != nil {
		c.JSON(statusOf(err), gin.H{"success": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// statusOf 记录不存在时返回 404，其余为 500
func statusOf(err error) int {
	if errors.Is(err, store.ErrNotFound) {
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}
