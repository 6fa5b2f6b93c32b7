package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"weekboard/internal/comparison"
	"weekboard/internal/model"
	"weekboard/internal/workbook"
)

// loadWorkbook 按 report_name 参数读取已登记报告的工作簿；失败时已写出响应
func (h *Handler) loadWorkbook(c *gin.Context) (*workbook.Workbook, bool) {
	name := c.Query("report_name")
	if name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "缺少 report_name 参数"})
		return nil, false
	}

	report, err := h.store.GetReport(c.Request.Context(), name)
	if err != nil {
		c.JSON(statusOf(err), gin.H{"success": false, "error": err.Error()})
		return nil, false
	}

	wb, err := workbook.LoadFile(report.FilePath)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
		return nil, false
	}
	return wb, true
}

// GetSheetData 报告全部工作表数据（基期表已拆分）
// GET /api/sheets?report_name=
func (h *Handler) GetSheetData(c *gin.Context) {
	wb, ok := h.loadWorkbook(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, wb.SheetData())
}

// GetDashboard 单个工作表的环比分析；可用 category 参数限定展示的分类
// GET /api/dashboard?report_name=&sheet=&category=
func (h *Handler) GetDashboard(c *gin.Context) {
	wb, ok := h.loadWorkbook(c)
	if !ok {
		return
	}

	sheet := c.Query("sheet")
	if sheet == "" {
		current := comparison.CurrentSheets(wb.Names)
		if len(current) > 0 {
			sheet = current[0]
		}
	}

	d := comparison.Analyze(c.Request.Context(), wb.Sheets, sheet)
	if selected, ok := c.GetQueryArray("category"); ok {
		sel := comparison.Selection{}
		sel.Set(sheet, matchCategories(d.Categories, selected))
		d.Visualizations = sel.Apply(sheet, d.Visualizations)
	}
	c.JSON(http.StatusOK, d)
}

// ListDashboards 报告全部现期工作表的环比分析
// GET /api/dashboards?report_name=
func (h *Handler) ListDashboards(c *gin.Context) {
	wb, ok := h.loadWorkbook(c)
	if !ok {
		return
	}

	dashboards, err := comparison.AnalyzeAll(c.Request.Context(), wb.Sheets, wb.Names)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": dashboards})
}

// matchCategories 查询参数按文本匹配分类取值
func matchCategories(categories []model.Value, selected []string) []model.Value {
	want := make(map[string]bool, len(selected))
	for _, s := range selected {
		want[s] = true
	}
	out := []model.Value{}
	for _, v := range categories {
		if want[v.String()] {
			out = append(out, v)
		}
	}
	return out
}
