package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// StatusResponse 系统状态响应
type StatusResponse struct {
	Initialized    bool   `json:"initialized"`    // 是否已有报告
	TotalReports   int    `json:"totalReports"`   // 报告总数
	LastImportTime string `json:"lastImportTime"` // 最后一次成功导入时间
	UploadDir      string `json:"uploadDir"`      // 定时扫描目录
	NextScanTime   string `json:"nextScanTime"`   // 下一次定时扫描时间
}

// GetStatus 获取系统状态
// GET /api/status
func (h *Handler) GetStatus(c *gin.Context) {
	ctx := c.Request.Context()

	total, err := h.store.CountReports(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	resp := StatusResponse{
		Initialized:  total > 0,
		TotalReports: total,
	}

	if last, ok, err := h.store.LastImportTime(ctx); err == nil && ok {
		resp.LastImportTime = last.Local().Format(time.DateTime)
	}
	if h.scanner != nil {
		resp.UploadDir = h.scanner.Dir()
		resp.NextScanTime = h.scanner.NextRun().Format(time.DateTime)
	}

	c.JSON(http.StatusOK, resp)
}
