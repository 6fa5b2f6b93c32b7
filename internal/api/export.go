package api

import (
	"fmt"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"weekboard/internal/comparison"
	"weekboard/internal/exporter"
	"weekboard/internal/logger"
)

// 导出文件下载有效期
const exportTTL = 10 * time.Minute

// ExportRequest 导出请求
type ExportRequest struct {
	ReportName string               `json:"reportName" binding:"required"`
	Sheets     []string             `json:"sheets"`
	Selection  comparison.Selection `json:"selection"`
}

// ExportResponse 导出结果
type ExportResponse struct {
	Token       string `json:"token"`
	DownloadURL string `json:"downloadUrl"`
	ExpiresAt   string `json:"expiresAt"`
}

// Export 生成环比分析工作簿，返回一次性下载地址
// POST /api/export
func (h *Handler) Export(c *gin.Context) {
	var req ExportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "无效的请求: " + err.Error()})
		return
	}

	file, err := h.exporter.Export(c.Request.Context(), exporter.ExportOptions{
		ReportName: req.ReportName,
		Sheets:     req.Sheets,
		Selection:  req.Selection,
	})
	if err != nil {
		c.JSON(statusOf(err), gin.H{"error": "导出失败: " + err.Error()})
		return
	}
	defer file.Close()

	if err := os.MkdirAll(h.exportDir, 0755); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "创建导出目录失败"})
		return
	}
	path := filepath.Join(h.exportDir, uuid.NewString()+".xlsx")
	if err := file.SaveAs(path); err != nil {
		_ = os.Remove(path)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "写入导出文件失败: " + err.Error()})
		return
	}

	token := h.downloads.put(path, req.ReportName, exportTTL)
	c.JSON(http.StatusOK, ExportResponse{
		Token:       token,
		DownloadURL: "/api/export/download/" + token,
		ExpiresAt:   time.Now().Add(exportTTL).Format(time.RFC3339),
	})
}

// DownloadExport 下载导出的 Excel 文件（一次性）
// GET /api/export/download/:token
func (h *Handler) DownloadExport(c *gin.Context) {
	token := c.Param("token")
	item, ok := h.downloads.get(token)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "下载链接已失效"})
		return
	}

	if _, err := os.Stat(item.filePath); err != nil {
		h.downloads.delete(token)
		c.JSON(http.StatusNotFound, gin.H{"error": "导出文件不存在"})
		return
	}

	c.Header("Content-Disposition", contentDisposition(item.reportName+"-环比分析.xlsx"))
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.File(item.filePath)

	h.downloads.delete(token)
	if err := os.Remove(item.filePath); err != nil {
		logger.FromContext(c.Request.Context()).Warn().Err(err).Str("file", item.filePath).Msg("删除导出文件失败")
	}
}

// contentDisposition 中文文件名按 RFC 5987 编码
func contentDisposition(filename string) string {
	return fmt.Sprintf("attachment; filename=\"export.xlsx\"; filename*=UTF-8''%s", url.PathEscape(filename))
}
