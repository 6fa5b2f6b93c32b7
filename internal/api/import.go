package api

import (
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"weekboard/internal/importer"
)

// Import 上传周报并分析 (SSE 流式响应)
// POST /api/import
//
// 表单字段：file（必填）、report_name（默认取文件名）、force（文件未变化时也重新分析）
func (h *Handler) Import(c *gin.Context) {
	uploaded, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "未找到上传文件"})
		return
	}
	if !strings.EqualFold(filepath.Ext(uploaded.Filename), ".xlsx") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "仅支持 .xlsx 文件"})
		return
	}

	// 保存到临时目录，导入时再复制到上传目录
	tempPath := filepath.Join(os.TempDir(), "weekboard_import_"+uuid.NewString()+".xlsx")
	if err := c.SaveUploadedFile(uploaded, tempPath); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "保存文件失败"})
		return
	}
	defer os.Remove(tempPath)

	reportName := strings.TrimSpace(c.PostForm("report_name"))
	if reportName == "" {
		reportName = importer.ReportNameFromPath(uploaded.Filename)
	}
	force, _ := strconv.ParseBool(c.DefaultPostForm("force", "false"))

	sse, ok := newSSEWriter(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "不支持流式响应"})
		return
	}

	events := h.importer.Import(c.Request.Context(), importer.ImportOptions{
		FilePath:   tempPath,
		ReportName: reportName,
		Copy:       true,
		Force:      force,
	})
	for event := range events {
		sse.send(event)
	}
}

// Scan 立即扫描上传目录
// POST /api/scan
func (h *Handler) Scan(c *gin.Context) {
	if h.scanner == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "未配置扫描目录"})
		return
	}

	reports, err := h.scanner.ScanOnce(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": reports})
}
