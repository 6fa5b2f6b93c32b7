package api

import (
	"github.com/gin-gonic/gin"

	"weekboard/internal/exporter"
	"weekboard/internal/importer"
	"weekboard/internal/store"
)

// Handler API 处理器
type Handler struct {
	store     *store.Store
	importer  *importer.Coordinator
	scanner   *importer.Scanner
	exporter  *exporter.Exporter
	exportDir string
	downloads *exportDownloadStore
}

// NewHandler 创建 API 处理器，导出文件写入 exportDir
func NewHandler(store *store.Store, coord *importer.Coordinator, scanner *importer.Scanner, exportDir string) *Handler {
	return &Handler{
		store:     store,
		importer:  coord,
		scanner:   scanner,
		exporter:  exporter.NewExporter(store),
		exportDir: exportDir,
		downloads: newExportDownloadStore(),
	}
}

// RegisterRoutes 注册 API 路由
func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	// 系统状态
	router.GET("/status", h.GetStatus)

	// 报告
	router.GET("/reports", h.ListReports)
	router.GET("/reports/names", h.ListReportNames)
	router.GET("/reports/:name/description", h.GetDescription)
	router.DELETE("/reports/:name", h.DeleteReport)

	// 工作表数据与环比分析
	router.GET("/sheets", h.GetSheetData)
	router.GET("/dashboard", h.GetDashboard)
	router.GET("/dashboards", h.ListDashboards)

	// 导入与定时扫描
	router.POST("/import", h.Import)
	router.POST("/scan", h.Scan)

	// 导出
	router.POST("/export", h.Export)
	router.GET("/export/download/:token", h.DownloadExport)
}
