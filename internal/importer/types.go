package importer

import "time"

// 进度事件类型
const (
	EventStart      = "start"
	EventInfo       = "info"
	EventSheetStart = "sheet_start"
	EventSheetDone  = "sheet_done"
	EventDone       = "done"
	EventError      = "error"
)

// 工作表处理状态
const (
	SheetAnalyzed = "analyzed"
	SheetSkipped  = "skipped"
)

// ProgressEvent 进度事件
type ProgressEvent struct {
	Type      string      `json:"type"`      // start/info/sheet_start/sheet_done/done/error
	Message   string      `json:"message"`   // 事件消息
	Data      interface{} `json:"data"`      // 附加数据
	Timestamp time.Time   `json:"timestamp"` // 时间戳
}

// SheetResult 单个工作表的分析结果
type SheetResult struct {
	SheetName      string `json:"sheetName"`
	Status         string `json:"status"`
	Rows           int    `json:"rows"`
	CategoryColumn string `json:"categoryColumn,omitempty"`
	Visualizations int    `json:"visualizations"`
	Reason         string `json:"reason,omitempty"`
}

// ImportReport 导入报告
type ImportReport struct {
	ReportID       int64         `json:"reportId"`
	ReportName     string        `json:"reportName"`
	Filename       string        `json:"filename"`
	StoredPath     string        `json:"storedPath"`
	FileHash       string        `json:"fileHash"`
	Unchanged      bool          `json:"unchanged"` // 文件与已登记报告相同，未重新分析
	TotalSheets    int           `json:"totalSheets"`
	AnalyzedSheets int           `json:"analyzedSheets"`
	SkippedSheets  int           `json:"skippedSheets"`
	TotalRows      int           `json:"totalRows"`
	Duration       time.Duration `json:"duration"`
	Sheets         []SheetResult `json:"sheets"`
}

func (r *ImportReport) record(result SheetResult) {
	r.Sheets = append(r.Sheets, result)
	r.TotalRows += result.Rows
	switch result.Status {
	case SheetAnalyzed:
		r.AnalyzedSheets++
	case SheetSkipped:
		r.SkippedSheets++
	}
}
