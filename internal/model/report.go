package model

import "time"

// Sheets 工作表名到行数据的映射
type Sheets map[string][]Row

// ReportListItem 报告列表项
type ReportListItem struct {
	ID         int64  `json:"id"`
	ReportName string `json:"report_name"`
	CreateTime string `json:"create_time"`
}

// Report 已登记的报告
type Report struct {
	ID          int64     `json:"id"`
	ReportName  string    `json:"report_name"`
	Description string    `json:"description"`
	FilePath    string    `json:"file_path"`
	FileHash    string    `json:"file_hash"`
	SheetCount  int       `json:"sheet_count"`
	CreateTime  time.Time `json:"create_time"`
	UpdateTime  time.Time `json:"update_time"`
}

// ListItem 转为列表项，时间格式与原接口一致
func (r *Report) ListItem() ReportListItem {
	return ReportListItem{
		ID:         r.ID,
		ReportName: r.ReportName,
		CreateTime: r.CreateTime.Format(time.DateTime),
	}
}

// ReportListResponse 报告列表响应
type ReportListResponse struct {
	Success bool             `json:"success"`
	Data    []ReportListItem `json:"data"`
	Error   string           `json:"error,omitempty"`
}

// DescriptionResponse 报告分析内容响应（markdown）
type DescriptionResponse struct {
	Success     bool   `json:"success"`
	Description string `json:"description"`
	Error       string `json:"error,omitempty"`
}

// SheetDataResponse 工作表数据响应
type SheetDataResponse struct {
	Success bool     `json:"success"`
	Data    Sheets   `json:"data"`
	Sheets  []string `json:"sheets,omitempty"` // 工作表展示顺序
	Error   string   `json:"error,omitempty"`
}
