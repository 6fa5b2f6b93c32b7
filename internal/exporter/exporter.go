package exporter

import (
	"context"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"weekboard/internal/comparison"
	"weekboard/internal/model"
	"weekboard/internal/store"
	"weekboard/internal/workbook"
)

// SummarySheet 汇总指标表名
const SummarySheet = "汇总指标"

// 图表尺寸与每个图表块占用的行数
const (
	chartWidth     = 560
	chartHeight    = 300
	chartBlockRows = 17
	blockCols      = 3 // 分类、环比、空列
)

// Exporter 周报分析导出器：每个工作表的环比数据与柱状图写入一份新的 xlsx
type Exporter struct {
	store *store.Store
}

// NewExporter 创建导出器
func NewExporter(store *store.Store) *Exporter {
	return &Exporter{store: store}
}

// ExportOptions 导出选项
type ExportOptions struct {
	ReportName string
	Sheets     []string             // 为空时导出全部现期工作表
	Selection  comparison.Selection // 各工作表选中的分类，未设置的表保留全部分类
	Progress   func(ProgressEvent)
}

// Export 读取已登记的报告，分析后生成导出工作簿
func (e *Exporter) Export(ctx context.Context, opts ExportOptions) (*excelize.File, error) {
	reportProgress(opts.Progress, 0, "读取报告")
	report, err := e.store.GetReport(ctx, opts.ReportName)
	if err != nil {
		return nil, err
	}

	wb, err := workbook.LoadFile(report.FilePath)
	if err != nil {
		return nil, err
	}

	order := wb.Names
	if len(opts.Sheets) > 0 {
		order = opts.Sheets
	}

	reportProgress(opts.Progress, 20, "分析工作表")
	dashboards, err := comparison.AnalyzeAll(ctx, wb.Sheets, order)
	if err != nil {
		return nil, err
	}
	for _, d := range dashboards {
		d.Visualizations = opts.Selection.Apply(d.Sheet, d.Visualizations)
	}

	reportProgress(opts.Progress, 60, "生成图表")
	f, err := Build(report.ReportName, dashboards)
	if err != nil {
		return nil, err
	}
	reportProgress(opts.Progress, 100, "导出完成")
	return f, nil
}

// Build 由分析结果生成工作簿：首个工作表为汇总指标，其后每个工作表一张
func Build(reportName string, dashboards []*model.Dashboard) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", SummarySheet); err != nil {
		_ = f.Close()
		return nil, err
	}

	if err := writeSummary(f, reportName, dashboards); err != nil {
		_ = f.Close()
		return nil, err
	}

	used := map[string]bool{SummarySheet: true}
	for _, d := range dashboards {
		if len(d.Visualizations) == 0 {
			continue
		}
		name := uniqueSheetName(d.Sheet, used)
		if _, err := f.NewSheet(name); err != nil {
			_ = f.Close()
			return nil, err
		}
		if err := writeDashboard(f, name, d); err != nil {
			_ = f.Close()
			return nil, fmt.Errorf("写入工作表 %s 失败: %w", d.Sheet, err)
		}
	}

	f.SetActiveSheet(0)
	return f, nil
}

func writeSummary(f *excelize.File, reportName string, dashboards []*model.Dashboard) error {
	if err := f.SetCellValue(SummarySheet, "A1", reportName); err != nil {
		return err
	}
	header := []interface{}{"工作表", "分类列", "货号数", "货值（万元）", "库存数", "销售额（万元）", "图表数"}
	if err := f.SetSheetRow(SummarySheet, "A2", &header); err != nil {
		return err
	}

	for i, d := range dashboards {
		row := []interface{}{
			d.Sheet,
			d.CategoryColumn,
			d.Metrics.TotalGoods,
			comparison.Round2(d.Metrics.TotalValue),
			d.Metrics.TotalInventory,
			comparison.Round2(d.Metrics.TotalSales),
			len(d.Visualizations),
		}
		cell, err := excelize.CoordinatesToCellName(1, i+3)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(SummarySheet, cell, &row); err != nil {
			return err
		}
	}

	style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(SummarySheet, "A1", "G2", style); err != nil {
		return err
	}
	return f.SetColWidth(SummarySheet, "A", "G", 16)
}

// writeDashboard 每个指标占三列数据，对应的柱状图放在数据右侧
func writeDashboard(f *excelize.File, sheet string, d *model.Dashboard) error {
	chartCol, err := excelize.ColumnNumberToName(len(d.Visualizations)*blockCols + 1)
	if err != nil {
		return err
	}

	for i, v := range d.Visualizations {
		col := i*blockCols + 1
		header := []interface{}{d.CategoryColumn, v.Title + "（%）"}
		if err := setRow(f, sheet, col, 1, header); err != nil {
			return err
		}
		for j, p := range v.Series.Points {
			if err := setRow(f, sheet, col, j+2, []interface{}{p.Name, p.Value}); err != nil {
				return err
			}
		}
		if len(v.Series.Points) == 0 {
			continue
		}

		chart, err := barChart(sheet, col, v)
		if err != nil {
			return err
		}
		anchor := fmt.Sprintf("%s%d", chartCol, i*chartBlockRows+1)
		if err := f.AddChart(sheet, anchor, chart); err != nil {
			return err
		}
	}
	return nil
}

func barChart(sheet string, col int, v model.Visualization) (*excelize.Chart, error) {
	catCol, err := excelize.ColumnNumberToName(col)
	if err != nil {
		return nil, err
	}
	valCol, err := excelize.ColumnNumberToName(col + 1)
	if err != nil {
		return nil, err
	}
	last := len(v.Series.Points) + 1
	ref := quoteSheet(sheet)

	return &excelize.Chart{
		Type: excelize.Col,
		Series: []excelize.ChartSeries{{
			Name:       fmt.Sprintf("%s!$%s$1", ref, valCol),
			Categories: fmt.Sprintf("%s!$%s$2:$%s$%d", ref, catCol, catCol, last),
			Values:     fmt.Sprintf("%s!$%s$2:$%s$%d", ref, valCol, valCol, last),
			Fill:       excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{strings.TrimPrefix(model.ColorPositive, "#")}},
		}},
		Title:     []excelize.RichTextRun{{Text: v.Series.Title}},
		Legend:    excelize.ChartLegend{Position: "none"},
		PlotArea:  excelize.ChartPlotArea{ShowVal: true},
		Dimension: excelize.ChartDimension{Width: chartWidth, Height: chartHeight},
	}, nil
}

func setRow(f *excelize.File, sheet string, col, row int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return err
	}
	return f.SetSheetRow(sheet, cell, &values)
}

func quoteSheet(name string) string {
	return "'" + strings.ReplaceAll(name, "'", "''") + "'"
}

// uniqueSheetName 避免与已有工作表重名，长度不超过 Excel 的 31 字符限制
func uniqueSheetName(name string, used map[string]bool) string {
	base := truncateRunes(name, excelize.MaxSheetNameLength)
	candidate := base
	for i := 2; used[candidate]; i++ {
		suffix := fmt.Sprintf("(%d)", i)
		candidate = truncateRunes(base, excelize.MaxSheetNameLength-len(suffix)) + suffix
	}
	used[candidate] = true
	return candidate
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
