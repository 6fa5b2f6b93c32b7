package exporter

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"weekboard/internal/comparison"
	"weekboard/internal/model"
	"weekboard/internal/store"
)

func sampleDashboards() []*model.Dashboard {
	points := []model.SeriesPoint{
		model.NewSeriesPoint(model.StringValue("裤子"), -20),
		model.NewSeriesPoint(model.StringValue("T恤"), 12.5),
	}
	return []*model.Dashboard{
		{
			Sheet:          "三级分类",
			CategoryColumn: "三级分类",
			Metrics:        model.Metrics{TotalGoods: 200, TotalValue: 8.123},
			Visualizations: []model.Visualization{
				{Title: "货号环比分析", Kind: model.MetricGoods, Type: "bar", Series: model.NewChartSeries("三级分类货号环比分析", points)},
				{Title: "货值环比分析", Kind: model.MetricValue, Type: "bar", Series: model.NewChartSeries("三级分类货值环比分析", nil)},
			},
		},
		{Sheet: "无分类", Metrics: model.Metrics{TotalInventory: 3}},
	}
}

func TestBuild(t *testing.T) {
	f, err := Build("第23周", sampleDashboards())
	require.NoError(t, err)
	t.Cleanup(func() { _ = f.Close() })

	assert.Equal(t, []string{SummarySheet, "三级分类"}, f.GetSheetList())

	title, err := f.GetCellValue(SummarySheet, "A1")
	require.NoError(t, err)
	assert.Equal(t, "第23周", title)

	rows, err := f.GetRows(SummarySheet)
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, []string{"三级分类", "三级分类", "200", "8.12", "0", "0", "2"}, rows[2])
	assert.Equal(t, "无分类", rows[3][0])

	data, err := f.GetRows("三级分类")
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(data), 3)
	assert.Equal(t, []string{"三级分类", "货号环比分析（%）", "", "三级分类", "货值环比分析（%）"}, data[0])
	assert.Equal(t, []string{"裤子", "-20"}, data[1][:2])
	assert.Equal(t, []string{"T恤", "12.5"}, data[2][:2])
}

func TestUniqueSheetName(t *testing.T) {
	used := map[string]bool{SummarySheet: true}
	assert.Equal(t, "A", uniqueSheetName("A", used))
	assert.Equal(t, "A(2)", uniqueSheetName("A", used))
	assert.Equal(t, SummarySheet+"(2)", uniqueSheetName(SummarySheet, used))

	long := strings.Repeat("表", 40)
	got := uniqueSheetName(long, used)
	assert.Len(t, []rune(got), excelize.MaxSheetNameLength)
}

func TestQuoteSheet(t *testing.T) {
	assert.Equal(t, "'三级分类'", quoteSheet("三级分类"))
	assert.Equal(t, "'a''b'", quoteSheet("a'b"))
}

func TestExport_FromRegisteredReport(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	src := excelize.NewFile()
	require.NoError(t, src.SetSheetName("Sheet1", "A"))
	rows := [][]interface{}{
		{"时间", "cat", "上周货号数"},
		{"现期", "x", 100},
		{"现期", "y", 50},
		{"基期", "x", 80},
		{"基期", "y", 100},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, src.SetSheetRow("A", cell, &row))
	}
	path := filepath.Join(dir, "r.xlsx")
	require.NoError(t, src.SaveAs(path))
	require.NoError(t, src.Close())

	st, err := store.New(filepath.Join(dir, "weekboard.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	_, err = st.UpsertReport(ctx, &model.Report{ReportName: "r", FilePath: path})
	require.NoError(t, err)

	sel := comparison.Selection{}
	sel.Set("A", []model.Value{model.StringValue("x")})

	var stages []string
	f, err := NewExporter(st).Export(ctx, ExportOptions{
		ReportName: "r",
		Selection:  sel,
		Progress:   func(e ProgressEvent) { stages = append(stages, e.Stage) },
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = f.Close() })

	assert.Equal(t, []string{SummarySheet, "A"}, f.GetSheetList())
	data, err := f.GetRows("A")
	require.NoError(t, err)
	require.Len(t, data, 2, "only the selected category is exported")
	assert.Equal(t, []string{"x", "25"}, data[1])
	assert.Equal(t, "导出完成", stages[len(stages)-1])

	_, err = NewExporter(st).Export(ctx, ExportOptions{ReportName: "missing"})
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestReportProgress_Clamps(t *testing.T) {
	var got []int
	fn := func(e ProgressEvent) { got = append(got, e.Percent) }
	reportProgress(fn, -5, "a")
	reportProgress(fn, 150, "b")
	reportProgress(nil, 50, "c")
	assert.Equal(t, []int{0, 100}, got)
}
