package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"weekboard/internal/importer"
	"weekboard/internal/model"
)

func TestRenderDashboard(t *testing.T) {
	d := &model.Dashboard{
		Sheet:          "三级分类",
		CategoryColumn: "三级分类",
		Metrics:        model.Metrics{TotalGoods: 200, TotalValue: 8.5},
		Visualizations: []model.Visualization{
			{Title: "货号环比分析", Series: model.NewChartSeries("t", []model.SeriesPoint{
				model.NewSeriesPoint(model.StringValue("裤子"), -10),
				model.NewSeriesPoint(model.StringValue("T恤"), 25),
			})},
			{Title: "货值环比分析", Series: model.NewChartSeries("t", nil)},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, RenderDashboard(&buf, d))
	out := buf.String()

	assert.Contains(t, out, "三级分类")
	assert.Contains(t, out, "货号数 200")
	assert.Contains(t, out, "货值 8.5 万元")
	assert.Contains(t, out, "货号环比分析")
	assert.Contains(t, out, "-10.00%")
	assert.Contains(t, out, "+25.00%")
	assert.Contains(t, out, "各分类环比无变化")
}

func TestRenderDashboard_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderDashboard(&buf, &model.Dashboard{Sheet: "A"}))
	assert.Contains(t, buf.String(), "本表没有可对比的环比数据")
}

func TestTrim(t *testing.T) {
	assert.Equal(t, "200", trim(200))
	assert.Equal(t, "8.5", trim(8.5))
	assert.Equal(t, "0", trim(-0.001))
}

func TestImportProgress(t *testing.T) {
	var buf bytes.Buffer
	p := NewImportProgress(&buf)
	p.Handle(importer.ProgressEvent{Type: importer.EventStart})
	p.Handle(importer.ProgressEvent{Type: importer.EventInfo, Data: map[string]interface{}{"analyze_sheets": 2}})
	p.Handle(importer.ProgressEvent{Type: importer.EventSheetDone})
	p.Handle(importer.ProgressEvent{Type: importer.EventDone, Message: "导入完成"})

	assert.Contains(t, buf.String(), "导入完成")
	assert.Nil(t, p.bar)
}
