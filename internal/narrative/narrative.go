// Package narrative 把各工作表的分析结果整理为 markdown 文字，作为报告描述保存。
package narrative

import (
	"fmt"
	"strings"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"weekboard/internal/model"
)

// TopN 每个方向列出的分类数
const TopN = 3

// Render 生成整份报告的分析描述
func Render(reportName string, dashboards []*model.Dashboard) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s 周报分析\n", reportName)

	if len(dashboards) == 0 {
		b.WriteString("\n暂无可分析的工作表。\n")
		return b.String()
	}

	for _, d := range dashboards {
		if d == nil {
			continue
		}
		writeSheet(&b, d)
	}
	return b.String()
}

func writeSheet(b *strings.Builder, d *model.Dashboard) {
	fmt.Fprintf(b, "\n## %s\n\n", d.Sheet)

	b.WriteString("| 指标 | 数值 |\n|---|---|\n")
	fmt.Fprintf(b, "| 货号数 | %s |\n", fixed(d.Metrics.TotalGoods, 0))
	fmt.Fprintf(b, "| 货值（万元） | %s |\n", fixed(d.Metrics.TotalValue, 2))
	fmt.Fprintf(b, "| 库存数 | %s |\n", fixed(d.Metrics.TotalInventory, 0))
	fmt.Fprintf(b, "| 销售额（万元） | %s |\n", fixed(d.Metrics.TotalSales, 2))

	if len(d.Visualizations) == 0 {
		b.WriteString("\n本表没有可对比的环比数据。\n")
		return
	}

	for _, v := range d.Visualizations {
		fmt.Fprintf(b, "\n### %s\n\n", v.Title)
		writeMovers(b, v.Series.Points)
	}
}

// writeMovers 列出增幅、降幅最大的分类；数据点已按绝对值降序排列
func writeMovers(b *strings.Builder, points []model.SeriesPoint) {
	if len(points) == 0 {
		b.WriteString("- 各分类环比无变化\n")
		return
	}

	up := lo.Filter(points, func(p model.SeriesPoint, _ int) bool { return p.Value > 0 })
	down := lo.Filter(points, func(p model.SeriesPoint, _ int) bool { return p.Value < 0 })

	if len(up) > 0 {
		fmt.Fprintf(b, "- 增幅最大：%s\n", join(up))
	}
	if len(down) > 0 {
		fmt.Fprintf(b, "- 降幅最大：%s\n", join(down))
	}
	fmt.Fprintf(b, "- 上升 %d 个分类，下降 %d 个分类\n", len(up), len(down))
}

func join(points []model.SeriesPoint) string {
	top := points[:min(TopN, len(points))]
	parts := lo.Map(top, func(p model.SeriesPoint, _ int) string {
		return fmt.Sprintf("%s %s", p.Name, Percent(p.Value))
	})
	return strings.Join(parts, "、")
}

// Percent 带符号的百分比文本，如 +12.50%
func Percent(v float64) string {
	s := fixed(v, 2) + "%"
	if v > 0 {
		return "+" + s
	}
	return s
}

func fixed(v float64, places int32) string {
	return decimal.NewFromFloat(v).StringFixed(places)
}
