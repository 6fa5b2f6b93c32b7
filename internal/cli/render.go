package cli

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"weekboard/internal/model"
	"weekboard/internal/narrative"
)

// RenderDashboard 以表格形式输出单个工作表的分析结果
func RenderDashboard(w io.Writer, d *model.Dashboard) error {
	if _, err := fmt.Fprintln(w, TitleStyle.Render("📊 "+d.Sheet)); err != nil {
		return err
	}

	metrics := fmt.Sprintf("货号数 %s  货值 %s 万元  库存数 %s  销售额 %s 万元",
		trim(d.Metrics.TotalGoods), trim(d.Metrics.TotalValue), trim(d.Metrics.TotalInventory), trim(d.Metrics.TotalSales))
	if _, err := fmt.Fprintln(w, BoxStyle.Render(metrics)); err != nil {
		return err
	}

	if len(d.Visualizations) == 0 {
		_, err := fmt.Fprintln(w, SubtleStyle.Render("本表没有可对比的环比数据"))
		return err
	}

	for _, v := range d.Visualizations {
		if err := renderSeries(w, d.CategoryColumn, v); err != nil {
			return err
		}
	}
	return nil
}

func renderSeries(w io.Writer, column string, v model.Visualization) error {
	if _, err := fmt.Fprintf(w, "\n%s\n", HeaderStyle.Render(v.Title)); err != nil {
		return err
	}
	if len(v.Series.Points) == 0 {
		_, err := fmt.Fprintln(w, SubtleStyle.Render("  各分类环比无变化"))
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "  %s\t%s\n", column, "环比")
	fmt.Fprintf(tw, "  %s\t%s\n", strings.Repeat("─", 8), strings.Repeat("─", 10))
	for _, p := range v.Series.Points {
		style := UpStyle
		if p.Value < 0 {
			style = DownStyle
		}
		fmt.Fprintf(tw, "  %s\t%s\n", p.Name, style.Render(narrative.Percent(p.Value)))
	}
	return tw.Flush()
}

func trim(v float64) string {
	s := fmt.Sprintf("%.2f", v)
	s = strings.TrimRight(strings.TrimRight(s, "0"), ".")
	if s == "-0" {
		return "0"
	}
	return s
}
