package comparison

import (
	"strconv"
	"strings"

	"github.com/samber/lo"

	"weekboard/internal/model"
)

// 货值、销售额换算为万元
const tenThousand = 10000

// FindTotalRow 查找总计行：任一分类列取值为“总计”的第一行
func FindTotalRow(rows []model.Row) (model.Row, bool) {
	return lo.Find(rows, func(r model.Row) bool {
		for _, col := range totalRowColumns {
			if r.Value(col).IsString(ValueTotal) {
				return true
			}
		}
		return false
	})
}

// ExtractMetrics 提取汇总指标
//
// 优先使用总计行的取值；没有总计行时对全部行求和。
// 缺失或非数值字段按 0 处理，不会失败。
func ExtractMetrics(rows []model.Row) model.Metrics {
	if total, ok := FindTotalRow(rows); ok {
		return model.Metrics{
			TotalGoods:     firstNumber(total, ColGoodsLastWeek, ColGoods),
			TotalValue:     firstNumber(total, ColValueLastWeek, ColValue) / tenThousand,
			TotalInventory: firstNumber(total, ColInventory),
			TotalSales:     firstNumber(total, ColSalesLastWeek, ColSales) / tenThousand,
		}
	}

	var m model.Metrics
	for _, r := range rows {
		m.TotalGoods += firstNumber(r, ColGoodsLastWeek, ColGoods)
		m.TotalValue += firstNumber(r, ColValueLastWeek, ColValue)
		m.TotalInventory += firstNumber(r, ColInventory)
		m.TotalSales += firstNumber(r, ColSalesLastWeek, ColSales)
	}
	m.TotalValue /= tenThousand
	m.TotalSales /= tenThousand
	return m
}

// firstNumber 按顺序取第一个存在且非空的字段并转为数值，无法转换时为 0
func firstNumber(r model.Row, columns ...string) float64 {
	for _, col := range columns {
		v, ok := r.Get(col)
		if !ok || v.IsNull() {
			continue
		}
		if f, ok := coerceNumber(v); ok {
			return f
		}
		return 0
	}
	return 0
}

// coerceNumber 数值直接返回，数字字符串解析后返回
func coerceNumber(v model.Value) (float64, bool) {
	if f, ok := v.Number(); ok {
		return f, finite(f)
	}
	s, ok := v.Str()
	if !ok {
		return 0, false
	}
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || !finite(f) {
		return 0, false
	}
	return f, true
}
