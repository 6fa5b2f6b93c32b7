package comparison

import (
	"math"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"weekboard/internal/model"
)

var hundred = decimal.NewFromInt(100)

// BaseSheetName 当前工作表对应的基期工作表名
func BaseSheetName(sheetName string) string {
	return sheetName + BasePeriodSuffix
}

// CalculateDelta 环比百分比 (current-base)/base*100，保留两位小数
// base 为 0 或任一侧非有限数时返回 0
func CalculateDelta(current, base float64) float64 {
	if base == 0 || !finite(current) || !finite(base) {
		return 0
	}
	cur := decimal.NewFromFloat(current)
	b := decimal.NewFromFloat(base)
	pct, _ := cur.Sub(b).Div(b).Mul(hundred).Round(2).Float64()
	return pct
}

// Round2 四舍五入到两位小数（远离零方向），非有限数返回 0
func Round2(f float64) float64 {
	if !finite(f) {
		return 0
	}
	out, _ := decimal.NewFromFloat(f).Round(2).Float64()
	return out
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// ApplyPeriodComparison 将当前工作表与基期工作表按分类列关联并计算环比
//
// 没有基期工作表或无法推断分类列时原样返回当前行。
// 返回新切片，输入行不会被修改。
func ApplyPeriodComparison(sheets model.Sheets, activeSheetName string) []model.Row {
	current := sheets[activeSheetName]
	base, ok := sheets[BaseSheetName(activeSheetName)]
	if !ok {
		return current
	}

	column, ok := ResolveCategoryColumn(current, activeSheetName)
	if !ok {
		return current
	}

	out := make([]model.Row, 0, len(current))
	for _, row := range current {
		out = append(out, joinRow(row, base, column))
	}
	return out
}

func joinRow(row model.Row, base []model.Row, column string) model.Row {
	key := row.Value(column)
	if isYesNo(key) {
		return row
	}

	baseRow, found := lo.Find(base, func(b model.Row) bool {
		return b.Value(column).Equal(key)
	})
	if !found {
		return row
	}

	result := row.Clone()
	for _, f := range Families {
		cur, ok := row.Number(f.Source)
		if !ok {
			continue
		}
		prev, ok := baseRow.Number(f.Source)
		if !ok || prev == 0 {
			continue
		}
		result.Set(f.DeltaColumn, model.NumberValue(CalculateDelta(cur, prev)))
	}
	return result
}
