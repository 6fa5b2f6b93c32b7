package comparison

import (
	"github.com/samber/lo"

	"weekboard/internal/model"
)

// BuildVisualizations 为工作表生成全部环比分析图，顺序固定：货号、货值、库存、销售、UV
func BuildVisualizations(rows []model.Row, sheetName string) []model.Visualization {
	column, ok := ResolveCategoryColumn(rows, sheetName)
	if !ok {
		return []model.Visualization{}
	}
	return buildVisualizations(rows, sheetName, column, FilterCategories(CategoryValues(rows, column), sheetName))
}

func buildVisualizations(rows []model.Row, sheetName, column string, categories []model.Value) []model.Visualization {
	out := make([]model.Visualization, 0, len(Families))
	for _, f := range Families {
		if !hasDeltaData(rows, f) {
			continue
		}
		label := f.Label + "环比分析"
		out = append(out, model.Visualization{
			Title:  label,
			Kind:   f.Kind,
			Type:   "bar",
			Series: GenerateDeltaSeries(rows, column, f.DeltaColumn, sheetName+label, categories),
		})
	}
	return out
}

// hasDeltaData 工作表中有该指标的环比列，或有通用环比列且存在对应原始列
func hasDeltaData(rows []model.Row, f MetricFamily) bool {
	if anyRowHas(rows, f.DeltaColumn) {
		return true
	}
	if !anyRowHas(rows, GenericDeltaColumn) {
		return false
	}
	return lo.SomeBy(f.Presence, func(col string) bool {
		return anyRowHas(rows, col)
	})
}

func anyRowHas(rows []model.Row, column string) bool {
	return lo.SomeBy(rows, func(r model.Row) bool { return r.Has(column) })
}
