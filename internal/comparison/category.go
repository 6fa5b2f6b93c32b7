package comparison

import (
	"strings"

	"github.com/samber/lo"

	"weekboard/internal/model"
)

// ResolveCategoryColumn 推断工作表的分类列
//
// 先按固定优先级匹配首行中存在的列，都不存在时取首行中第一个字符串取值
// 且列名不含“时间”的列。货盘概况 在两步中都不会选中 是否动销。
func ResolveCategoryColumn(rows []model.Row, sheetName string) (string, bool) {
	if len(rows) == 0 {
		return "", false
	}
	first := rows[0]

	for _, col := range categoryPriority {
		if skipColumn(sheetName, col) {
			continue
		}
		if first.Has(col) {
			return col, true
		}
	}

	for _, key := range first.Keys() {
		if strings.Contains(key, timeMarker) || skipColumn(sheetName, key) {
			continue
		}
		if first.Value(key).Kind() == model.KindString {
			return key, true
		}
	}
	return "", false
}

// skipColumn 货盘概况 不使用 是否动销 作为分类列
func skipColumn(sheetName, column string) bool {
	return sheetName == SheetOverview && column == SheetSellThrough
}

// CategoryValues 收集分类列的原始取值（含重复，按行顺序）
func CategoryValues(rows []model.Row, column string) []model.Value {
	out := make([]model.Value, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.Value(column))
	}
	return out
}

// FilterCategories 去重后过滤出可供选择和绘图的分类取值，保留首次出现顺序
func FilterCategories(raw []model.Value, sheetName string) []model.Value {
	return lo.Filter(lo.Uniq(raw), func(v model.Value, _ int) bool {
		return keepCategory(v, sheetName)
	})
}

func keepCategory(v model.Value, sheetName string) bool {
	if v.IsNull() || v.IsString("") || v.IsString(ValueYes) || v.IsString(ValueNo) {
		return false
	}
	if v.IsString(ValueTotal) && sheetName != SheetWeeklyNew {
		return false
	}
	// 读取工作簿时哨兵值已转为数值，按文本形式比较
	if sheetName == SheetSellThrough && v.String() == malformedSentinel {
		return false
	}
	s, isStr := v.Str()
	if !isStr {
		return true
	}
	if sheetName == SheetPriceBand || sheetName == SheetSellThrough {
		if _, ok := priceBands[s]; ok {
			return false
		}
	}
	return true
}

// isYesNo 是否为 是/否 取值
func isYesNo(v model.Value) bool {
	return v.IsString(ValueYes) || v.IsString(ValueNo)
}
