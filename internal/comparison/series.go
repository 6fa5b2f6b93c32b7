package comparison

import (
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"weekboard/internal/model"
)

// leadingNumber 匹配字符串开头的数字部分，如 "12.5" / "-3" / ".5e2"
var leadingNumber = regexp.MustCompile(`^\s*[-+]?(\d+\.?\d*|\.\d+)([eE][-+]?\d+)?`)

// ParsePercent 解析环比取值：数值直接使用，"12.5%" 形式的字符串去掉百分号后解析
// 其它取值返回 false
func ParsePercent(v model.Value) (float64, bool) {
	if f, ok := v.Number(); ok {
		return f, finite(f)
	}
	s, ok := v.Str()
	if !ok || !strings.Contains(s, "%") {
		return 0, false
	}
	m := leadingNumber.FindString(strings.Replace(s, "%", "", 1))
	if m == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(m), 64)
	if err != nil || !finite(f) {
		return 0, false
	}
	return f, true
}

// forcedZero 是/否 以及 总计（标题不含 是否周新款 时）不参与图表
func forcedZero(category model.Value, title string) bool {
	if isYesNo(category) {
		return true
	}
	return category.IsString(ValueTotal) && !strings.Contains(title, SheetWeeklyNew)
}

// GenerateDeltaSeries 生成一个指标的环比柱状图数据
//
// 每个分类在匹配行中依次查找 deltaField 和通用“环比”列，取第一个非零值；
// 去掉零值和哨兵分类后按绝对值从大到小稳定排序。
func GenerateDeltaSeries(rows []model.Row, categoryColumn, deltaField, title string, categories []model.Value) model.ChartSeries {
	lookup := []string{deltaField, GenericDeltaColumn}

	points := make([]model.SeriesPoint, 0, len(categories))
	for _, category := range categories {
		value := 0.0
		if !forcedZero(category, title) {
			value = categoryDelta(rows, categoryColumn, category, lookup)
		}
		points = append(points, model.NewSeriesPoint(category, value))
	}

	kept := points[:0]
	for _, p := range points {
		if p.Value == 0 || forcedZero(p.Category, title) {
			continue
		}
		kept = append(kept, p)
	}

	sort.SliceStable(kept, func(i, j int) bool {
		return math.Abs(kept[i].Value) > math.Abs(kept[j].Value)
	})

	return model.NewChartSeries(title, kept)
}

func categoryDelta(rows []model.Row, column string, category model.Value, lookup []string) float64 {
	value := 0.0
	for _, row := range rows {
		if !row.Value(column).Equal(category) {
			continue
		}
		for _, col := range lookup {
			raw, ok := row.Get(col)
			if !ok {
				continue
			}
			if f, ok := ParsePercent(raw); ok {
				value = Round2(f)
			} else {
				value = 0
			}
			break
		}
		if value != 0 {
			break
		}
	}
	return value
}
