package comparison

import (
	"github.com/samber/lo"

	"weekboard/internal/model"
)

// Selection 调用方持有的按工作表区分的已选分类
// 未出现的工作表视为全选
type Selection map[string][]model.Value

// SelectAll 选中工作表的全部分类
func (s Selection) SelectAll(sheetName string, options []model.Value) {
	s[sheetName] = append([]model.Value(nil), options...)
}

// Clear 取消工作表的全部选择
func (s Selection) Clear(sheetName string) {
	s[sheetName] = []model.Value{}
}

// Set 设置工作表的已选分类
func (s Selection) Set(sheetName string, selected []model.Value) {
	s[sheetName] = append([]model.Value(nil), selected...)
}

// Selected 工作表的已选分类，ok 为 false 表示未设置（全选）
func (s Selection) Selected(sheetName string) ([]model.Value, bool) {
	v, ok := s[sheetName]
	return v, ok
}

// Apply 仅保留已选分类的数据点，保持原有排序
func (s Selection) Apply(sheetName string, vis []model.Visualization) []model.Visualization {
	selected, ok := s[sheetName]
	if !ok {
		return vis
	}
	out := make([]model.Visualization, 0, len(vis))
	for _, v := range vis {
		points := lo.Filter(v.Series.Points, func(p model.SeriesPoint, _ int) bool {
			return lo.Contains(selected, p.Category)
		})
		v.Series = model.NewChartSeries(v.Series.Title, points)
		out = append(out, v)
	}
	return out
}
