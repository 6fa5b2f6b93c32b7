package comparison

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"weekboard/internal/logger"
	"weekboard/internal/model"
)

// 并发分析工作表的上限
const analyzeConcurrency = 4

// EmptyDashboard 空结果：指标为 0，无分类、无图表
func EmptyDashboard(sheetName string) *model.Dashboard {
	return &model.Dashboard{
		Sheet:          sheetName,
		Categories:     []model.Value{},
		Visualizations: []model.Visualization{},
	}
}

// Analyze 分析单个工作表：基期关联 → 汇总指标 → 分类列表 → 环比图表
//
// 分析过程中的异常会被记录并降级为空结果，不会向调用方传播。
func Analyze(ctx context.Context, sheets model.Sheets, activeSheetName string) (dash *model.Dashboard) {
	log := logger.FromContext(ctx)

	defer func() {
		if r := recover(); r != nil {
			log.Error().
				Str("sheet", activeSheetName).
				Str("panic", fmt.Sprint(r)).
				Msg("生成可视化出错")
			dash = EmptyDashboard(activeSheetName)
		}
	}()

	if _, ok := sheets[activeSheetName]; !ok {
		log.Warn().Str("sheet", activeSheetName).Msg("工作表不存在")
		return EmptyDashboard(activeSheetName)
	}

	rows := ApplyPeriodComparison(sheets, activeSheetName)

	dash = EmptyDashboard(activeSheetName)
	dash.Metrics = ExtractMetrics(rows)

	column, ok := ResolveCategoryColumn(rows, activeSheetName)
	if !ok {
		log.Debug().Str("sheet", activeSheetName).Msg("未识别到分类列")
		return dash
	}
	dash.CategoryColumn = column
	dash.Categories = FilterCategories(CategoryValues(rows, column), activeSheetName)
	dash.Visualizations = buildVisualizations(rows, activeSheetName, column, dash.Categories)

	log.Debug().
		Str("sheet", activeSheetName).
		Str("category_column", column).
		Int("categories", len(dash.Categories)).
		Int("charts", len(dash.Visualizations)).
		Msg("工作表分析完成")
	return dash
}

// IsBaseSheet 是否为基期工作表
func IsBaseSheet(sheetName string) bool {
	return strings.HasSuffix(sheetName, BasePeriodSuffix)
}

// CurrentSheets 过滤掉基期工作表，保持顺序
func CurrentSheets(order []string) []string {
	out := make([]string, 0, len(order))
	for _, name := range order {
		if !IsBaseSheet(name) {
			out = append(out, name)
		}
	}
	return out
}

// AnalyzeAll 并发分析全部现期工作表，结果与 order 中的顺序一致
func AnalyzeAll(ctx context.Context, sheets model.Sheets, order []string) ([]*model.Dashboard, error) {
	names := CurrentSheets(order)
	out := make([]*model.Dashboard, len(names))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(analyzeConcurrency)
	for i, name := range names {
		i, name := i, name
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			out[i] = Analyze(gctx, sheets, name)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("analyze sheets: %w", err)
	}
	return out, nil
}
