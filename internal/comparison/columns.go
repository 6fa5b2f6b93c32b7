package comparison

import "weekboard/internal/model"

// 基期工作表后缀
const BasePeriodSuffix = "_基期"

// 哨兵取值
const (
	ValueYes   = "是"
	ValueNo    = "否"
	ValueTotal = "总计"

	// 是否动销 工作表中数据源写出的异常取值
	malformedSentinel = "-2146826246"
)

// 特殊工作表
const (
	SheetOverview    = "货盘概况"
	SheetWeeklyNew   = "是否周新款"
	SheetPriceBand   = "价格段"
	SheetSellThrough = "是否动销"
)

// 通用环比列（预先计算好的工作表）
const GenericDeltaColumn = "环比"

// 包含该子串的列不会被推断为分类列
const timeMarker = "时间"

// categoryPriority 分类列候选，按顺序匹配
var categoryPriority = []string{
	"三级分类",
	"是否本季新款",
	"是否周新款",
	"是否动销",
	"价格段",
	"四级分类",
	"资源分布",
}

// totalRowColumns 用于识别总计行的列
var totalRowColumns = []string{
	"三级分类",
	"是否本季新款",
	"是否周新款",
	"价格段",
	"四级分类",
	"资源分布",
	"是否动销",
}

// priceBands 价格段 / 是否动销 工作表中不参与图表的价格段标签
var priceBands = map[string]struct{}{
	"100-149": {},
	"150-199": {},
	"200-249": {},
	"250-299": {},
	"300-349": {},
	"350-399": {},
	"400-449": {},
	"450-499": {},
	"500-549": {},
	"550-599": {},
	"600以上":  {},
}

// 原始数值列
const (
	ColGoodsLastWeek = "上周货号数"
	ColGoods         = "货号数"
	ColValueLastWeek = "上周货值"
	ColValue         = "货值"
	ColInventory     = "库存数"
	ColSalesLastWeek = "上周销售"
	ColSales         = "销售"
	ColUVLastWeek    = "上周UV"
	ColUV            = "UV"
)

// MetricFamily 一个环比指标族
type MetricFamily struct {
	Kind        model.MetricKind
	Label       string   // 图表标题中的指标名
	Source      string   // 参与环比计算的原始列
	DeltaColumn string   // 计算得到的环比列
	Presence    []string // 与通用环比列搭配时，工作表中需存在的原始列（任一）
}

// Families 五个指标族，顺序即图表输出顺序
var Families = []MetricFamily{
	{Kind: model.MetricGoods, Label: "货号", Source: ColGoodsLastWeek, DeltaColumn: "货号环比", Presence: []string{ColGoodsLastWeek}},
	{Kind: model.MetricValue, Label: "货值", Source: ColValueLastWeek, DeltaColumn: "货值环比", Presence: []string{ColValueLastWeek}},
	{Kind: model.MetricInventory, Label: "库存", Source: ColInventory, DeltaColumn: "库存环比", Presence: []string{ColInventory}},
	{Kind: model.MetricSales, Label: "销售", Source: ColSalesLastWeek, DeltaColumn: "销售环比", Presence: []string{ColSalesLastWeek}},
	{Kind: model.MetricUV, Label: "UV", Source: ColUVLastWeek, DeltaColumn: "UV环比", Presence: []string{ColUVLastWeek, ColUV}},
}

// FamilyOf 按指标类型查找指标族
func FamilyOf(kind model.MetricKind) (MetricFamily, bool) {
	for _, f := range Families {
		if f.Kind == kind {
			return f, true
		}
	}
	return MetricFamily{}, false
}
