package model

// MetricKind 环比指标族
type MetricKind string

const (
	MetricGoods     MetricKind = "goods"
	MetricValue     MetricKind = "value"
	MetricInventory MetricKind = "inventory"
	MetricSales     MetricKind = "sales"
	MetricUV        MetricKind = "uv"
)

// Metrics 当前工作表的汇总指标（货值、销售额单位为万元）
type Metrics struct {
	TotalGoods     float64 `json:"totalGoods"`
	TotalValue     float64 `json:"totalValue"`
	TotalInventory float64 `json:"totalInventory"`
	TotalSales     float64 `json:"totalSales"`
}

const (
	ColorPositive = "#91cc75"
	ColorNegative = "#ee6666"

	LabelTop    = "top"
	LabelBottom = "bottom"
)

// SeriesPoint 图表中的一个分类柱
type SeriesPoint struct {
	Name          string  `json:"name"`
	Category      Value   `json:"category"`
	Value         float64 `json:"value"`
	Color         string  `json:"color"`
	LabelPosition string  `json:"labelPosition"`
}

// NewSeriesPoint 按正负号附带颜色和标签位置
func NewSeriesPoint(category Value, value float64) SeriesPoint {
	p := SeriesPoint{
		Name:          category.String(),
		Category:      category,
		Value:         value,
		Color:         ColorPositive,
		LabelPosition: LabelTop,
	}
	if value < 0 {
		p.Color = ColorNegative
		p.LabelPosition = LabelBottom
	}
	return p
}

// ChartSeries 环比百分比柱状图数据
type ChartSeries struct {
	Title         string        `json:"title"`
	XAxis         []string      `json:"xAxis"`
	Data          []float64     `json:"data"`
	Points        []SeriesPoint `json:"points"`
	ReferenceLine float64       `json:"referenceLine"`
}

// NewChartSeries 由有序的数据点构造图表数据
func NewChartSeries(title string, points []SeriesPoint) ChartSeries {
	s := ChartSeries{
		Title:  title,
		XAxis:  make([]string, 0, len(points)),
		Data:   make([]float64, 0, len(points)),
		Points: points,
	}
	if s.Points == nil {
		s.Points = []SeriesPoint{}
	}
	for _, p := range points {
		s.XAxis = append(s.XAxis, p.Name)
		s.Data = append(s.Data, p.Value)
	}
	return s
}

// Visualization 一个指标的环比分析图
type Visualization struct {
	Title  string      `json:"title"`
	Kind   MetricKind  `json:"metricKind"`
	Type   string      `json:"type"`
	Series ChartSeries `json:"series"`
}

// Dashboard 单个工作表的分析结果
type Dashboard struct {
	Sheet          string          `json:"sheet"`
	CategoryColumn string          `json:"categoryColumn"`
	Metrics        Metrics         `json:"metrics"`
	Categories     []Value         `json:"categories"`
	Visualizations []Visualization `json:"visualizations"`
}
