package workbook

import (
	"errors"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"weekboard/internal/comparison"
	"weekboard/internal/logger"
	"weekboard/internal/model"
)

// ErrEmptyWorkbook 工作簿中没有可读的工作表
var ErrEmptyWorkbook = errors.New("workbook has no readable sheets")

// 时间列及其取值：同一张表中按现期 / 基期拆分
const (
	PeriodColumn  = "时间"
	PeriodCurrent = "现期"
	PeriodBase    = "基期"
)

var whitespace = regexp.MustCompile(`\s+`)

// Workbook 解析后的工作簿
type Workbook struct {
	Names  []string     // 工作表顺序（拆分出的基期表紧跟在现期表之后）
	Sheets model.Sheets // 工作表数据
}

// SheetData 转为接口响应
func (w *Workbook) SheetData() model.SheetDataResponse {
	return model.SheetDataResponse{
		Success: true,
		Data:    w.Sheets,
		Sheets:  w.Names,
	}
}

// Load 从 reader 读取 xlsx
func Load(r io.Reader) (*Workbook, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open excel: %w", err)
	}
	defer f.Close()
	return FromFile(f)
}

// LoadFile 从文件读取 xlsx
func LoadFile(path string) (*Workbook, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open excel %s: %w", path, err)
	}
	defer f.Close()
	return FromFile(f)
}

// FromFile 读取已打开工作簿中的全部工作表
func FromFile(f *excelize.File) (*Workbook, error) {
	wb := &Workbook{Sheets: model.Sheets{}}
	log := logger.L()

	for _, name := range f.GetSheetList() {
		rows, err := readSheet(f, name)
		if err != nil {
			log.Error().Err(err).Str("sheet", name).Msg("加载工作表失败")
			continue
		}
		wb.add(name, rows)
		log.Debug().Str("sheet", name).Int("rows", len(rows)).Msg("成功加载工作表")
	}

	if len(wb.Names) == 0 {
		return nil, ErrEmptyWorkbook
	}
	return wb, nil
}

// add 登记工作表；带“时间”列的表按现期 / 基期拆分
func (w *Workbook) add(name string, rows []model.Row) {
	if len(rows) == 0 || !rows[0].Has(PeriodColumn) {
		w.put(name, rows)
		return
	}

	var current, base []model.Row
	for _, r := range rows {
		switch {
		case r.Value(PeriodColumn).IsString(PeriodCurrent):
			current = append(current, r)
		case r.Value(PeriodColumn).IsString(PeriodBase):
			base = append(base, r)
		}
	}

	if len(current) > 0 {
		w.put(name, current)
	} else {
		w.put(name, rows)
	}
	if len(base) > 0 {
		w.put(comparison.BaseSheetName(name), base)
	}
}

func (w *Workbook) put(name string, rows []model.Row) {
	if _, exists := w.Sheets[name]; !exists {
		w.Names = append(w.Names, name)
	}
	if rows == nil {
		rows = []model.Row{}
	}
	w.Sheets[name] = rows
}

// readSheet 首行为表头，其余每行转为一条记录；空单元格按 0 填充
func readSheet(f *excelize.File, name string) ([]model.Row, error) {
	raw, err := f.GetRows(name, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return []model.Row{}, nil
	}

	header := make([]string, len(raw[0]))
	for i, h := range raw[0] {
		header[i] = NormalizeColumnName(h)
	}

	rows := make([]model.Row, 0, len(raw)-1)
	for _, cells := range raw[1:] {
		if blank(cells) {
			continue
		}
		var r model.Row
		for i, col := range header {
			if col == "" {
				continue
			}
			cell := ""
			if i < len(cells) {
				cell = cells[i]
			}
			r.Set(col, CellValue(cell))
		}
		rows = append(rows, r)
	}
	return rows, nil
}

// CellValue 单元格文本转为取值：空为 0，可解析为数字的为数值，其余为字符串
func CellValue(cell string) model.Value {
	s := strings.TrimSpace(cell)
	if s == "" {
		return model.NumberValue(0)
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil && !strings.ContainsAny(s, "xXnNiI") {
		return model.NumberValue(f)
	}
	return model.StringValue(s)
}

// NormalizeColumnName 规范化列名，去除所有空白字符
func NormalizeColumnName(name string) string {
	return whitespace.ReplaceAllString(strings.TrimSpace(name), "")
}

func blank(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
