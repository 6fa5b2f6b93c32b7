package cli

import (
	"fmt"
	"io"

	"github.com/schollz/progressbar/v3"

	"weekboard/internal/importer"
)

// ImportProgress 把导入进度事件显示为进度条
type ImportProgress struct {
	w   io.Writer
	bar *progressbar.ProgressBar
}

// NewImportProgress 创建导入进度显示
func NewImportProgress(w io.Writer) *ImportProgress {
	return &ImportProgress{w: w}
}

// Handle 处理一条进度事件
func (p *ImportProgress) Handle(evt importer.ProgressEvent) {
	switch evt.Type {
	case importer.EventInfo:
		if data, ok := evt.Data.(map[string]interface{}); ok {
			if total, ok := data["analyze_sheets"].(int); ok {
				p.start(total)
			}
		}
	case importer.EventSheetDone:
		if p.bar != nil {
			_ = p.bar.Add(1)
		}
	case importer.EventDone:
		p.finish()
		fmt.Fprintln(p.w, SuccessStyle.Render("✔ "+evt.Message))
	case importer.EventError:
		p.finish()
		fmt.Fprintln(p.w, ErrorStyle.Render("✘ "+evt.Message))
	}
}

func (p *ImportProgress) start(total int) {
	p.bar = progressbar.NewOptions(total,
		progressbar.OptionSetWriter(p.w),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetDescription("[cyan]分析工作表[reset]"),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
	)
}

func (p *ImportProgress) finish() {
	if p.bar == nil {
		return
	}
	_ = p.bar.Finish()
	fmt.Fprintln(p.w)
	p.bar = nil
}
