// Package cli 终端输出：lipgloss 样式、分析结果表格与导入进度条。
package cli

import (
	"github.com/charmbracelet/lipgloss"

	"weekboard/internal/model"
)

var (
	// 与图表一致的涨跌配色
	UpColor     = lipgloss.Color(model.ColorPositive)
	DownColor   = lipgloss.Color(model.ColorNegative)
	InfoColor   = lipgloss.Color("#5470c6")
	SubtleColor = lipgloss.Color("#666666")

	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(InfoColor).
			MarginBottom(1)

	HeaderStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86"))
	UpStyle      = lipgloss.NewStyle().Foreground(UpColor)
	DownStyle    = lipgloss.NewStyle().Foreground(DownColor)
	SubtleStyle  = lipgloss.NewStyle().Foreground(SubtleColor)
	SuccessStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#4ECDC4"))
	ErrorStyle   = lipgloss.NewStyle().Foreground(DownColor)

	BoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#333")).
			Padding(0, 1)
)
