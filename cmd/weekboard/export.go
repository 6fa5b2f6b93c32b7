package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"weekboard/internal/cli"
	"weekboard/internal/exporter"
)

func exportCmd() *cobra.Command {
	var (
		output string
		sheets []string
	)

	cmd := &cobra.Command{
		Use:   "export <report-name>",
		Short: "导出报告的环比数据与柱状图",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, _, err := openStore()
			if err != nil {
				return err
			}
			defer st.Close()

			if output == "" {
				output = args[0] + "-环比分析.xlsx"
			}

			f, err := exporter.NewExporter(st).Export(cmd.Context(), exporter.ExportOptions{
				ReportName: args[0],
				Sheets:     sheets,
			})
			if err != nil {
				return err
			}
			defer f.Close()

			if err := f.SaveAs(output); err != nil {
				return fmt.Errorf("写入导出文件失败: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), cli.SuccessStyle.Render("已导出: "+output))
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "输出文件 (默认: <报告名>-环比分析.xlsx)")
	cmd.Flags().StringSliceVar(&sheets, "sheet", nil, "只导出指定工作表，可重复")
	return cmd
}
