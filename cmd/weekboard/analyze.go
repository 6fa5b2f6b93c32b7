package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"weekboard/internal/cli"
	"weekboard/internal/client"
	"weekboard/internal/comparison"
	"weekboard/internal/model"
	"weekboard/internal/workbook"
)

func analyzeCmd() *cobra.Command {
	var (
		sheet       string
		remote      string
		description bool
	)

	cmd := &cobra.Command{
		Use:   "analyze <file.xlsx | report-name>",
		Short: "输出各工作表的环比分析",
		Long:  "本地模式直接读取 xlsx；指定 --remote 时参数为报告名，通过服务端接口获取分析结果。",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if remote != "" {
				return analyzeRemote(cmd, out, client.New(remote), args[0], sheet, description)
			}

			wb, err := workbook.LoadFile(args[0])
			if err != nil {
				return err
			}
			order := wb.Names
			if sheet != "" {
				order = []string{sheet}
			}
			dashboards, err := comparison.AnalyzeAll(cmd.Context(), wb.Sheets, order)
			if err != nil {
				return err
			}
			return renderAll(out, dashboards)
		},
	}

	cmd.Flags().StringVar(&sheet, "sheet", "", "只分析指定工作表")
	cmd.Flags().StringVar(&remote, "remote", "", "服务端地址，如 http://localhost:20262")
	cmd.Flags().BoolVar(&description, "description", false, "远程模式下输出报告描述")
	return cmd
}

func analyzeRemote(cmd *cobra.Command, out io.Writer, c *client.Client, report, sheet string, description bool) error {
	ctx := cmd.Context()
	if description {
		desc, err := c.GetDescription(ctx, report)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(out, desc)
		return err
	}

	sheets := []string{sheet}
	if sheet == "" {
		data, err := c.GetSheetData(ctx, report)
		if err != nil {
			return err
		}
		sheets = comparison.CurrentSheets(data.Sheets)
	}

	dashboards := make([]*model.Dashboard, 0, len(sheets))
	for _, name := range sheets {
		d, err := c.GetDashboard(ctx, report, name)
		if err != nil {
			return err
		}
		dashboards = append(dashboards, d)
	}
	return renderAll(out, dashboards)
}

func renderAll(out io.Writer, dashboards []*model.Dashboard) error {
	for _, d := range dashboards {
		if err := cli.RenderDashboard(out, d); err != nil {
			return err
		}
		fmt.Fprintln(out)
	}
	return nil
}
