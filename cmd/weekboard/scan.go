package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"weekboard/internal/cli"
	"weekboard/internal/config"
	"weekboard/internal/importer"
)

func scanCmd() *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "scan",
		Short: "立即分析上传目录中的全部周报",
		RunE: func(cmd *cobra.Command, _ []string) error {
			st, dataDir, err := openStore()
			if err != nil {
				return err
			}
			defer st.Close()

			if dir == "" {
				dir = config.UploadDir(cfg, dataDir)
			}
			scanner := importer.NewScanner(newCoordinator(st, dataDir), dir, importer.DefaultSchedule())
			reports, err := scanner.ScanOnce(cmd.Context())
			if err != nil {
				return err
			}

			if len(reports) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), cli.SubtleStyle.Render("目录中没有可分析的周报: "+dir))
				return nil
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintf(w, "%s\t%s\t%s\n", cli.HeaderStyle.Render("报告"), cli.HeaderStyle.Render("工作表"), cli.HeaderStyle.Render("状态"))
			for _, r := range reports {
				status := cli.SuccessStyle.Render("已分析")
				if r.Unchanged {
					status = cli.SubtleStyle.Render("未变化")
				}
				fmt.Fprintf(w, "%s\t%d\t%s\n", r.ReportName, r.AnalyzedSheets, status)
			}
			return w.Flush()
		},
	}

	cmd.Flags().StringVar(&dir, "dir", "", "扫描目录 (默认: 配置中的 upload_dir 或 data/uploads)")
	return cmd
}
