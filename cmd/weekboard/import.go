package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"weekboard/internal/cli"
	"weekboard/internal/importer"
)

func importCmd() *cobra.Command {
	var (
		name  string
		force bool
	)

	cmd := &cobra.Command{
		Use:   "import <file.xlsx>...",
		Short: "导入周报文件并生成分析",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if name != "" && len(args) > 1 {
				return fmt.Errorf("--name 只能用于单个文件")
			}

			st, dir, err := openStore()
			if err != nil {
				return err
			}
			defer st.Close()

			coord := newCoordinator(st, dir)
			out := cmd.OutOrStdout()
			failed := 0
			for _, path := range args {
				fmt.Fprintln(out, cli.HeaderStyle.Render("导入 "+path))
				progress := cli.NewImportProgress(out)
				var hadError bool
				for evt := range coord.Import(cmd.Context(), importer.ImportOptions{
					FilePath:   path,
					ReportName: name,
					Copy:       true,
					Force:      force,
				}) {
					progress.Handle(evt)
					if evt.Type == importer.EventError {
						hadError = true
					}
				}
				if hadError {
					failed++
				}
			}
			if failed > 0 {
				return fmt.Errorf("%d 个文件导入失败", failed)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "报告名 (默认取文件名)")
	cmd.Flags().BoolVar(&force, "force", false, "文件未变化时也重新分析")
	return cmd
}
