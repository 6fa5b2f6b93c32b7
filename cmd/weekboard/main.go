package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"weekboard/internal/config"
	"weekboard/internal/logger"
)

var (
	cfgFile  string
	dataDir  string
	logLevel string

	cfg     *config.AppConfig
	cfgInfo config.LoadConfigInfo

	rootCmd = &cobra.Command{
		Use:               "weekboard",
		Short:             "周报环比分析工具",
		Long:              "weekboard 读取周报 xlsx，按现期 / 基期计算各分类环比，生成图表数据、分析描述与导出文件。",
		SilenceUsage:      true,
		PersistentPreRunE: initConfig,
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "配置文件 (默认: 可执行文件同目录下的 config.toml)")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", "", "数据目录 (覆盖配置文件)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "日志级别 (debug, info, warn, error)")

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(importCmd())
	rootCmd.AddCommand(scanCmd())
	rootCmd.AddCommand(analyzeCmd())
	rootCmd.AddCommand(exportCmd())
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()

	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func initConfig(cmd *cobra.Command, _ []string) error {
	path := cfgFile
	if path == "" {
		path = config.DefaultPath()
	}

	var err error
	cfg, cfgInfo, err = config.LoadFrom(path)
	if err != nil {
		return fmt.Errorf("加载配置失败: %w", err)
	}

	if dataDir != "" {
		cfg.Data.DataDir = dataDir
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}

	logger.Init(cfg.Log.Level, cfg.Log.File)
	return nil
}
