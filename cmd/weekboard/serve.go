package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"weekboard/internal/logger"
	"weekboard/internal/server"
	"weekboard/internal/util"
)

func serveCmd() *cobra.Command {
	var (
		port        int
		devMode     bool
		openBrowser bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "启动 HTTP 服务与定时分析",
		RunE: func(cmd *cobra.Command, _ []string) error {
			log := logger.L()

			// config.toml 显式配置的端口优先
			if port > 0 && !cfgInfo.PortSpecified {
				cfg.Server.Port = port
			}
			if devMode {
				cfg.Server.DevMode = true
			}
			if !cfgInfo.PortSpecified && port == 0 {
				if p, err := util.FindAvailablePort(cfg.Server.Port, 20); err == nil {
					cfg.Server.Port = p
				}
			}

			srv, err := server.NewServer(cfg)
			if err != nil {
				return err
			}
			defer srv.Close()

			url := fmt.Sprintf("http://localhost:%d", cfg.Server.Port)
			log.Info().Str("url", url).Bool("schedule", cfg.Schedule.Enabled).Msg("weekboard 已启动")
			if openBrowser {
				if err := util.OpenBrowserWithFallback(url + "/api/status"); err != nil {
					log.Warn().Err(err).Msgf("无法自动打开浏览器，请手动访问: %s", url)
				}
			}

			return srv.Run(cmd.Context(), fmt.Sprintf(":%d", cfg.Server.Port))
		},
	}

	cmd.Flags().IntVar(&port, "port", 0, "服务端口 (仅当 config.toml 未显式配置 port 时生效)")
	cmd.Flags().BoolVar(&devMode, "dev", false, "开发模式")
	cmd.Flags().BoolVar(&openBrowser, "open", false, "启动后打开浏览器")
	return cmd
}
