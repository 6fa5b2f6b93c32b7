package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	"weekboard/internal/api"
	"weekboard/internal/config"
	"weekboard/internal/importer"
	"weekboard/internal/logger"
	"weekboard/internal/store"
)

// DBFile 数据库文件名
const DBFile = "weekboard.db"

// Server HTTP 服务器
type Server struct {
	cfg     *config.AppConfig
	router  *gin.Engine
	store   *store.Store
	scanner *importer.Scanner
}

// NewServer 创建服务器：初始化数据目录、SQLite 与路由
func NewServer(cfg *config.AppConfig) (*Server, error) {
	if !cfg.Server.DevMode {
		gin.SetMode(gin.ReleaseMode)
	}

	dataDir, err := config.EnsureDataDir(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	st, err := store.New(filepath.Join(dataDir, DBFile))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	schedule, err := importer.NewSchedule(cfg.Schedule.Weekday, cfg.Schedule.Hour, cfg.Schedule.Minute, cfg.Schedule.TimeZone)
	if err != nil {
		_ = st.Close()
		return nil, err
	}

	uploadDir := config.UploadDir(cfg, dataDir)
	coord := importer.NewCoordinator(st, config.ArchivePath(dataDir))
	scanner := importer.NewScanner(coord, uploadDir, schedule)

	s := &Server{
		cfg:     cfg,
		router:  gin.New(),
		store:   st,
		scanner: scanner,
	}
	s.setupRoutes(api.NewHandler(st, coord, scanner, filepath.Join(dataDir, config.ExportsDir)))
	return s, nil
}

// setupRoutes 设置路由
func (s *Server) setupRoutes(h *api.Handler) {
	s.router.Use(gin.Recovery(), requestLogger(), corsMiddleware())

	apiGroup := s.router.Group("/api")
	h.RegisterRoutes(apiGroup)

	if s.cfg.Server.DevMode {
		// 开发模式：代理到前端开发服务器
		s.router.NoRoute(func(c *gin.Context) {
			c.Redirect(http.StatusTemporaryRedirect, "http://localhost:5173"+c.Request.URL.Path)
		})
	}
}

// Handler 返回 HTTP 处理器（用于测试）
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run 启动 HTTP 服务和定时扫描，ctx 取消后优雅退出
func (s *Server) Run(ctx context.Context, addr string) error {
	log := logger.FromContext(ctx)
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info().Str("addr", addr).Msg("服务启动")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	if s.cfg.Schedule.Enabled {
		g.Go(func() error {
			if err := s.scanner.Run(gctx); !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		})
	}

	return g.Wait()
}

// Close 关闭数据库
func (s *Server) Close() error {
	return s.store.Close()
}

// GetStore 获取存储（用于测试）
func (s *Server) GetStore() *store.Store {
	return s.store
}
