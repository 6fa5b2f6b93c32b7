package main

import (
	"fmt"
	"path/filepath"

	"weekboard/internal/config"
	"weekboard/internal/importer"
	"weekboard/internal/server"
	"weekboard/internal/store"
)

// openStore 确保数据目录存在并打开数据库
func openStore() (*store.Store, string, error) {
	dir, err := config.EnsureDataDir(cfg)
	if err != nil {
		return nil, "", fmt.Errorf("创建数据目录失败: %w", err)
	}
	st, err := store.New(filepath.Join(dir, server.DBFile))
	if err != nil {
		return nil, "", err
	}
	return st, dir, nil
}

func newCoordinator(st *store.Store, dir string) *importer.Coordinator {
	return importer.NewCoordinator(st, config.ArchivePath(dir))
}
