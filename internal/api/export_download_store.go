package api

import (
	"errors"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"

	"weekboard/internal/logger"
)

type exportDownload struct {
	filePath   string
	reportName string
	expiresAt  time.Time
}

// exportDownloadStore 一次性下载令牌
type exportDownloadStore struct {
	mu    sync.Mutex
	items map[string]exportDownload
	now   func() time.Time
}

func newExportDownloadStore() *exportDownloadStore {
	return &exportDownloadStore{
		items: make(map[string]exportDownload),
		now:   time.Now,
	}
}

func (s *exportDownloadStore) put(filePath, reportName string, ttl time.Duration) (token string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.purgeExpiredLocked(now)

	token = uuid.NewString()
	s.items[token] = exportDownload{
		filePath:   filePath,
		reportName: reportName,
		expiresAt:  now.Add(ttl),
	}
	return token
}

func (s *exportDownloadStore) get(token string) (exportDownload, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.purgeExpiredLocked(s.now())

	v, ok := s.items[token]
	return v, ok
}

func (s *exportDownloadStore) delete(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.items, token)
}

// purgeExpiredLocked 过期令牌连同导出文件一起清理
func (s *exportDownloadStore) purgeExpiredLocked(now time.Time) {
	for k, v := range s.items {
		if now.After(v.expiresAt) {
			delete(s.items, k)
			if err := os.Remove(v.filePath); err != nil && !errors.Is(err, os.ErrNotExist) {
				logger.L().Warn().Err(err).Str("file", v.filePath).Msg("删除过期导出文件失败")
			}
		}
	}
}
