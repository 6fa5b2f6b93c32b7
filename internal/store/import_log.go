package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// 导入状态
const (
	ImportProcessing = "processing"
	ImportSuccess    = "success"
	ImportSkipped    = "skipped"
	ImportFailed     = "failed"
)

// ImportResult 导入完成时回写的统计
type ImportResult struct {
	TotalSheets    int
	AnalyzedSheets int
	SkippedSheets  int
	TotalRows      int
	Status         string
	ErrorMessage   string
}

// CreateImportLog 创建导入日志，返回 import_log_id
func (s *Store) CreateImportLog(ctx context.Context, filename, filePath string, fileSize int64, fileHash string) (int64, error) {
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO import_logs (filename, file_path, file_size, file_hash, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, filename, filePath, fileSize, fileHash, ImportProcessing, s.now())
	if err != nil {
		return 0, fmt.Errorf("failed to create import log: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get import log id: %w", err)
	}
	return id, nil
}

// UpdateImportLog 完成导入日志更新
func (s *Store) UpdateImportLog(ctx context.Context, id int64, r ImportResult) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE import_logs SET
			total_sheets = ?,
			analyzed_sheets = ?,
			skipped_sheets = ?,
			total_rows = ?,
			status = ?,
			error_message = ?,
			completed_at = ?
		WHERE id = ?
	`, r.TotalSheets, r.AnalyzedSheets, r.SkippedSheets, r.TotalRows, r.Status, r.ErrorMessage, s.now(), id)
	if err != nil {
		return fmt.Errorf("failed to update import log: %w", err)
	}
	return nil
}

// LastImportTime 最近一次成功导入的完成时间；从未成功时 ok 为 false
func (s *Store) LastImportTime(ctx context.Context) (t time.Time, ok bool, err error) {
	var completed sql.NullTime
	err = s.db.QueryRowContext(ctx, `
		SELECT completed_at FROM import_logs
		WHERE status = ? AND completed_at IS NOT NULL
		ORDER BY completed_at DESC, id DESC
		LIMIT 1
	`, ImportSuccess).Scan(&completed)
	if err == sql.ErrNoRows {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, fmt.Errorf("query last import failed: %w", err)
	}
	return completed.Time, completed.Valid, nil
}
