package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"weekboard/internal/model"
)

const reportColumns = `id, report_name, description, file_path, file_hash, sheet_count, create_time, update_time`

// UpsertReport 按报告名新增或覆盖，返回报告 ID；覆盖时保留首次登记时间
func (s *Store) UpsertReport(ctx context.Context, r *model.Report) (int64, error) {
	now := s.now()
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO reports (report_name, description, file_path, file_hash, sheet_count, create_time, update_time)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(report_name) DO UPDATE SET
			description = excluded.description,
			file_path = excluded.file_path,
			file_hash = excluded.file_hash,
			sheet_count = excluded.sheet_count,
			update_time = excluded.update_time
	`, r.ReportName, r.Description, r.FilePath, r.FileHash, r.SheetCount, now, now)
	if err != nil {
		return 0, fmt.Errorf("failed to upsert report %s: %w", r.ReportName, err)
	}

	var id int64
	if err := s.db.QueryRowContext(ctx, `SELECT id FROM reports WHERE report_name = ?`, r.ReportName).Scan(&id); err != nil {
		return 0, fmt.Errorf("failed to get report id: %w", err)
	}
	return id, nil
}

// ListReports 按登记时间倒序列出全部报告
func (s *Store) ListReports(ctx context.Context) ([]*model.Report, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+reportColumns+` FROM reports ORDER BY create_time DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("query reports failed: %w", err)
	}
	defer rows.Close()

	out := []*model.Report{}
	for rows.Next() {
		r, err := scanReport(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate reports failed: %w", err)
	}
	return out, nil
}

// ListReportNames 全部报告名（按名称排序）
func (s *Store) ListReportNames(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT report_name FROM reports ORDER BY report_name`)
	if err != nil {
		return nil, fmt.Errorf("query report names failed: %w", err)
	}
	defer rows.Close()

	names := []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan report name failed: %w", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// GetReport 按名称查询报告，不存在时返回 ErrNotFound
func (s *Store) GetReport(ctx context.Context, name string) (*model.Report, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+reportColumns+` FROM reports WHERE report_name = ?`, name)
	r, err := scanReport(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("report %s: %w", name, ErrNotFound)
	}
	return r, err
}

// FindReportByHash 按文件摘要查找已登记的报告
func (s *Store) FindReportByHash(ctx context.Context, hash string) (*model.Report, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+reportColumns+` FROM reports WHERE file_hash = ? ORDER BY id LIMIT 1`, hash)
	r, err := scanReport(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("report with hash %s: %w", hash, ErrNotFound)
	}
	return r, err
}

// GetDescription 报告的分析描述
func (s *Store) GetDescription(ctx context.Context, name string) (string, error) {
	var desc string
	err := s.db.QueryRowContext(ctx, `SELECT description FROM reports WHERE report_name = ?`, name).Scan(&desc)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("report %s: %w", name, ErrNotFound)
	}
	if err != nil {
		return "", fmt.Errorf("query description failed: %w", err)
	}
	return desc, nil
}

// UpdateDescription 覆盖报告描述
func (s *Store) UpdateDescription(ctx context.Context, name, description string) error {
	res, err := s.db.ExecContext(ctx, `UPDATE reports SET description = ?, update_time = ? WHERE report_name = ?`,
		description, s.now(), name)
	if err != nil {
		return fmt.Errorf("failed to update description: %w", err)
	}
	return affectedOne(res, name)
}

// DeleteReport 删除报告登记（不删除上传文件）
func (s *Store) DeleteReport(ctx context.Context, name string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM reports WHERE report_name = ?`, name)
	if err != nil {
		return fmt.Errorf("failed to delete report: %w", err)
	}
	return affectedOne(res, name)
}

// CountReports 报告总数
func (s *Store) CountReports(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM reports`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count reports failed: %w", err)
	}
	return n, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanReport(row scanner) (*model.Report, error) {
	var r model.Report
	err := row.Scan(&r.ID, &r.ReportName, &r.Description, &r.FilePath, &r.FileHash, &r.SheetCount, &r.CreateTime, &r.UpdateTime)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("scan report failed: %w", err)
	}
	return &r, nil
}

func affectedOne(res sql.Result, name string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("report %s: %w", name, ErrNotFound)
	}
	return nil
}
