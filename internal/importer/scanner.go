package importer

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
	_ "time/tzdata" // 容器内可能没有系统时区库

	"weekboard/internal/logger"
)

// Schedule 每周固定时刻
type Schedule struct {
	Weekday  time.Weekday
	Hour     int
	Minute   int
	Location *time.Location
}

// DefaultSchedule 每周日 18:00（Asia/Shanghai）
func DefaultSchedule() Schedule {
	s, _ := NewSchedule(0, 18, 0, "Asia/Shanghai")
	return s
}

// NewSchedule 校验并构造调度时刻；时区无法加载时退回 UTC+8
func NewSchedule(weekday, hour, minute int, tz string) (Schedule, error) {
	if weekday < 0 || weekday > 6 {
		return Schedule{}, fmt.Errorf("invalid weekday %d", weekday)
	}
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return Schedule{}, fmt.Errorf("invalid time %02d:%02d", hour, minute)
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		loc = time.FixedZone("CST", 8*60*60)
	}
	return Schedule{Weekday: time.Weekday(weekday), Hour: hour, Minute: minute, Location: loc}, nil
}

// Next after 之后最近的一次触发时刻
func (s Schedule) Next(after time.Time) time.Time {
	loc := s.Location
	if loc == nil {
		loc = time.UTC
	}
	t := after.In(loc)
	days := (int(s.Weekday) - int(t.Weekday()) + 7) % 7
	next := time.Date(t.Year(), t.Month(), t.Day()+days, s.Hour, s.Minute, 0, 0, loc)
	if !next.After(t) {
		next = next.AddDate(0, 0, 7)
	}
	return next
}

// Scanner 定时分析上传目录中的周报
type Scanner struct {
	coord    *Coordinator
	dir      string
	schedule Schedule
	now      func() time.Time
}

// NewScanner 创建目录扫描器
func NewScanner(coord *Coordinator, dir string, schedule Schedule) *Scanner {
	return &Scanner{coord: coord, dir: dir, schedule: schedule, now: time.Now}
}

// Dir 扫描目录
func (s *Scanner) Dir() string {
	return s.dir
}

// NextRun 下一次定时扫描的时刻
func (s *Scanner) NextRun() time.Time {
	return s.schedule.Next(s.now())
}

// ScanOnce 导入目录中的全部 xlsx；未变化的文件按摘要跳过
func (s *Scanner) ScanOnce(ctx context.Context) ([]*ImportReport, error) {
	log := logger.FromContext(ctx)

	files, err := listWorkbooks(s.dir)
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", s.dir, err)
	}
	log.Info().Str("dir", s.dir).Int("files", len(files)).Msg("开始扫描周报目录")

	reports := make([]*ImportReport, 0, len(files))
	for _, path := range files {
		if err := ctx.Err(); err != nil {
			return reports, err
		}
		r, err := s.coord.ImportSync(ctx, ImportOptions{FilePath: path})
		if err != nil {
			// 单个文件失败不影响其余文件
			log.Error().Err(err).Str("file", path).Msg("分析周报失败")
			continue
		}
		reports = append(reports, r)
	}
	return reports, nil
}

// Run 按调度时刻循环扫描，直到 ctx 取消
func (s *Scanner) Run(ctx context.Context) error {
	log := logger.FromContext(ctx)
	for {
		next := s.schedule.Next(s.now())
		log.Info().Time("next", next).Msg("下一次定时分析")

		timer := time.NewTimer(time.Until(next))
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}

		if _, err := s.ScanOnce(ctx); err != nil {
			log.Error().Err(err).Msg("定时分析失败")
		}
	}
}

func listWorkbooks(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var files []string
	for _, e := range entries {
		name := e.Name()
		// 跳过 Excel 打开时生成的锁文件
		if e.IsDir() || strings.HasPrefix(name, "~$") || !strings.EqualFold(filepath.Ext(name), ".xlsx") {
			continue
		}
		files = append(files, filepath.Join(dir, name))
	}
	sort.Strings(files)
	return files, nil
}
