package importer

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSchedule_Next(t *testing.T) {
	s := DefaultSchedule()
	require.Equal(t, "Asia/Shanghai", s.Location.String())

	// 2024-06-05 是周三
	wed := time.Date(2024, 6, 5, 12, 0, 0, 0, s.Location)
	assert.Equal(t, time.Date(2024, 6, 9, 18, 0, 0, 0, s.Location), s.Next(wed))

	// 周日 18:00 之前当天触发，正点及之后顺延一周
	sunMorning := time.Date(2024, 6, 9, 9, 0, 0, 0, s.Location)
	assert.Equal(t, time.Date(2024, 6, 9, 18, 0, 0, 0, s.Location), s.Next(sunMorning))
	sunSix := time.Date(2024, 6, 9, 18, 0, 0, 0, s.Location)
	assert.Equal(t, time.Date(2024, 6, 16, 18, 0, 0, 0, s.Location), s.Next(sunSix))

	// 输入为 UTC 时按调度时区计算
	utc := time.Date(2024, 6, 9, 11, 0, 0, 0, time.UTC) // 上海 19:00
	assert.Equal(t, time.Date(2024, 6, 16, 18, 0, 0, 0, s.Location), s.Next(utc))
}

func TestNewSchedule_Validation(t *testing.T) {
	_, err := NewSchedule(7, 0, 0, "UTC")
	assert.Error(t, err)
	_, err = NewSchedule(1, 24, 0, "UTC")
	assert.Error(t, err)

	s, err := NewSchedule(1, 9, 30, "Not/AZone")
	require.NoError(t, err)
	_, offset := time.Date(2024, 1, 1, 0, 0, 0, 0, s.Location).Zone()
	assert.Equal(t, 8*60*60, offset)
}

func TestScanner_ScanOnce(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	dir := t.TempDir()

	writeWeeklyReport(t, filepath.Join(dir, "b.xlsx"), 110)
	writeWeeklyReport(t, filepath.Join(dir, "a.xlsx"), 120)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "~$a.xlsx"), []byte("lock"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.xlsx"), []byte("x"), 0644))

	scanner := NewScanner(NewCoordinator(st, dir), dir, DefaultSchedule())
	reports, err := scanner.ScanOnce(ctx)
	require.NoError(t, err)
	require.Len(t, reports, 2)
	assert.Equal(t, "a", reports[0].ReportName)
	assert.Equal(t, "b", reports[1].ReportName)

	// 再次扫描时文件未变化
	again, err := scanner.ScanOnce(ctx)
	require.NoError(t, err)
	require.Len(t, again, 2)
	assert.True(t, again[0].Unchanged)
	assert.True(t, again[1].Unchanged)

	names, err := st.ListReportNames(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, names)
}

func TestScanner_ScanOnceMissingDir(t *testing.T) {
	scanner := NewScanner(NewCoordinator(newTestStore(t), t.TempDir()), filepath.Join(t.TempDir(), "nope"), DefaultSchedule())
	_, err := scanner.ScanOnce(context.Background())
	assert.Error(t, err)
}

func TestScanner_RunStopsOnCancel(t *testing.T) {
	scanner := NewScanner(NewCoordinator(newTestStore(t), t.TempDir()), t.TempDir(), DefaultSchedule())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- scanner.Run(ctx) }()
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not stop after cancel")
	}
}
