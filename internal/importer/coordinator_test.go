package importer

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"weekboard/internal/store"
)

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	st, err := store.New(filepath.Join(t.TempDir(), "weekboard.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	return st
}

// writeWeeklyReport 写出一份带现期 / 基期的周报
func writeWeeklyReport(t *testing.T, path string, tshirtGoods int) {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()
	require.NoError(t, f.SetSheetName("Sheet1", "三级分类"))

	rows := [][]interface{}{
		{"时间", "三级分类", "上周货号数", "上周货值"},
		{"现期", "T恤", tshirtGoods, 50000},
		{"现期", "裤子", 90, 30000},
		{"现期", "总计", tshirtGoods + 90, 80000},
		{"基期", "T恤", 100, 40000},
		{"基期", "裤子", 100, 30000},
		{"基期", "总计", 200, 70000},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("三级分类", cell, &row))
	}
	require.NoError(t, f.SaveAs(path))
}

func collect(ch <-chan ProgressEvent) []ProgressEvent {
	var out []ProgressEvent
	for evt := range ch {
		out = append(out, evt)
	}
	return out
}

func TestImport_AnalyzesAndRegistersReport(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	archive := t.TempDir()
	src := filepath.Join(t.TempDir(), "第23周.xlsx")
	writeWeeklyReport(t, src, 110)

	events := collect(NewCoordinator(st, archive).Import(ctx, ImportOptions{FilePath: src, Copy: true}))
	require.NotEmpty(t, events)
	assert.Equal(t, EventStart, events[0].Type)

	last := events[len(events)-1]
	require.Equal(t, EventDone, last.Type, last.Message)
	report, ok := last.Data.(*ImportReport)
	require.True(t, ok)

	assert.Equal(t, "第23周", report.ReportName)
	assert.Equal(t, 2, report.TotalSheets)
	assert.Equal(t, 1, report.AnalyzedSheets)
	assert.Equal(t, 1, report.SkippedSheets)
	assert.False(t, report.Unchanged)
	assert.Equal(t, archive, filepath.Dir(report.StoredPath))
	assert.FileExists(t, report.StoredPath)

	require.Len(t, report.Sheets, 2)
	assert.Equal(t, "三级分类", report.Sheets[0].SheetName)
	assert.Equal(t, SheetAnalyzed, report.Sheets[0].Status)
	assert.Equal(t, 2, report.Sheets[0].Visualizations)
	assert.Equal(t, "三级分类_基期", report.Sheets[1].SheetName)
	assert.Equal(t, SheetSkipped, report.Sheets[1].Status)

	types := make([]string, 0, len(events))
	for _, e := range events {
		types = append(types, e.Type)
	}
	assert.Equal(t, []string{EventStart, EventInfo, EventSheetDone, EventDone}, types)

	desc, err := st.GetDescription(ctx, "第23周")
	require.NoError(t, err)
	assert.Contains(t, desc, "## 三级分类")
	assert.Contains(t, desc, "T恤 +10.00%")

	_, ok, err = st.LastImportTime(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestImport_UnchangedFileIsSkipped(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	coord := NewCoordinator(st, t.TempDir())
	src := filepath.Join(t.TempDir(), "r.xlsx")
	writeWeeklyReport(t, src, 110)

	first, err := coord.ImportSync(ctx, ImportOptions{FilePath: src})
	require.NoError(t, err)
	assert.False(t, first.Unchanged)
	assert.Equal(t, src, first.StoredPath)

	second, err := coord.ImportSync(ctx, ImportOptions{FilePath: src})
	require.NoError(t, err)
	assert.True(t, second.Unchanged)
	assert.Equal(t, first.ReportID, second.ReportID)

	forced, err := coord.ImportSync(ctx, ImportOptions{FilePath: src, Force: true})
	require.NoError(t, err)
	assert.False(t, forced.Unchanged)
	assert.Equal(t, first.ReportID, forced.ReportID)
}

func TestImport_ReimportOverwritesDescription(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	coord := NewCoordinator(st, t.TempDir())
	src := filepath.Join(t.TempDir(), "r.xlsx")

	writeWeeklyReport(t, src, 110)
	_, err := coord.ImportSync(ctx, ImportOptions{FilePath: src})
	require.NoError(t, err)

	writeWeeklyReport(t, src, 150)
	_, err = coord.ImportSync(ctx, ImportOptions{FilePath: src})
	require.NoError(t, err)

	desc, err := st.GetDescription(ctx, "r")
	require.NoError(t, err)
	assert.Contains(t, desc, "T恤 +50.00%")

	n, err := st.CountReports(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestImport_NewUploadReplacesArchivedCopy(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	archive := t.TempDir()
	coord := NewCoordinator(st, archive)

	v1 := filepath.Join(t.TempDir(), "v1.xlsx")
	v2 := filepath.Join(t.TempDir(), "v2.xlsx")
	writeWeeklyReport(t, v1, 110)
	writeWeeklyReport(t, v2, 150)

	_, err := coord.ImportSync(ctx, ImportOptions{FilePath: v1, ReportName: "周报", Copy: true})
	require.NoError(t, err)
	second, err := coord.ImportSync(ctx, ImportOptions{FilePath: v2, ReportName: "周报", Copy: true})
	require.NoError(t, err)

	entries, err := os.ReadDir(archive)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, second.StoredPath, filepath.Join(archive, entries[0].Name()))

	// 归档目录即使被扫描也不会产生新报告
	_, err = NewScanner(coord, archive, DefaultSchedule()).ScanOnce(ctx)
	require.NoError(t, err)
	names, err := st.ListReportNames(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"周报"}, names)
}

func TestImport_ScannedFileIsNotRemovedOnReplace(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	coord := NewCoordinator(st, t.TempDir())

	scanned := filepath.Join(t.TempDir(), "周报.xlsx")
	upload := filepath.Join(t.TempDir(), "upload.xlsx")
	writeWeeklyReport(t, scanned, 110)
	writeWeeklyReport(t, upload, 150)

	_, err := coord.ImportSync(ctx, ImportOptions{FilePath: scanned})
	require.NoError(t, err)
	_, err = coord.ImportSync(ctx, ImportOptions{FilePath: upload, ReportName: "周报", Copy: true})
	require.NoError(t, err)

	assert.FileExists(t, scanned)
}

func TestImport_FailedUploadRemovesCopy(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	archive := t.TempDir()
	src := filepath.Join(t.TempDir(), "broken.xlsx")
	require.NoError(t, os.WriteFile(src, []byte("not a workbook"), 0644))

	_, err := NewCoordinator(st, archive).ImportSync(ctx, ImportOptions{FilePath: src, Copy: true})
	require.Error(t, err)

	entries, err := os.ReadDir(archive)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestImport_MissingFile(t *testing.T) {
	st := newTestStore(t)
	_, err := NewCoordinator(st, t.TempDir()).ImportSync(context.Background(), ImportOptions{
		FilePath: filepath.Join(t.TempDir(), "missing.xlsx"),
	})
	assert.Error(t, err)
}

func TestImport_InvalidWorkbookLogsFailure(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	src := filepath.Join(t.TempDir(), "broken.xlsx")
	require.NoError(t, os.WriteFile(src, []byte("not a workbook"), 0644))

	_, err := NewCoordinator(st, t.TempDir()).ImportSync(ctx, ImportOptions{FilePath: src})
	require.Error(t, err)

	var status, message string
	require.NoError(t, st.DB().QueryRow(`SELECT status, error_message FROM import_logs`).Scan(&status, &message))
	assert.Equal(t, store.ImportFailed, status)
	assert.NotEmpty(t, message)

	n, err := st.CountReports(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestReportNameFromPath(t *testing.T) {
	assert.Equal(t, "第23周周报", ReportNameFromPath("/data/uploads/第23周周报.xlsx"))
	assert.Equal(t, "plain", ReportNameFromPath("plain"))
}
