package importer

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"weekboard/internal/comparison"
	"weekboard/internal/logger"
	"weekboard/internal/model"
	"weekboard/internal/narrative"
	"weekboard/internal/store"
	"weekboard/internal/workbook"
)

// Coordinator 导入协调器：登记文件、逐表分析、生成描述并写入报告库
type Coordinator struct {
	store      *store.Store
	archiveDir string
}

// NewCoordinator 创建导入协调器，上传的文件复制到 archiveDir
//
// archiveDir 不能与定时扫描目录相同，否则副本会被当作新周报再次导入。
func NewCoordinator(store *store.Store, archiveDir string) *Coordinator {
	return &Coordinator{
		store:      store,
		archiveDir: archiveDir,
	}
}

// ImportOptions 导入选项
type ImportOptions struct {
	FilePath   string
	ReportName string // 为空时取文件名（不含扩展名）
	Copy       bool   // 是否复制到归档目录
	Force      bool   // 文件未变化时也重新分析
}

// importRun 单次导入的上下文
type importRun struct {
	opts      ImportOptions
	startTime time.Time
	report    *ImportReport
	events    chan<- ProgressEvent
	logID     int64
	copyPath  string // 本次导入生成的副本，失败时删除
}

// Import 执行导入，返回进度通道；通道在导入结束后关闭
func (c *Coordinator) Import(ctx context.Context, opts ImportOptions) <-chan ProgressEvent {
	events := make(chan ProgressEvent, 100)

	go func() {
		defer close(events)
		c.doImport(ctx, opts, events)
	}()

	return events
}

// ImportSync 同步导入，返回导入报告
func (c *Coordinator) ImportSync(ctx context.Context, opts ImportOptions) (*ImportReport, error) {
	var (
		report *ImportReport
		err    error
	)
	for evt := range c.Import(ctx, opts) {
		switch evt.Type {
		case EventDone:
			report, _ = evt.Data.(*ImportReport)
		case EventError:
			err = errors.New(evt.Message)
		}
	}
	if err != nil {
		return nil, err
	}
	if report == nil {
		if cause := context.Cause(ctx); cause != nil {
			return nil, fmt.Errorf("import %s: %w", opts.FilePath, cause)
		}
		return nil, fmt.Errorf("import %s: no result", opts.FilePath)
	}
	return report, nil
}

// ReportNameFromPath 文件名去掉扩展名作为报告名
func ReportNameFromPath(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func (c *Coordinator) doImport(ctx context.Context, opts ImportOptions, events chan<- ProgressEvent) {
	if opts.ReportName == "" {
		opts.ReportName = ReportNameFromPath(opts.FilePath)
	}
	run := &importRun{
		opts:      opts,
		startTime: time.Now(),
		events:    events,
		report: &ImportReport{
			ReportName: opts.ReportName,
			Filename:   filepath.Base(opts.FilePath),
			Sheets:     []SheetResult{},
		},
	}
	ctx = logger.WithFields(ctx, map[string]interface{}{"report": opts.ReportName})
	log := logger.FromContext(ctx)

	c.send(ctx, run, EventStart, "开始导入周报文件", map[string]string{
		"filename":    run.report.Filename,
		"report_name": opts.ReportName,
	})

	size, hash, err := fileDigest(opts.FilePath)
	if err != nil {
		c.fail(ctx, run, fmt.Errorf("读取文件失败: %w", err))
		return
	}
	run.report.FileHash = hash

	if !opts.Force {
		existing, err := c.store.FindReportByHash(ctx, hash)
		if err == nil {
			run.report.ReportID = existing.ID
			run.report.ReportName = existing.ReportName
			run.report.StoredPath = existing.FilePath
			run.report.Unchanged = true
			run.report.Duration = time.Since(run.startTime)
			log.Info().Str("hash", hash).Str("existing", existing.ReportName).Msg("文件未变化，跳过分析")
			c.send(ctx, run, EventDone, "文件未变化，跳过分析", run.report)
			return
		}
		if !errors.Is(err, store.ErrNotFound) {
			c.fail(ctx, run, err)
			return
		}
	}

	run.logID, err = c.store.CreateImportLog(ctx, run.report.Filename, opts.FilePath, size, hash)
	if err != nil {
		c.fail(ctx, run, err)
		return
	}

	storedPath := opts.FilePath
	if opts.Copy {
		storedPath, err = c.copyToArchive(opts.FilePath)
		if err != nil {
			c.fail(ctx, run, fmt.Errorf("保存上传文件失败: %w", err))
			return
		}
		run.copyPath = storedPath
	}
	run.report.StoredPath = storedPath

	wb, err := workbook.LoadFile(storedPath)
	if err != nil {
		c.fail(ctx, run, fmt.Errorf("打开文件失败: %w", err))
		return
	}

	run.report.TotalSheets = len(wb.Names)
	c.send(ctx, run, EventInfo, fmt.Sprintf("发现 %d 个 Sheet", len(wb.Names)), map[string]interface{}{
		"total_sheets":   len(wb.Names),
		"analyze_sheets": len(comparison.CurrentSheets(wb.Names)),
		"sheets":         wb.Names,
	})

	dashboards, err := comparison.AnalyzeAll(ctx, wb.Sheets, wb.Names)
	if err != nil {
		c.fail(ctx, run, err)
		return
	}
	c.recordSheets(ctx, run, wb, dashboards)

	var previousPath string
	if prev, err := c.store.GetReport(ctx, run.report.ReportName); err == nil {
		previousPath = prev.FilePath
	} else if !errors.Is(err, store.ErrNotFound) {
		c.fail(ctx, run, err)
		return
	}

	description := narrative.Render(run.report.ReportName, dashboards)
	run.report.ReportID, err = c.store.UpsertReport(ctx, &model.Report{
		ReportName:  run.report.ReportName,
		Description: description,
		FilePath:    storedPath,
		FileHash:    hash,
		SheetCount:  run.report.AnalyzedSheets,
	})
	if err != nil {
		c.fail(ctx, run, err)
		return
	}

	if previousPath != storedPath {
		c.removeArchived(ctx, previousPath)
	}

	if err := c.store.UpdateImportLog(ctx, run.logID, c.result(run, store.ImportSuccess, "")); err != nil {
		log.Warn().Err(err).Msg("更新导入日志失败")
	}

	run.report.Duration = time.Since(run.startTime)
	log.Info().
		Int("sheets", run.report.AnalyzedSheets).
		Dur("duration", run.report.Duration).
		Msg("导入完成")
	c.send(ctx, run, EventDone, "导入完成", run.report)
}

// recordSheets 按工作表顺序登记结果；基期表并入对应现期表，不单独分析
func (c *Coordinator) recordSheets(ctx context.Context, run *importRun, wb *workbook.Workbook, dashboards []*model.Dashboard) {
	byName := make(map[string]*model.Dashboard, len(dashboards))
	for _, d := range dashboards {
		byName[d.Sheet] = d
	}

	for _, name := range wb.Names {
		rows := len(wb.Sheets[name])
		d, ok := byName[name]
		if !ok {
			run.report.record(SheetResult{SheetName: name, Status: SheetSkipped, Rows: rows, Reason: "基期数据"})
			continue
		}

		result := SheetResult{
			SheetName:      name,
			Status:         SheetAnalyzed,
			Rows:           rows,
			CategoryColumn: d.CategoryColumn,
			Visualizations: len(d.Visualizations),
		}
		run.report.record(result)
		c.send(ctx, run, EventSheetDone, fmt.Sprintf("Sheet \"%s\" 分析完成，生成 %d 个图表", name, result.Visualizations), result)
	}
}

func (c *Coordinator) result(run *importRun, status, message string) store.ImportResult {
	return store.ImportResult{
		TotalSheets:    run.report.TotalSheets,
		AnalyzedSheets: run.report.AnalyzedSheets,
		SkippedSheets:  run.report.SkippedSheets,
		TotalRows:      run.report.TotalRows,
		Status:         status,
		ErrorMessage:   message,
	}
}

// fail 记录失败并发送错误事件
func (c *Coordinator) fail(ctx context.Context, run *importRun, err error) {
	logger.FromContext(ctx).Error().Err(err).Str("file", run.opts.FilePath).Msg("导入失败")

	if run.logID > 0 {
		// 导入已被取消时仍需回写日志
		if uerr := c.store.UpdateImportLog(context.WithoutCancel(ctx), run.logID, c.result(run, store.ImportFailed, err.Error())); uerr != nil {
			logger.FromContext(ctx).Warn().Err(uerr).Msg("更新导入日志失败")
		}
	}
	if run.copyPath != "" {
		c.removeArchived(ctx, run.copyPath)
	}
	c.send(ctx, run, EventError, err.Error(), nil)
}

// removeArchived 删除归档目录中的副本；目录外的文件属于用户，不删除
func (c *Coordinator) removeArchived(ctx context.Context, path string) {
	if path == "" || !c.archived(path) {
		return
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		logger.FromContext(ctx).Warn().Err(err).Str("file", path).Msg("删除归档副本失败")
	}
}

func (c *Coordinator) archived(path string) bool {
	dir, err := filepath.Abs(c.archiveDir)
	if err != nil {
		return false
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return false
	}
	return filepath.Dir(abs) == dir
}

// send 发送进度事件；消费方已离开（ctx 取消）时丢弃
func (c *Coordinator) send(ctx context.Context, run *importRun, typ, message string, data interface{}) {
	evt := ProgressEvent{Type: typ, Message: message, Data: data, Timestamp: time.Now()}
	select {
	case run.events <- evt:
	case <-ctx.Done():
	}
}

// copyToArchive 以 uuid 文件名保存到归档目录
func (c *Coordinator) copyToArchive(src string) (string, error) {
	if err := os.MkdirAll(c.archiveDir, 0755); err != nil {
		return "", err
	}
	dst := filepath.Join(c.archiveDir, uuid.NewString()+strings.ToLower(filepath.Ext(src)))

	in, err := os.Open(src)
	if err != nil {
		return "", err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		_ = os.Remove(dst)
		return "", err
	}
	return dst, out.Close()
}

// fileDigest 文件大小与 sha256 摘要
func fileDigest(path string) (int64, string, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, "", err
	}
	defer f.Close()

	h := sha256.New()
	n, err := io.Copy(h, f)
	if err != nil {
		return 0, "", err
	}
	return n, hex.EncodeToString(h.Sum(nil)), nil
}
