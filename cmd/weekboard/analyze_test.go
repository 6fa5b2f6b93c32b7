package main

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func writeReport(t *testing.T) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	require.NoError(t, f.SetSheetName("Sheet1", "三级分类"))

	rows := [][]interface{}{
		{"时间", "三级分类", "上周销售"},
		{"现期", "T恤", 1200},
		{"现期", "裤子", 800},
		{"基期", "T恤", 1000},
		{"基期", "裤子", 1000},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("三级分类", cell, &row))
	}
	path := filepath.Join(t.TempDir(), "r.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

func TestAnalyzeCmd_Local(t *testing.T) {
	var buf bytes.Buffer
	cmd := analyzeCmd()
	cmd.SetOut(&buf)
	cmd.SetArgs([]string{writeReport(t)})

	require.NoError(t, cmd.ExecuteContext(context.Background()))
	out := buf.String()
	assert.Contains(t, out, "三级分类")
	assert.Contains(t, out, "销售环比分析")
	assert.Contains(t, out, "+20.00%")
	assert.Contains(t, out, "-20.00%")
}

func TestAnalyzeCmd_RemoteDescription(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"success":true,"description":"# r 周报分析"}`))
	}))
	defer srv.Close()

	var buf bytes.Buffer
	cmd := analyzeCmd()
	cmd.SetOut(&buf)
	cmd.SetArgs([]string{"r", "--remote", srv.URL, "--description"})

	require.NoError(t, cmd.ExecuteContext(context.Background()))
	assert.Contains(t, buf.String(), "# r 周报分析")
}

func TestAnalyzeCmd_MissingFile(t *testing.T) {
	cmd := analyzeCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{filepath.Join(t.TempDir(), "missing.xlsx")})
	assert.Error(t, cmd.ExecuteContext(context.Background()))
}
