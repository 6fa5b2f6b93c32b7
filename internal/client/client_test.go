package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/api/reports", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"success":true,"data":[{"id":1,"report_name":"第23周","create_time":"2024-06-09 18:00:00"}]}`))
	})
	mux.HandleFunc("/api/reports/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/reports/第23周/description" {
			_, _ = w.Write([]byte(`{"success":true,"description":"# 分析"}`))
			return
		}
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"success":false,"error":"report missing: not found"}`))
	})
	mux.HandleFunc("/api/sheets", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("report_name") != "第23周" {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"success":false,"error":"not found"}`))
			return
		}
		_, _ = w.Write([]byte(`{"success":true,"sheets":["A","A_基期"],"data":{"A":[{"cat":"x","上周货号数":100}],"A_基期":[{"cat":"x","上周货号数":80}]}}`))
	})
	mux.HandleFunc("/api/dashboard", func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "A", q.Get("sheet"))
		assert.Equal(t, []string{"x", "y"}, q["category"])
		_, _ = w.Write([]byte(`{"sheet":"A","categoryColumn":"cat","metrics":{"totalGoods":100,"totalValue":0,"totalInventory":0,"totalSales":0},"categories":["x"],"visualizations":[]}`))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestClient(t *testing.T) {
	ctx := context.Background()
	c := New(newServer(t).URL + "/")

	reports, err := c.ListReports(ctx)
	require.NoError(t, err)
	require.Len(t, reports, 1)
	assert.Equal(t, "第23周", reports[0].ReportName)

	desc, err := c.GetDescription(ctx, "第23周")
	require.NoError(t, err)
	assert.Equal(t, "# 分析", desc)

	sheets, err := c.GetSheetData(ctx, "第23周")
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "A_基期"}, sheets.Sheets)
	n, ok := sheets.Data["A_基期"][0].Number("上周货号数")
	require.True(t, ok)
	assert.Equal(t, 80.0, n)

	d, err := c.GetDashboard(ctx, "第23周", "A", "x", "y")
	require.NoError(t, err)
	assert.Equal(t, "cat", d.CategoryColumn)
	assert.Equal(t, 100.0, d.Metrics.TotalGoods)
}

func TestClient_Errors(t *testing.T) {
	ctx := context.Background()
	c := New(newServer(t).URL)

	_, err := c.GetDescription(ctx, "missing")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
	assert.Equal(t, "report missing: not found", apiErr.Message)

	_, err = c.GetSheetData(ctx, "other")
	require.ErrorAs(t, err, &apiErr)

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	_, err = c.ListReports(cancelled)
	assert.ErrorIs(t, err, context.Canceled)
}
