// Package client 访问 weekboard 服务端接口。
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"weekboard/internal/model"
)

// Client REST 客户端
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// Option 客户端选项
type Option func(*Client)

// WithHTTPClient 指定底层 http.Client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// New 创建客户端，baseURL 形如 http://localhost:20262
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// APIError 服务端返回的非 2xx 响应
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Message)
}

// ListReports 报告列表
func (c *Client) ListReports(ctx context.Context) ([]model.ReportListItem, error) {
	var resp model.ReportListResponse
	if err := c.get(ctx, "/api/reports", nil, &resp); err != nil {
		return nil, err
	}
	if !resp.Success {
		return nil, &APIError{StatusCode: http.StatusOK, Message: resp.Error}
	}
	return resp.Data, nil
}

// GetDescription 报告的分析描述
func (c *Client) GetDescription(ctx context.Context, reportName string) (string, error) {
	var resp model.DescriptionResponse
	if err := c.get(ctx, "/api/reports/"+url.PathEscape(reportName)+"/description", nil, &resp); err != nil {
		return "", err
	}
	if !resp.Success {
		return "", &APIError{StatusCode: http.StatusOK, Message: resp.Error}
	}
	return resp.Description, nil
}

// GetSheetData 报告全部工作表数据
func (c *Client) GetSheetData(ctx context.Context, reportName string) (*model.SheetDataResponse, error) {
	var resp model.SheetDataResponse
	q := url.Values{"report_name": {reportName}}
	if err := c.get(ctx, "/api/sheets", q, &resp); err != nil {
		return nil, err
	}
	if !resp.Success {
		return nil, &APIError{StatusCode: http.StatusOK, Message: resp.Error}
	}
	return &resp, nil
}

// GetDashboard 单个工作表的环比分析；categories 为空时不筛选
func (c *Client) GetDashboard(ctx context.Context, reportName, sheet string, categories ...string) (*model.Dashboard, error) {
	q := url.Values{"report_name": {reportName}}
	if sheet != "" {
		q.Set("sheet", sheet)
	}
	for _, cat := range categories {
		q.Add("category", cat)
	}

	var d model.Dashboard
	if err := c.get(ctx, "/api/dashboard", q, &d); err != nil {
		return nil, err
	}
	return &d, nil
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request %s: %w", path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &APIError{StatusCode: resp.StatusCode, Message: errorMessage(body)}
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

// errorMessage 取响应体中的 error 字段，没有时返回原文
func errorMessage(body []byte) string {
	var e struct {
		Error string `json:"error"`
	}
	if json.Unmarshal(body, &e) == nil && e.Error != "" {
		return e.Error
	}
	return strings.TrimSpace(string(body))
}
