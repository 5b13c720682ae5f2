package client

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/wzyjerry/llm-judge-client/internal/model"
)

// GetReports returns all report summaries of the current user.
func (c *Client) GetReports(ctx context.Context) ([]model.ReportSummary, error) {
	var resp model.ReportListResponse
	if err := c.do(ctx, http.MethodGet, "/reports", nil, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Reports, nil
}

// GetReportDetail returns one full report. Reports are keyed by
// (dataset, model); query parameters dodge the escaping problems that
// path parameters would have with model names.
func (c *Client) GetReportDetail(ctx context.Context, dataset, modelName string) (*model.ReportDetail, error) {
	query := url.Values{}
	query.Set("dataset", dataset)
	query.Set("model", modelName)

	var resp model.ReportDetail
	if err := c.do(ctx, http.MethodGet, "/reports/detail", query, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// DeleteReport removes one report by ID.
func (c *Client) DeleteReport(ctx context.Context, reportID int) error {
	return c.do(ctx, http.MethodDelete, "/reports/"+strconv.Itoa(reportID), nil, nil, nil)
}
