package store

import (
	"context"

	"github.com/wzyjerry/llm-judge-client/internal/model"
)

// FetchReports replaces the reports slice.
func (s *Store) FetchReports(ctx context.Context) error {
	s.setLoading(true)

	reports, err := s.api.GetReports(ctx)
	if err != nil {
		s.fail(err)
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Reports = reports
	s.state.Loading = false
	return nil
}

// FetchReportDetail loads one full report into CurrentReport.
func (s *Store) FetchReportDetail(ctx context.Context, dataset, modelName string) (*model.ReportDetail, error) {
	s.setLoading(true)

	detail, err := s.api.GetReportDetail(ctx, dataset, modelName)
	if err != nil {
		s.fail(err)
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.CurrentReport = detail
	s.state.Loading = false
	return detail, nil
}

// DeleteReport removes a report and reloads the listing. Reports are
// immutable once fetched, so there is no optimistic variant: the
// refreshed list is the only state that matters.
func (s *Store) DeleteReport(ctx context.Context, reportID int) error {
	if err := s.api.DeleteReport(ctx, reportID); err != nil {
		s.fail(err)
		return err
	}
	return s.FetchReports(ctx)
}
