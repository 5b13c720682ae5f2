package model

// ReportSummary represents one report in the GET /reports listing.
// Reports are looked up by (dataset, model); deletion uses ID.
type ReportSummary struct {
	ID        int                    `json:"id"`
	Dataset   string                 `json:"dataset"`
	Model     string                 `json:"model"`
	Timestamp string                 `json:"timestamp"`
	Summary   map[string]interface{} `json:"summary"`
}

// ReportListResponse represents the GET /reports response
type ReportListResponse struct {
	Reports []ReportSummary `json:"reports"`
}

// ReportDetail represents the GET /reports/detail response
type ReportDetail struct {
	Dataset   string                   `json:"dataset"`
	Model     string                   `json:"model"`
	Timestamp string                   `json:"timestamp"`
	Summary   map[string]interface{}   `json:"summary"`
	Config    map[string]interface{}   `json:"config,omitempty"`
	Badcases  []map[string]interface{} `json:"badcases,omitempty"`
}
