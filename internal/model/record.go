package model

// Turn represents a conversation turn inside a record
type Turn struct {
	Role string `json:"role"`
	Text string `json:"text"`
}

// Record is the typed overlay of one evaluation data item. The wire
// format is intentionally loose (records round-trip through
// map[string]interface{} to preserve unknown keys); this overlay is
// for callers that only need the conventional meta/turns shape.
type Record struct {
	Meta  map[string]interface{} `json:"meta,omitempty"`
	Turns []Turn                 `json:"turns,omitempty"`
}

// EvaluationConfig represents the POST /evaluate request body
type EvaluationConfig struct {
	APIUrls            []string `json:"api_urls,omitempty"`
	Model              string   `json:"model"`
	DataFile           string   `json:"data_file"` // data_id as string
	Scoring            string   `json:"scoring"`
	ScoringModule      string   `json:"scoring_module,omitempty"`
	MaxWorkers         int      `json:"max_workers,omitempty"`
	BadcaseThreshold   float64  `json:"badcase_threshold,omitempty"`
	ReportDir          string   `json:"report_dir,omitempty"`
	ReportFormat       string   `json:"report_format,omitempty"`
	TestMode           bool     `json:"test_mode"`
	SampleSize         int      `json:"sample_size,omitempty"`
	CheckpointPath     string   `json:"checkpoint_path,omitempty"`
	CheckpointInterval int      `json:"checkpoint_interval,omitempty"`
	Resume             bool     `json:"resume"`
	Role               string   `json:"role,omitempty"`
	Timeout            int      `json:"timeout,omitempty"`
	MaxTokens          int      `json:"max_tokens,omitempty"`
	APIKey             string   `json:"api_key,omitempty"`
	IsVLLM             bool     `json:"is_vllm"`
	Temperature        *float64 `json:"temperature,omitempty"`
	TopP               *float64 `json:"top_p,omitempty"`
}
