package model

// ModelConfig represents a model configuration
type ModelConfig struct {
	ID             int      `json:"id"`
	ModelName      string   `json:"model_name"`
	APIUrls        []string `json:"api_urls"`
	APIKey         string   `json:"api_key"`
	Temperature    float64  `json:"temperature"`
	TopP           float64  `json:"top_p"`
	MaxTokens      int      `json:"max_tokens"`
	Timeout        int      `json:"timeout"`
	MaxConcurrency int      `json:"max_concurrency"`
	Description    string   `json:"description"`
	IsActive       int      `json:"is_active"` // 0 or 1
	IsVLLM         int      `json:"is_vllm"`   // 0 or 1
	CreatedAt      string   `json:"created_at,omitempty"`
	UpdatedAt      string   `json:"updated_at,omitempty"`
}

// ModelConfigCreate represents an admin create-model-config request
type ModelConfigCreate struct {
	ModelName      string   `json:"model_name"`
	APIUrls        []string `json:"api_urls"`
	APIKey         string   `json:"api_key"`
	Temperature    float64  `json:"temperature"`
	TopP           float64  `json:"top_p"`
	MaxTokens      int      `json:"max_tokens"`
	Timeout        int      `json:"timeout"`
	MaxConcurrency int      `json:"max_concurrency"`
	Description    string   `json:"description"`
	IsVLLM         int      `json:"is_vllm"`
}

// ModelConfigUpdate represents an admin update-model-config request;
// nil fields are left unchanged server-side
type ModelConfigUpdate struct {
	ModelName      *string   `json:"model_name,omitempty"`
	APIUrls        *[]string `json:"api_urls,omitempty"`
	APIKey         *string   `json:"api_key,omitempty"`
	Temperature    *float64  `json:"temperature,omitempty"`
	TopP           *float64  `json:"top_p,omitempty"`
	MaxTokens      *int      `json:"max_tokens,omitempty"`
	Timeout        *int      `json:"timeout,omitempty"`
	MaxConcurrency *int      `json:"max_concurrency,omitempty"`
	Description    *string   `json:"description,omitempty"`
	IsActive       *int      `json:"is_active,omitempty"`
	IsVLLM         *int      `json:"is_vllm,omitempty"`
}

// ModelConfigListResponse represents the model-config listing responses
type ModelConfigListResponse struct {
	ModelConfigs []ModelConfig `json:"model_configs"`
}

// ScoringFunctionsResponse represents the GET /scoring-functions response
type ScoringFunctionsResponse struct {
	ScoringFunctions []string `json:"scoring_functions"`
}

// ModelsResponse represents the GET /models response
type ModelsResponse struct {
	Models []string `json:"models"`
}
