package client

import (
	"context"
	"net/http"

	"github.com/wzyjerry/llm-judge-client/internal/model"
)

// GetModelConfigs returns the active model configurations visible to
// the current user.
func (c *Client) GetModelConfigs(ctx context.Context) ([]model.ModelConfig, error) {
	var resp model.ModelConfigListResponse
	if err := c.do(ctx, http.MethodGet, "/model-configs", nil, nil, &resp); err != nil {
		return nil, err
	}
	return resp.ModelConfigs, nil
}

// GetScoringFunctions returns the available scoring function names.
func (c *Client) GetScoringFunctions(ctx context.Context) ([]string, error) {
	var resp model.ScoringFunctionsResponse
	if err := c.do(ctx, http.MethodGet, "/scoring-functions", nil, nil, &resp); err != nil {
		return nil, err
	}
	return resp.ScoringFunctions, nil
}

// GetAvailableModels returns the model names usable in evaluations.
func (c *Client) GetAvailableModels(ctx context.Context) ([]string, error) {
	var resp model.ModelsResponse
	if err := c.do(ctx, http.MethodGet, "/models", nil, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Models, nil
}
