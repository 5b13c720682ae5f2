package store

import (
	"context"

	"github.com/wzyjerry/llm-judge-client/internal/model"
)

// FetchModelConfigs loads the active model configurations into the
// store and returns them.
func (s *Store) FetchModelConfigs(ctx context.Context) ([]model.ModelConfig, error) {
	s.setLoading(true)

	configs, err := s.api.GetModelConfigs(ctx)
	if err != nil {
		s.fail(err)
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.ModelConfigs = configs
	s.state.Loading = false
	return configs, nil
}
