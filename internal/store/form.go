package store

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"

	"github.com/wzyjerry/llm-judge-client/internal/model"
	"github.com/wzyjerry/llm-judge-client/internal/pkg/localstore"
)

// DefaultFormData returns the evaluation form defaults the platform
// ships with.
func DefaultFormData() model.EvaluationConfig {
	temperature := 0.0
	topP := 1.0
	return model.EvaluationConfig{
		APIUrls:            []string{"http://localhost:8000/v1"},
		Scoring:            "rouge",
		ScoringModule:      "./function_register/plugin.py",
		MaxWorkers:         4,
		BadcaseThreshold:   1,
		ReportDir:          "./reports",
		ReportFormat:       "json, txt, badcases",
		SampleSize:         2147483648,
		CheckpointInterval: 32,
		Role:               "assistant",
		Timeout:            10,
		MaxTokens:          1024,
		APIKey:             "sk-xxx",
		IsVLLM:             true,
		Temperature:        &temperature,
		TopP:               &topP,
	}
}

// SetFormData replaces the evaluation form draft and persists it so
// a half-filled form survives a restart.
func (s *Store) SetFormData(form model.EvaluationConfig) {
	s.mu.Lock()
	s.state.FormData = form
	s.mu.Unlock()

	if raw, err := json.Marshal(form); err == nil {
		if err := s.local.Set(localstore.KeyFormDraft, string(raw)); err != nil {
			zap.L().Warn("Failed to persist form draft", zap.Error(err))
		}
	}
}

// ResetFormData restores the form defaults and clears the persisted
// draft.
func (s *Store) ResetFormData() {
	s.mu.Lock()
	s.state.FormData = DefaultFormData()
	s.mu.Unlock()

	if err := s.local.Delete(localstore.KeyFormDraft); err != nil {
		zap.L().Warn("Failed to clear form draft", zap.Error(err))
	}
}

// FetchScoringFunctions loads the scoring function names for the
// evaluation form.
func (s *Store) FetchScoringFunctions(ctx context.Context) error {
	s.setLoading(true)

	functions, err := s.api.GetScoringFunctions(ctx)
	if err != nil {
		s.fail(err)
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.ScoringFunctions = functions
	s.state.Loading = false
	return nil
}

// FetchDataFiles loads the data-file choices for the evaluation form.
func (s *Store) FetchDataFiles(ctx context.Context) error {
	s.setLoading(true)

	files, err := s.api.GetDataFiles(ctx)
	if err != nil {
		s.fail(err)
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.DataFiles = files
	s.state.Loading = false
	return nil
}

// FetchAvailableModels loads the model choices for the evaluation
// form. No loading flag: the original store refreshes this list in
// the background.
func (s *Store) FetchAvailableModels(ctx context.Context) error {
	models, err := s.api.GetAvailableModels(ctx)
	if err != nil {
		s.fail(err)
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.AvailableModels = models
	return nil
}
