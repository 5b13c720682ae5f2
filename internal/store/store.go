// Package store holds the client-side application state: the session,
// the lists backing each view, and the actions that call the web API
// and reconcile its responses into that state. The store is the only
// writer of its slices; callers read through Snapshot.
package store

import (
	"encoding/json"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/wzyjerry/llm-judge-client/internal/client"
	"github.com/wzyjerry/llm-judge-client/internal/model"
	"github.com/wzyjerry/llm-judge-client/internal/pkg/jwt"
	"github.com/wzyjerry/llm-judge-client/internal/pkg/localstore"
)

// Session represents the authentication slice.
type Session struct {
	Token           string
	User            *model.UserInfo
	IsAuthenticated bool
}

// State is a point-in-time copy of every slice. Loading and Error are
// shared across slices, matching the platform's store; DataDetail has
// its own loading flag, also matching.
type State struct {
	Session Session
	Loading bool
	Error   string

	ScoringFunctions []string
	DataFiles        []model.DataFile
	AvailableModels  []string
	ModelConfigs     []model.ModelConfig
	FormData         model.EvaluationConfig

	Tasks       []model.TaskStatus
	CurrentTask *model.TaskStatus

	Reports       []model.ReportSummary
	CurrentReport *model.ReportDetail

	UserDataFiles     []model.UserData
	CurrentDataDetail *model.DataContentResponse
	DataDetailLoading bool
}

// Store owns the state and the actions over it. Construct one per
// process (or per test) with New; there is no package-level instance.
type Store struct {
	mu    sync.Mutex
	state State

	api   *client.Client
	local *localstore.LocalStore

	pollInterval time.Duration
}

// New builds a store bound to an API client and a local durable
// store. The session and the evaluation form draft are rehydrated
// from local storage; a token already past its expiry is dropped
// instead of being replayed into a guaranteed 401.
func New(api *client.Client, local *localstore.LocalStore, pollInterval time.Duration) *Store {
	if pollInterval <= 0 {
		pollInterval = 5 * time.Second
	}

	s := &Store{
		api:          api,
		local:        local,
		pollInterval: pollInterval,
	}
	s.state.FormData = DefaultFormData()
	s.rehydrate()

	api.SetTokenFunc(s.token)
	api.SetUnauthorizedHook(s.forceLogout)

	return s
}

// Snapshot returns a copy of the current state. Slices are cloned so
// later store writes cannot race with the caller's reads.
func (s *Store) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	state := s.state
	state.ScoringFunctions = append([]string(nil), s.state.ScoringFunctions...)
	state.DataFiles = append([]model.DataFile(nil), s.state.DataFiles...)
	state.AvailableModels = append([]string(nil), s.state.AvailableModels...)
	state.ModelConfigs = append([]model.ModelConfig(nil), s.state.ModelConfigs...)
	state.Tasks = append([]model.TaskStatus(nil), s.state.Tasks...)
	state.Reports = append([]model.ReportSummary(nil), s.state.Reports...)
	state.UserDataFiles = append([]model.UserData(nil), s.state.UserDataFiles...)
	return state
}

// token is the provider handed to the API client.
func (s *Store) token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Session.Token
}

// rehydrate restores the persisted session and form draft.
func (s *Store) rehydrate() {
	token, err := s.local.Get(localstore.KeyToken)
	if err != nil {
		zap.L().Warn("Failed to read stored token", zap.Error(err))
	}
	if token != "" {
		if jwt.IsExpired(token) {
			zap.L().Info("Stored token expired, clearing session")
			s.clearPersistedSession()
		} else {
			s.state.Session.Token = token
			s.state.Session.IsAuthenticated = true
			if raw, err := s.local.Get(localstore.KeyUser); err == nil && raw != "" {
				var user model.UserInfo
				if json.Unmarshal([]byte(raw), &user) == nil {
					s.state.Session.User = &user
				}
			}
		}
	}

	if raw, err := s.local.Get(localstore.KeyFormDraft); err == nil && raw != "" {
		var draft model.EvaluationConfig
		if json.Unmarshal([]byte(raw), &draft) == nil {
			s.state.FormData = draft
		}
	}
}

func (s *Store) clearPersistedSession() {
	if err := s.local.Delete(localstore.KeyToken); err != nil {
		zap.L().Warn("Failed to clear stored token", zap.Error(err))
	}
	if err := s.local.Delete(localstore.KeyUser); err != nil {
		zap.L().Warn("Failed to clear stored user", zap.Error(err))
	}
}

// setLoading flips the shared loading flag and clears the error when
// a fresh fetch begins.
func (s *Store) setLoading(loading bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Loading = loading
	if loading {
		s.state.Error = ""
	}
}

// fail records err on the shared error flag and drops the loading
// flag. The previous slice values stay visible (stale but consistent).
func (s *Store) fail(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Error = err.Error()
	s.state.Loading = false
}
