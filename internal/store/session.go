package store

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"

	"github.com/wzyjerry/llm-judge-client/internal/model"
	"github.com/wzyjerry/llm-judge-client/internal/pkg/localstore"
)

// Login authenticates and, on success, atomically installs the new
// session and persists it. On failure the session slice is left
// exactly as it was.
func (s *Store) Login(ctx context.Context, username, password string) error {
	s.setLoading(true)

	resp, err := s.api.Login(ctx, username, password)
	if err != nil {
		s.fail(err)
		return err
	}

	s.installSession(resp)
	zap.L().Info("Logged in", zap.String("username", username))
	return nil
}

// Register creates an account and installs the returned session the
// same way Login does.
func (s *Store) Register(ctx context.Context, username, password, email string) error {
	s.setLoading(true)

	resp, err := s.api.Register(ctx, username, password, email)
	if err != nil {
		s.fail(err)
		return err
	}

	s.installSession(resp)
	zap.L().Info("Registered", zap.String("username", username))
	return nil
}

func (s *Store) installSession(resp *model.TokenResponse) {
	// Persist before publishing so a crash between the two writes
	// leaves either the old session or the new one, never half of each.
	if err := s.local.Set(localstore.KeyToken, resp.AccessToken); err != nil {
		zap.L().Warn("Failed to persist token", zap.Error(err))
	}
	if resp.User != nil {
		if raw, err := json.Marshal(resp.User); err == nil {
			if err := s.local.Set(localstore.KeyUser, string(raw)); err != nil {
				zap.L().Warn("Failed to persist user", zap.Error(err))
			}
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Session = Session{
		Token:           resp.AccessToken,
		User:            resp.User,
		IsAuthenticated: true,
	}
	s.state.Loading = false
	s.state.Error = ""
}

// Logout clears the session, its persisted copy, and every slice that
// holds the departing user's data, so nothing leaks into the next
// session on the same client. Synchronous; no backend call.
func (s *Store) Logout() {
	s.clearPersistedSession()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Session = Session{}
	s.state.Tasks = nil
	s.state.CurrentTask = nil
	s.state.Reports = nil
	s.state.CurrentReport = nil
	s.state.UserDataFiles = nil
	s.state.CurrentDataDetail = nil
	zap.L().Info("Logged out")
}

// forceLogout is the 401 hook: any non-login 401 means the session is
// dead, so treat it as a logout.
func (s *Store) forceLogout() {
	zap.L().Warn("Session expired, clearing credentials")
	s.Logout()
}

// FetchCurrentUser refreshes the user half of the session from the
// server.
func (s *Store) FetchCurrentUser(ctx context.Context) (*model.UserInfo, error) {
	user, err := s.api.GetCurrentUser(ctx)
	if err != nil {
		s.fail(err)
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Session.User = user
	return user, nil
}
