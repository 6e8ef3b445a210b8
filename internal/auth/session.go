package auth

import (
	"context"
	"fmt"
	"sync"

	"inventory-console/internal/apiclient"
	"inventory-console/internal/models"
	"inventory-console/internal/util"

	"go.uber.org/zap"
)

// Session is the single process-wide authentication state. It is set by a
// successful login and cleared either by Logout or by the API client when
// the backend answers 401.
type Session struct {
	mu            sync.Mutex
	authenticated bool
	token         string
	logger        *zap.Logger
}

// NewSession creates an unauthenticated session.
func NewSession() *Session {
	return &Session{logger: util.GetLogger()}
}

// Login posts credentials to /api/login and flips the session on success.
// Backends answer in more than one shape; LoginResult.OK covers them.
func (s *Session) Login(ctx context.Context, client *apiclient.Client, creds models.Credentials) error {
	var result models.LoginResult
	if err := client.Post(ctx, "/api/login", creds, &result); err != nil {
		util.LoginAttemptsTotal.WithLabelValues("error").Inc()
		return fmt.Errorf("login failed: %w", err)
	}

	if !result.OK() {
		util.LoginAttemptsTotal.WithLabelValues("rejected").Inc()
		if result.Message != "" {
			return fmt.Errorf("login rejected: %s", result.Message)
		}
		return fmt.Errorf("login rejected: invalid username or password")
	}

	s.mu.Lock()
	s.authenticated = true
	s.token = result.Token
	s.mu.Unlock()

	util.LoginAttemptsTotal.WithLabelValues("success").Inc()
	s.logger.Info("Login successful", zap.Bool("token_issued", result.Token != ""))
	return nil
}

// Authenticated reports whether the session is active.
func (s *Session) Authenticated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.authenticated
}

// Token returns the stored bearer token, empty when none was issued.
func (s *Session) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

// Clear drops the session state. Called on logout and on 401 responses.
func (s *Session) Clear() {
	s.mu.Lock()
	s.authenticated = false
	s.token = ""
	s.mu.Unlock()
}
