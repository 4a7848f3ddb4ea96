package auth

import (
	"context"
	"log/slog"
	"sync"

	"techsocial/internal/api"
	"techsocial/internal/models"
	"techsocial/internal/utils"
)

// Session is the single authenticated-session handle. It owns the current
// user reference and the stored credentials, and invalidates both together on
// sign-out. It implements api.SecretProvider.
type Session struct {
	mu      sync.RWMutex
	store   CredentialStore
	current *models.User
	secret  string
	log     *slog.Logger
}

func NewSession(store CredentialStore) *Session {
	return &Session{
		store: store,
		log:   slog.Default().With("component", "session"),
	}
}

// Secret returns the bearer credential for the api client.
func (s *Session) Secret() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.secret, s.secret != ""
}

// CurrentUser returns the signed-in user, or nil. Callers treat the result
// as read-only.
func (s *Session) CurrentUser() *models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// SignIn authenticates and persists the returned credentials.
func (s *Session) SignIn(ctx context.Context, client *api.Client, email, password string) (*models.User, error) {
	user, err := client.SignIn(ctx, email, password)
	if err != nil {
		return nil, err
	}

	if err := s.store.Save(KeyUserSecret, user.Secret.String()); err != nil {
		return nil, err
	}
	if err := s.store.Save(KeyUserUUID, user.UserUUID.String()); err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.current = user
	s.secret = user.Secret.String()
	s.mu.Unlock()

	s.log.Info("signed in", "userName", user.UserName)
	return user, nil
}

// Resume restores a session from stored credentials and fetches the profile.
// Used on startup to auto-authenticate.
func (s *Session) Resume(ctx context.Context, client *api.Client) (*models.User, error) {
	secret, ok := s.store.Get(KeyUserSecret)
	if !ok {
		return nil, utils.NewUnauthorizedError("no stored credential")
	}

	s.mu.Lock()
	s.secret = secret
	s.mu.Unlock()

	user, err := client.UserProfile(ctx)
	if err != nil {
		if utils.IsAuthError(err) {
			// Stored secret no longer valid; drop it.
			s.SignOut()
		}
		return nil, err
	}

	s.mu.Lock()
	s.current = user
	s.mu.Unlock()
	return user, nil
}

// UpdateProfile pushes the editable fields and mirrors them locally on
// success.
func (s *Session) UpdateProfile(ctx context.Context, client *api.Client, userName, bio, techInterests string) error {
	if err := client.UpdateProfile(ctx, userName, bio, techInterests); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current != nil {
		s.current.UserName = userName
		s.current.Bio = &bio
		s.current.TechInterests = &techInterests
	}
	return nil
}

// SignOut clears the current user and deletes both stored credentials under
// one lock, so no caller can observe a half-cleared session.
func (s *Session) SignOut() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.current = nil
	s.secret = ""
	if err := s.store.Delete(KeyUserSecret); err != nil {
		s.log.Warn("could not delete stored secret", "error", err)
	}
	if err := s.store.Delete(KeyUserUUID); err != nil {
		s.log.Warn("could not delete stored user id", "error", err)
	}
}
