package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/CodeAfu/apu-code-collab-api/internal/storage"
)

// Flow errors, mapped to error-envelope codes and HTTP statuses by the API
// layer.
var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrTokenRevoked       = errors.New("refresh token is invalid or revoked")
	ErrUserNotFound       = errors.New("user not found")
	ErrUserInactive       = errors.New("user is not active")
)

// UserStore is the subset of *storage.UserStore the auth flows read.
type UserStore interface {
	GetByAPUID(ctx context.Context, apuID string) (*storage.User, error)
	GetByID(ctx context.Context, id string) (*storage.User, error)
}

// RefreshTokenStore is the subset of *storage.TokenStore the auth flows use.
type RefreshTokenStore interface {
	Create(ctx context.Context, userID, token string, expiresAt time.Time) (*storage.RefreshToken, error)
	GetActive(ctx context.Context, token string) (*storage.RefreshToken, error)
	Revoke(ctx context.Context, token string) error
}

// TokenPair is what a successful login or refresh hands back to the client.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
}

// Service implements the login, refresh, and revocation flows over the
// stores and the token issuer.
type Service struct {
	users  UserStore
	tokens RefreshTokenStore
	issuer *Issuer
}

// NewService wires the auth flows.
func NewService(users UserStore, tokens RefreshTokenStore, issuer *Issuer) *Service {
	return &Service{users: users, tokens: tokens, issuer: issuer}
}

// Issuer exposes the token issuer for middleware that only verifies tokens.
func (s *Service) Issuer() *Issuer {
	return s.issuer
}

// Authenticate verifies the campus ID and password. When the user is not
// found a dummy hash comparison runs anyway so response timing does not
// reveal which accounts exist.
func (s *Service) Authenticate(ctx context.Context, apuID, password string) (*storage.User, error) {
	user, err := s.users.GetByAPUID(ctx, apuID)
	if errors.Is(err, storage.ErrNotFound) {
		verifyDummy(password)
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("looking up user: %w", err)
	}

	if !VerifyPassword(password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	return user, nil
}

// Login authenticates the user, issues an access/refresh pair, and persists
// the refresh token so it can later be revoked.
func (s *Service) Login(ctx context.Context, apuID, password string) (*TokenPair, error) {
	user, err := s.Authenticate(ctx, apuID, password)
	if err != nil {
		return nil, err
	}
	return s.IssuePair(ctx, user)
}

// IssuePair issues and persists a token pair for an already-authenticated
// user. Used by password login and by the GitHub OAuth callback.
func (s *Service) IssuePair(ctx context.Context, user *storage.User) (*TokenPair, error) {
	access, err := s.issuer.AccessToken(user.ID, user.APUID, string(user.Role))
	if err != nil {
		return nil, err
	}

	refresh, err := s.issuer.RefreshToken(user.ID, user.APUID, string(user.Role))
	if err != nil {
		return nil, err
	}

	expiresAt := time.Now().UTC().Add(s.issuer.RefreshTTL())
	if _, err := s.tokens.Create(ctx, user.ID, refresh, expiresAt); err != nil {
		return nil, fmt.Errorf("persisting refresh token: %w", err)
	}

	return &TokenPair{AccessToken: access, RefreshToken: refresh, TokenType: "Bearer"}, nil
}

// Refresh validates a refresh token against both its signature and the
// database record, then issues a new access token. The refresh token itself
// is returned unchanged — it stays valid until revoked or expired.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	claims, err := s.issuer.Verify(refreshToken, TokenTypeRefresh)
	if err != nil {
		return nil, err
	}

	record, err := s.tokens.GetActive(ctx, refreshToken)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, ErrTokenRevoked
	}
	if err != nil {
		return nil, fmt.Errorf("looking up refresh token: %w", err)
	}

	if record.ExpiresAt.Before(time.Now().UTC()) {
		return nil, ErrTokenExpired
	}

	user, err := s.users.GetByAPUID(ctx, claims.APUID())
	if errors.Is(err, storage.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}

	access, err := s.issuer.AccessToken(user.ID, user.APUID, string(user.Role))
	if err != nil {
		return nil, err
	}

	return &TokenPair{AccessToken: access, RefreshToken: refreshToken, TokenType: "Bearer"}, nil
}

// Revoke marks a refresh token unusable. Revoking a token that was never
// issued reports ErrTokenRevoked — the caller cannot tell the cases apart.
func (s *Service) Revoke(ctx context.Context, refreshToken string) error {
	err := s.tokens.Revoke(ctx, refreshToken)
	if errors.Is(err, storage.ErrNotFound) {
		slog.WarnContext(ctx, "revoke of unknown refresh token")
		return ErrTokenRevoked
	}
	return err
}

// CurrentUser resolves an access token to an active user account.
func (s *Service) CurrentUser(ctx context.Context, accessToken string) (*storage.User, error) {
	claims, err := s.issuer.Verify(accessToken, TokenTypeAccess)
	if err != nil {
		return nil, err
	}

	user, err := s.users.GetByID(ctx, claims.UserID)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}

	if !user.IsActive {
		return nil, ErrUserInactive
	}

	return user, nil
}
