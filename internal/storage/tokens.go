package storage

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// TokenStore persists refresh tokens so they can be rotated and revoked.
type TokenStore struct {
	db DB
}

// Create persists a freshly issued refresh token.
func (s *TokenStore) Create(ctx context.Context, userID, token string, expiresAt time.Time) (*RefreshToken, error) {
	rt := RefreshToken{
		ID:        uuid.NewString(),
		UserID:    userID,
		Token:     token,
		ExpiresAt: expiresAt,
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}

	_, err := s.db.Exec(ctx, `
		INSERT INTO refresh_tokens (id, user_id, token, expires_at, revoked, created_at, updated_at)
		VALUES ($1, $2, $3, $4, false, $5, $6)`,
		rt.ID, rt.UserID, rt.Token, rt.ExpiresAt, rt.CreatedAt, rt.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &rt, nil
}

// GetActive returns the token row when it exists and has not been revoked.
// A revoked or unknown token returns ErrNotFound — callers treat both the
// same so a replayed token leaks nothing.
func (s *TokenStore) GetActive(ctx context.Context, token string) (*RefreshToken, error) {
	var rt RefreshToken
	err := s.db.QueryRow(ctx, `
		SELECT id, user_id, token, expires_at, revoked, revoked_at, created_at, updated_at
		FROM refresh_tokens
		WHERE token = $1 AND revoked = false`,
		token,
	).Scan(&rt.ID, &rt.UserID, &rt.Token, &rt.ExpiresAt, &rt.Revoked, &rt.RevokedAt, &rt.CreatedAt, &rt.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &rt, nil
}

// Revoke marks the token unusable. Returns ErrNotFound when the token was
// never issued.
func (s *TokenStore) Revoke(ctx context.Context, token string) error {
	tag, err := s.db.Exec(ctx, `
		UPDATE refresh_tokens
		SET revoked = true, revoked_at = now(), updated_at = now()
		WHERE token = $1`,
		token,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
