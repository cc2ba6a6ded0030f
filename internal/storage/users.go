package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// UserStore runs user queries.
type UserStore struct {
	db DB
}

const userColumns = `id, apu_id, first_name, last_name, email, password_hash,
	is_active, role, github_id, github_username, github_access_token,
	github_avatar_url, university_course_id, course_year, created_at, updated_at`

func scanUser(row pgx.Row) (*User, error) {
	var u User
	err := row.Scan(
		&u.ID, &u.APUID, &u.FirstName, &u.LastName, &u.Email, &u.PasswordHash,
		&u.IsActive, &u.Role, &u.GitHubID, &u.GitHubUsername, &u.GitHubAccessToken,
		&u.GitHubAvatarURL, &u.UniversityCourseID, &u.CourseYear, &u.CreatedAt, &u.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// List returns all users. Exposed only in development mode.
func (s *UserStore) List(ctx context.Context) ([]User, error) {
	rows, err := s.db.Query(ctx, "SELECT "+userColumns+" FROM users ORDER BY created_at")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *u)
	}
	return users, rows.Err()
}

// GetByID returns the user with the given ID, or ErrNotFound.
func (s *UserStore) GetByID(ctx context.Context, id string) (*User, error) {
	return scanUser(s.db.QueryRow(ctx, "SELECT "+userColumns+" FROM users WHERE id = $1", id))
}

// GetByAPUID returns the user with the given campus ID, or ErrNotFound.
func (s *UserStore) GetByAPUID(ctx context.Context, apuID string) (*User, error) {
	return scanUser(s.db.QueryRow(ctx, "SELECT "+userColumns+" FROM users WHERE apu_id = $1", apuID))
}

// GetByEmail returns the user with the given email, or ErrNotFound.
func (s *UserStore) GetByEmail(ctx context.Context, email string) (*User, error) {
	return scanUser(s.db.QueryRow(ctx, "SELECT "+userColumns+" FROM users WHERE email = $1", email))
}

// Exists reports whether any user already holds the email or campus ID.
// Used to reject duplicate registrations before the insert.
func (s *UserStore) Exists(ctx context.Context, email, apuID string) (bool, error) {
	var one int
	err := s.db.QueryRow(ctx,
		"SELECT 1 FROM users WHERE email = $1 OR apu_id = $2", email, apuID,
	).Scan(&one)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Create inserts u, assigning a fresh ID and timestamps. The caller has
// already hashed the password and derived the role.
func (s *UserStore) Create(ctx context.Context, u *User) (*User, error) {
	u.ID = uuid.NewString()
	now := time.Now().UTC()
	u.CreatedAt = now
	u.UpdatedAt = now

	_, err := s.db.Exec(ctx, `
		INSERT INTO users (id, apu_id, first_name, last_name, email, password_hash,
			is_active, role, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		u.ID, u.APUID, u.FirstName, u.LastName, u.Email, u.PasswordHash,
		u.IsActive, u.Role, u.CreatedAt, u.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("inserting user: %w", err)
	}
	return u, nil
}

// Delete removes the user. Returns ErrNotFound when no row matched.
func (s *UserStore) Delete(ctx context.Context, id string) error {
	tag, err := s.db.Exec(ctx, "DELETE FROM users WHERE id = $1", id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// LinkGitHub attaches a GitHub identity to the user account.
func (s *UserStore) LinkGitHub(ctx context.Context, userID string, ghID int64, username, accessToken, avatarURL string) error {
	tag, err := s.db.Exec(ctx, `
		UPDATE users
		SET github_id = $2, github_username = $3, github_access_token = $4,
			github_avatar_url = $5, updated_at = now()
		WHERE id = $1`,
		userID, ghID, username, accessToken, avatarURL,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// UnlinkGitHub clears the GitHub identity from the user account.
func (s *UserStore) UnlinkGitHub(ctx context.Context, userID string) error {
	tag, err := s.db.Exec(ctx, `
		UPDATE users
		SET github_id = NULL, github_username = NULL, github_access_token = NULL,
			github_avatar_url = NULL, updated_at = now()
		WHERE id = $1`,
		userID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
