package storage

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// RepositoryStore runs queries for the GitHub repositories users share on
// their profiles.
type RepositoryStore struct {
	db DB
}

// ListByUser returns the repositories shared by one user.
func (s *RepositoryStore) ListByUser(ctx context.Context, userID string) ([]GithubRepository, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, user_id, name, url, description, collaborators, contributors, skills,
			created_at, updated_at
		FROM github_repositories
		WHERE user_id = $1
		ORDER BY name`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var repos []GithubRepository
	for rows.Next() {
		var r GithubRepository
		if err := rows.Scan(
			&r.ID, &r.UserID, &r.Name, &r.URL, &r.Description,
			&r.Collaborators, &r.Contributors, &r.Skills,
			&r.CreatedAt, &r.UpdatedAt,
		); err != nil {
			return nil, err
		}
		repos = append(repos, r)
	}
	return repos, rows.Err()
}

// Upsert inserts a repository or refreshes its shared metadata when the user
// already lists a repository with that name.
func (s *RepositoryStore) Upsert(ctx context.Context, r *GithubRepository) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	now := time.Now().UTC()

	_, err := s.db.Exec(ctx, `
		INSERT INTO github_repositories
			(id, user_id, name, url, description, collaborators, contributors, skills, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $9)
		ON CONFLICT ON CONSTRAINT uix_user_id_name DO UPDATE SET
			url = EXCLUDED.url,
			description = EXCLUDED.description,
			collaborators = EXCLUDED.collaborators,
			contributors = EXCLUDED.contributors,
			skills = EXCLUDED.skills,
			updated_at = EXCLUDED.updated_at`,
		r.ID, r.UserID, r.Name, r.URL, r.Description,
		r.Collaborators, r.Contributors, r.Skills, now,
	)
	return err
}

// Delete removes a repository owned by the user. Returns ErrNotFound when no
// row matched, including repositories owned by someone else.
func (s *RepositoryStore) Delete(ctx context.Context, userID, repoID string) error {
	tag, err := s.db.Exec(ctx,
		"DELETE FROM github_repositories WHERE id = $1 AND user_id = $2",
		repoID, userID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
