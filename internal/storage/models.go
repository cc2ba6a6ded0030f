// Package storage owns the Postgres connection pool, the typed stores the
// HTTP handlers and seeders run queries through, and the dependency health
// probes. One pool is shared by the boot stages and the request path.
package storage

import (
	"strings"
	"time"
)

// Role is the access level of a user account.
type Role string

const (
	RoleStudent Role = "student"
	RoleTeacher Role = "teacher"
	RoleAdmin   Role = "admin"
)

// RoleFromAPUID derives the account role from the campus ID prefix:
// TP-prefixed IDs belong to students, TC-prefixed IDs to teaching staff.
func RoleFromAPUID(apuID string) Role {
	switch {
	case strings.HasPrefix(apuID, "TC"):
		return RoleTeacher
	default:
		return RoleStudent
	}
}

// CourseYear is the study year of a student within their course.
type CourseYear string

const (
	Year1 CourseYear = "YEAR_1"
	Year2 CourseYear = "YEAR_2"
	Year3 CourseYear = "YEAR_3"
	Year4 CourseYear = "YEAR_4"
)

// User is an account on the platform. PasswordHash is never serialized.
type User struct {
	ID                 string      `json:"id"`
	APUID              string      `json:"apu_id"`
	FirstName          string      `json:"first_name"`
	LastName           string      `json:"last_name"`
	Email              string      `json:"email"`
	PasswordHash       string      `json:"-"`
	IsActive           bool        `json:"is_active"`
	Role               Role        `json:"role"`
	GitHubID           *int64      `json:"github_id,omitempty"`
	GitHubUsername     *string     `json:"github_username,omitempty"`
	GitHubAccessToken  *string     `json:"-"`
	GitHubAvatarURL    *string     `json:"github_avatar_url,omitempty"`
	UniversityCourseID *string     `json:"university_course_id,omitempty"`
	CourseYear         *CourseYear `json:"course_year,omitempty"`
	CreatedAt          time.Time   `json:"created_at"`
	UpdatedAt          time.Time   `json:"updated_at"`
}

// RefreshToken is a persisted long-lived credential. Revocation is a soft
// flag so that replayed tokens can be told apart from never-issued ones.
type RefreshToken struct {
	ID        string     `json:"id"`
	UserID    string     `json:"user_id"`
	Token     string     `json:"token"`
	ExpiresAt time.Time  `json:"expires_at"`
	Revoked   bool       `json:"revoked"`
	RevokedAt *time.Time `json:"revoked_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// GithubRepository is a repository a user shares on their profile.
// Collaborators and contributors hold GitHub usernames.
type GithubRepository struct {
	ID            string    `json:"id"`
	UserID        string    `json:"user_id"`
	Name          string    `json:"name"`
	URL           string    `json:"url"`
	Description   *string   `json:"description,omitempty"`
	Collaborators []string  `json:"collaborators"`
	Contributors  []string  `json:"contributors"`
	Skills        []string  `json:"skills"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// ProgrammingLanguage is a catalog entry users attach to their profile.
type ProgrammingLanguage struct {
	ID      string  `json:"id"`
	Name    string  `json:"name"`
	AddedBy *string `json:"added_by,omitempty"`
}

// Framework is a catalog entry for frameworks and libraries.
type Framework struct {
	ID      string  `json:"id"`
	Name    string  `json:"name"`
	AddedBy *string `json:"added_by,omitempty"`
}

// UniversityCourse is a degree programme students enrol in.
type UniversityCourse struct {
	ID   string  `json:"id"`
	Name string  `json:"name"`
	Code *string `json:"code,omitempty"`
}
