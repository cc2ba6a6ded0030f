package storage

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// CatalogStore runs queries for the three reference catalogs: programming
// languages, frameworks, and university courses. Languages and frameworks
// share a shape, so their queries are generated from the table name.
type CatalogStore struct {
	db DB
}

// namedEntry is the common shape of programming_languages and frameworks.
type namedEntry struct {
	ID      string
	Name    string
	AddedBy *string
}

func (s *CatalogStore) listNamed(ctx context.Context, table string) ([]namedEntry, error) {
	rows, err := s.db.Query(ctx, "SELECT id, name, added_by FROM "+table+" ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []namedEntry
	for rows.Next() {
		var e namedEntry
		if err := rows.Scan(&e.ID, &e.Name, &e.AddedBy); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (s *CatalogStore) getNamed(ctx context.Context, table, column, value string) (*namedEntry, error) {
	var e namedEntry
	err := s.db.QueryRow(ctx,
		"SELECT id, name, added_by FROM "+table+" WHERE "+column+" = $1", value,
	).Scan(&e.ID, &e.Name, &e.AddedBy)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// insertNamedIfAbsent inserts a row unless the name is already present.
// Returns true when a row was inserted. This is the idempotency primitive
// the seeders rely on: re-running a seed on every boot only logs skips.
func (s *CatalogStore) insertNamedIfAbsent(ctx context.Context, table, name string, addedBy *string) (bool, error) {
	tag, err := s.db.Exec(ctx,
		"INSERT INTO "+table+" (id, name, added_by) VALUES ($1, $2, $3) ON CONFLICT (name) DO NOTHING",
		uuid.NewString(), name, addedBy,
	)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (s *CatalogStore) updateNamed(ctx context.Context, table, id, newName string) error {
	tag, err := s.db.Exec(ctx, "UPDATE "+table+" SET name = $2 WHERE id = $1", id, newName)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *CatalogStore) deleteNamed(ctx context.Context, table, id string) error {
	tag, err := s.db.Exec(ctx, "DELETE FROM "+table+" WHERE id = $1", id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// --- Programming languages ---

func (s *CatalogStore) ListLanguages(ctx context.Context) ([]ProgrammingLanguage, error) {
	entries, err := s.listNamed(ctx, "programming_languages")
	if err != nil {
		return nil, err
	}
	langs := make([]ProgrammingLanguage, len(entries))
	for i, e := range entries {
		langs[i] = ProgrammingLanguage(e)
	}
	return langs, nil
}

func (s *CatalogStore) GetLanguage(ctx context.Context, id string) (*ProgrammingLanguage, error) {
	e, err := s.getNamed(ctx, "programming_languages", "id", id)
	if err != nil {
		return nil, err
	}
	lang := ProgrammingLanguage(*e)
	return &lang, nil
}

func (s *CatalogStore) GetLanguageByName(ctx context.Context, name string) (*ProgrammingLanguage, error) {
	e, err := s.getNamed(ctx, "programming_languages", "name", name)
	if err != nil {
		return nil, err
	}
	lang := ProgrammingLanguage(*e)
	return &lang, nil
}

// CreateLanguage adds a language unless the name is taken.
func (s *CatalogStore) CreateLanguage(ctx context.Context, name string, addedBy *string) (bool, error) {
	return s.insertNamedIfAbsent(ctx, "programming_languages", name, addedBy)
}

func (s *CatalogStore) UpdateLanguage(ctx context.Context, id, newName string) error {
	return s.updateNamed(ctx, "programming_languages", id, newName)
}

func (s *CatalogStore) DeleteLanguage(ctx context.Context, id string) error {
	return s.deleteNamed(ctx, "programming_languages", id)
}

// --- Frameworks ---

func (s *CatalogStore) ListFrameworks(ctx context.Context) ([]Framework, error) {
	entries, err := s.listNamed(ctx, "frameworks")
	if err != nil {
		return nil, err
	}
	fws := make([]Framework, len(entries))
	for i, e := range entries {
		fws[i] = Framework(e)
	}
	return fws, nil
}

func (s *CatalogStore) GetFramework(ctx context.Context, id string) (*Framework, error) {
	e, err := s.getNamed(ctx, "frameworks", "id", id)
	if err != nil {
		return nil, err
	}
	fw := Framework(*e)
	return &fw, nil
}

func (s *CatalogStore) CreateFramework(ctx context.Context, name string, addedBy *string) (bool, error) {
	return s.insertNamedIfAbsent(ctx, "frameworks", name, addedBy)
}

func (s *CatalogStore) UpdateFramework(ctx context.Context, id, newName string) error {
	return s.updateNamed(ctx, "frameworks", id, newName)
}

func (s *CatalogStore) DeleteFramework(ctx context.Context, id string) error {
	return s.deleteNamed(ctx, "frameworks", id)
}

// --- University courses ---

func (s *CatalogStore) ListCourses(ctx context.Context) ([]UniversityCourse, error) {
	rows, err := s.db.Query(ctx, "SELECT id, name, code FROM university_courses ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var courses []UniversityCourse
	for rows.Next() {
		var c UniversityCourse
		if err := rows.Scan(&c.ID, &c.Name, &c.Code); err != nil {
			return nil, err
		}
		courses = append(courses, c)
	}
	return courses, rows.Err()
}

// CreateCourseIfAbsent inserts a course keyed by its code. Returns true when
// a row was inserted.
func (s *CatalogStore) CreateCourseIfAbsent(ctx context.Context, name, code string) (bool, error) {
	var one int
	err := s.db.QueryRow(ctx,
		"SELECT 1 FROM university_courses WHERE code = $1", code,
	).Scan(&one)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return false, err
	}

	_, err = s.db.Exec(ctx,
		"INSERT INTO university_courses (id, name, code) VALUES ($1, $2, $3)",
		uuid.NewString(), name, code,
	)
	if err != nil {
		return false, err
	}
	return true, nil
}
