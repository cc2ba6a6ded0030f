package seed

import (
	"context"
	"log/slog"
)

// course pairs a degree programme name with its short code.
type course struct {
	name string
	code string
}

// apuITCourses is the fixed catalog of APU School of Computing programmes.
var apuITCourses = []course{
	{"BSc (Hons) in Software Engineering", "SE"},
	{"BSc (Hons) in Computer Science", "CS"},
	{"BSc (Hons) in Computer Science (Cyber Security)", "CS-CYBER"},
	{"BSc (Hons) in Computer Science (Data Analytics)", "CS-DA"},
	{"BSc (Hons) in Computer Science (Artificial Intelligence)", "CS-AI"},
	{"BSc (Hons) in Information Technology", "IT"},
	{"BSc (Hons) in Information Technology (Information Systems Security)", "IT-ISS"},
	{"BSc (Hons) in Information Technology (Cloud Computing)", "IT-CC"},
	{"BSc (Hons) in Information Technology (Network Computing)", "IT-NC"},
	{"BSc (Hons) in Information Technology (Internet of Things)", "IT-IOT"},
	{"BSc (Hons) in Information Technology (FinTech)", "IT-FT"},
	{"BSc (Hons) in Information Technology (Business Information Systems)", "IT-BIS"},
}

// courseCatalog is the subset of *storage.CatalogStore this seeder uses.
type courseCatalog interface {
	CreateCourseIfAbsent(ctx context.Context, name, code string) (bool, error)
}

type courseSeeder struct {
	catalog courseCatalog
}

func (s *courseSeeder) Name() string { return "university_courses" }

func (s *courseSeeder) Run(ctx context.Context) error {
	var added, skipped int
	for _, c := range apuITCourses {
		inserted, err := s.catalog.CreateCourseIfAbsent(ctx, c.name, c.code)
		if err != nil {
			return err
		}
		if inserted {
			added++
		} else {
			skipped++
		}
	}

	slog.InfoContext(ctx, "courses seeded", "added", added, "skipped", skipped)
	return nil
}
