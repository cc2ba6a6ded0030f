package seed

import (
	"context"
	"log/slog"
)

// frameworkNames covers the frameworks and libraries students most often
// list on their profiles.
var frameworkNames = []string{
	// JavaScript / TypeScript
	"React",
	"Next.js",
	"Vue.js",
	"Nuxt.js",
	"Angular",
	"Svelte",
	"SvelteKit",
	"Express.js",
	"NestJS",
	"Tailwind CSS",
	// Python
	"FastAPI",
	"Django",
	"Flask",
	// Java
	"Spring Boot",
	// C#
	"ASP.NET Core",
	// PHP
	"Laravel",
	"Symfony",
	// Mobile
	"Flutter",
	"React Native",
}

// frameworkCatalog is the subset of *storage.CatalogStore this seeder uses.
type frameworkCatalog interface {
	CreateFramework(ctx context.Context, name string, addedBy *string) (bool, error)
}

type frameworkSeeder struct {
	catalog frameworkCatalog
}

func (s *frameworkSeeder) Name() string { return "frameworks" }

func (s *frameworkSeeder) Run(ctx context.Context) error {
	var added, skipped int
	for _, name := range frameworkNames {
		inserted, err := s.catalog.CreateFramework(ctx, name, nil)
		if err != nil {
			return err
		}
		if inserted {
			added++
		} else {
			skipped++
		}
	}

	slog.InfoContext(ctx, "frameworks seeded", "added", added, "skipped", skipped)
	return nil
}
