package seed

import (
	"context"
	"log/slog"
)

// languageNames is the programming-language catalog. HTML, CSS, and the
// shell dialects are included because they are commonly listed as skills.
var languageNames = []string{
	"Python",
	"JavaScript",
	"TypeScript",
	"Java",
	"C",
	"C++",
	"C#",
	"Go",
	"Rust",
	"PHP",
	"Ruby",
	"Swift",
	"Kotlin",
	"Dart",
	"SQL",
	"HTML",
	"CSS",
	"Shell",
	"Bash",
	"PowerShell",
	"Haskell",
	"Elixir",
	"Erlang",
	"Clojure",
	"F#",
	"OCaml",
	"Scala",
	"Lisp",
	"Scheme",
	"Racket",
	"Elm",
	"Reason",
	"PureScript",
	"Zig",
	"Nim",
	"Crystal",
	"V",
	"D",
	"Julia",
	"Lua",
	"Perl",
	"R",
	"Matlab",
	"Groovy",
	"Tcl",
	"Delphi",
	"Object Pascal",
	"Ada",
	"Fortran",
	"Cobol",
	"Assembly",
	"WebAssembly",
	"Objective-C",
	"Solidity",
	"Vyper",
	"Apex",
	"ABAP",
	"SAS",
	"Visual Basic",
	"VBA",
	"ActionScript",
	"CoffeeScript",
	"Pascal",
	"Basic",
	"Prolog",
	"Smalltalk",
	"Scratch",
	"Logo",
	"Alice",
	"Awk",
	"Sed",
	"Verilog",
	"VHDL",
	"LabVIEW",
	"OpenEdge ABL",
	"PL/SQL",
	"Transact-SQL",
	"ColdFusion",
	"AutoLISP",
	"Eiffel",
	"Forth",
	"FoxPro",
	"Hack",
	"Haxe",
	"Idris",
	"J#",
	"JScript",
	"Mercury",
	"Mojo",
	"Oxygene",
	"Oz",
	"PostScript",
	"Q#",
	"RPG",
	"Simula",
	"Standard ML",
	"Vala",
	"Wolfram Language",
	"XSLT",
}

// languageCatalog is the subset of *storage.CatalogStore this seeder uses.
type languageCatalog interface {
	CreateLanguage(ctx context.Context, name string, addedBy *string) (bool, error)
}

type languageSeeder struct {
	catalog languageCatalog
}

func (s *languageSeeder) Name() string { return "programming_languages" }

func (s *languageSeeder) Run(ctx context.Context) error {
	var added, skipped int
	for _, name := range languageNames {
		inserted, err := s.catalog.CreateLanguage(ctx, name, nil)
		if err != nil {
			return err
		}
		if inserted {
			added++
		} else {
			skipped++
		}
	}

	slog.InfoContext(ctx, "programming languages seeded", "added", added, "skipped", skipped)
	return nil
}
