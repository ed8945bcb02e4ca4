package site

import (
	"log/slog"
)

// stageValidate is the best-effort validation pass: it reports non-fatal
// content issues as warnings and never blocks the build.
func stageValidate(bs *buildState) error {
	type key struct {
		typeName string
		lang     string
		slug     string
	}
	seen := make(map[key]string, len(bs.items))

	for _, c := range bs.items {
		if def, ok := bs.cfg.TypeFor(c.Type()); ok {
			if def.Dated && !c.HasDate() {
				slog.Warn("Dated content type without a date",
					"file", c.SourcePath, "type", c.Type())
			}
			for _, field := range def.RequiredFields {
				if field == "title" {
					continue // enforced by the loader
				}
				if _, present := c.Metadata[field]; !present {
					slog.Warn("Missing required front-matter field",
						"file", c.SourcePath, "field", field)
				}
			}
		}

		k := key{typeName: c.Type(), lang: c.Language, slug: c.Slug}
		if other, dup := seen[k]; dup {
			// Later duplicates overwrite earlier ones in archives and indexes.
			slog.Warn("Duplicate slug within content type and language",
				"slug", c.Slug, "type", c.Type(), "language", c.Language,
				"file", c.SourcePath, "conflicts_with", other)
		} else {
			seen[k] = c.SourcePath
		}
	}
	return nil
}
