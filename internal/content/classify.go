package content

import (
	"path/filepath"
	"strings"

	"github.com/polysite/polysite/internal/config"
)

// Classifier assigns content type and language to parsed Content based on its
// path relative to the content root.
type Classifier struct {
	cfg *config.Config
}

// NewClassifier builds a Classifier over the resolved configuration.
func NewClassifier(cfg *config.Config) *Classifier {
	return &Classifier{cfg: cfg}
}

// Classify annotates c in place. After classification the language is always
// a concrete configured code, never empty.
//
// The first path segment is inspected against the configured language codes:
// a match with a non-default code sets the language and is stripped before the
// content type is read. A directory named after an unconfigured language code
// is just a content-type directory.
func (cl *Classifier) Classify(c *Content, relPath string) {
	segments := splitPath(relPath)

	lang := cl.cfg.DefaultLanguage
	if len(segments) > 1 {
		first := segments[0]
		if first != cl.cfg.DefaultLanguage && cl.cfg.HasLanguage(first) {
			lang = first
			segments = segments[1:]
		}
	}
	// Explicit front-matter language wins over path routing when configured.
	if c.Language != "" && cl.cfg.HasLanguage(c.Language) {
		lang = c.Language
	}
	c.Language = lang

	contentType := "pages"
	if len(segments) > 1 {
		contentType = segments[0]
	}
	c.Metadata[MetaContentType] = contentType

	langPrefix := ""
	if lang != cl.cfg.DefaultLanguage {
		langPrefix = lang
	}
	c.Metadata[MetaLangPrefix] = langPrefix

	if def, ok := cl.cfg.TypeFor(contentType); ok {
		c.Metadata[MetaURLPrefix] = def.URLPrefix
		if def.DefaultLayout != "" {
			c.Metadata[MetaDefaultLayout] = def.DefaultLayout
		}
	} else {
		// Unregistered directories still route beneath their own name.
		c.Metadata[MetaURLPrefix] = contentType
	}
}

func splitPath(relPath string) []string {
	clean := filepath.ToSlash(filepath.Clean(relPath))
	return strings.Split(clean, "/")
}
