package config

// Built-in content-type registry. Caller-supplied definitions override
// entries with the same directory name.
func builtinContentTypes() map[string]ContentType {
	return map[string]ContentType{
		"posts": {
			Dir:            "posts",
			URLPrefix:      "posts",
			DefaultLayout:  "post",
			RequiredFields: []string{"title"},
			Dated:          true,
		},
		"pages": {
			Dir:            "pages",
			URLPrefix:      "", // pages hang off the site root
			DefaultLayout:  "page",
			RequiredFields: []string{"title"},
		},
	}
}

// Default builds a configuration with every default applied, suitable for
// building a site without a config file.
func Default() *Config {
	cfg := &Config{}
	cfg.ApplyDefaults()
	return cfg
}

// ApplyDefaults fills unset fields with their defaults and merges the
// built-in content-type registry beneath any caller-supplied entries.
func (c *Config) ApplyDefaults() {
	if c.Title == "" {
		c.Title = "My Site"
	}
	if c.BaseURL == "" {
		c.BaseURL = "http://localhost:8080"
	}
	if c.Theme == "" {
		c.Theme = "default"
	}
	if c.ContentDir == "" {
		c.ContentDir = "content"
	}
	if c.OutputDir == "" {
		c.OutputDir = "output"
	}
	if c.ThemesDir == "" {
		c.ThemesDir = "themes"
	}
	if c.StaticDir == "" {
		c.StaticDir = "static"
	}
	if c.PerPage < 1 {
		c.PerPage = 10
	}
	if c.ExcerptLength == 0 {
		c.ExcerptLength = 200
	}
	if c.DefaultLanguage == "" {
		c.DefaultLanguage = "en"
	}
	if len(c.Languages) == 0 {
		c.Languages = []Language{{Code: c.DefaultLanguage}}
	}
	if !c.HasLanguage(c.DefaultLanguage) {
		c.Languages = append([]Language{{Code: c.DefaultLanguage}}, c.Languages...)
	}

	merged := builtinContentTypes()
	for dir, ct := range c.ContentTypes {
		if ct.Dir == "" {
			ct.Dir = dir
		}
		merged[dir] = ct
	}
	c.ContentTypes = merged
}
