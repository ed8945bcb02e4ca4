package render

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

//go:embed templates
var builtinFS embed.FS

// themeManifest is the optional theme.yaml next to a theme's layouts.
type themeManifest struct {
	Parent string `yaml:"parent"`
}

// searchRoot is one entry of the theme chain.
type searchRoot struct {
	fsys fs.FS
	// label prefixes template paths in error messages so a failing template
	// is identifiable across roots.
	label string
}

// themeChain computes the ordered layout search roots once per build: the
// active theme, its parents in inheritance order, then the built-in default.
// Lookups later walk this list first-match-wins.
func themeChain(themesDir, theme string) ([]searchRoot, error) {
	var chain []searchRoot
	seen := map[string]bool{}

	for name := theme; name != "" && !seen[name]; {
		seen[name] = true
		dir := filepath.Join(themesDir, name)
		if _, err := os.Stat(dir); err != nil {
			// A missing active theme is a configuration problem; a missing
			// ancestor just ends the chain.
			if len(chain) == 0 && name != "default" {
				return nil, fmt.Errorf("theme %q not found in %s", name, themesDir)
			}
			break
		}
		chain = append(chain, searchRoot{
			fsys:  os.DirFS(filepath.Join(dir, "layouts")),
			label: filepath.Join(dir, "layouts"),
		})
		name = themeParent(dir)
	}

	builtin, err := fs.Sub(builtinFS, "templates")
	if err != nil {
		return nil, err
	}
	chain = append(chain, searchRoot{fsys: builtin, label: "builtin"})
	return chain, nil
}

func themeParent(dir string) string {
	data, err := os.ReadFile(filepath.Join(dir, "theme.yaml"))
	if err != nil {
		return ""
	}
	var m themeManifest
	if yaml.Unmarshal(data, &m) != nil {
		return ""
	}
	return m.Parent
}

// lookup finds a template file across the chain, returning its content and a
// display path for error reporting.
func lookup(chain []searchRoot, name string) ([]byte, string, bool) {
	file := name + ".html"
	for _, root := range chain {
		data, err := fs.ReadFile(root.fsys, file)
		if err == nil {
			return data, root.label + "/" + file, true
		}
	}
	return nil, "", false
}

// AssetRoots returns the on-disk asset directories of the theme chain in
// resolution order, for the best-effort theme asset copy.
func AssetRoots(themesDir, theme string) []string {
	var roots []string
	seen := map[string]bool{}
	for name := theme; name != "" && !seen[name]; {
		seen[name] = true
		dir := filepath.Join(themesDir, name)
		if _, err := os.Stat(dir); err != nil {
			break
		}
		assets := filepath.Join(dir, "assets")
		if _, err := os.Stat(assets); err == nil {
			roots = append(roots, assets)
		}
		name = themeParent(dir)
	}
	return roots
}
