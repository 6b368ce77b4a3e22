package gallery

import (
	"runtime/debug"
	"sort"
)

// Dependency is one row of the Home page dependency tables.
type Dependency struct {
	Path    string
	Version string
	Purpose string
	// Dev marks test-only modules.
	Dev bool
}

var dependencies = []Dependency{
	{Path: "github.com/AlecAivazis/survey/v2", Purpose: "terminal prompts"},
	{Path: "github.com/charmbracelet/lipgloss", Purpose: "render count badges and terminal styling"},
	{Path: "github.com/flosch/pongo2/v6", Purpose: "HTML card templates"},
	{Path: "github.com/getkin/kin-openapi", Purpose: "forms from OpenAPI request bodies"},
	{Path: "github.com/goccy/go-json", Purpose: "submission snapshots"},
	{Path: "github.com/goliatone/go-theme", Purpose: "accent and theme tokens"},
	{Path: "github.com/google/uuid", Purpose: "list item identity"},
	{Path: "github.com/mattn/go-isatty", Purpose: "terminal detection"},
	{Path: "github.com/microcosm-cc/bluemonday", Purpose: "HTML sanitizing"},
	{Path: "github.com/spf13/cobra", Purpose: "command line"},
	{Path: "github.com/spf13/viper", Purpose: "configuration"},
	{Path: "gopkg.in/yaml.v3", Purpose: "form definitions"},
	{Path: "github.com/google/go-cmp", Purpose: "test diffs", Dev: true},
	{Path: "github.com/stretchr/testify", Purpose: "test assertions", Dev: true},
	{Path: "pgregory.net/rapid", Purpose: "property tests", Dev: true},
}

// Dependencies lists the modules the gallery is built on, runtime modules
// first. Versions come from the binary's build info when it carries them.
func Dependencies() []Dependency {
	versions := map[string]string{}
	if info, ok := debug.ReadBuildInfo(); ok {
		for _, dep := range info.Deps {
			versions[dep.Path] = dep.Version
			if dep.Replace != nil {
				versions[dep.Path] = dep.Replace.Version
			}
		}
	}

	out := make([]Dependency, len(dependencies))
	copy(out, dependencies)
	for i := range out {
		out[i].Version = versions[out[i].Path]
		if out[i].Version == "" {
			out[i].Version = "(devel)"
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Dev != out[j].Dev {
			return !out[i].Dev
		}
		return out[i].Path < out[j].Path
	})
	return out
}
