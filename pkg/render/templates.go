// Package render holds the embedded HTML templates of the contact pages
// and the helpers that turn CMS text into safe markup.
package render

import (
	"embed"
	"fmt"
	"html/template"
	"strings"
)

//go:embed templates/*.html
var templateFS embed.FS

// Template names executed by the HTTP handlers.
const (
	PageTemplate = "page.html"
	FormTemplate = "form_fragment.html"
	HelpTemplate = "help_fragment.html"
)

var funcs = template.FuncMap{
	"lower": strings.ToLower,
}

// Templates parses the embedded templates. The navigation and footer
// slots can be replaced by passing extra template text that redefines the
// "navigation" or "footer" blocks.
func Templates(overrides ...string) (*template.Template, error) {
	tmpl, err := template.New("contact").Funcs(funcs).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("error parsing templates: %w", err)
	}
	for i, text := range overrides {
		if _, err := tmpl.New(fmt.Sprintf("override-%d", i)).Parse(text); err != nil {
			return nil, fmt.Errorf("error parsing template override %d: %w", i, err)
		}
	}
	return tmpl, nil
}
