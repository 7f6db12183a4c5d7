package render

import (
	"html/template"
	"strings"
	"sync"

	"github.com/gomarkdown/markdown"
	"github.com/microcosm-cc/bluemonday"
)

var (
	richTextOnce   sync.Once
	richTextPolicy *bluemonday.Policy
)

func richTextSanitizer() *bluemonday.Policy {
	richTextOnce.Do(func() {
		policy := bluemonday.UGCPolicy()
		policy.RequireNoFollowOnLinks(true)
		policy.AddTargetBlankToFullyQualifiedLinks(true)
		richTextPolicy = policy
	})
	return richTextPolicy
}

// RichText renders CMS authored markdown to sanitized HTML. Blank input
// renders to nothing.
func RichText(raw string) template.HTML {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	out := markdown.ToHTML([]byte(trimmed), nil, nil)
	cleaned := strings.TrimSpace(string(richTextSanitizer().SanitizeBytes(out)))
	return template.HTML(cleaned)
}
