package content

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// Unsafe rendering stays off, so raw HTML in the source is dropped.
var md = goldmark.New(
	goldmark.WithExtensions(extension.Linkify, extension.Typographer),
)

// RenderMarkdown converts Markdown to HTML for direct use in templates.
func RenderMarkdown(src string) (template.HTML, error) {
	var buf bytes.Buffer
	if err := md.Convert([]byte(src), &buf); err != nil {
		return "", fmt.Errorf("rendering markdown: %w", err)
	}
	return template.HTML(buf.String()), nil
}

// BioHTML renders the profile biography.
func (p *Portfolio) BioHTML() (template.HTML, error) {
	return RenderMarkdown(p.Profile.Bio)
}
