// Package render turns extracted endpoints into generated source text.
package render

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
)

// TemplateExt is appended to template names loaded from disk.
const TemplateExt = ".template"

// Template is text with {{ key }} placeholders.
type Template struct {
	text string
}

// NewTemplate wraps raw template text.
func NewTemplate(text string) *Template {
	return &Template{text: text}
}

// LoadTemplate reads path, falling back to "<path>.template".
func LoadTemplate(path string) (*Template, error) {
	b, err := os.ReadFile(path)
	if os.IsNotExist(err) && filepath.Ext(path) != TemplateExt {
		b, err = os.ReadFile(path + TemplateExt)
	}
	if err != nil {
		return nil, fmt.Errorf("template not found at path: %s: %w", path, err)
	}
	if len(b) == 0 {
		return nil, fmt.Errorf("template is empty: %s", path)
	}
	return NewTemplate(string(b)), nil
}

// Fill replaces every {{ key }} placeholder (whitespace inside the braces
// is ignored) with value, literally.
func (t *Template) Fill(key, value string) *Template {
	re := regexp.MustCompile(`\{\{\s*` + regexp.QuoteMeta(key) + `\s*\}\}`)
	t.text = re.ReplaceAllLiteralString(t.text, value)
	return t
}

// String returns the current text.
func (t *Template) String() string { return t.text }
