package renderer

import (
	"bytes"
	"fmt"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

var (
	htmlConverter = goldmark.New(goldmark.WithExtensions(extension.GFM))
	// memos and client names are free text typed at the desk
	htmlPolicy = bluemonday.UGCPolicy()
)

// HTML converts a markdown report to a sanitized HTML fragment. Tables are rendered with the
// GitHub flavored markdown extension.
func HTML(markdown string) (string, error) {
	var buf bytes.Buffer
	if err := htmlConverter.Convert([]byte(markdown), &buf); err != nil {
		return "", fmt.Errorf("could not convert report to html: %w", err)
	}
	return htmlPolicy.Sanitize(buf.String()), nil
}
