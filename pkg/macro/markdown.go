package macro

import (
	"bytes"
	"html"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// mdParser is a pre-configured goldmark instance for footnote bodies.
var mdParser = goldmark.New(
	goldmark.WithExtensions(extension.Strikethrough, extension.Linkify),
)

// InlineMarkdown renders a single paragraph of markdown to HTML without the
// surrounding <p> element. On conversion failure the text is escaped instead.
func InlineMarkdown(src string) string {
	src = strings.TrimSpace(src)
	if src == "" {
		return ""
	}

	var buf bytes.Buffer
	if err := mdParser.Convert([]byte(src), &buf); err != nil {
		return html.EscapeString(src)
	}

	out := strings.TrimSpace(buf.String())
	if strings.HasPrefix(out, "<p>") && strings.HasSuffix(out, "</p>") && strings.Count(out, "<p>") == 1 {
		out = strings.TrimSuffix(strings.TrimPrefix(out, "<p>"), "</p>")
	}
	return out
}

// ToMarkdown converts expanded HTML back to markdown for previews.
func ToMarkdown(htmlText string) (string, error) {
	if htmlText == "" {
		return "", nil
	}
	markdown, err := htmltomarkdown.ConvertString(htmlText)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(markdown), nil
}
