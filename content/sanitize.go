// Package content converts stored post content (Markdown or raw HTML) into
// sanitized HTML safe for public rendering. Markdown is rendered with goldmark
// and both paths are filtered through a bluemonday allow-list before anything
// reaches a template.
package content

import (
	"bytes"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	goldmarkhtml "github.com/yuin/goldmark/renderer/html"
)

// Type selects which rendering path and allow-list Sanitize applies.
type Type string

const (
	TypeMarkdown Type = "markdown"
	TypeHTML     Type = "html"
)

// ParseType normalizes a stored content type string. Anything other than
// "html" is treated as markdown, matching the column default.
func ParseType(s string) Type {
	if s == string(TypeHTML) {
		return TypeHTML
	}
	return TypeMarkdown
}

// markdown renders fenced code blocks and GFM tables, and passes raw HTML
// blocks through untouched so authors can mix HTML into markdown posts. The
// unsafe raw output is what the bluemonday pass below exists to clean.
var markdown = goldmark.New(
	goldmark.WithExtensions(extension.Table),
	goldmark.WithRendererOptions(goldmarkhtml.WithUnsafe()),
)

// CSS properties permitted in style attributes on img/div/span. Everything
// else in a style value is dropped by bluemonday's CSS handler.
var allowedStyles = []string{
	"color", "background-color", "text-align", "font-size", "font-weight",
	"font-style", "width", "max-width", "height", "margin", "margin-left",
	"margin-right", "margin-top", "margin-bottom", "padding", "float",
	"border", "border-radius", "display",
}

func basePolicy() *bluemonday.Policy {
	p := bluemonday.NewPolicy()
	p.AllowElements(
		"p", "br", "strong", "em", "u",
		"h1", "h2", "h3", "h4", "h5", "h6",
		"ul", "ol", "li", "blockquote", "code", "pre",
		"a", "img", "hr",
		"table", "thead", "tbody", "tr", "th", "td",
		"div", "span",
	)
	p.AllowAttrs("href", "title", "target").OnElements("a")
	p.AllowAttrs("src", "alt", "title", "width", "height", "style").OnElements("img")
	p.AllowAttrs("style", "class").OnElements("div", "span")
	p.AllowStyles(allowedStyles...).OnElements("img", "div", "span")
	p.AllowURLSchemes("http", "https", "mailto", "tel")
	p.AllowRelativeURLs(true)
	p.RequireParseableURLs(true)
	return p
}

// markdownPolicy is the allow-list for rendered markdown output.
var markdownPolicy = basePolicy()

// htmlPolicy is the broader allow-list for raw HTML posts: semantic and
// formatting shorthand tags, and class on header/h1/p for layout hooks.
var htmlPolicy = func() *bluemonday.Policy {
	p := basePolicy()
	p.AllowElements("header", "i", "b", "small", "mark", "del", "ins", "sub", "sup")
	p.AllowAttrs("class").OnElements("header", "h1", "p")
	return p
}()

// Sanitize converts raw post content into safe HTML. It is pure and
// deterministic; empty input yields empty output. Disallowed tags are
// stripped while their text is kept, except script/style whose content is
// discarded entirely.
func Sanitize(raw string, typ Type) string {
	if raw == "" {
		return ""
	}
	if typ == TypeHTML {
		return htmlPolicy.Sanitize(raw)
	}
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(raw), &buf); err != nil {
		// Convert only fails on writer errors, which a bytes.Buffer
		// never produces. Sanitize the raw text as a fallback.
		return markdownPolicy.Sanitize(raw)
	}
	return markdownPolicy.Sanitize(buf.String())
}
