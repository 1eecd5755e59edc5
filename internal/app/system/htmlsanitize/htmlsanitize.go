// internal/app/system/htmlsanitize/htmlsanitize.go

// Package htmlsanitize cleans contributor-supplied rich text before it is
// stored or rendered. Descriptions on events, clubs, internships, and
// mentorships pass through here on every write.
package htmlsanitize

import (
	"html"
	"html/template"
	"regexp"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// policy is built once at init. It starts from bluemonday's UGC policy
// (paragraphs, links with rel="nofollow", lists, tables, images, code)
// and adds the extra formatting and table attributes our editors emit.
var policy = buildPolicy()

func buildPolicy() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	p.AllowElements("u", "s", "sub", "sup", "mark", "hr", "br")
	p.AllowAttrs("class").OnElements("table", "thead", "tbody", "tr", "th", "td")
	p.AllowAttrs("style").OnElements("table", "thead", "tbody", "tr", "th", "td")
	p.AllowAttrs("colspan", "rowspan").OnElements("td", "th")
	return p
}

// tagPattern matches anything that looks like an HTML tag. A bare "<" or
// ">" in prose (e.g. "5 < 10") does not count.
var tagPattern = regexp.MustCompile(`</?[a-zA-Z][^>]*>`)

// Sanitize strips unsafe markup and returns the cleaned HTML.
func Sanitize(s string) string {
	if s == "" {
		return ""
	}
	return policy.Sanitize(s)
}

// SanitizeToHTML sanitizes and returns template.HTML for direct use in
// html/template without re-escaping.
func SanitizeToHTML(s string) template.HTML {
	return template.HTML(Sanitize(s))
}

// IsPlainText reports whether s contains no HTML tags.
func IsPlainText(s string) bool {
	return !tagPattern.MatchString(s)
}

// PlainTextToHTML escapes plain text and converts newlines to <br>,
// wrapping the result in a paragraph. Empty input stays empty.
func PlainTextToHTML(s string) string {
	if s == "" {
		return ""
	}
	escaped := html.EscapeString(s)
	escaped = strings.ReplaceAll(escaped, "\n", "<br>")
	return "<p>" + escaped + "</p>"
}

// PrepareForDisplay renders stored text for a template. Plain text is
// escaped and paragraph-wrapped; anything with markup is sanitized.
func PrepareForDisplay(s string) template.HTML {
	if s == "" {
		return ""
	}
	if IsPlainText(s) {
		return template.HTML(PlainTextToHTML(s))
	}
	return SanitizeToHTML(s)
}
