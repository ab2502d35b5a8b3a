// Package page renders detail pages for diary entries and keeps their
// embedded prev/next navigation blocks consistent with the entry index.
package page

import (
	"bytes"
	"fmt"
	"html"
	"html/template"
	"strings"
)

// NavLink is one side of a detail page's navigation block. A zero Href
// renders as a disabled placeholder anchor.
type NavLink struct {
	Href string
}

// Model is the typed template input for a full detail page.
type Model struct {
	Title    template.HTML // stored pre-escaped
	DateISO  string
	DateDisp string
	Body     template.HTML
	Prev     NavLink // chronologically older entry
	Next     NavLink // chronologically newer entry
}

// The nav block template is shared between full-page rendering and the
// rebuilder's in-place replacement, so both produce identical bytes.
var navTmpl = template.Must(template.New("nav").Parse(`<nav class="nav-links" aria-label="前後の日記">
        {{if .Prev.Href}}<a class="nav-link" rel="prev" href="{{.Prev.Href}}">← まえのにっき</a>{{else}}<a class="nav-link" rel="prev" href="#" data-disabled="true" aria-disabled="true">← まえのにっき</a>{{end}}
        {{if .Next.Href}}<a class="nav-link" rel="next" href="{{.Next.Href}}">つぎのにっき →</a>{{else}}<a class="nav-link" rel="next" href="#" data-disabled="true" aria-disabled="true">つぎのにっき →</a>{{end}}
      </nav>`))

var pageTmpl = template.Must(template.New("detail").Parse(`<!DOCTYPE html>
<html lang="ja">
<head>
  <meta charset="UTF-8" />
  <meta name="viewport" content="width=device-width, initial-scale=1" />
  <title>{{.Title}} - {{.SiteTitle}}</title>
  <link rel="stylesheet" href="{{.StylesheetHref}}" />
</head>
<body>
  <article class="diary" itemscope itemtype="https://schema.org/BlogPosting">
    <header class="diary-header">
      <h1 class="diary-title" itemprop="headline">{{.Title}}</h1>
      <time class="diary-date" datetime="{{.DateISO}}" itemprop="datePublished">{{.DateDisp}}</time>
    </header>

    <main class="diary-body" itemprop="articleBody">
      {{.Body}}
    </main>

    <footer class="diary-footer">
      {{.Nav}}
    </footer>
  </article>
</body>
</html>
`))

// Generator renders standalone detail pages.
type Generator struct {
	SiteTitle      string
	StylesheetHref string // stylesheet path as seen from a detail page
}

// NewGenerator creates a Generator.
func NewGenerator(siteTitle, stylesheetHref string) *Generator {
	return &Generator{SiteTitle: siteTitle, StylesheetHref: stylesheetHref}
}

// RenderNav renders just the navigation block for the given neighbors.
func RenderNav(prev, next NavLink) (template.HTML, error) {
	var buf bytes.Buffer
	err := navTmpl.Execute(&buf, struct{ Prev, Next NavLink }{prev, next})
	if err != nil {
		return "", fmt.Errorf("page: render nav: %w", err)
	}
	return template.HTML(buf.String()), nil
}

// Render produces the complete detail page document.
func (g *Generator) Render(m Model) ([]byte, error) {
	nav, err := RenderNav(m.Prev, m.Next)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	err = pageTmpl.Execute(&buf, struct {
		Model
		SiteTitle      string
		StylesheetHref string
		Nav            template.HTML
	}{m, g.SiteTitle, g.StylesheetHref, nav})
	if err != nil {
		return nil, fmt.Errorf("page: render detail: %w", err)
	}
	return buf.Bytes(), nil
}

// FormatBody escapes plain body text, converts line breaks to <br /> and
// wraps the result in a paragraph container. CRLF input is normalised so
// the extractor round-trips the text exactly.
func FormatBody(raw string) template.HTML {
	text := strings.ReplaceAll(raw, "\r\n", "\n")
	escaped := html.EscapeString(text)
	return template.HTML("<p>" + strings.ReplaceAll(escaped, "\n", "<br />") + "</p>")
}

// EscapeTitle escapes a title for storage; entries keep the escaped form.
func EscapeTitle(title string) string {
	return html.EscapeString(title)
}

// UnescapeTitle recovers the plain form of a stored title for form fields.
func UnescapeTitle(title string) string {
	return html.UnescapeString(title)
}
