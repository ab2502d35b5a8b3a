package page

import (
	"errors"
	"html"
	"os"
	"regexp"
	"strings"

	"github.com/denbitaro/nikki/internal/storage"
)

var (
	bodyRegionRe = regexp.MustCompile(`(?is)<main[^>]*class="[^"]*\bdiary-body\b[^"]*"[^>]*>(.*?)</main>`)
	lineBreakRe  = regexp.MustCompile(`(?i)<br\s*/?>`)
	tagRe        = regexp.MustCompile(`(?s)<[^>]*>`)
)

// ExtractBody recovers the plain-text body from a previously generated
// detail page for prefilling the edit form. This is lossy by design: line
// breaks survive, any other markup is stripped. A missing file is treated
// as an empty body, not an error.
func ExtractBody(fs storage.Provider, name string) (string, error) {
	data, err := fs.Read(name)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", nil
		}
		return "", err
	}
	return extractBody(data), nil
}

func extractBody(data []byte) string {
	m := bodyRegionRe.FindSubmatch(data)
	if m == nil {
		return ""
	}
	inner := lineBreakRe.ReplaceAllString(string(m[1]), "\n")
	inner = tagRe.ReplaceAllString(inner, "")
	return html.UnescapeString(strings.TrimSpace(inner))
}
