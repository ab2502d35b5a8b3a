// Package diary defines the entry record schema, its sort order, and the
// validation rules shared by the admin handlers.
package diary

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Entry is one diary post's metadata record as persisted in the index file.
// Title is stored HTML-escaped. Href is the store-relative link to the
// generated detail file and doubles as the entry's unique key.
type Entry struct {
	Title     string    `json:"title"`
	DateISO   string    `json:"date_iso"`
	DateDisp  string    `json:"date_disp"`
	Href      string    `json:"href"`
	CreatedAt time.Time `json:"created_at"`
}

// FileName returns the file-name part of the entry's href.
func (e Entry) FileName() string {
	if i := strings.LastIndexByte(e.Href, '/'); i >= 0 {
		return e.Href[i+1:]
	}
	return e.Href
}

var dateISOPattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// IndexOf returns the position of the entry with the given href, or -1.
func IndexOf(entries []Entry, href string) int {
	for i := range entries {
		if entries[i].Href == href {
			return i
		}
	}
	return -1
}

// Sort orders entries newest first: date_iso descending, created_at
// descending as the tie-break. The sort is stable.
func Sort(entries []Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].DateISO != entries[j].DateISO {
			return entries[i].DateISO > entries[j].DateISO
		}
		return entries[i].CreatedAt.After(entries[j].CreatedAt)
	})
}

// DisplayDate renders a YYYY-MM-DD date as the Japanese display form,
// e.g. "2024-03-05" -> "2024年3月5日". The input must already match the
// ISO date pattern.
func DisplayDate(dateISO string) (string, error) {
	t, err := time.Parse("2006-01-02", dateISO)
	if err != nil {
		return "", fmt.Errorf("diary: parse date %q: %w", dateISO, err)
	}
	return fmt.Sprintf("%d年%d月%d日", t.Year(), int(t.Month()), t.Day()), nil
}

// ValidateInput checks the title and date fields of a create/update form.
func ValidateInput(title, dateISO string) error {
	return validation.Errors{
		"title": validation.Validate(title, validation.Required),
		"date":  validation.Validate(dateISO, validation.Required, validation.Match(dateISOPattern)),
	}.Filter()
}

// HrefPattern compiles the accepted detail-path pattern for the given
// content link prefix: "<prefix>/<file>.html", single directory level.
func HrefPattern(prefix string) *regexp.Regexp {
	return regexp.MustCompile(`^` + regexp.QuoteMeta(prefix) + `/[^/]+\.html$`)
}

// ValidateHref checks a submitted href against the accepted pattern.
func ValidateHref(href string, pattern *regexp.Regexp) error {
	return validation.Validate(href, validation.Required, validation.Match(pattern))
}

// CompactFileName derives a detail file name from the ISO date:
// "2024-03-05" -> "20240305.html".
func CompactFileName(dateISO string) string {
	return strings.ReplaceAll(dateISO, "-", "") + ".html"
}

// CompactFileNameWithTime derives the collision-avoidance variant carrying
// a compact time-of-day suffix: "20240305-142233.html". Two creates within
// the same second can still collide; that edge is accepted.
func CompactFileNameWithTime(dateISO string, now time.Time) string {
	return strings.ReplaceAll(dateISO, "-", "") + "-" + now.Format("150405") + ".html"
}
