// Package filter composes list filters for ledger-like records: a free-text
// search, a category set and an inclusive date range, joined with AND.
//
// An empty category set means "no category selected" and matches every
// record. It never means "match nothing".
package filter

import (
	"net/url"
	"strings"

	"golang.org/x/text/cases"

	"github.com/gestao-urbana/backoffice-go/internal/pkg/validator"
)

// Criteria is the user's filter selection. From and To are "YYYY-MM-DD";
// an empty side leaves that end of the range open.
type Criteria struct {
	Search     string
	Categories []string
	From       string
	To         string
}

// Fields tells the composer where the searchable text, category and date
// live on T. A nil accessor disables the matching filter for T.
type Fields[T any] struct {
	Text     func(T) string
	Category func(T) string
	Date     func(T) string
}

// Validate rejects malformed dates and inverted ranges.
func (c Criteria) Validate() error {
	var errs validator.ValidationErrors
	if c.From != "" {
		if _, ok := validator.IsValidDate(c.From); !ok {
			errs = append(errs, validator.ValidationError{Field: "from", Message: "must be a date in YYYY-MM-DD format"})
		}
	}
	if c.To != "" {
		if _, ok := validator.IsValidDate(c.To); !ok {
			errs = append(errs, validator.ValidationError{Field: "to", Message: "must be a date in YYYY-MM-DD format"})
		}
	}
	if len(errs) == 0 && c.From != "" && c.To != "" && c.From > c.To {
		errs = append(errs, validator.ValidationError{Field: "to", Message: "must be on or after from"})
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// IsOpen reports whether c filters nothing.
func (c Criteria) IsOpen() bool {
	return strings.TrimSpace(c.Search) == "" && len(c.Categories) == 0 && c.From == "" && c.To == ""
}

// BuildPredicate returns a pure predicate for c over T.
func BuildPredicate[T any](c Criteria, f Fields[T]) func(T) bool {
	needle := fold(strings.TrimSpace(c.Search))

	var categories map[string]struct{}
	if len(c.Categories) > 0 {
		categories = make(map[string]struct{}, len(c.Categories))
		for _, cat := range c.Categories {
			categories[cat] = struct{}{}
		}
	}

	return func(item T) bool {
		if needle != "" && f.Text != nil {
			if !strings.Contains(fold(f.Text(item)), needle) {
				return false
			}
		}
		if categories != nil && f.Category != nil {
			if _, ok := categories[f.Category(item)]; !ok {
				return false
			}
		}
		if (c.From != "" || c.To != "") && f.Date != nil {
			d := dayOf(f.Date(item))
			if c.From != "" && d < c.From {
				return false
			}
			if c.To != "" && d > c.To {
				return false
			}
		}
		return true
	}
}

// Apply returns the items matching c, in their original order. The input
// slice is not modified.
func Apply[T any](items []T, c Criteria, f Fields[T]) []T {
	match := BuildPredicate(c, f)
	out := make([]T, 0, len(items))
	for _, item := range items {
		if match(item) {
			out = append(out, item)
		}
	}
	return out
}

// ParseQuery reads ?q=&category=a&category=b&from=&to=. Categories may also be
// comma separated.
func ParseQuery(q url.Values) Criteria {
	c := Criteria{
		Search: strings.TrimSpace(q.Get("q")),
		From:   strings.TrimSpace(q.Get("from")),
		To:     strings.TrimSpace(q.Get("to")),
	}
	for _, raw := range q["category"] {
		for _, cat := range strings.Split(raw, ",") {
			if cat = strings.TrimSpace(cat); cat != "" {
				c.Categories = append(c.Categories, cat)
			}
		}
	}
	return c
}

// fold lowercases s for caseless comparison. A Caser keeps state between
// calls, so each call gets its own.
func fold(s string) string {
	return cases.Fold().String(s)
}

// dayOf truncates timestamps to their date part so "2025-01-31T10:00" still
// falls inside a range ending on 2025-01-31.
func dayOf(s string) string {
	if len(s) > 10 {
		return s[:10]
	}
	return s
}
