// Package extractor implements CSS selector extraction over rendered HTML
// using goquery.
package extractor

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/newswire-dev/collector/internal/scraper"
)

// GoqueryExtractor implements scraper.Extractor.
type GoqueryExtractor struct{}

// New returns a goquery-backed extractor.
func New() *GoqueryExtractor {
	return &GoqueryExtractor{}
}

// Parse builds a queryable document from an HTML string. Parsing happens
// once per page; every field query runs against the same document.
func (e *GoqueryExtractor) Parse(html string) (scraper.Document, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	return &document{doc: doc}, nil
}

type document struct {
	doc *goquery.Document
}

// FirstText returns the trimmed text of the first selector match.
func (d *document) FirstText(selector string) (string, bool) {
	sel := d.doc.Find(selector).First()
	if sel.Length() == 0 {
		return "", false
	}
	return strings.TrimSpace(sel.Text()), true
}

// Attribute returns the named attribute of the first selector match.
func (d *document) Attribute(selector, attr string) (string, bool) {
	sel := d.doc.Find(selector).First()
	if sel.Length() == 0 {
		return "", false
	}
	val, ok := sel.Attr(attr)
	return strings.TrimSpace(val), ok
}

// All returns the trimmed text of every match, dropping empties.
func (d *document) All(selector string) []string {
	var out []string
	d.doc.Find(selector).Each(func(_ int, s *goquery.Selection) {
		if text := strings.TrimSpace(s.Text()); text != "" {
			out = append(out, text)
		}
	})
	return out
}

// Attributes returns the named attribute of every match that carries it.
func (d *document) Attributes(selector, attr string) []string {
	var out []string
	d.doc.Find(selector).Each(func(_ int, s *goquery.Selection) {
		if val, ok := s.Attr(attr); ok {
			if val = strings.TrimSpace(val); val != "" {
				out = append(out, val)
			}
		}
	})
	return out
}
