package scraper

import (
	"fmt"
	"net/url"
	"strings"
)

// ResolveLink resolves a possibly-relative link against a base URL.
// Absolute links pass through unchanged apart from normalization.
func ResolveLink(base, link string) (string, error) {
	link = strings.TrimSpace(link)
	if link == "" {
		return "", fmt.Errorf("empty link")
	}
	ref, err := url.Parse(link)
	if err != nil {
		return "", fmt.Errorf("parse link %q: %w", link, err)
	}
	if ref.IsAbs() {
		return normalize(ref), nil
	}
	b, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("parse base %q: %w", base, err)
	}
	return normalize(b.ResolveReference(ref)), nil
}

// normalize lowercases the scheme and host, strips default ports and
// fragments. Mirrors what the fetchers see so link dedup stays stable.
func normalize(u *url.URL) string {
	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.ToLower(u.Host)
	if u.Scheme == "http" {
		u.Host = strings.TrimSuffix(u.Host, ":80")
	}
	if u.Scheme == "https" {
		u.Host = strings.TrimSuffix(u.Host, ":443")
	}
	u.Fragment = ""
	return u.String()
}
