// Package urlutil holds small URL helpers shared by the capture and output
// layers.
package urlutil

import (
	"net/url"
	"strings"
)

const maxStemLen = 100

// SafeFilename derives a deterministic, filesystem-safe filename from a URL.
// Non-alphanumeric characters (except '.' and '-') become underscores and the
// stem is capped so long query strings cannot produce path-length failures.
func SafeFilename(pageURL, ext string) string {
	var b strings.Builder
	for _, r := range pageURL {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9',
			r == '.', r == '-':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	stem := b.String()
	if len(stem) > maxStemLen {
		stem = stem[:maxStemLen]
	}
	return stem + ext
}

// ResolveRef resolves a possibly-relative href against a base URL.
func ResolveRef(base, href string) string {
	u, err := url.Parse(href)
	if err != nil || u.IsAbs() {
		return href
	}
	baseURL, err := url.Parse(base)
	if err != nil {
		return href
	}
	return baseURL.ResolveReference(u).String()
}
