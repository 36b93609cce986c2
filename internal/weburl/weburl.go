// Package weburl normalizes user-supplied links to a canonical form.
//
// Canonical form: absolute URL, https scheme, lowercased host, no default
// port, duplicate slashes collapsed, no trailing slash. Normalization is
// pure and idempotent — normalizing an already-canonical URL returns the
// same string — so values can be re-normalized on every write without
// drifting.
package weburl

import (
	"fmt"
	"net/url"
	"strings"
)

// Normalize converts raw into canonical absolute-https form. Schemeless
// input ("twitter.com/alice") is accepted and treated as https.
func Normalize(raw string) (string, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return "", fmt.Errorf("weburl: empty url")
	}

	lower := strings.ToLower(s)
	switch {
	case strings.HasPrefix(s, "//"):
		s = "https:" + s
	case strings.HasPrefix(lower, "http://"), strings.HasPrefix(lower, "https://"):
		// scheme present, handled below
	case strings.Contains(s, "://"):
		return "", fmt.Errorf("weburl: unsupported scheme in %q", raw)
	default:
		s = "https://" + s
	}

	u, err := url.Parse(s)
	if err != nil {
		return "", fmt.Errorf("weburl: parsing %q: %w", raw, err)
	}

	u.Scheme = "https"

	host := strings.ToLower(u.Host)
	host = strings.TrimSuffix(host, ":443")
	host = strings.TrimSuffix(host, ":80")
	if host == "" {
		return "", fmt.Errorf("weburl: missing host in %q", raw)
	}
	u.Host = host

	path := collapseSlashes(u.Path)
	path = strings.TrimSuffix(path, "/")
	u.Path = path
	u.RawPath = ""

	return u.String(), nil
}

// collapseSlashes reduces every run of consecutive slashes to one.
func collapseSlashes(p string) string {
	if !strings.Contains(p, "//") {
		return p
	}
	var b strings.Builder
	b.Grow(len(p))
	prevSlash := false
	for _, r := range p {
		if r == '/' {
			if prevSlash {
				continue
			}
			prevSlash = true
		} else {
			prevSlash = false
		}
		b.WriteRune(r)
	}
	return b.String()
}
