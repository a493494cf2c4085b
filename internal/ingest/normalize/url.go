package normalize

import (
	"net/url"
	"strings"
)

// URL cleans a raw source URL: trims, drops embedded NUL bytes and, when the
// value looks like a bare host ("example.com/p"), prepends https://. Returns
// ok=false for an empty result.
func URL(raw string) (string, bool) {
	s := strings.TrimSpace(raw)
	s = strings.ReplaceAll(s, "\x00", "")
	if s == "" {
		return "", false
	}
	if !strings.Contains(s, "://") && strings.Contains(s, ".") {
		s = "https://" + s
	}
	return s, true
}

// Domain extracts the registrable host of a cleaned URL: lowercased, with a
// leading "www." stripped. Unparsable input yields ok=false, never a panic.
func Domain(rawurl string) (string, bool) {
	u, err := url.Parse(rawurl)
	if err != nil || u.Host == "" {
		return "", false
	}
	host := strings.ToLower(u.Hostname())
	host = strings.TrimPrefix(host, "www.")
	if host == "" {
		return "", false
	}
	return host, true
}
