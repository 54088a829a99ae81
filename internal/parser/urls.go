package parser

import (
	"net/url"
	"strings"
)

// resolveURL turns ref into an absolute http(s) URL against base. Anything
// that cannot be resolved to one (malformed, javascript:, data:, mailto:)
// yields "".
func resolveURL(base *url.URL, ref string) string {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return ""
	}

	u, err := url.Parse(ref)
	if err != nil {
		return ""
	}

	if isHTTPURL(u) {
		return ref
	}
	if u.Scheme != "" || base == nil {
		return ""
	}

	resolved := base.ResolveReference(u)
	if !isHTTPURL(resolved) {
		return ""
	}
	return resolved.String()
}

func isHTTPURL(u *url.URL) bool {
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

func parseBaseURL(raw string) *url.URL {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || !isHTTPURL(u) {
		return nil
	}
	return u
}
