package utils

import (
	"net/url"
	"strings"
)

// ToAbsoluteURL converts a relative URL to an absolute URL given a base URL.
func ToAbsoluteURL(base *url.URL, relative string) (string, error) {
	relURL, err := url.Parse(relative)
	if err != nil {
		return "", err
	}
	return base.ResolveReference(relURL).String(), nil
}

// IsExternalLink reports whether href points at a different host than base.
// A nil base treats every absolute http(s) link as external.
func IsExternalLink(base *url.URL, href string) bool {
	href = strings.TrimSpace(href)
	if href == "" || strings.HasPrefix(href, "#") {
		return false
	}
	if base != nil {
		abs, err := ToAbsoluteURL(base, href)
		if err != nil {
			return false
		}
		href = abs
	}
	u, err := url.Parse(href)
	if err != nil {
		return false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return false
	}
	if base == nil || base.Host == "" {
		return u.Host != ""
	}
	return !strings.EqualFold(u.Hostname(), base.Hostname())
}

// PathWithQuery joins a route path and its raw query the way page views report them.
func PathWithQuery(path, rawQuery string) string {
	if path == "" {
		path = "/"
	}
	rawQuery = strings.TrimPrefix(rawQuery, "?")
	if rawQuery == "" {
		return path
	}
	return path + "?" + rawQuery
}
