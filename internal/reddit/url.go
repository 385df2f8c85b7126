// Package reddit implements the multi-strategy Reddit post fetch pipeline:
// OAuth-first retrieval with unauthenticated fallbacks, per-strategy retry
// budgets, and classified failure outcomes.
package reddit

import (
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

// ErrInvalidURL indicates the input does not look like a Reddit post URL.
var ErrInvalidURL = errors.New("not a valid reddit post URL")

// canonicalPostURL matches post URLs on reddit.com and its common
// subdomains: scheme, optional subdomain, /r/<community>/comments/<id>,
// optional slug tail.
var canonicalPostURL = regexp.MustCompile(
	`^https?://(www\.|old\.|new\.|np\.)?reddit\.com/r/[A-Za-z0-9_]+/comments/[A-Za-z0-9]+(/[^\s]*)?$`,
)

// ValidateURL checks that raw is a canonical Reddit post URL.
func ValidateURL(raw string) error {
	if !canonicalPostURL.MatchString(strings.TrimSpace(raw)) {
		return fmt.Errorf("%w: %q", ErrInvalidURL, raw)
	}
	return nil
}

// rewriteHost returns the canonical URL pointed at a different host with
// query and fragment stripped and no trailing slash, ready for a format
// suffix. Callers validate the URL first, so parse failures fall back to
// the input unchanged.
func rewriteHost(canonical, host string) string {
	parsed, err := url.Parse(strings.TrimSpace(canonical))
	if err != nil {
		return canonical
	}

	parsed.Scheme = "https"
	parsed.Host = host
	parsed.RawQuery = ""
	parsed.Fragment = ""
	parsed.Path = strings.TrimSuffix(parsed.Path, "/")

	return parsed.String()
}
