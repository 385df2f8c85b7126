// Package parser normalizes Reddit post payloads into story content.
//
// Two payload shapes funnel into the same Post type: the JSON listing
// returned by the API-style endpoints and the RSS document returned by
// the terminal fallback. The orchestrator selects the shape based on
// which fetch strategy produced the payload.
package parser

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// Shape identifies the payload format a strategy produces.
type Shape string

const (
	// ShapeJSON is the two-element listing returned by the .json endpoints.
	ShapeJSON Shape = "json"
	// ShapeRSS is the RSS/XML document returned by the .rss endpoint.
	ShapeRSS Shape = "rss"
)

// Default labels applied when the payload does not supply them.
const (
	DefaultSubreddit = "r/stories"
	DefaultAuthor    = "Anonymous"
)

var (
	// ErrStructureInvalid indicates the payload was received but does not
	// match the expected field layout.
	ErrStructureInvalid = errors.New("payload structure invalid")
	// ErrNoTextContent indicates the post exists but carries no text body
	// (link, image, or video post). Terminal for the whole scrape: another
	// strategy will not produce different content.
	ErrNoTextContent = errors.New("post has no text content")
	// ErrUnknownShape indicates an unrecognized payload shape.
	ErrUnknownShape = errors.New("unknown payload shape")
)

// Post is the parsed story content extracted from a payload.
type Post struct {
	Title     string
	Body      string
	Subreddit string
	Author    string
}

// Parse extracts a Post from a raw payload of the given shape.
// Title and Body are guaranteed non-empty on success.
func Parse(raw string, shape Shape) (*Post, error) {
	switch shape {
	case ShapeJSON:
		return parseJSON(raw)
	case ShapeRSS:
		return parseRSS(raw)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownShape, shape)
	}
}

// tripleNewline matches runs of three or more consecutive newlines.
var tripleNewline = regexp.MustCompile(`\n{3,}`)

// NormalizeBody canonicalizes newlines (CRLF and bare CR to LF), collapses
// runs of three or more newlines to two, and trims surrounding whitespace.
func NormalizeBody(body string) string {
	body = strings.ReplaceAll(body, "\r\n", "\n")
	body = strings.ReplaceAll(body, "\r", "\n")
	body = tripleNewline.ReplaceAllString(body, "\n\n")
	return strings.TrimSpace(body)
}

// applyDefaults fills in the subreddit and author labels when absent.
func applyDefaults(post *Post) {
	if post.Subreddit == "" {
		post.Subreddit = DefaultSubreddit
	}
	if post.Author == "" {
		post.Author = DefaultAuthor
	}
}
