package parser

import (
	"encoding/json"
	"fmt"
	"strings"
)

// jsonListing mirrors the relevant slice of Reddit's listing envelope.
// The post payload is a two-element array: the first listing holds the
// post itself as a single child, the second holds comments (ignored).
type jsonListing struct {
	Data struct {
		Children []struct {
			Data jsonPost `json:"data"`
		} `json:"children"`
	} `json:"data"`
}

// jsonPost holds the post fields extracted by fixed key path.
type jsonPost struct {
	Title                 string `json:"title"`
	Selftext              string `json:"selftext"`
	Subreddit             string `json:"subreddit"`
	SubredditNamePrefixed string `json:"subreddit_name_prefixed"`
	Author                string `json:"author"`
}

// parseJSON extracts a Post from the JSON listing shape. A payload that
// fails to resolve the fixed key path is a structural failure; a resolved
// post with an empty body is content-absent.
func parseJSON(raw string) (*Post, error) {
	var listings []jsonListing
	if err := json.Unmarshal([]byte(raw), &listings); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStructureInvalid, err)
	}

	if len(listings) == 0 {
		return nil, fmt.Errorf("%w: empty listing array", ErrStructureInvalid)
	}

	children := listings[0].Data.Children
	if len(children) == 0 {
		return nil, fmt.Errorf("%w: listing has no children", ErrStructureInvalid)
	}

	item := children[0].Data

	title := strings.TrimSpace(item.Title)
	if title == "" {
		return nil, fmt.Errorf("%w: missing title", ErrStructureInvalid)
	}

	body := NormalizeBody(item.Selftext)
	if body == "" {
		return nil, ErrNoTextContent
	}

	post := &Post{
		Title:     title,
		Body:      body,
		Subreddit: subredditLabel(item),
		Author:    authorLabel(item.Author),
	}
	applyDefaults(post)

	return post, nil
}

// subredditLabel prefers the pre-prefixed form, falling back to prefixing
// the bare name.
func subredditLabel(item jsonPost) string {
	if item.SubredditNamePrefixed != "" {
		return item.SubredditNamePrefixed
	}
	if item.Subreddit != "" {
		return "r/" + item.Subreddit
	}
	return ""
}

// authorLabel drops deleted-account placeholders so the default applies.
func authorLabel(author string) string {
	if author == "[deleted]" {
		return ""
	}
	return author
}
