package parser

import (
	"errors"
	"testing"
)

// validListing builds a well-formed two-element listing payload.
const validListing = `[
	{"data": {"children": [{"data": {
		"title": "AITA for writing table tests?",
		"selftext": "So this happened yesterday.\n\nMy coworker said table tests are overkill.",
		"subreddit": "AITA",
		"subreddit_name_prefixed": "r/AITA",
		"author": "throwaway9000"
	}}]}},
	{"data": {"children": []}}
]`

func TestParseJSONValid(t *testing.T) {
	t.Parallel()

	post, err := Parse(validListing, ShapeJSON)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if post.Title != "AITA for writing table tests?" {
		t.Errorf("title = %q", post.Title)
	}
	if post.Body != "So this happened yesterday.\n\nMy coworker said table tests are overkill." {
		t.Errorf("body = %q", post.Body)
	}
	if post.Subreddit != "r/AITA" {
		t.Errorf("subreddit = %q", post.Subreddit)
	}
	if post.Author != "throwaway9000" {
		t.Errorf("author = %q", post.Author)
	}
}

func TestParseJSONRoundTrip(t *testing.T) {
	t.Parallel()

	// An already-normalized body must pass through unchanged.
	payload := `[{"data": {"children": [{"data": {
		"title": "T",
		"selftext": "B line one\n\nB line two",
		"subreddit": "stories",
		"author": "a"
	}}]}}]`

	post, err := Parse(payload, ShapeJSON)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if post.Title != "T" {
		t.Errorf("title = %q, want T", post.Title)
	}
	if post.Body != "B line one\n\nB line two" {
		t.Errorf("body = %q, want unchanged", post.Body)
	}
}

func TestParseJSONStructuralFailures(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		payload string
	}{
		{name: "not json", payload: `<html>blocked</html>`},
		{name: "empty array", payload: `[]`},
		{name: "object instead of array", payload: `{"data": {}}`},
		{name: "no children", payload: `[{"data": {"children": []}}]`},
		{name: "missing data levels", payload: `[{"kind": "Listing"}]`},
		{name: "missing title", payload: `[{"data": {"children": [{"data": {"selftext": "text"}}]}}]`},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := Parse(tt.payload, ShapeJSON)
			if !errors.Is(err, ErrStructureInvalid) {
				t.Fatalf("expected ErrStructureInvalid, got %v", err)
			}
		})
	}
}

func TestParseJSONNoTextContent(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		payload string
	}{
		{
			name:    "empty selftext",
			payload: `[{"data": {"children": [{"data": {"title": "A link post", "selftext": ""}}]}}]`,
		},
		{
			name:    "whitespace selftext",
			payload: `[{"data": {"children": [{"data": {"title": "A link post", "selftext": " \n\n "}}]}}]`,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := Parse(tt.payload, ShapeJSON)
			if !errors.Is(err, ErrNoTextContent) {
				t.Fatalf("expected ErrNoTextContent, got %v", err)
			}
			if errors.Is(err, ErrStructureInvalid) {
				t.Fatal("content-absent must be distinct from structural failure")
			}
		})
	}
}

func TestParseJSONDefaults(t *testing.T) {
	t.Parallel()

	payload := `[{"data": {"children": [{"data": {
		"title": "Untitled community",
		"selftext": "some body",
		"author": "[deleted]"
	}}]}}]`

	post, err := Parse(payload, ShapeJSON)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if post.Subreddit != DefaultSubreddit {
		t.Errorf("subreddit = %q, want default %q", post.Subreddit, DefaultSubreddit)
	}
	if post.Author != DefaultAuthor {
		t.Errorf("author = %q, want default %q", post.Author, DefaultAuthor)
	}
}

func TestParseJSONBarePrefix(t *testing.T) {
	t.Parallel()

	payload := `[{"data": {"children": [{"data": {
		"title": "t",
		"selftext": "b",
		"subreddit": "TrueOffMyChest",
		"author": "someone"
	}}]}}]`

	post, err := Parse(payload, ShapeJSON)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if post.Subreddit != "r/TrueOffMyChest" {
		t.Errorf("subreddit = %q, want r/TrueOffMyChest", post.Subreddit)
	}
}
