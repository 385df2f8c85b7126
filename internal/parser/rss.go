package parser

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"
)

// parseRSS extracts a Post from the RSS shape produced by the .rss
// endpoint. The first feed item is the post; its content:encoded block
// wraps the selftext HTML in a `div.md` container.
func parseRSS(raw string) (*Post, error) {
	parsed, err := gofeed.NewParser().ParseString(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStructureInvalid, err)
	}

	if len(parsed.Items) == 0 {
		return nil, fmt.Errorf("%w: feed has no items", ErrStructureInvalid)
	}

	item := parsed.Items[0]

	title := strings.TrimSpace(item.Title)
	if title == "" {
		return nil, fmt.Errorf("%w: missing title", ErrStructureInvalid)
	}

	body, err := extractRSSBody(item.Content)
	if err != nil {
		return nil, err
	}
	if body == "" {
		return nil, ErrNoTextContent
	}

	post := &Post{
		Title:     title,
		Body:      body,
		Subreddit: rssSubreddit(item),
		Author:    rssAuthor(item),
	}
	applyDefaults(post)

	return post, nil
}

// extractRSSBody isolates the selftext container inside the
// content:encoded HTML and returns its text with markup stripped and
// entities unescaped. An empty content block is not an error here; the
// caller classifies it as content-absent.
func extractRSSBody(content string) (string, error) {
	if strings.TrimSpace(content) == "" {
		return "", nil
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(content))
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrStructureInvalid, err)
	}

	// Reddit wraps the post text in <div class="md">. Link and image
	// posts carry only the submission boilerplate outside it.
	md := doc.Find("div.md").First()
	if md.Length() == 0 {
		return "", nil
	}

	paragraphs := md.Find("p")
	if paragraphs.Length() == 0 {
		return NormalizeBody(md.Text()), nil
	}

	parts := make([]string, 0, paragraphs.Length())
	paragraphs.Each(func(_ int, sel *goquery.Selection) {
		if text := strings.TrimSpace(sel.Text()); text != "" {
			parts = append(parts, text)
		}
	})

	return NormalizeBody(strings.Join(parts, "\n\n")), nil
}

// rssSubreddit derives the community label from the item categories.
func rssSubreddit(item *gofeed.Item) string {
	for _, category := range item.Categories {
		if category == "" {
			continue
		}
		if strings.HasPrefix(category, "r/") {
			return category
		}
		return "r/" + category
	}
	return ""
}

// rssAuthor strips the /u/ prefix Reddit puts on RSS author names.
func rssAuthor(item *gofeed.Item) string {
	if item.Author == nil {
		return ""
	}

	name := strings.TrimSpace(item.Author.Name)
	name = strings.TrimPrefix(name, "/u/")
	name = strings.TrimPrefix(name, "u/")

	return name
}
