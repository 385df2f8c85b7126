// Package api implements the HTTP API for the scrape service.
package api

// ScrapeRequest is the inbound scrape payload.
type ScrapeRequest struct {
	URL string `json:"url" binding:"required"`
}

// ScrapeResponse is the success shape consumed by the story UI. Story
// holds the normalized post body.
type ScrapeResponse struct {
	Success   bool   `json:"success"`
	Title     string `json:"title"`
	Story     string `json:"story"`
	Subreddit string `json:"subreddit"`
	Author    string `json:"author"`
	URL       string `json:"url"`
}

// ErrorResponse is the failure shape. Strategies lists what was attempted
// when the pipeline was exhausted, for diagnostics.
type ErrorResponse struct {
	Error      string   `json:"error"`
	Details    string   `json:"details,omitempty"`
	Strategies []string `json:"strategies_attempted,omitempty"`
}
