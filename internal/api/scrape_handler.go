package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/JONGYYY/storyscrape/internal/reddit"
)

// Remediation messages. Each failure class points the caller at a
// different fix: pick different content, wait, or repair credentials.
const (
	msgInvalidBody = "request body must be JSON with a non-empty url field"
	msgInvalidURL  = "url must be a reddit post URL like https://reddit.com/r/<community>/comments/<id>/..."
	msgNoContent   = "this post has no text content (link, image, or video post); choose a text-based post or paste the story manually"
	msgTimeout     = "scrape timed out; reddit is responding slowly, retrying immediately is unlikely to help"
	msgAuthFailing = "all fetch strategies failed; reddit credentials are configured but not working, regenerate the refresh token or wait and retry"
	msgAuthMissing = "all fetch strategies failed; no reddit credentials are configured and anonymous access was blocked, configure OAuth credentials or wait and retry"
	msgUnexpected  = "unexpected error while scraping"
)

// handleScrape validates the inbound URL, delegates to the orchestrator,
// and maps the classified outcome to an HTTP response.
func (s *Server) handleScrape(c *gin.Context) {
	var req ScrapeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, msgInvalidBody)
		return
	}

	if err := reddit.ValidateURL(req.URL); err != nil {
		respondBadRequest(c, msgInvalidURL)
		return
	}

	result, err := s.scraper.Scrape(c.Request.Context(), req.URL)
	if err != nil {
		s.respondScrapeError(c, err)
		return
	}

	c.JSON(http.StatusOK, ScrapeResponse{
		Success:   true,
		Title:     result.Title,
		Story:     result.Body,
		Subreddit: result.Subreddit,
		Author:    result.Author,
		URL:       result.URL,
	})
}

// respondScrapeError maps a ScrapeError class to status and remediation.
func (s *Server) respondScrapeError(c *gin.Context, err error) {
	var scrapeErr *reddit.ScrapeError
	if !errors.As(err, &scrapeErr) {
		s.log.Error("unclassified scrape failure", "error", err)
		respondError(c, http.StatusInternalServerError, msgUnexpected)
		return
	}

	switch scrapeErr.Class {
	case reddit.FailureNoContent:
		respondBadRequest(c, msgNoContent)
	case reddit.FailureTimeout:
		respondError(c, http.StatusGatewayTimeout, msgTimeout)
	case reddit.FailureExhausted:
		message := msgAuthMissing
		if scrapeErr.AuthConfigured {
			message = msgAuthFailing
		}
		c.JSON(http.StatusBadGateway, ErrorResponse{
			Error:      message,
			Details:    scrapeErr.Error(),
			Strategies: scrapeErr.Attempted,
		})
	default:
		s.log.Error("unknown scrape failure class", "class", string(scrapeErr.Class), "error", err)
		respondError(c, http.StatusInternalServerError, msgUnexpected)
	}
}
