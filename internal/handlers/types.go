package handlers

import (
	"time"

	"github.com/serroba/shortlink/internal/shortener"
)

// ShortenRequest is the request body for creating a short link.
type ShortenRequest struct {
	Body struct {
		LongURL     string                 `doc:"The URL to shorten"                                   example:"https://example.com/very/long/path" json:"long_url"`
		CustomAlias string                 `doc:"Optional alias, 3-15 characters of A-Z a-z 0-9 - _"   example:"my-link"                            json:"custom_alias,omitempty"`
		Strategy    shortener.StrategyName `doc:"Code generation strategy when no alias is given: token (default) or hash" json:"strategy,omitempty"`
	}
}

// RetrieveRequest is the request body for looking up a short link.
type RetrieveRequest struct {
	Body struct {
		ShortID string `doc:"The short identifier" example:"abc123" json:"short_id"`
	}
}

// LinkBody describes a stored short link.
type LinkBody struct {
	ShortID     string    `doc:"The short identifier" example:"abc123"                             json:"short_id"`
	LongURL     string    `doc:"The original URL"     example:"https://example.com/very/long/path" json:"long_url"`
	ShortURL    string    `doc:"The full short URL"   example:"http://localhost:8888/abc123"       json:"short_url"`
	DateCreated time.Time `doc:"Creation time"                                                     json:"date_created"`
}

// LinkResponse is the response for shorten and retrieve operations.
type LinkResponse struct {
	Body LinkBody
}

// AliasRequest is the request for checking alias availability.
type AliasRequest struct {
	Alias string `doc:"The alias to check" example:"my-link" path:"alias"`
}

// AliasResponse reports whether an alias can still be claimed.
type AliasResponse struct {
	Body struct {
		Alias     string `json:"alias"     example:"my-link"`
		Available bool   `json:"available"`
	}
}

// RedirectRequest is the request for redirecting a short link.
type RedirectRequest struct {
	Code string `doc:"The short identifier" example:"abc123" path:"code"`
}

// RedirectResponse sends the client to the original URL.
type RedirectResponse struct {
	Status   int
	Location string `header:"Location"`
}
