package shortener

import (
	"context"
	"errors"
)

var (
	// ErrNotFound is returned when no link exists for a code.
	ErrNotFound = errors.New("short link not found")
	// ErrCodeExists is returned by a Repository when Save hits an existing code.
	ErrCodeExists = errors.New("short code already exists")

	// ErrInvalidURL is returned for a long URL that is empty, oversized or not absolute http(s).
	ErrInvalidURL = errors.New("invalid url")
	// ErrInvalidAlias is returned for an alias or short id outside the alias policy.
	ErrInvalidAlias = errors.New("invalid alias")
	// ErrInvalidStrategy is returned for an unknown strategy name.
	ErrInvalidStrategy = errors.New("invalid strategy")
	// ErrAliasTaken is returned when a custom alias is already stored.
	ErrAliasTaken = errors.New("alias already taken")
	// ErrGenerationExhausted is returned when every generated code collided.
	ErrGenerationExhausted = errors.New("could not generate a unique short code")
)

// Repository persists short links.
type Repository interface {
	// Save inserts the link only if its code is unused. The check and the insert
	// are a single atomic operation; a taken code yields ErrCodeExists.
	Save(ctx context.Context, link *ShortLink) error

	// GetByCode returns ErrNotFound when the code is unknown.
	GetByCode(ctx context.Context, code Code) (*ShortLink, error)

	Exists(ctx context.Context, code Code) (bool, error)
}
