package shortener

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Strategy defines the interface for code generation strategies. Shorten
// reports created=false when it resolved to a link stored by an earlier call.
type Strategy interface {
	Shorten(ctx context.Context, url string) (link *ShortLink, created bool, err error)
}

// CodeGenerator generates candidate short codes.
type CodeGenerator func() string

// TokenStrategy always generates a new code for each URL.
// Collisions are retried up to maxAttempts times.
type TokenStrategy struct {
	store        Repository
	generateCode CodeGenerator
	maxAttempts  int
}

// NewTokenStrategy creates a new token-based shortening strategy.
func NewTokenStrategy(store Repository, generator CodeGenerator, maxAttempts int) *TokenStrategy {
	return &TokenStrategy{
		store:        store,
		generateCode: generator,
		maxAttempts:  max(maxAttempts, 1),
	}
}

func (s *TokenStrategy) Shorten(ctx context.Context, url string) (*ShortLink, bool, error) {
	for range s.maxAttempts {
		code := s.generateCode()
		if isReserved(code) {
			continue
		}

		link := &ShortLink{
			Code:      Code(code),
			LongURL:   url,
			CreatedAt: time.Now().UTC(),
		}

		err := s.store.Save(ctx, link)
		if err == nil {
			return link, true, nil
		}

		if !errors.Is(err, ErrCodeExists) {
			return nil, false, err
		}
	}

	return nil, false, fmt.Errorf("%w: %d attempts collided", ErrGenerationExhausted, s.maxAttempts)
}

// HashStrategy deduplicates URLs by returning the same code for identical URLs.
// A code already held by a different URL is re-derived with a salt.
type HashStrategy struct {
	store       Repository
	codeLength  int
	maxAttempts int
	deriveCode  func(seed string, length int) string
}

// NewHashStrategy creates a new hash-based shortening strategy.
func NewHashStrategy(store Repository, codeLength, maxAttempts int) *HashStrategy {
	return &HashStrategy{
		store:       store,
		codeLength:  codeLength,
		maxAttempts: max(maxAttempts, 1),
		deriveCode:  HashCode,
	}
}

func (s *HashStrategy) Shorten(ctx context.Context, rawURL string) (*ShortLink, bool, error) {
	normalizedURL, err := NormalizeURL(rawURL)
	if err != nil {
		return nil, false, fmt.Errorf("%w: %w", ErrInvalidURL, err)
	}

	for attempt := range s.maxAttempts {
		seed := normalizedURL
		if attempt > 0 {
			seed = fmt.Sprintf("%s#%d", normalizedURL, attempt)
		}

		code := Code(s.deriveCode(seed, s.codeLength))
		if isReserved(string(code)) {
			continue
		}

		existing, err := s.owner(ctx, code, normalizedURL)
		if err != nil {
			return nil, false, err
		}

		if existing != nil {
			return existing, false, nil
		}

		link := &ShortLink{
			Code:      code,
			LongURL:   rawURL,
			CreatedAt: time.Now().UTC(),
		}

		err = s.store.Save(ctx, link)
		if err == nil {
			return link, true, nil
		}

		if !errors.Is(err, ErrCodeExists) {
			return nil, false, err
		}

		// Lost an insert race; the winner may have stored the same URL.
		existing, err = s.owner(ctx, code, normalizedURL)
		if err != nil {
			return nil, false, err
		}

		if existing != nil {
			return existing, false, nil
		}
	}

	return nil, false, fmt.Errorf("%w: %d attempts collided", ErrGenerationExhausted, s.maxAttempts)
}

// owner returns the stored link when code already points at normalizedURL.
// It returns (nil, nil) when the code is free or held by another URL.
func (s *HashStrategy) owner(ctx context.Context, code Code, normalizedURL string) (*ShortLink, error) {
	existing, err := s.store.GetByCode(ctx, code)
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}

	if err != nil {
		return nil, err
	}

	stored, err := NormalizeURL(existing.LongURL)
	if err == nil && stored == normalizedURL && !existing.Custom {
		return existing, nil
	}

	return nil, nil
}
