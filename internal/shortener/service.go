package shortener

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ShortenInput carries a shorten request. CustomAlias and Strategy are optional.
type ShortenInput struct {
	LongURL     string
	CustomAlias string
	Strategy    StrategyName
}

// Service implements the shorten and retrieve operations over a Repository.
type Service struct {
	store           Repository
	strategies      map[StrategyName]Strategy
	defaultStrategy StrategyName
}

// NewService creates a service. Requests without a strategy use StrategyToken.
func NewService(store Repository, strategies map[StrategyName]Strategy) *Service {
	return &Service{
		store:           store,
		strategies:      strategies,
		defaultStrategy: StrategyToken,
	}
}

// StrategyFor reports which strategy a request will be served by.
func (s *Service) StrategyFor(in ShortenInput) StrategyName {
	switch {
	case in.CustomAlias != "":
		return StrategyCustom
	case in.Strategy == "":
		return s.defaultStrategy
	default:
		return in.Strategy
	}
}

// Shorten validates the input and stores a new link. With a custom alias the
// alias itself becomes the code; otherwise the selected strategy generates one.
func (s *Service) Shorten(ctx context.Context, in ShortenInput) (*ShortLink, error) {
	link, _, err := s.Create(ctx, in)

	return link, err
}

// Create is Shorten that also reports whether this call stored the link.
// created is false when the hash strategy resolved to an existing link.
func (s *Service) Create(ctx context.Context, in ShortenInput) (link *ShortLink, created bool, err error) {
	if err := ValidateURL(in.LongURL); err != nil {
		return nil, false, err
	}

	if in.CustomAlias != "" {
		link, err := s.shortenWithAlias(ctx, in.LongURL, in.CustomAlias)
		if err != nil {
			return nil, false, err
		}

		return link, true, nil
	}

	name := s.StrategyFor(in)

	strategy, ok := s.strategies[name]
	if !ok {
		return nil, false, fmt.Errorf("%w: %q", ErrInvalidStrategy, name)
	}

	return strategy.Shorten(ctx, in.LongURL)
}

func (s *Service) shortenWithAlias(ctx context.Context, longURL, alias string) (*ShortLink, error) {
	if err := ValidateAlias(alias); err != nil {
		return nil, err
	}

	link := &ShortLink{
		Code:      Code(alias),
		LongURL:   longURL,
		Custom:    true,
		CreatedAt: time.Now().UTC(),
	}

	if err := s.store.Save(ctx, link); err != nil {
		if errors.Is(err, ErrCodeExists) {
			return nil, fmt.Errorf("%w: %q", ErrAliasTaken, alias)
		}

		return nil, err
	}

	return link, nil
}

// Retrieve looks up the link stored under code.
func (s *Service) Retrieve(ctx context.Context, code string) (*ShortLink, error) {
	if code == "" {
		return nil, fmt.Errorf("%w: short id is required", ErrInvalidAlias)
	}

	return s.store.GetByCode(ctx, Code(code))
}

// Available reports whether alias is well-formed and unused. The answer is
// advisory; Shorten performs the authoritative check when inserting.
func (s *Service) Available(ctx context.Context, alias string) (bool, error) {
	if err := ValidateAlias(alias); err != nil {
		return false, err
	}

	exists, err := s.store.Exists(ctx, Code(alias))
	if err != nil {
		return false, err
	}

	return !exists, nil
}
