package shortener

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

const (
	// MinAliasLength is the shortest accepted alias or generated code.
	MinAliasLength = 3
	// MaxAliasLength is the longest accepted alias or generated code.
	MaxAliasLength = 15
	// MaxURLLength caps the size of a long URL in bytes.
	MaxURLLength = 2048
)

var aliasPattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// Codes that would be shadowed by fixed routes of the HTTP API.
var reservedAliases = map[string]struct{}{
	"api":     {},
	"docs":    {},
	"health":  {},
	"openapi": {},
	"schemas": {},
}

// isReserved reports whether code collides with a fixed route.
func isReserved(code string) bool {
	_, ok := reservedAliases[code]

	return ok
}

// ValidateAlias checks a caller-supplied alias against the allowed charset and length.
func ValidateAlias(alias string) error {
	if len(alias) < MinAliasLength || len(alias) > MaxAliasLength {
		return fmt.Errorf("%w: must be between %d and %d characters", ErrInvalidAlias, MinAliasLength, MaxAliasLength)
	}

	if !aliasPattern.MatchString(alias) {
		return fmt.Errorf("%w: only letters, digits, '-' and '_' are allowed", ErrInvalidAlias)
	}

	if isReserved(alias) {
		return fmt.Errorf("%w: %q is reserved", ErrInvalidAlias, alias)
	}

	return nil
}

// ValidateURL accepts absolute http and https URLs that carry a host.
func ValidateURL(rawURL string) error {
	if strings.TrimSpace(rawURL) == "" {
		return fmt.Errorf("%w: url is required", ErrInvalidURL)
	}

	if len(rawURL) > MaxURLLength {
		return fmt.Errorf("%w: longer than %d characters", ErrInvalidURL, MaxURLLength)
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidURL, err)
	}

	switch strings.ToLower(u.Scheme) {
	case "http", "https":
	default:
		return fmt.Errorf("%w: scheme must be http or https", ErrInvalidURL)
	}

	if u.Hostname() == "" {
		return fmt.Errorf("%w: host is required", ErrInvalidURL)
	}

	return nil
}
