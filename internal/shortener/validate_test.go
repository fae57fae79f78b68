package shortener_test

import (
	"strings"
	"testing"

	"github.com/serroba/shortlink/internal/shortener"
	"github.com/stretchr/testify/assert"
)

func TestValidateAlias(t *testing.T) {
	tests := []struct {
		name  string
		alias string
		valid bool
	}{
		{name: "letters and digits", alias: "abc123", valid: true},
		{name: "hyphen and underscore", alias: "my-link_1", valid: true},
		{name: "minimum length", alias: "abc", valid: true},
		{name: "maximum length", alias: strings.Repeat("a", 15), valid: true},
		{name: "too short", alias: "ab", valid: false},
		{name: "too long", alias: strings.Repeat("a", 16), valid: false},
		{name: "space", alias: "my link", valid: false},
		{name: "slash", alias: "a/b/c", valid: false},
		{name: "non ascii", alias: "héllo", valid: false},
		{name: "reserved route", alias: "health", valid: false},
		{name: "reserved docs", alias: "docs", valid: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := shortener.ValidateAlias(tt.alias)
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, shortener.ErrInvalidAlias)
			}
		})
	}
}

func TestValidateURL(t *testing.T) {
	tests := []struct {
		name  string
		url   string
		valid bool
	}{
		{name: "https", url: "https://example.com/very/long/path", valid: true},
		{name: "http with port and query", url: "http://example.com:8080/a?b=c", valid: true},
		{name: "uppercase scheme", url: "HTTPS://example.com", valid: true},
		{name: "empty", url: "", valid: false},
		{name: "blank", url: "   ", valid: false},
		{name: "relative", url: "/just/a/path", valid: false},
		{name: "missing host", url: "https://", valid: false},
		{name: "ftp scheme", url: "ftp://example.com/file", valid: false},
		{name: "javascript scheme", url: "javascript:alert(1)", valid: false},
		{name: "unparseable", url: "://invalid", valid: false},
		{name: "too long", url: "https://example.com/" + strings.Repeat("a", shortener.MaxURLLength), valid: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := shortener.ValidateURL(tt.url)
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, shortener.ErrInvalidURL)
			}
		})
	}
}
