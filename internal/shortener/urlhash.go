package shortener

import (
	"crypto/md5" //nolint:gosec // used for short code derivation, not security
	"encoding/base64"
	"net/url"
	"strings"
)

// NormalizeURL normalizes a URL for consistent hashing.
// - Lowercases the scheme and host
// - Removes default ports (80 for http, 443 for https)
// - Removes trailing slashes from path (unless path is just "/")
// - Removes the fragment
func NormalizeURL(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", err
	}

	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.ToLower(u.Host)

	host := u.Host
	if strings.HasSuffix(host, ":80") && u.Scheme == "http" {
		u.Host = strings.TrimSuffix(host, ":80")
	} else if strings.HasSuffix(host, ":443") && u.Scheme == "https" {
		u.Host = strings.TrimSuffix(host, ":443")
	}

	if len(u.Path) > 1 && strings.HasSuffix(u.Path, "/") {
		u.Path = strings.TrimSuffix(u.Path, "/")
	}

	u.Fragment = ""
	u.RawFragment = ""

	return u.String(), nil
}

// HashCode derives a URL-safe code of the given length from the input.
// The digest is MD5 encoded as unpadded base64url, so length is capped at 22.
func HashCode(input string, length int) string {
	sum := md5.Sum([]byte(input)) //nolint:gosec
	encoded := base64.RawURLEncoding.EncodeToString(sum[:])

	if length > len(encoded) {
		length = len(encoded)
	}

	return encoded[:length]
}
