package domain

import (
	"errors"
	"regexp"
	"strings"
)

// ErrInvalidUsername is returned for input that cannot be a GitHub login.
var ErrInvalidUsername = errors.New("invalid github username")

// MaxUsernameLength is the longest login GitHub accepts.
const MaxUsernameLength = 39

// Alphanumerics and single inner hyphens.
var usernamePattern = regexp.MustCompile(`^[A-Za-z0-9]+(?:-[A-Za-z0-9]+)*$`)

// NormalizeUsername trims raw chat input down to a GitHub login.
// A single leading "@" is accepted.
func NormalizeUsername(raw string) (string, error) {
	name := strings.TrimSpace(raw)
	name = strings.TrimPrefix(name, "@")
	if name == "" || len(name) > MaxUsernameLength || !usernamePattern.MatchString(name) {
		return "", ErrInvalidUsername
	}
	return name, nil
}
