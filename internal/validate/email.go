package validate

import (
	"errors"
	"regexp"
	"strings"
)

var ErrInvalidEmail = errors.New("invalid email format")

// Deliverability is the mail server's problem; this only rejects strings
// that cannot be an address at all.
var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// Email normalizes an applicant email address (trimmed, lowercased) and
// checks its shape and the RFC 5321 length limits.
func Email(email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return "", ErrEmpty
	}
	if len(email) > 254 {
		return "", ErrStringTooLong
	}
	if !emailPattern.MatchString(email) {
		return "", ErrInvalidEmail
	}

	at := strings.LastIndex(email, "@")
	local, domain := email[:at], email[at+1:]
	if len(local) > 64 || len(domain) > 255 {
		return "", ErrStringTooLong
	}
	if strings.Count(email, "@") != 1 || !strings.Contains(domain, ".") {
		return "", ErrInvalidEmail
	}
	return email, nil
}
