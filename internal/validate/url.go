package validate

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"slices"
	"strings"
)

var (
	ErrInvalidURL       = errors.New("invalid URL format")
	ErrDisallowedScheme = errors.New("URL scheme not allowed")
	ErrDisallowedDomain = errors.New("URL domain not allowed")
	ErrSSRFRisk         = errors.New("URL poses SSRF risk")
)

// URLConstraints defines validation constraints for URLs.
type URLConstraints struct {
	AllowedSchemes []string
	AllowedDomains []string // exact host or subdomain; empty allows any public domain
	BlockPrivate   bool     // reject hosts that resolve to private or loopback addresses
	MaxLength      int      // 0 means no limit
}

// DocumentURLConstraints governs links to stored KYC documents: https only,
// private addresses blocked. Document URLs are fetched server-side during
// application review, hence the SSRF guard.
var DocumentURLConstraints = URLConstraints{
	AllowedSchemes: []string{"https"},
	BlockPrivate:   true,
	MaxLength:      2048,
}

// ProfileImageConstraints governs provider profile image links, which are
// only ever rendered by the browser. http is tolerated for these.
var ProfileImageConstraints = URLConstraints{
	AllowedSchemes: []string{"https", "http"},
	BlockPrivate:   true,
	MaxLength:      2048,
}

// URL validates urlStr against the constraints and returns the trimmed URL.
func URL(urlStr string, constraints URLConstraints) (string, error) {
	urlStr = strings.TrimSpace(urlStr)
	if urlStr == "" {
		return "", ErrEmpty
	}
	if constraints.MaxLength > 0 && len(urlStr) > constraints.MaxLength {
		return "", fmt.Errorf("%w: URL exceeds %d characters", ErrStringTooLong, constraints.MaxLength)
	}

	parsed, err := url.Parse(urlStr)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}
	if len(constraints.AllowedSchemes) > 0 && !slices.Contains(constraints.AllowedSchemes, parsed.Scheme) {
		return "", fmt.Errorf("%w: got %q, allowed: %v", ErrDisallowedScheme, parsed.Scheme, constraints.AllowedSchemes)
	}

	host := parsed.Hostname()
	if host == "" {
		return "", fmt.Errorf("%w: missing hostname", ErrInvalidURL)
	}
	if len(constraints.AllowedDomains) > 0 && !domainAllowed(host, constraints.AllowedDomains) {
		return "", fmt.Errorf("%w: %q not in allowlist", ErrDisallowedDomain, host)
	}
	if constraints.BlockPrivate {
		if err := rejectPrivateHost(host); err != nil {
			return "", err
		}
	}
	return urlStr, nil
}

func domainAllowed(host string, domains []string) bool {
	for _, d := range domains {
		if host == d || strings.HasSuffix(host, "."+d) {
			return true
		}
	}
	return false
}

// rejectPrivateHost refuses hosts resolving to loopback, link-local, or
// RFC 1918 / ULA space. Resolution failures pass: transient DNS trouble on a
// public domain must not surface as a validation error, and the eventual
// fetch fails on its own.
func rejectPrivateHost(host string) error {
	switch strings.ToLower(host) {
	case "localhost", "localhost.localdomain":
		return fmt.Errorf("%w: localhost not allowed", ErrSSRFRisk)
	}

	ips, err := net.LookupIP(host)
	if err != nil {
		return nil
	}
	for _, ip := range ips {
		if ip.IsLoopback() || ip.IsPrivate() || ip.IsLinkLocalUnicast() || ip.IsLinkLocalMulticast() {
			return fmt.Errorf("%w: private IP address %s", ErrSSRFRisk, ip)
		}
	}
	return nil
}

// DocumentURL validates a link to a stored KYC document.
func DocumentURL(urlStr string) (string, error) {
	return URL(urlStr, DocumentURLConstraints)
}

// ProfileImageURL validates a provider profile image link.
func ProfileImageURL(urlStr string) (string, error) {
	return URL(urlStr, ProfileImageConstraints)
}
