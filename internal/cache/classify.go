package cache

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"strings"
)

// Class identifies which caching strategy handles a request.
type Class int

// Request classes, in evaluation order. Classification is first match
// wins: API data endpoints, then navigations, then local static assets,
// then known CDN origins, then the network-first default.
const (
	ClassDefault Class = iota
	ClassAPI
	ClassNavigation
	ClassStatic
	ClassCDN
)

// String returns the class name for logging and metrics labels.
func (c Class) String() string {
	switch c {
	case ClassAPI:
		return "api"
	case ClassNavigation:
		return "navigation"
	case ClassStatic:
		return "static"
	case ClassCDN:
		return "cdn"
	default:
		return "default"
	}
}

// Manifest is the data-driven cache configuration: which asset paths to
// precache on install, which path substrings identify API table endpoints,
// and which hostnames are trusted CDN origins. It is loaded from a JSON
// file so the allow-lists can change without a code change.
type Manifest struct {
	Version  string   `json:"version"`   // Cache version tag, e.g. "v1.0.0"
	Precache []string `json:"precache"`  // Local asset paths cached on install
	APIPaths []string `json:"api_paths"` // Path substrings handled network-first
	CDNHosts []string `json:"cdn_hosts"` // Hostnames handled stale-while-revalidate
}

// DefaultManifest returns the built-in cache manifest for the app shell.
func DefaultManifest() *Manifest {
	return &Manifest{
		Version: "v1.0.0",
		Precache: []string{
			"/",
			"/index.html",
			"/providers.html",
			"/booking.html",
			"/admin.html",
			"/provider-signup.html",
			"/js/main.js",
			"/js/booking-flow.js",
			"/js/language.js",
			"/js/services.js",
			"/js/providers.js",
			"/js/booking.js",
			"/js/admin.js",
			"/js/provider-signup.js",
			"/manifest.json",
			"https://cdn.tailwindcss.com",
			"https://fonts.googleapis.com/css2?family=Inter:wght@300;400;500;600;700;800&display=swap",
			"https://cdn.jsdelivr.net/npm/@fortawesome/fontawesome-free@6.4.0/css/all.min.css",
		},
		APIPaths: []string{
			"/tables/services",
			"/tables/providers",
			"/tables/bookings",
		},
		CDNHosts: []string{
			"cdn.tailwindcss.com",
			"fonts.googleapis.com",
			"cdn.jsdelivr.net",
			"images.unsplash.com",
		},
	}
}

// LoadManifest loads a cache manifest from a JSON file. An empty path
// returns the default manifest. A missing or malformed file degrades to
// the defaults with an error, mirroring ranking calibration loading.
func LoadManifest(filePath string) (*Manifest, error) {
	if filePath == "" {
		return DefaultManifest(), nil
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		slog.Warn("failed to read cache manifest, using defaults",
			"path", filePath,
			"error", err)
		return DefaultManifest(), fmt.Errorf("failed to read cache manifest: %w", err)
	}

	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		slog.Warn("failed to parse cache manifest, using defaults",
			"path", filePath,
			"error", err)
		return DefaultManifest(), fmt.Errorf("failed to parse cache manifest: %w", err)
	}

	// Fill gaps from the defaults so a partial manifest stays usable.
	defaults := DefaultManifest()
	if m.Version == "" {
		m.Version = defaults.Version
	}
	if len(m.Precache) == 0 {
		m.Precache = defaults.Precache
	}
	if len(m.APIPaths) == 0 {
		m.APIPaths = defaults.APIPaths
	}
	if len(m.CDNHosts) == 0 {
		m.CDNHosts = defaults.CDNHosts
	}

	return &m, nil
}

// staticMarkers identify local static assets by path or extension.
var staticMarkers = []string{"/js/", "/css/", "/images/", ".html", ".json"}

// Classifier decides which strategy class a request belongs to, using the
// manifest's allow-lists. First match wins in the documented order.
type Classifier struct {
	apiPaths []string
	cdnHosts []string
}

// NewClassifier creates a classifier from the manifest's allow-lists.
func NewClassifier(m *Manifest) *Classifier {
	if m == nil {
		m = DefaultManifest()
	}
	return &Classifier{
		apiPaths: m.APIPaths,
		cdnHosts: m.CDNHosts,
	}
}

// Classify assigns a request to a strategy class.
func (c *Classifier) Classify(req Request) Class {
	if c.isAPIRequest(req.URL) {
		return ClassAPI
	}
	if req.Mode == ModeNavigate {
		return ClassNavigation
	}
	if isStaticAsset(req.URL) {
		return ClassStatic
	}
	if c.isCDNResource(req.URL) {
		return ClassCDN
	}
	return ClassDefault
}

// isAPIRequest reports whether the URL hits a table API endpoint.
func (c *Classifier) isAPIRequest(rawURL string) bool {
	for _, p := range c.apiPaths {
		if strings.Contains(rawURL, p) {
			return true
		}
	}
	return false
}

// isStaticAsset reports whether the URL points at a local static asset.
func isStaticAsset(rawURL string) bool {
	for _, marker := range staticMarkers {
		if strings.Contains(rawURL, marker) {
			return true
		}
	}
	return false
}

// isCDNResource reports whether the URL's host is a known CDN origin.
func (c *Classifier) isCDNResource(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	host := u.Hostname()
	for _, h := range c.cdnHosts {
		if host == h {
			return true
		}
	}
	return false
}
