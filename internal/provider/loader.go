package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
)

// Doer issues a single HTTP request. *http.Client satisfies it, as does
// the cache dispatcher's client wrapper, so provider data can be loaded
// through the offline cache.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// tableEnvelope is the upstream table API response shape.
type tableEnvelope struct {
	Data  []Provider `json:"data"`
	Total int        `json:"total"`
}

// Loader fetches candidate providers from the upstream table endpoint.
// Any failure (network, status, malformed body, or a missing data field)
// degrades to the built-in demo list so the listing never comes up empty.
type Loader struct {
	client  Doer
	baseURL string
	logger  *slog.Logger
}

// NewLoader creates a Loader. baseURL is the upstream API origin, e.g.
// "https://api.jaldikaro.example".
func NewLoader(client Doer, baseURL string, logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{client: client, baseURL: baseURL, logger: logger}
}

// Load fetches providers for the given service and pin code. On any
// upstream failure the demo list is returned along with a nil error; the
// fallback is the contract, not an exception.
func (l *Loader) Load(ctx context.Context, serviceID, pinCode string) []Provider {
	q := url.Values{}
	q.Set("service", serviceID)
	q.Set("pinCode", pinCode)
	endpoint := fmt.Sprintf("%s/tables/providers?%s", l.baseURL, q.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		l.logger.Error("building provider request failed", "error", err)
		return DefaultProviders()
	}

	resp, err := l.client.Do(req)
	if err != nil {
		l.logger.Warn("provider fetch failed, using demo data", "error", err)
		return DefaultProviders()
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		l.logger.Warn("provider fetch returned non-OK status, using demo data",
			"status", resp.StatusCode)
		return DefaultProviders()
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		l.logger.Warn("reading provider response failed, using demo data", "error", err)
		return DefaultProviders()
	}

	var envelope tableEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		l.logger.Warn("parsing provider response failed, using demo data", "error", err)
		return DefaultProviders()
	}
	if len(envelope.Data) == 0 {
		l.logger.Warn("provider response missing data, using demo data")
		return DefaultProviders()
	}

	return envelope.Data
}
