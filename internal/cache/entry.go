package cache

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Mode distinguishes full-page navigation requests from subresource
// requests. Navigation requests get the guaranteed offline fallback.
type Mode string

// Request modes.
const (
	ModeResource Mode = "resource"
	ModeNavigate Mode = "navigate"
)

// Request describes one outbound resource request seen by the dispatcher.
type Request struct {
	URL    string
	Mode   Mode
	Header http.Header
}

// Entry is one cached response, keyed by full request URL. Entries are
// replaced wholesale; there are no partial updates, so concurrent writers
// to the same key are safely last-write-wins.
type Entry struct {
	URL      string      `json:"url" cbor:"url"`
	Status   int         `json:"status" cbor:"status"`
	Header   http.Header `json:"header" cbor:"header"`
	Body     []byte      `json:"body" cbor:"body"`
	StoredAt time.Time   `json:"stored_at" cbor:"stored_at"`
}

// OK reports whether the entry holds a success response.
func (e *Entry) OK() bool {
	return e.Status >= 200 && e.Status < 300
}

// Clone returns a deep copy of the entry.
func (e *Entry) Clone() *Entry {
	cp := *e
	cp.Header = e.Header.Clone()
	cp.Body = bytes.Clone(e.Body)
	return &cp
}

// EntryFromResponse drains an *http.Response into an Entry. The response
// body is fully read and closed.
func EntryFromResponse(url string, resp *http.Response) (*Entry, error) {
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body for %s: %w", url, err)
	}

	return &Entry{
		URL:      url,
		Status:   resp.StatusCode,
		Header:   resp.Header.Clone(),
		Body:     body,
		StoredAt: time.Now().UTC(),
	}, nil
}

// WriteTo writes the entry to an http.ResponseWriter, replaying the stored
// headers, status, and body.
func (e *Entry) WriteTo(w http.ResponseWriter) error {
	for k, vals := range e.Header {
		for _, v := range vals {
			w.Header().Add(k, v)
		}
	}
	w.WriteHeader(e.Status)
	_, err := w.Write(e.Body)
	return err
}
