package cache

import "net/http"

// offlinePageHTML is the self-contained fallback page served when a
// navigation cannot be satisfied from network or cache. It carries no
// external references so it renders without connectivity.
const offlinePageHTML = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>Jaldikaro - Offline</title>
<style>
  body {
    margin: 0;
    font-family: system-ui, -apple-system, sans-serif;
    background: #f3f4f6;
    color: #1f2937;
    display: flex;
    align-items: center;
    justify-content: center;
    min-height: 100vh;
    text-align: center;
  }
  .card {
    background: #ffffff;
    border-radius: 12px;
    padding: 2.5rem 2rem;
    max-width: 24rem;
    box-shadow: 0 4px 12px rgba(0, 0, 0, 0.08);
  }
  h1 { font-size: 1.5rem; margin: 0 0 0.5rem; }
  p { color: #6b7280; margin: 0 0 1.5rem; }
  button {
    background: #2563eb;
    color: #ffffff;
    border: none;
    border-radius: 8px;
    padding: 0.75rem 1.5rem;
    font-size: 1rem;
    cursor: pointer;
  }
  .brand { margin-top: 1.5rem; font-size: 0.8rem; color: #9ca3af; }
</style>
</head>
<body>
<div class="card">
  <h1>You&#39;re offline</h1>
  <p>It looks like you&#39;ve lost your connection. Check your network and try again.</p>
  <button onclick="window.location.reload()">Try Again</button>
  <div class="brand">Jaldikaro - Services at your doorstep</div>
</div>
</body>
</html>
`

// OfflineEntry synthesizes the offline fallback page for a navigation to
// the given URL. The entry reports success so callers render it like any
// other page.
func OfflineEntry(url string) *Entry {
	return &Entry{
		URL:    url,
		Status: http.StatusOK,
		Header: http.Header{
			"Content-Type": []string{"text/html; charset=utf-8"},
		},
		Body: []byte(offlinePageHTML),
	}
}
