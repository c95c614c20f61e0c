package cache

import "testing"

func TestParsePush(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		wantBody string
		wantURL  string
	}{
		{
			name:     "empty payload uses defaults",
			raw:      "",
			wantBody: "You have a new booking update!",
			wantURL:  "/",
		},
		{
			name:     "malformed payload uses defaults",
			raw:      "not json at all",
			wantBody: "You have a new booking update!",
			wantURL:  "/",
		},
		{
			name:     "full payload overrides both fields",
			raw:      `{"body":"Your booking is confirmed","url":"/booking.html?id=b42"}`,
			wantBody: "Your booking is confirmed",
			wantURL:  "/booking.html?id=b42",
		},
		{
			name:     "partial payload keeps missing defaults",
			raw:      `{"body":"Provider on the way"}`,
			wantBody: "Provider on the way",
			wantURL:  "/",
		},
		{
			name:     "empty object keeps all defaults",
			raw:      `{}`,
			wantBody: "You have a new booking update!",
			wantURL:  "/",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := ParsePush([]byte(tt.raw))
			if n.Body != tt.wantBody {
				t.Errorf("Body = %q, want %q", n.Body, tt.wantBody)
			}
			if n.URL != tt.wantURL {
				t.Errorf("URL = %q, want %q", n.URL, tt.wantURL)
			}
			if n.Title != "Jaldikaro" {
				t.Errorf("Title = %q", n.Title)
			}
			if n.Icon != "/icon-192x192.png" || n.Badge != "/badge-72x72.png" {
				t.Errorf("Icon/Badge = %q/%q", n.Icon, n.Badge)
			}
			if len(n.Actions) != 2 || n.Actions[0].Action != ActionView || n.Actions[1].Action != ActionClose {
				t.Errorf("Actions = %v", n.Actions)
			}
		})
	}
}

func TestClickTarget(t *testing.T) {
	n := ParsePush([]byte(`{"url":"/booking.html?id=b7"}`))

	tests := []struct {
		name     string
		action   string
		wantURL  string
		wantOpen bool
	}{
		{"view action opens the url", ActionView, "/booking.html?id=b7", true},
		{"body click opens the url", "", "/booking.html?id=b7", true},
		{"close action opens nothing", ActionClose, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			url, open := n.ClickTarget(tt.action)
			if open != tt.wantOpen || url != tt.wantURL {
				t.Errorf("ClickTarget(%q) = %q, %v; want %q, %v",
					tt.action, url, open, tt.wantURL, tt.wantOpen)
			}
		})
	}
}
