package cache

import "encoding/json"

// Push notification defaults applied when the payload omits a field or
// cannot be parsed at all.
const (
	defaultPushTitle = "Jaldikaro"
	defaultPushBody  = "You have a new booking update!"
	defaultPushIcon  = "/icon-192x192.png"
	defaultPushBadge = "/badge-72x72.png"
	defaultPushURL   = "/"
)

// Notification action identifiers.
const (
	ActionView  = "view"
	ActionClose = "close"
)

// PushPayload is the JSON body carried by a push message. Both fields are
// optional.
type PushPayload struct {
	Body string `json:"body,omitempty"`
	URL  string `json:"url,omitempty"`
}

// NotificationAction is one button on a displayed notification.
type NotificationAction struct {
	Action string `json:"action"`
	Title  string `json:"title"`
}

// Notification is the fully-resolved notification to display for a push
// message, defaults applied.
type Notification struct {
	Title   string               `json:"title"`
	Body    string               `json:"body"`
	Icon    string               `json:"icon"`
	Badge   string               `json:"badge"`
	URL     string               `json:"url"`
	Actions []NotificationAction `json:"actions"`
}

// ParsePush turns a raw push payload into a displayable notification.
// An empty or malformed payload yields the default booking notification;
// a valid payload overrides only the fields it carries.
func ParsePush(raw []byte) Notification {
	var payload PushPayload
	if len(raw) > 0 {
		// Malformed JSON degrades to the defaults rather than dropping
		// the notification.
		_ = json.Unmarshal(raw, &payload)
	}

	n := Notification{
		Title: defaultPushTitle,
		Body:  defaultPushBody,
		Icon:  defaultPushIcon,
		Badge: defaultPushBadge,
		URL:   defaultPushURL,
		Actions: []NotificationAction{
			{Action: ActionView, Title: "View Booking"},
			{Action: ActionClose, Title: "Close"},
		},
	}
	if payload.Body != "" {
		n.Body = payload.Body
	}
	if payload.URL != "" {
		n.URL = payload.URL
	}
	return n
}

// ClickTarget resolves the URL to open for a notification click. The
// close action opens nothing; any other action, including clicking the
// notification body, opens the notification's URL.
func (n Notification) ClickTarget(action string) (string, bool) {
	if action == ActionClose {
		return "", false
	}
	return n.URL, true
}
