// Package notify delivers fire-and-forget HTTP notifications. The primary
// target is an ntfy.sh topic, but any webhook accepting a plain-text POST
// works.
package notify

import (
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/LISSConsulting/LISSTech.SmokeBreak/internal/event"
)

// Permission is the user's answer to "may we notify you?".
type Permission int

const (
	PermissionDefault Permission = iota // not asked yet
	PermissionGranted
	PermissionDenied
)

func (p Permission) String() string {
	switch p {
	case PermissionGranted:
		return "granted"
	case PermissionDenied:
		return "denied"
	default:
		return "default"
	}
}

// Notifier posts plain-text notifications.
type Notifier struct {
	url        string
	title      string
	onComplete bool
	client     *http.Client

	mu   sync.Mutex
	perm Permission

	inflight sync.WaitGroup
}

// New creates a Notifier. title is the default X-Title header; if empty,
// "SmokeBreak" is used instead.
func New(notifURL, title string, onComplete bool) *Notifier {
	if title == "" {
		title = "SmokeBreak"
	}
	return &Notifier{
		url:        notifURL,
		title:      title,
		onComplete: onComplete,
		client:     &http.Client{Timeout: 10 * time.Second},
	}
}

// RequestPermission asks for permission to deliver. A notifier without a
// target URL cannot deliver, so the request is denied. The answer sticks
// until the next explicit request.
func (n *Notifier) RequestPermission() Permission {
	p := PermissionDenied
	if n.url != "" {
		p = PermissionGranted
	}
	n.mu.Lock()
	n.perm = p
	n.mu.Unlock()
	return p
}

// Permission returns the last answer.
func (n *Notifier) Permission() Permission {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.perm
}

// Allowed reports whether permission was granted.
func (n *Notifier) Allowed() bool {
	return n.Permission() == PermissionGranted
}

// Show posts a notification asynchronously. Nothing is sent without
// permission.
func (n *Notifier) Show(title, body, icon string) {
	if !n.Allowed() {
		return
	}
	if title == "" {
		title = n.title
	}
	n.inflight.Add(1)
	go func() {
		defer n.inflight.Done()
		n.post(title, body, icon)
	}()
}

// Wait blocks until every notification posted so far has been sent or
// has failed.
func (n *Notifier) Wait() {
	n.inflight.Wait()
}

// Hook forwards completed sessions when on_complete is set. Reminders are
// delivered by the scheduler through Show, not here.
func (n *Notifier) Hook(entry event.Entry) {
	if entry.Kind == event.SessionComplete && n.onComplete {
		n.Show(n.title, entry.Message, "white_check_mark")
	}
}

// post sends a plain-text POST to the configured URL. Errors are silently
// discarded so notification failures never interrupt a session.
func (n *Notifier) post(title, message, icon string) {
	req, err := http.NewRequest(http.MethodPost, n.url, strings.NewReader(message))
	if err != nil {
		return
	}
	req.Header.Set("Content-Type", "text/plain")
	req.Header.Set("X-Title", title)
	if icon != "" {
		req.Header.Set("X-Tags", icon)
	}
	resp, err := n.client.Do(req)
	if err != nil {
		return
	}
	resp.Body.Close()
}
