package notify

import (
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/LISSConsulting/LISSTech.SmokeBreak/internal/event"
)

// captureServer starts an httptest.Server that records incoming requests.
// It returns the server and a function to collect all captured requests.
func captureServer(t *testing.T) (*httptest.Server, func() []capturedReq) {
	t.Helper()
	var mu sync.Mutex
	var reqs []capturedReq
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		mu.Lock()
		reqs = append(reqs, capturedReq{
			method:      r.Method,
			body:        string(body),
			contentType: r.Header.Get("Content-Type"),
			title:       r.Header.Get("X-Title"),
			tags:        r.Header.Get("X-Tags"),
		})
		mu.Unlock()
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(srv.Close)
	return srv, func() []capturedReq {
		mu.Lock()
		defer mu.Unlock()
		out := make([]capturedReq, len(reqs))
		copy(out, reqs)
		return out
	}
}

type capturedReq struct {
	method      string
	body        string
	contentType string
	title       string
	tags        string
}

// waitForRequests polls until count requests are captured or the deadline is reached.
func waitForRequests(t *testing.T, collect func() []capturedReq, count int) []capturedReq {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if got := collect(); len(got) >= count {
			return got
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %d request(s)", count)
	return nil
}

// assertNoRequests waits briefly and fails if any request arrived.
func assertNoRequests(t *testing.T, collect func() []capturedReq) {
	t.Helper()
	time.Sleep(50 * time.Millisecond)
	if got := collect(); len(got) != 0 {
		t.Errorf("expected no requests, got %d", len(got))
	}
}

func TestRequestPermission(t *testing.T) {
	n := New("", "", true)
	if n.Permission() != PermissionDefault {
		t.Errorf("initial permission = %v", n.Permission())
	}
	if got := n.RequestPermission(); got != PermissionDenied {
		t.Errorf("no URL: permission = %v, want denied", got)
	}
	if n.Allowed() {
		t.Error("denied notifier must not be allowed")
	}

	n = New("http://example.invalid/topic", "", true)
	if got := n.RequestPermission(); got != PermissionGranted {
		t.Errorf("with URL: permission = %v, want granted", got)
	}
}

func TestShow(t *testing.T) {
	srv, collect := captureServer(t)

	n := New(srv.URL, "SmokeBreak", false)
	n.RequestPermission()
	n.Show("Time for a break?", "61 minutes since your last one.", "cigarette")

	reqs := waitForRequests(t, collect, 1)
	r := reqs[0]
	if r.method != http.MethodPost {
		t.Errorf("method = %q, want POST", r.method)
	}
	if r.body != "61 minutes since your last one." {
		t.Errorf("body = %q", r.body)
	}
	if r.contentType != "text/plain" {
		t.Errorf("Content-Type = %q, want text/plain", r.contentType)
	}
	if r.title != "Time for a break?" {
		t.Errorf("X-Title = %q", r.title)
	}
	if r.tags != "cigarette" {
		t.Errorf("X-Tags = %q", r.tags)
	}
}

func TestShow_WithoutPermission(t *testing.T) {
	srv, collect := captureServer(t)
	n := New(srv.URL, "", false) // never asked
	n.Show("t", "b", "i")
	assertNoRequests(t, collect)
}

func TestShow_DefaultTitle(t *testing.T) {
	srv, collect := captureServer(t)
	n := New(srv.URL, "", false)
	n.RequestPermission()
	n.Show("", "body", "")
	reqs := waitForRequests(t, collect, 1)
	if reqs[0].title != "SmokeBreak" {
		t.Errorf("X-Title = %q, want SmokeBreak", reqs[0].title)
	}
	if reqs[0].tags != "" {
		t.Errorf("X-Tags = %q, want empty", reqs[0].tags)
	}
}

func TestHook(t *testing.T) {
	t.Run("forwards completion", func(t *testing.T) {
		srv, collect := captureServer(t)
		n := New(srv.URL, "mine", true)
		n.RequestPermission()
		n.Hook(event.Entry{Kind: event.SessionComplete, Message: "Finished Classic Red"})
		reqs := waitForRequests(t, collect, 1)
		if reqs[0].body != "Finished Classic Red" || reqs[0].title != "mine" {
			t.Errorf("request = %+v", reqs[0])
		}
	})

	t.Run("on_complete disabled", func(t *testing.T) {
		srv, collect := captureServer(t)
		n := New(srv.URL, "", false)
		n.RequestPermission()
		n.Hook(event.Entry{Kind: event.SessionComplete, Message: "x"})
		assertNoRequests(t, collect)
	})

	t.Run("ignores other kinds", func(t *testing.T) {
		srv, collect := captureServer(t)
		n := New(srv.URL, "", true)
		n.RequestPermission()
		for _, k := range []event.Kind{event.SessionStart, event.SessionStop, event.Reminder, event.Warning} {
			n.Hook(event.Entry{Kind: k, Message: "x"})
		}
		assertNoRequests(t, collect)
	})
}

func TestPost_UnreachableIsSilent(t *testing.T) {
	n := New("http://127.0.0.1:1/unreachable", "", false)
	n.post("t", "b", "") // must not panic
}

func TestWait(t *testing.T) {
	srv, collect := captureServer(t)
	n := New(srv.URL, "", false)
	n.RequestPermission()
	n.Show("t", "one", "")
	n.Show("t", "two", "")
	n.Wait()
	if got := len(collect()); got != 2 {
		t.Errorf("after Wait, %d requests captured, want 2", got)
	}
}
