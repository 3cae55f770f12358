package probe

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestHTTPProber_StatusOK(t *testing.T) {
	var method string
	s := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		method = r.Method
		w.WriteHeader(200)
	}))
	defer s.Close()

	out := NewHTTPProber(2*time.Second).Probe(context.Background(), s.URL)
	if !out.Up() {
		t.Fatalf("want reachable, got %+v", out)
	}
	if out.StatusCode != 200 {
		t.Fatalf("want status 200, got %d", out.StatusCode)
	}
	if method != http.MethodHead {
		t.Fatalf("want HEAD request, got %s", method)
	}
}

func TestHTTPProber_Status500StillReachable(t *testing.T) {
	s := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", 500)
	}))
	defer s.Close()

	out := NewHTTPProber(2*time.Second).Probe(context.Background(), s.URL)
	if !out.Up() {
		t.Fatalf("5xx must count as reachable, got %+v", out)
	}
	if out.StatusCode != 500 {
		t.Fatalf("want status 500, got %d", out.StatusCode)
	}
}

func TestHTTPProber_Status404StillReachable(t *testing.T) {
	s := httptest.NewServer(http.NotFoundHandler())
	defer s.Close()

	if out := NewHTTPProber(2*time.Second).Probe(context.Background(), s.URL); !out.Up() {
		t.Fatalf("4xx must count as reachable, got %+v", out)
	}
}

func TestHTTPProber_SelfSignedTLSReachable(t *testing.T) {
	s := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(204)
	}))
	defer s.Close()

	// default prober client does not trust the httptest CA
	out := NewHTTPProber(2*time.Second).Probe(context.Background(), s.URL)
	if !out.Up() {
		t.Fatalf("certificate errors must be ignored, got %+v", out)
	}
}

func TestHTTPProber_RedirectNotFollowed(t *testing.T) {
	hits := 0
	s := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		http.Redirect(w, r, "/elsewhere", http.StatusFound)
	}))
	defer s.Close()

	out := NewHTTPProber(2*time.Second).Probe(context.Background(), s.URL)
	if !out.Up() || out.StatusCode != http.StatusFound {
		t.Fatalf("want reachable 302, got %+v", out)
	}
	if hits != 1 {
		t.Fatalf("want a single request, got %d", hits)
	}
}

func TestHTTPProber_TimeoutIsUnreachable(t *testing.T) {
	s := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.WriteHeader(200)
	}))
	defer s.Close()

	out := NewHTTPProber(50*time.Millisecond).Probe(context.Background(), s.URL)
	if out.Up() {
		t.Fatalf("want unreachable due to timeout, got %+v", out)
	}
	if out.StatusCode != 0 {
		t.Fatalf("want status 0 on transport error, got %d", out.StatusCode)
	}
	if out.Reason == "" {
		t.Fatalf("want non-empty error reason")
	}
}

func TestHTTPProber_ClosedServerIsUnreachable(t *testing.T) {
	s := httptest.NewServer(http.NotFoundHandler())
	url := s.URL
	s.Close()

	if out := NewHTTPProber(time.Second).Probe(context.Background(), url); out.Up() {
		t.Fatalf("want unreachable, got %+v", out)
	}
}

func TestHTTPProber_BadURLIsUnreachable(t *testing.T) {
	if out := NewHTTPProber(time.Second).Probe(context.Background(), "http://[::1"); out.Up() {
		t.Fatalf("want unreachable, got %+v", out)
	}
}
