package poller

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/http/httptrace"
	"strings"
	"testing"
	"time"
)

func TestClient_FetchReturnsBodyAndStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("method = %s, want GET", r.Method)
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"A":{"time":0,"value":5}}`))
	}))
	defer server.Close()

	client := NewClient()
	defer client.Close()

	resp := client.Fetch(context.Background(), server.URL, 0)
	if resp.Error != nil {
		t.Fatalf("Fetch() error = %v", resp.Error)
	}
	if resp.StatusCode != http.StatusOK {
		t.Errorf("StatusCode = %d, want 200", resp.StatusCode)
	}
	if string(resp.Body) != `{"A":{"time":0,"value":5}}` {
		t.Errorf("Body = %q", resp.Body)
	}
}

// TestClient_Non2xxIsNotAnError verifies that the client hands back any
// completed response; interpreting the status code is the caller's concern.
func TestClient_Non2xxIsNotAnError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte("busy"))
	}))
	defer server.Close()

	resp := NewClient().Fetch(context.Background(), server.URL, time.Second)
	if resp.Error != nil {
		t.Fatalf("Fetch() error = %v, want nil", resp.Error)
	}
	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Errorf("StatusCode = %d, want 503", resp.StatusCode)
	}
}

func TestClient_ConnectionRefused(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	resp := NewClient().Fetch(context.Background(), url, time.Second)
	if resp.Error == nil {
		t.Fatal("Fetch() expected error for closed server, got nil")
	}
	if !strings.Contains(resp.Error.Error(), "request failed") {
		t.Errorf("error = %v, want 'request failed'", resp.Error)
	}
	if resp.StatusCode != 0 {
		t.Errorf("StatusCode = %d, want 0", resp.StatusCode)
	}
}

func TestClient_TimeoutApplied(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer server.Close()
	defer close(release)

	start := time.Now()
	resp := NewClient().Fetch(context.Background(), server.URL, 50*time.Millisecond)
	if resp.Error == nil {
		t.Fatal("Fetch() expected timeout error, got nil")
	}
	if time.Since(start) > 2*time.Second {
		t.Errorf("Fetch() took %v, timeout was not applied", time.Since(start))
	}
}

func TestClient_InvalidURL(t *testing.T) {
	resp := NewClient().Fetch(context.Background(), "://bad", 0)
	if resp.Error == nil {
		t.Fatal("Fetch() expected error for invalid URL, got nil")
	}
	if !strings.Contains(resp.Error.Error(), "failed to create request") {
		t.Errorf("error = %v, want 'failed to create request'", resp.Error)
	}
}

func TestClient_BodyLimited(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(strings.Repeat("x", maxResponseBodySize+100)))
	}))
	defer server.Close()

	resp := NewClient().Fetch(context.Background(), server.URL, time.Second)
	if resp.Error != nil {
		t.Fatalf("Fetch() error = %v", resp.Error)
	}
	if len(resp.Body) != maxResponseBodySize {
		t.Errorf("len(Body) = %d, want %d", len(resp.Body), maxResponseBodySize)
	}
}

// TestClient_ConnectionReuse verifies that sequential polls reuse the same
// keep-alive connection.
func TestClient_ConnectionReuse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("{}"))
	}))
	defer server.Close()

	client := NewClient()

	var reusedCount int
	trace := &httptrace.ClientTrace{
		GotConn: func(info httptrace.GotConnInfo) {
			if info.Reused {
				reusedCount++
			}
		},
	}

	const numRequests = 5
	for i := 0; i < numRequests; i++ {
		ctx := httptrace.WithClientTrace(context.Background(), trace)
		resp := client.Fetch(ctx, server.URL, 5*time.Second)
		if resp.Error != nil {
			t.Fatalf("request %d failed: %v", i, resp.Error)
		}
	}

	expectedMinReuse := numRequests - 2 // allow some tolerance
	if reusedCount < expectedMinReuse {
		t.Errorf("expected at least %d reused connections, got %d out of %d requests",
			expectedMinReuse, reusedCount, numRequests)
	}
}

func TestClient_Close(t *testing.T) {
	client := NewClient()

	// idempotent
	client.Close()
	client.Close()

	var nilClient *Client
	nilClient.Close()
}
