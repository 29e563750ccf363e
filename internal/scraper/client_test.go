package scraper

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/dealscope/dealscope/internal/faulttolerance"
)

func testClientLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return logger
}

func newTestClient(requestTimeout time.Duration, maxAttempts int) *Client {
	return NewClient(&ClientConfig{
		RequestTimeout:    requestTimeout,
		RequestsPerSecond: 1000,
		Burst:             1000,
		Retry: faulttolerance.RetryConfig{
			MaxAttempts: maxAttempts,
			BaseDelay:   time.Millisecond,
			MaxDelay:    2 * time.Millisecond,
			Multiplier:  2.0,
			JitterRange: 0.1,
			Name:        "test-fetch",
		},
		Breaker: faulttolerance.CircuitBreakerConfig{
			MaxFailures: 100,
			Timeout:     time.Minute,
		},
	}, testClientLogger())
}

func TestFetchPageSuccess(t *testing.T) {
	var gotUA atomic.Value
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA.Store(r.UserAgent())
		w.Write([]byte("<html>listing</html>"))
	}))
	defer srv.Close()

	c := newTestClient(time.Second, 1)
	body, err := c.FetchPage(context.Background(), "test", srv.URL)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(body) != "<html>listing</html>" {
		t.Errorf("body = %q", body)
	}
	if ua, _ := gotUA.Load().(string); ua == "" || ua == "Go-http-client/1.1" {
		t.Errorf("expected a browser user agent, got %q", ua)
	}
}

func TestFetchPageStatusMapping(t *testing.T) {
	cases := []struct {
		status    int
		wantKind  ErrorKind
		retryable bool
	}{
		{http.StatusNotFound, KindNotFound, false},
		{http.StatusGone, KindNotFound, false},
		{http.StatusTooManyRequests, KindRateLimited, true},
		{http.StatusForbidden, KindRateLimited, true},
		{http.StatusInternalServerError, KindUpstreamHTTP, true},
		{http.StatusBadGateway, KindUpstreamHTTP, true},
	}

	for _, tc := range cases {
		var calls atomic.Int64
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			w.WriteHeader(tc.status)
		}))

		c := newTestClient(time.Second, 3)
		_, err := c.FetchPage(context.Background(), "test", srv.URL)
		srv.Close()

		if err == nil {
			t.Errorf("status %d: expected error", tc.status)
			continue
		}
		se, ok := AsError(err)
		if !ok {
			t.Errorf("status %d: error %v is not the typed fetch error", tc.status, err)
			continue
		}
		if se.Kind != tc.wantKind {
			t.Errorf("status %d: kind = %s, want %s", tc.status, se.Kind, tc.wantKind)
		}
		if se.Status != tc.status {
			t.Errorf("status %d: recorded status = %d", tc.status, se.Status)
		}
		wantCalls := int64(1)
		if tc.retryable {
			wantCalls = 3
		}
		if got := calls.Load(); got != wantCalls {
			t.Errorf("status %d: %d requests, want %d", tc.status, got, wantCalls)
		}
	}
}

func TestFetchPageRecoversMidRetry(t *testing.T) {
	var calls atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Write([]byte("ok"))
	}))
	defer srv.Close()

	c := newTestClient(time.Second, 3)
	body, err := c.FetchPage(context.Background(), "test", srv.URL)
	if err != nil {
		t.Fatalf("expected recovery on the third attempt: %v", err)
	}
	if string(body) != "ok" {
		t.Errorf("body = %q", body)
	}
}

func TestFetchPageTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	c := newTestClient(30*time.Millisecond, 1)
	_, err := c.FetchPage(context.Background(), "test", srv.URL)
	if KindOf(err) != KindTimeout {
		t.Errorf("kind = %s, want %s (%v)", KindOf(err), KindTimeout, err)
	}
}

func TestFetchPageConnectionRefused(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // nothing listening anymore

	c := newTestClient(time.Second, 1)
	_, err := c.FetchPage(context.Background(), "test", srv.URL)
	if KindOf(err) != KindConnection {
		t.Errorf("kind = %s, want %s (%v)", KindOf(err), KindConnection, err)
	}
}

func TestFetchPageBreakerTripsPerPlatform(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewClient(&ClientConfig{
		RequestTimeout:    time.Second,
		RequestsPerSecond: 1000,
		Burst:             1000,
		Retry: faulttolerance.RetryConfig{
			MaxAttempts: 2,
			BaseDelay:   time.Millisecond,
			MaxDelay:    2 * time.Millisecond,
			Multiplier:  2.0,
			Name:        "test-fetch",
		},
		Breaker: faulttolerance.CircuitBreakerConfig{
			MaxFailures: 2,
			Timeout:     time.Minute,
		},
	}, testClientLogger())

	// First call burns through the failure budget and opens the breaker.
	if _, err := c.FetchPage(context.Background(), "flaky", srv.URL); err == nil {
		t.Fatal("expected failure")
	}
	_, err := c.FetchPage(context.Background(), "flaky", srv.URL)
	if KindOf(err) != KindConnection {
		t.Errorf("open breaker should surface as %s, got %s (%v)", KindConnection, KindOf(err), err)
	}

	// A different platform has its own breaker and still reaches the wire.
	_, err = c.FetchPage(context.Background(), "healthy", srv.URL)
	if KindOf(err) != KindUpstreamHTTP {
		t.Errorf("second platform should still fetch, got %s (%v)", KindOf(err), err)
	}
}

func TestFetchDocument(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><body><h1 class="title">2016 Honda Civic</h1></body></html>`))
	}))
	defer srv.Close()

	c := newTestClient(time.Second, 1)
	doc, err := c.FetchDocument(context.Background(), "test", srv.URL)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := doc.Find("h1.title").Text(); got != "2016 Honda Civic" {
		t.Errorf("parsed title = %q", got)
	}
}
