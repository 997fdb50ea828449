package httpfetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/AleutianAI/sports-tool-server/internal/toolerr"
)

// fakeSleeper records delays without actually waiting, so retry tests run instantly.
type fakeSleeper struct {
	delays []time.Duration
}

func (f *fakeSleeper) Sleep(ctx context.Context, d time.Duration) error {
	f.delays = append(f.delays, d)
	return nil
}

func TestFetchJSON_SuccessFirstAttempt(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	f := NewFetcher("test-agent/1.0")
	sleeper := &fakeSleeper{}
	f.Sleeper = sleeper

	var out struct {
		OK bool `json:"ok"`
	}
	err := f.FetchJSON(context.Background(), Request{URL: srv.URL, Timeout: time.Second}, &out)
	if err != nil {
		t.Fatalf("FetchJSON: %v", err)
	}
	if !out.OK {
		t.Fatal("expected ok=true")
	}
	if len(sleeper.delays) != 0 {
		t.Fatalf("expected no retries, got %d", len(sleeper.delays))
	}
}

func TestFetchJSON_RetriesOn500ThenSucceeds(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := atomic.AddInt32(&calls, 1)
		if n < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	f := NewFetcher("test-agent/1.0")
	sleeper := &fakeSleeper{}
	f.Sleeper = sleeper

	var out struct {
		OK bool `json:"ok"`
	}
	err := f.FetchJSON(context.Background(), Request{URL: srv.URL, Timeout: time.Second}, &out)
	if err != nil {
		t.Fatalf("FetchJSON: %v", err)
	}
	if atomic.LoadInt32(&calls) != 3 {
		t.Fatalf("expected 3 calls, got %d", calls)
	}
	if len(sleeper.delays) != 2 {
		t.Fatalf("expected 2 retry delays, got %d", len(sleeper.delays))
	}
	if sleeper.delays[0] != 800*time.Millisecond || sleeper.delays[1] != 1600*time.Millisecond {
		t.Fatalf("unexpected backoff sequence: %v", sleeper.delays)
	}
}

func TestFetchJSON_ExhaustsRetriesOn500(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	f := NewFetcher("test-agent/1.0")
	f.Sleeper = &fakeSleeper{}

	var out map[string]any
	err := f.FetchJSON(context.Background(), Request{URL: srv.URL, Timeout: time.Second}, &out)
	if err == nil {
		t.Fatal("expected error after exhausting retries")
	}
	if atomic.LoadInt32(&calls) != maxAttempts {
		t.Fatalf("expected %d attempts, got %d", maxAttempts, calls)
	}
	transient, ok := err.(*toolerr.UpstreamTransient)
	if !ok {
		t.Fatalf("expected *toolerr.UpstreamTransient, got %T", err)
	}
	if !strings.Contains(transient.Reason, "status 500") {
		t.Fatalf("expected reason to name status 500, got %q", transient.Reason)
	}
}

func TestFetchJSON_404IsTerminalNoRetry(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte("not found"))
	}))
	defer srv.Close()

	f := NewFetcher("test-agent/1.0")
	f.Sleeper = &fakeSleeper{}

	var out map[string]any
	err := f.FetchJSON(context.Background(), Request{URL: srv.URL, Timeout: time.Second}, &out)
	if err == nil {
		t.Fatal("expected error")
	}
	if atomic.LoadInt32(&calls) != 1 {
		t.Fatalf("expected exactly 1 call for a terminal 4xx, got %d", calls)
	}
	if _, ok := err.(*toolerr.UpstreamHTTPError); !ok {
		t.Fatalf("expected *toolerr.UpstreamHTTPError, got %T", err)
	}
}

func TestFetchJSON_RetriesOn429(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := atomic.AddInt32(&calls, 1)
		if n < 2 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	f := NewFetcher("test-agent/1.0")
	f.Sleeper = &fakeSleeper{}

	var out struct {
		OK bool `json:"ok"`
	}
	err := f.FetchJSON(context.Background(), Request{URL: srv.URL, Timeout: time.Second}, &out)
	if err != nil {
		t.Fatalf("FetchJSON: %v", err)
	}
	if atomic.LoadInt32(&calls) != 2 {
		t.Fatalf("expected 2 calls, got %d", calls)
	}
}

func TestFetchJSON_NonJSONBodyIsDecodeError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json"))
	}))
	defer srv.Close()

	f := NewFetcher("test-agent/1.0")
	f.Sleeper = &fakeSleeper{}

	var out map[string]any
	err := f.FetchJSON(context.Background(), Request{URL: srv.URL, Timeout: time.Second}, &out)
	if _, ok := err.(*toolerr.UpstreamDecodeError); !ok {
		t.Fatalf("expected *toolerr.UpstreamDecodeError, got %T (%v)", err, err)
	}
}
