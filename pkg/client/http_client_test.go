package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/troikatech/kisan-voicebot/pkg/retry"
)

func newTestClient() *HTTPClient {
	c := NewHTTPClient("test", 2*time.Second)
	c.retryConfig = retry.Config{MaxAttempts: 3, InitialDelay: time.Millisecond, MaxDelay: time.Millisecond, Multiplier: 1}
	return c
}

func TestPostJSON_SendsHeadersAndDecodes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-API-Key") != "k1" {
			t.Errorf("X-API-Key = %q", r.Header.Get("X-API-Key"))
		}
		var in map[string]string
		_ = json.NewDecoder(r.Body).Decode(&in)
		_ = json.NewEncoder(w).Encode(map[string]string{"echo": in["phone_number"]})
	}))
	defer srv.Close()

	c := newTestClient()
	c.SetHeader("X-API-Key", "k1")

	var out map[string]string
	if err := c.PostJSON(context.Background(), srv.URL, map[string]string{"phone_number": "+911"}, &out); err != nil {
		t.Fatalf("PostJSON() error = %v", err)
	}
	if out["echo"] != "+911" {
		t.Errorf("out = %v", out)
	}
}

func TestPostJSON_RetriesServerErrors(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	if err := newTestClient().PostJSON(context.Background(), srv.URL, struct{}{}, nil); err != nil {
		t.Fatalf("PostJSON() error = %v", err)
	}
	if calls != 3 {
		t.Errorf("calls = %d, want 3", calls)
	}
}

func TestPostJSON_ClientErrorNotRetried(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"status":"error","message":"Phone number is required"}`))
	}))
	defer srv.Close()

	err := newTestClient().PostJSON(context.Background(), srv.URL, struct{}{}, nil)
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.StatusCode != http.StatusBadRequest {
		t.Fatalf("PostJSON() error = %v, want *APIError 400", err)
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}
