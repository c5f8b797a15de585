package twilio

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestClient_CreateCall(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/2010-04-01/Accounts/AC1/Calls.json" {
			t.Errorf("path = %s", r.URL.Path)
		}
		user, pass, ok := r.BasicAuth()
		if !ok || user != "AC1" || pass != "tok" {
			t.Errorf("basic auth = %s:%s", user, pass)
		}
		if err := r.ParseForm(); err != nil {
			t.Fatalf("ParseForm: %v", err)
		}
		checks := map[string]string{
			"To":               "+919876543210",
			"From":             "+15005550006",
			"Url":              "https://bot.example.com/voice",
			"Timeout":          "30",
			"StatusCallback":   "https://bot.example.com/voice/status",
			"MachineDetection": "Enable",
		}
		for k, want := range checks {
			if got := r.PostForm.Get(k); got != want {
				t.Errorf("%s = %q, want %q", k, got, want)
			}
		}
		if ev := r.PostForm["StatusCallbackEvent"]; len(ev) != 2 || ev[0] != "completed" || ev[1] != "failed" {
			t.Errorf("StatusCallbackEvent = %v", ev)
		}

		w.WriteHeader(http.StatusCreated)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"sid":"CA999","status":"queued","to":"+919876543210","from":"+15005550006"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "AC1", "tok", time.Second)
	resp, err := c.CreateCall(context.Background(), CallRequest{
		To:                   "+919876543210",
		From:                 "+15005550006",
		URL:                  "https://bot.example.com/voice",
		Timeout:              30,
		StatusCallback:       "https://bot.example.com/voice/status",
		StatusCallbackEvents: []string{"completed", "failed"},
		MachineDetection:     "Enable",
	})
	if err != nil {
		t.Fatalf("CreateCall() error = %v", err)
	}
	if resp.Sid != "CA999" || resp.Status != "queued" || resp.To != "+919876543210" {
		t.Errorf("resp = %+v", resp)
	}
}

func TestClient_CreateCall_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"code":21211,"message":"Invalid 'To' Phone Number","more_info":"https://www.twilio.com/docs/errors/21211","status":400}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "AC1", "tok", time.Second)
	_, err := c.CreateCall(context.Background(), CallRequest{To: "+1", From: "+2", URL: "u"})

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("CreateCall() error = %v, want *APIError", err)
	}
	if apiErr.Code != 21211 || apiErr.StatusCode != http.StatusBadRequest || apiErr.Message != "Invalid 'To' Phone Number" {
		t.Errorf("apiErr = %+v", apiErr)
	}
}

func TestClient_NotConfigured(t *testing.T) {
	c := NewClient("", "", "", 0)
	if c.IsConfigured() {
		t.Fatal("IsConfigured() = true with empty credentials")
	}
	if _, err := c.CreateCall(context.Background(), CallRequest{}); err == nil {
		t.Error("CreateCall() expected error")
	}
}

func TestIsTerminal(t *testing.T) {
	for _, s := range []string{"completed", "busy", "failed", "no-answer", "canceled"} {
		if !IsTerminal(s) {
			t.Errorf("IsTerminal(%q) = false", s)
		}
	}
	for _, s := range []string{"queued", "ringing", "in-progress", ""} {
		if IsTerminal(s) {
			t.Errorf("IsTerminal(%q) = true", s)
		}
	}
}
