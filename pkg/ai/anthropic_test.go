package ai

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"
)

func TestAnthropicProvider_Generate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/messages" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if got := r.Header.Get("X-Api-Key"); got != "test-key" {
			t.Errorf("X-Api-Key = %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": "msg_1",
			"type": "message",
			"role": "assistant",
			"model": "claude-3-5-haiku-20241022",
			"content": [{"type": "text", "text": "पानी दो बार दें।"}],
			"stop_reason": "end_turn",
			"usage": {"input_tokens": 10, "output_tokens": 5}
		}`))
	}))
	defer srv.Close()

	p := NewAnthropicProvider("test-key", "claude-3-5-haiku-20241022", srv.URL, zap.NewNop())
	req := DefaultSampling()
	req.Prompt = "सिंचाई?"

	got, err := p.Generate(context.Background(), &req)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if got != "पानी दो बार दें।" {
		t.Errorf("Generate() = %q", got)
	}
}

func TestProviders_UnavailableWithoutKey(t *testing.T) {
	logger := zap.NewNop()
	providers := []Provider{
		NewGeminiProvider("", "", logger),
		NewOpenAIProvider("", "", "", logger),
		NewAnthropicProvider("", "claude-3-5-haiku-20241022", "", logger),
	}
	for _, p := range providers {
		if p.IsAvailable() {
			t.Errorf("%s available without API key", p.Name())
		}
		req := DefaultSampling()
		if _, err := p.Generate(context.Background(), &req); err == nil {
			t.Errorf("%s.Generate() expected error when unavailable", p.Name())
		}
	}
}
