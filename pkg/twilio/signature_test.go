package twilio

import (
	"crypto/hmac"
	"crypto/sha1"
	"encoding/base64"
	"net/url"
	"testing"

	"github.com/troikatech/kisan-voicebot/pkg/twilio/twiliotest"
)

func TestSign_Format(t *testing.T) {
	fullURL := "https://bot.example.com/voice"
	params := url.Values{
		"From":         {"+919876543210"},
		"CallSid":      {"CA123"},
		"SpeechResult": {"नमस्ते"},
	}

	mac := hmac.New(sha1.New, []byte("secret"))
	mac.Write([]byte(fullURL + "CallSidCA123From+919876543210SpeechResultनमस्ते"))
	want := base64.StdEncoding.EncodeToString(mac.Sum(nil))

	if got := twiliotest.Sign("secret", fullURL, params); got != want {
		t.Errorf("Sign() = %q, want %q", got, want)
	}
}

func TestValidateSignature(t *testing.T) {
	fullURL := "https://bot.example.com/voice/set-language"
	params := url.Values{"CallSid": {"CA123"}, "Digits": {"2"}}
	sig := twiliotest.Sign("secret", fullURL, params)

	tests := []struct {
		name   string
		token  string
		url    string
		params url.Values
		sig    string
		want   bool
	}{
		{name: "valid", token: "secret", url: fullURL, params: params, sig: sig, want: true},
		{name: "wrong token", token: "other", url: fullURL, params: params, sig: sig},
		{name: "tampered digit", token: "secret", url: fullURL, params: url.Values{"CallSid": {"CA123"}, "Digits": {"1"}}, sig: sig},
		{name: "different url", token: "secret", url: "https://evil.example.com/voice/set-language", params: params, sig: sig},
		{name: "empty signature", token: "secret", url: fullURL, params: params, sig: ""},
		{name: "empty token", token: "", url: fullURL, params: params, sig: sig},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ValidateSignature(tt.token, tt.url, tt.params, tt.sig); got != tt.want {
				t.Errorf("ValidateSignature() = %v, want %v", got, tt.want)
			}
		})
	}
}
