package validation

import (
	"errors"
	"testing"
)

func TestNormalizeE164(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    string
		wantErr bool
	}{
		{name: "already e164", in: "+919876543210", want: "+919876543210"},
		{name: "ten digits", in: "98765 43210", want: "+919876543210"},
		{name: "country code no plus", in: "919876543210", want: "+919876543210"},
		{name: "trunk prefix", in: "09876543210", want: "+919876543210"},
		{name: "formatted", in: "(987) 654-3210", want: "+919876543210"},
		{name: "too short", in: "12345", wantErr: true},
		{name: "letters", in: "+91abc", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeE164(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("NormalizeE164(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("NormalizeE164(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestNormalizeE164_Empty(t *testing.T) {
	_, err := NormalizeE164("   ")
	if !errors.Is(err, ErrPhoneRequired) {
		t.Errorf("NormalizeE164(blank) error = %v, want ErrPhoneRequired", err)
	}
}
