// Package apikey issues and checks the short-lived keys that guard outbound
// call initiation.
package apikey

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/troikatech/kisan-voicebot/pkg/session"
)

const (
	// DefaultTTL is how long an issued key stays valid.
	DefaultTTL = 24 * time.Hour

	keyBytes  = 32
	keyPrefix = "api_key_"
)

var (
	ErrMissingKey = errors.New("API key is required")
	ErrInvalidKey = errors.New("invalid or expired API key")
)

// Record is what is stored against an issued key.
type Record struct {
	CreatedAt time.Time `json:"created_at"`
	IsActive  bool      `json:"is_active"`
}

// Issuer mints keys into a session store, where they expire with the TTL.
type Issuer struct {
	store session.Store
	ttl   time.Duration
	now   func() time.Time
}

func NewIssuer(store session.Store, ttl time.Duration) *Issuer {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Issuer{store: store, ttl: ttl, now: time.Now}
}

// Issue creates a new URL-safe key from 32 random bytes.
func (i *Issuer) Issue(ctx context.Context) (string, Record, error) {
	buf := make([]byte, keyBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", Record{}, fmt.Errorf("generate api key: %w", err)
	}
	key := base64.RawURLEncoding.EncodeToString(buf)

	rec := Record{CreatedAt: i.now().UTC(), IsActive: true}
	b, err := json.Marshal(rec)
	if err != nil {
		return "", Record{}, fmt.Errorf("encode api key record: %w", err)
	}
	if err := i.store.Set(ctx, keyPrefix+key, b, i.ttl); err != nil {
		return "", Record{}, fmt.Errorf("store api key: %w", err)
	}
	return key, rec, nil
}

// Validate reports whether key was issued, is active and has not expired.
func (i *Issuer) Validate(ctx context.Context, key string) (Record, error) {
	if key == "" {
		return Record{}, ErrMissingKey
	}
	b, ok, err := i.store.Get(ctx, keyPrefix+key)
	if err != nil {
		return Record{}, fmt.Errorf("lookup api key: %w", err)
	}
	if !ok {
		return Record{}, ErrInvalidKey
	}

	var rec Record
	if err := json.Unmarshal(b, &rec); err != nil {
		return Record{}, fmt.Errorf("decode api key record: %w", err)
	}
	if !rec.IsActive {
		return Record{}, ErrInvalidKey
	}
	return rec, nil
}

// ValidFor renders the TTL the way it is reported to clients, e.g. "24 hours".
func (i *Issuer) ValidFor() string {
	if h := i.ttl.Hours(); h == float64(int(h)) {
		if h == 1 {
			return "1 hour"
		}
		return fmt.Sprintf("%d hours", int(h))
	}
	return i.ttl.String()
}
